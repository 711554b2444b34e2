package board

import "github.com/mcdev12/brickgame/go/internal/models"

// Stats are the scalar fields shown next to the board
type Stats struct {
	Score     int
	HighScore int
	Level     int
	Speed     int
}

// StatsView displays the scalar fields of a snapshot
type StatsView interface {
	SetStats(stats Stats)
}

// Renderer applies board snapshots to a main board and a preview board
type Renderer struct {
	main  TileBoard
	next  TileBoard
	stats StatsView
}

// NewRenderer builds a renderer; stats may be nil
func NewRenderer(main, next TileBoard, stats StatsView) *Renderer {
	return &Renderer{
		main:  main,
		next:  next,
		stats: stats,
	}
}

// Render draws the snapshot. A nil preview leaves the preview board as it
// was, so it does not flicker between pieces.
func (r *Renderer) Render(snapshot models.BoardSnapshot) {
	if r.stats != nil {
		r.stats.SetStats(Stats{
			Score:     snapshot.Score,
			HighScore: snapshot.HighScore,
			Level:     snapshot.Level,
			Speed:     snapshot.Speed,
		})
	}

	paint(r.main, LayerMain, snapshot.Field)

	if snapshot.Next != nil {
		paint(r.next, LayerNext, snapshot.Next)
	}
}

func paint(target TileBoard, layer Layer, matrix [][]int) {
	for row := range matrix {
		for col, code := range matrix[row] {
			in := Decode(layer, code)
			if in.Visible {
				target.EnableTile(col, row, in.Color)
			} else {
				target.DisableTile(col, row)
			}
		}
	}
}
