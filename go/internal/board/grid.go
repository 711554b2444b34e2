package board

import "sync"

// TileBoard is the capability every render target provides
type TileBoard interface {
	EnableTile(x, y int, color Color)
	DisableTile(x, y int)
}

// Tile is one visual cell
type Tile struct {
	Active bool
	Color  Color
}

// Grid is an in-memory TileBoard. Tiles are allocated once and only mutated
// afterwards; index is row*width+column.
type Grid struct {
	width  int
	height int

	mu    sync.RWMutex
	tiles []Tile
}

func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return 0, false
	}
	return y*g.width + x, true
}

// EnableTile marks the tile active with color; NoColor becomes DefaultColor
func (g *Grid) EnableTile(x, y int, color Color) {
	i, ok := g.index(x, y)
	if !ok {
		return
	}
	if color == NoColor {
		color = DefaultColor
	}
	g.mu.Lock()
	g.tiles[i] = Tile{Active: true, Color: color}
	g.mu.Unlock()
}

func (g *Grid) DisableTile(x, y int) {
	i, ok := g.index(x, y)
	if !ok {
		return
	}
	g.mu.Lock()
	g.tiles[i] = Tile{}
	g.mu.Unlock()
}

// Tile returns the tile at column x, row y. Out of range reads are inactive.
func (g *Grid) Tile(x, y int) Tile {
	i, ok := g.index(x, y)
	if !ok {
		return Tile{}
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.tiles[i]
}

// Tiles returns a copy of all tiles in row-major order
func (g *Grid) Tiles() []Tile {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}
