package terminal

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mcdev12/brickgame/go/internal/board"
	"github.com/mcdev12/brickgame/go/internal/models"
)

const cellWidth = 2

type mode int

const (
	modeLobby mode = iota
	modeGame
)

// View draws the lobby and the game view on a tcell screen. It implements
// the session display, the overlay view, the stats view and the notifier.
// Tile state lives in the board grids; everything else is guarded by mu.
type View struct {
	screen tcell.Screen
	main   *board.Grid
	next   *board.Grid

	mu          sync.Mutex
	mode        mode
	title       string
	stats       board.Stats
	overlayText string
	overlayOn   bool
	exitEnabled bool
	alert       string
	games       []models.GameInfo
	selected    int
	recent      []string
}

func NewView(screen tcell.Screen, main, next *board.Grid) *View {
	return &View{
		screen:      screen,
		main:        main,
		next:        next,
		exitEnabled: true,
	}
}

func (v *View) ShowOverlay(text string) {
	v.mu.Lock()
	v.overlayOn, v.overlayText = true, text
	v.mu.Unlock()
}

func (v *View) HideOverlay() {
	v.mu.Lock()
	v.overlayOn = false
	v.mu.Unlock()
}

func (v *View) SetExitEnabled(enabled bool) {
	v.mu.Lock()
	v.exitEnabled = enabled
	v.mu.Unlock()
}

func (v *View) SetStats(stats board.Stats) {
	v.mu.Lock()
	v.stats = stats
	v.mu.Unlock()
}

func (v *View) SetTitle(title string) {
	v.mu.Lock()
	v.mode = modeGame
	v.title = title
	v.mu.Unlock()
}

// Notify shows a modal message until the next key press
func (v *View) Notify(message string) {
	v.mu.Lock()
	v.alert = message
	v.mu.Unlock()
	v.Flush()
}

// DismissAlert clears a pending alert and reports whether there was one
func (v *View) DismissAlert() bool {
	v.mu.Lock()
	had := v.alert != ""
	v.alert = ""
	v.mu.Unlock()
	if had {
		v.Flush()
	}
	return had
}

func (v *View) Alert() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.alert
}

// ShowLobby switches to the game list and clears the previous game
func (v *View) ShowLobby(games []models.GameInfo, recent []string) {
	for y := 0; y < v.main.Height(); y++ {
		for x := 0; x < v.main.Width(); x++ {
			v.main.DisableTile(x, y)
		}
	}
	for y := 0; y < v.next.Height(); y++ {
		for x := 0; x < v.next.Width(); x++ {
			v.next.DisableTile(x, y)
		}
	}

	v.mu.Lock()
	v.mode = modeLobby
	v.games = games
	v.recent = recent
	if v.selected >= len(games) {
		v.selected = 0
	}
	v.title = ""
	v.stats = board.Stats{}
	v.overlayOn = false
	v.exitEnabled = true
	v.mu.Unlock()
	v.Flush()
}

// MoveSelection moves the lobby cursor by delta, wrapping around
func (v *View) MoveSelection(delta int) {
	v.mu.Lock()
	if n := len(v.games); n > 0 {
		v.selected = ((v.selected+delta)%n + n) % n
	}
	v.mu.Unlock()
	v.Flush()
}

func (v *View) Selected() (models.GameInfo, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected < 0 || v.selected >= len(v.games) {
		return models.GameInfo{}, false
	}
	return v.games[v.selected], true
}

// Flush redraws the whole screen from the current state
func (v *View) Flush() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.draw()
	v.screen.Show()
}

// Resize redraws after the terminal size changed
func (v *View) Resize() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.draw()
	v.screen.Sync()
}

// draw renders into the back buffer; callers hold mu
func (v *View) draw() {
	v.screen.Clear()
	if v.mode == modeGame {
		v.drawGame()
	} else {
		v.drawLobby()
	}
	v.drawAlert()
}

var (
	styleText   = tcell.StyleDefault
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBold   = tcell.StyleDefault.Bold(true)
	styleBanner = tcell.StyleDefault.Reverse(true).Bold(true)
)

func (v *View) drawGame() {
	mw, mh := v.main.Width(), v.main.Height()
	drawBox(v.screen, 0, 0, mw*cellWidth+2, mh+2)
	drawGrid(v.screen, 1, 1, v.main)

	sx := mw*cellWidth + 4
	drawText(v.screen, sx, 1, styleBold, v.title)
	drawText(v.screen, sx, 3, styleText, fmt.Sprintf("Score:      %d", v.stats.Score))
	drawText(v.screen, sx, 4, styleText, fmt.Sprintf("High score: %d", v.stats.HighScore))
	drawText(v.screen, sx, 5, styleText, fmt.Sprintf("Level:      %d", v.stats.Level))
	drawText(v.screen, sx, 6, styleText, fmt.Sprintf("Speed:      %d", v.stats.Speed))

	nw, nh := v.next.Width(), v.next.Height()
	drawText(v.screen, sx, 8, styleDim, "Next")
	drawBox(v.screen, sx, 9, nw*cellWidth+2, nh+2)
	drawGrid(v.screen, sx+1, 10, v.next)

	hy := 10 + nh + 2
	drawText(v.screen, sx, hy, styleDim, "Enter start   Space action")
	drawText(v.screen, sx, hy+1, styleDim, "Arrows move   p pause")
	exit := "Esc exit"
	if !v.exitEnabled {
		exit = "Esc exit (disabled)"
	}
	drawText(v.screen, sx, hy+2, styleDim, exit)

	if v.overlayOn {
		y := 1 + mh/2
		text := " " + v.overlayText + " "
		width := mw*cellWidth + 2
		if n := len([]rune(text)); n > width {
			width = n
		}
		drawText(v.screen, 0, y, styleBanner, pad(text, width))
	}
}

func (v *View) drawLobby() {
	drawText(v.screen, 1, 1, styleBold, "Brick Game")
	drawText(v.screen, 1, 3, styleText, "Choose a game:")
	if len(v.games) == 0 {
		drawText(v.screen, 3, 5, styleDim, "no games available")
	}
	for i, g := range v.games {
		style, marker := styleText, "  "
		if i == v.selected {
			style, marker = styleBanner, "> "
		}
		drawText(v.screen, 1, 5+i, style, marker+g.Name)
	}

	y := 6 + len(v.games)
	drawText(v.screen, 1, y, styleDim, "Up/Down select   Enter play   Ctrl+C quit")
	if len(v.recent) > 0 {
		drawText(v.screen, 1, y+2, styleBold, "Recent results")
		for i, line := range v.recent {
			drawText(v.screen, 1, y+3+i, styleDim, line)
		}
	}
}

func (v *View) drawAlert() {
	if v.alert == "" {
		return
	}
	_, h := v.screen.Size()
	lines := append(strings.Split(v.alert, "\n"), "(press any key)")
	y := h - len(lines) - 1
	if y < 0 {
		y = 0
	}
	for i, line := range lines {
		drawText(v.screen, 1, y+i, styleBanner, " "+line+" ")
	}
}

func drawGrid(s tcell.Screen, ox, oy int, g *board.Grid) {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			px := ox + x*cellWidth
			tile := g.Tile(x, y)
			if !tile.Active {
				s.SetContent(px, oy+y, '·', nil, styleDim)
				s.SetContent(px+1, oy+y, ' ', nil, styleText)
				continue
			}
			style := tcell.StyleDefault.Background(TileColor(tile.Color))
			s.SetContent(px, oy+y, ' ', nil, style)
			s.SetContent(px+1, oy+y, ' ', nil, style)
		}
	}
}

// TileColor resolves a named board color to a terminal color
func TileColor(c board.Color) tcell.Color {
	if c == board.NoColor {
		c = board.DefaultColor
	}
	if color := tcell.GetColor(string(c)); color != tcell.ColorDefault {
		return color
	}
	return tcell.GetColor(string(board.FallbackColor))
}

func drawBox(s tcell.Screen, x, y, w, h int) {
	for i := x + 1; i < x+w-1; i++ {
		s.SetContent(i, y, tcell.RuneHLine, nil, styleDim)
		s.SetContent(i, y+h-1, tcell.RuneHLine, nil, styleDim)
	}
	for j := y + 1; j < y+h-1; j++ {
		s.SetContent(x, j, tcell.RuneVLine, nil, styleDim)
		s.SetContent(x+w-1, j, tcell.RuneVLine, nil, styleDim)
	}
	s.SetContent(x, y, tcell.RuneULCorner, nil, styleDim)
	s.SetContent(x+w-1, y, tcell.RuneURCorner, nil, styleDim)
	s.SetContent(x, y+h-1, tcell.RuneLLCorner, nil, styleDim)
	s.SetContent(x+w-1, y+h-1, tcell.RuneLRCorner, nil, styleDim)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func pad(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-n-left)
}
