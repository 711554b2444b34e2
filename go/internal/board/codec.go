package board

// Color is a named tile color. The empty Color means "no explicit color",
// leaving the choice to the tile board.
type Color string

const (
	NoColor      Color = ""
	DefaultColor Color = "black"
)

// Layer selects which board a code is decoded for
type Layer int

const (
	LayerMain Layer = iota
	LayerNext
)

const (
	codeEmpty     = 0
	codeMarker    = 8
	highlightBase = 20
)

// palette maps the seven material codes to their colors
var palette = map[int]Color{
	1: "crimson",
	2: "darkturquoise",
	3: "seagreen",
	4: "dodgerblue",
	5: "gold",
	6: "hotpink",
	7: "indigo",
}

// FallbackColor is used for any code the client does not know
var FallbackColor = palette[4]

// Instruction says how one cell is drawn
type Instruction struct {
	Visible bool
	Color   Color
}

// PaletteColor returns the material color for codes 1..7
func PaletteColor(code int) (Color, bool) {
	c, ok := palette[code]
	return c, ok
}

// Decode maps a server cell code to a render instruction. It never fails:
// unknown codes resolve to the fallback color.
func Decode(layer Layer, code int) Instruction {
	if code == codeEmpty {
		return Instruction{}
	}
	if c, ok := palette[code]; ok {
		return Instruction{Visible: true, Color: c}
	}
	if code == codeMarker && layer == LayerNext {
		return Instruction{Visible: true, Color: NoColor}
	}
	// highlighted variants reuse the base material's color
	if c, ok := palette[code-highlightBase]; ok {
		return Instruction{Visible: true, Color: c}
	}
	return Instruction{Visible: true, Color: FallbackColor}
}
