package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/planets/core"
	"github.com/lixenwraith/planets/parameter"
)

// Glyphs by visual radius
const (
	glyphSmall   = '•'
	glyphLarge   = '●'
	glyphAnchor  = '◉'
	glyphPointer = '+'
)

// deadDim scales colors of dead bodies still drawn without the kill policy
const deadDim = 0.35

var (
	RgbBackground = tcell.ColorBlack
	RgbStatusBar  = tcell.NewRGBColor(40, 40, 60)
	RgbStatusText = tcell.NewRGBColor(220, 220, 220)
	RgbPointer    = tcell.NewRGBColor(255, 255, 255)
)

// Status is the state shown on the bottom row
type Status struct {
	Frame  uint64
	Alive  int
	Total  int
	Wrap   bool
	Kill   bool
	Paused bool
	Muted  bool
}

// Pointer is the last known pointer cell
type Pointer struct {
	Col, Row int
	Visible  bool
}

// TerminalRenderer draws the field onto a tcell screen
type TerminalRenderer struct {
	screen   tcell.Screen
	viewport Viewport
}

// NewTerminalRenderer creates a renderer for screen with the given viewport
func NewTerminalRenderer(screen tcell.Screen, viewport Viewport) *TerminalRenderer {
	return &TerminalRenderer{screen: screen, viewport: viewport}
}

// Viewport returns the current mapping
func (r *TerminalRenderer) Viewport() Viewport {
	return r.viewport
}

// Resize updates the terminal dimensions
func (r *TerminalRenderer) Resize(cols, rows int) {
	r.viewport.Cols = cols
	r.viewport.Rows = rows
}

// RenderFrame draws bodies, pointer and status bar, then shows the screen
func (r *TerminalRenderer) RenderFrame(bodies []core.Renderable, pointer Pointer, status Status) {
	r.screen.Clear()
	defaultStyle := tcell.StyleDefault.Background(RgbBackground)

	r.drawBodies(bodies, defaultStyle)
	if pointer.Visible {
		r.screen.SetContent(pointer.Col, pointer.Row, glyphPointer, nil, defaultStyle.Foreground(RgbPointer))
	}
	r.drawStatusBar(status)

	r.screen.Show()
}

func (r *TerminalRenderer) drawBodies(bodies []core.Renderable, style tcell.Style) {
	for i := range bodies {
		b := &bodies[i]
		col, row, visible := r.viewport.ToCell(b.X, b.Y)
		if !visible {
			continue
		}
		color := b.Color
		if !b.Alive {
			color = color.Scale(deadDim)
		}
		r.screen.SetContent(col, row, Glyph(b.Radius), nil, style.Foreground(ToTcell(color)))
	}
}

func (r *TerminalRenderer) drawStatusBar(s Status) {
	row := r.viewport.Rows - 1
	if row < 0 {
		return
	}
	style := tcell.StyleDefault.Background(RgbStatusBar).Foreground(RgbStatusText)
	for x := 0; x < r.viewport.Cols; x++ {
		r.screen.SetContent(x, row, ' ', nil, style)
	}

	text := StatusText(s)
	for i, ch := range []rune(text) {
		if i >= r.viewport.Cols {
			break
		}
		r.screen.SetContent(i, row, ch, nil, style)
	}
}

// StatusText formats the status bar line
func StatusText(s Status) string {
	state := "RUN"
	if s.Paused {
		state = "PAUSED"
	}
	sound := "on"
	if s.Muted {
		sound = "off"
	}
	return fmt.Sprintf(" %s  frame %d  bodies %d/%d  wrap:%s kill:%s  sound:%s  [esc] pause [space] step [w/k] policy [m] mute [q] quit",
		state, s.Frame, s.Alive, s.Total, onOff(s.Wrap), onOff(s.Kill), sound)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Glyph picks a rune for a visual radius
func Glyph(radius float64) rune {
	switch {
	case radius > parameter.RadiusBase+parameter.RadiusMassScale:
		return glyphAnchor
	case radius >= parameter.RadiusBase+parameter.RadiusMassScale/2:
		return glyphLarge
	default:
		return glyphSmall
	}
}

// ToTcell converts an RGB to a true color tcell color
func ToTcell(c core.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
