// Package preview draws a scaled-down picture of a profile layout onto a
// goterm screen. Each widget becomes a box labelled with its type and
// cells where two widgets overlap are filled with '#'.
package preview

import (
	"errors"
	"strings"

	"github.com/dshills/carering/pkg/geometry"
	"github.com/dshills/carering/pkg/profile"
	"github.com/dshills/goterm"
)

// DefaultScale is the number of layout units per terminal column
const DefaultScale = 10

// OverlapRune marks cells covered by more than one widget
const OverlapRune = '#'

// ErrInvalidBounds is returned when the canvas has no width
var ErrInvalidBounds = errors.New("preview: canvas width must be positive")

// Style holds the colours used when drawing
type Style struct {
	BorderFg    goterm.Color
	ProtectedFg goterm.Color
	LabelFg     goterm.Color
	OverlapFg   goterm.Color
	Bg          goterm.Color
}

// DefaultStyle returns the standard preview colours
func DefaultStyle() Style {
	return Style{
		BorderFg:    goterm.ColorRGB(120, 170, 220),
		ProtectedFg: goterm.ColorRGB(230, 180, 90),
		LabelFg:     goterm.ColorRGB(220, 220, 220),
		OverlapFg:   goterm.ColorRGB(230, 80, 80),
		Bg:          goterm.ColorDefault(),
	}
}

// Renderer maps layout units to terminal cells. Terminal cells are about
// twice as tall as they are wide, so one row covers 2*Scale units.
type Renderer struct {
	Scale int
	Style Style
}

// NewRenderer creates a renderer; scale <= 0 selects DefaultScale
func NewRenderer(scale int) *Renderer {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Renderer{Scale: scale, Style: DefaultStyle()}
}

// Render draws the widgets onto an off-screen goterm screen sized to the
// canvas width and the lowest widget, and returns its rows as text.
func Render(widgets []profile.Widget, bounds geometry.Bounds, scale int) ([]string, error) {
	return NewRenderer(scale).Lines(widgets, bounds)
}

// ScreenSize returns the columns and rows needed to show the layout
func (r *Renderer) ScreenSize(widgets []profile.Widget, bounds geometry.Bounds) (int, int) {
	width := bounds.MaxWidth
	height := 0
	for _, w := range widgets {
		rect := w.Rect()
		if rect.Right() > width {
			width = rect.Right()
		}
		if rect.Bottom() > height {
			height = rect.Bottom()
		}
	}
	return ceilDiv(width, r.Scale), ceilDiv(height, r.rowUnits())
}

// Lines renders the layout and returns the screen rows with trailing
// spaces removed.
func (r *Renderer) Lines(widgets []profile.Widget, bounds geometry.Bounds) ([]string, error) {
	if bounds.MaxWidth <= 0 {
		return nil, ErrInvalidBounds
	}

	cols, rows := r.ScreenSize(widgets, bounds)
	if rows == 0 {
		return []string{}, nil
	}

	screen := goterm.NewScreen(cols, rows)
	r.Draw(screen, widgets)

	lines := make([]string, 0, rows)
	var sb strings.Builder
	for y := 0; y < rows; y++ {
		sb.Reset()
		for x := 0; x < cols; x++ {
			ch := screen.GetCell(x, y).Ch
			if ch == 0 {
				ch = ' '
			}
			sb.WriteRune(ch)
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	return lines, nil
}

// Draw paints the widgets onto screen. Later widgets are drawn over
// earlier ones, then overlap regions are marked.
func (r *Renderer) Draw(screen *goterm.Screen, widgets []profile.Widget) {
	for _, w := range widgets {
		r.drawBox(screen, w)
	}

	for i := 0; i < len(widgets); i++ {
		for j := i + 1; j < len(widgets); j++ {
			a, b := widgets[i].Rect(), widgets[j].Rect()
			if !geometry.IsColliding(a, b) {
				continue
			}
			r.fill(screen, intersection(a, b), OverlapRune, r.Style.OverlapFg)
		}
	}
}

func (r *Renderer) drawBox(screen *goterm.Screen, w profile.Widget) {
	x0, y0, x1, y1 := r.cellSpan(w.Rect())

	fg := r.Style.BorderFg
	if !w.Type.Deletable() {
		fg = r.Style.ProtectedFg
	}

	for x := x0; x <= x1; x++ {
		r.set(screen, x, y0, '-', fg)
		r.set(screen, x, y1, '-', fg)
	}
	for y := y0; y <= y1; y++ {
		r.set(screen, x0, y, '|', fg)
		r.set(screen, x1, y, '|', fg)
	}
	for y := y0 + 1; y < y1; y++ {
		for x := x0 + 1; x < x1; x++ {
			r.set(screen, x, y, ' ', fg)
		}
	}
	r.set(screen, x0, y0, '+', fg)
	r.set(screen, x1, y0, '+', fg)
	r.set(screen, x0, y1, '+', fg)
	r.set(screen, x1, y1, '+', fg)

	// Label on the first interior row when there is one
	inner := x1 - x0 - 1
	if y1-y0 < 2 || inner <= 0 {
		return
	}
	label := []rune(string(w.Type))
	if len(label) > inner {
		label = label[:inner]
	}
	for i, ch := range label {
		r.set(screen, x0+1+i, y0+1, ch, r.Style.LabelFg)
	}
}

func (r *Renderer) fill(screen *goterm.Screen, rect geometry.Rect, ch rune, fg goterm.Color) {
	x0, y0, x1, y1 := r.cellSpan(rect)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			r.set(screen, x, y, ch, fg)
		}
	}
}

func (r *Renderer) set(screen *goterm.Screen, x, y int, ch rune, fg goterm.Color) {
	width, height := screen.Size()
	if x < 0 || y < 0 || x >= width || y >= height {
		return
	}
	screen.SetCell(x, y, goterm.NewCell(ch, fg, r.Style.Bg, goterm.StyleNone))
}

// cellSpan returns the inclusive cell range covered by rect
func (r *Renderer) cellSpan(rect geometry.Rect) (x0, y0, x1, y1 int) {
	x0 = floorDiv(rect.X, r.Scale)
	y0 = floorDiv(rect.Y, r.rowUnits())
	x1 = floorDiv(rect.Right()-1, r.Scale)
	y1 = floorDiv(rect.Bottom()-1, r.rowUnits())
	return
}

func (r *Renderer) rowUnits() int {
	return r.Scale * 2
}

func intersection(a, b geometry.Rect) geometry.Rect {
	x := max(a.X, b.X)
	y := max(a.Y, b.Y)
	right := min(a.Right(), b.Right())
	bottom := min(a.Bottom(), b.Bottom())
	return geometry.NewRect(x, y, right-x, bottom-y)
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
