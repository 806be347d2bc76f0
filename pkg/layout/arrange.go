package layout

import (
	"github.com/dshills/carering/pkg/geometry"
	"github.com/dshills/carering/pkg/profile"
)

// AutoArrange re-packs widgets in their current order: each one takes
// the first free slot left by the widgets placed before it. The input
// slice is not modified.
func AutoArrange(widgets []profile.Widget, bounds geometry.Bounds, gridSize int) []profile.Widget {
	arranged := make([]profile.Widget, 0, len(widgets))

	for _, w := range profile.CloneWidgets(widgets) {
		pos := FindNonOverlappingPosition(arranged, w.EffectiveSize(), bounds.MaxWidth, bounds.MaxHeight, gridSize)
		w.Position = geometry.SnapPosition(pos, gridSize)
		arranged = append(arranged, w)
	}

	return arranged
}

// Overlap is a pair of widgets whose rectangles collide
type Overlap struct {
	A profile.WidgetID
	B profile.WidgetID
}

// FindOverlaps lists every colliding pair, in widget order
func FindOverlaps(widgets []profile.Widget) []Overlap {
	var out []Overlap
	for i := 0; i < len(widgets); i++ {
		for j := i + 1; j < len(widgets); j++ {
			if geometry.IsColliding(widgets[i].Rect(), widgets[j].Rect()) {
				out = append(out, Overlap{A: widgets[i].ID, B: widgets[j].ID})
			}
		}
	}
	return out
}
