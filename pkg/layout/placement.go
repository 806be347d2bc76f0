// Package layout places and moves widgets on a profile canvas without
// letting them overlap.
//
// The placement functions are pure: they read the widget list they are
// given and return new coordinates. Canvas is the stateful owner that
// applies their results to a customization.
package layout

import (
	"github.com/dshills/carering/pkg/geometry"
	"github.com/dshills/carering/pkg/profile"
)

// DefaultGridSize is the snapping step used by the customizer
const DefaultGridSize = 10

// Placement is the result of a placement search
type Placement struct {
	Position geometry.Position
	// Fallback is true when no free slot fit inside the bounds and the
	// widget was put below the lowest existing widget instead.
	Fallback bool
}

// FindNonOverlappingPosition returns the first top-left position, scanning
// rows top to bottom and each row left to right in grid steps, where a
// box of the given size collides with none of the existing widgets.
// When the canvas is exhausted it returns {0, maxY + gridSize}, where maxY
// is the lowest bottom edge among the existing widgets.
func FindNonOverlappingPosition(existing []profile.Widget, size geometry.Size, maxWidth, maxHeight, gridSize int) geometry.Position {
	return FindPlacement(existing, size, maxWidth, maxHeight, gridSize).Position
}

// FindPlacement is FindNonOverlappingPosition that also reports whether
// the fallback path was taken.
func FindPlacement(existing []profile.Widget, size geometry.Size, maxWidth, maxHeight, gridSize int) Placement {
	step := gridSize
	if step <= 0 {
		step = 1
	}

	rects := make([]geometry.Rect, len(existing))
	for i, w := range existing {
		rects[i] = w.Rect()
	}

	for y := 0; y+size.Height <= maxHeight; y += step {
		for x := 0; x+size.Width <= maxWidth; x += step {
			candidate := geometry.NewRect(x, y, size.Width, size.Height)
			if !collidesAny(candidate, rects) {
				return Placement{Position: geometry.NewPosition(x, y)}
			}
		}
	}

	maxY := 0
	for _, r := range rects {
		if r.Bottom() > maxY {
			maxY = r.Bottom()
		}
	}

	return Placement{
		Position: geometry.NewPosition(0, maxY+gridSize),
		Fallback: true,
	}
}

func collidesAny(candidate geometry.Rect, rects []geometry.Rect) bool {
	for _, r := range rects {
		if geometry.IsColliding(candidate, r) {
			return true
		}
	}
	return false
}

// without returns the widgets other than the one with the given ID
func without(widgets []profile.Widget, id profile.WidgetID) []profile.Widget {
	out := make([]profile.Widget, 0, len(widgets))
	for _, w := range widgets {
		if w.ID != id {
			out = append(out, w)
		}
	}
	return out
}
