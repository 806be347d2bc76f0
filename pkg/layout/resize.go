package layout

import (
	"math"

	"github.com/dshills/carering/pkg/geometry"
)

// DefaultMinSize is the smallest size a widget can be resized to
var DefaultMinSize = geometry.Size{Width: 80, Height: 80}

// ResolveResize computes the size a widget at pos ends up with after a
// resize gesture. The minimum size is applied first, then the size is
// limited so the widget stays inside the bounds, then it is snapped to the
// grid. Snapping never pushes the widget past the bounds.
//
// The canvas width is fixed but layouts grow downward, so a widget with
// less than the minimum height left below it (one placed under a full
// canvas) is not limited by the bottom edge.
func ResolveResize(pos geometry.Position, proposed geometry.Size, bounds geometry.Bounds, gridSize int, min geometry.Size) geometry.Size {
	heightLimit := bounds.MaxHeight - pos.Y
	if heightLimit < min.Height {
		heightLimit = math.MaxInt32
	}
	return geometry.Size{
		Width:  resizeAxis(proposed.Width, min.Width, bounds.MaxWidth-pos.X, gridSize),
		Height: resizeAxis(proposed.Height, min.Height, heightLimit, gridSize),
	}
}

func resizeAxis(v, min, limit, grid int) int {
	if v < min {
		v = min
	}
	if v > limit {
		v = limit
	}
	snapped := geometry.SnapToGrid(v, grid)
	if grid > 0 && snapped > limit {
		snapped -= grid
	}
	if snapped <= 0 {
		// Degenerate limit; keep the smallest positive extent
		if grid > 0 {
			return grid
		}
		return 1
	}
	return snapped
}
