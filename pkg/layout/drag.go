package layout

import (
	"github.com/dshills/carering/pkg/geometry"
	"github.com/dshills/carering/pkg/profile"
)

// ResolveOverlapAfterDrag computes where a dragged widget lands.
//
// The proposed position is clamped to the bounds. If the clamped box
// overlaps any other widget, the proposal is discarded and the widget is
// relocated to the first free slot among the other widgets (clamped as
// well). The result is snapped to the grid.
func ResolveOverlapAfterDrag(movingID profile.WidgetID, proposedX, proposedY, width, height int, all []profile.Widget, bounds geometry.Bounds, gridSize int) geometry.Position {
	size := geometry.NewSize(width, height)
	final := geometry.ClampPosition(geometry.NewPosition(proposedX, proposedY), size, bounds)

	others := without(all, movingID)
	candidate := geometry.RectAt(final, size)

	for _, other := range others {
		if geometry.IsColliding(candidate, other.Rect()) {
			relocated := FindNonOverlappingPosition(others, size, bounds.MaxWidth, bounds.MaxHeight, gridSize)
			final = geometry.ClampPosition(relocated, size, bounds)
			break
		}
	}

	return geometry.SnapPosition(final, gridSize)
}
