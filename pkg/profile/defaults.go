package profile

import "github.com/dshills/carering/pkg/geometry"

// sectionGap is the vertical space between the stacked core sections
const sectionGap = 10

// coreSections lists the core profile sections and their default heights,
// top to bottom
var coreSections = []struct {
	Type   WidgetType
	Height int
}{
	{TypeProfileCard, 250},
	{TypeAbout, 150},
	{TypeHealthSummary, 200},
	{TypePosts, 300},
}

// CoreSectionID is the fixed ID used by the single instance of a core
// section widget
func CoreSectionID(t WidgetType) WidgetID {
	return WidgetID(t)
}

// DefaultLayout returns the layout a new profile starts with: the four core
// sections stacked in one column, each canvasWidth-20 wide.
func DefaultLayout(canvasWidth int) []Widget {
	width := canvasWidth - 20
	if width <= 0 {
		width = canvasWidth
	}

	widgets := make([]Widget, 0, len(coreSections))
	y := 0
	for _, s := range coreSections {
		w := NewWidget(s.Type, geometry.NewPosition(0, y), nil).WithSize(geometry.NewSize(width, s.Height))
		w.ID = CoreSectionID(s.Type)
		widgets = append(widgets, w)
		y += s.Height + sectionGap
	}
	return widgets
}
