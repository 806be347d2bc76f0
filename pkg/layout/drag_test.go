package layout

import (
	"testing"

	"github.com/dshills/carering/pkg/geometry"
	"github.com/dshills/carering/pkg/profile"
	"github.com/stretchr/testify/assert"
)

func TestResolveOverlapAfterDrag(t *testing.T) {
	bounds300 := geometry.Bounds{MaxWidth: 300, MaxHeight: 300}

	tests := []struct {
		name     string
		movingID profile.WidgetID
		x, y     int
		w, h     int
		all      []profile.Widget
		bounds   geometry.Bounds
		want     geometry.Position
	}{
		{
			name:     "negative proposal clamps to origin",
			movingID: "m",
			x:        -50, y: -50, w: 100, h: 100,
			all:    []profile.Widget{widgetAt("m", 200, 200, 100, 100)},
			bounds: geometry.Bounds{MaxWidth: 400, MaxHeight: 400},
			want:   geometry.NewPosition(0, 0),
		},
		{
			name:     "proposal past the far edge clamps inside",
			movingID: "m",
			x:        380, y: 900, w: 100, h: 100,
			bounds: geometry.Bounds{MaxWidth: 400, MaxHeight: 400},
			want:   geometry.NewPosition(300, 300),
		},
		{
			name:     "free spot is kept and snapped",
			movingID: "m",
			x:        123, y: 187, w: 50, h: 50,
			all:    []profile.Widget{widgetAt("a", 0, 0, 100, 100)},
			bounds: bounds300,
			want:   geometry.NewPosition(120, 190),
		},
		{
			name:     "overlap relocates to first free slot",
			movingID: "m",
			x:        50, y: 50, w: 150, h: 100,
			all: []profile.Widget{
				widgetAt("a", 0, 0, 150, 100),
				widgetAt("m", 0, 200, 150, 100),
			},
			bounds: bounds300,
			want:   geometry.NewPosition(150, 0),
		},
		{
			name:     "moving widget does not collide with itself",
			movingID: "m",
			x:        10, y: 10, w: 150, h: 100,
			all:    []profile.Widget{widgetAt("m", 0, 0, 150, 100)},
			bounds: bounds300,
			want:   geometry.NewPosition(10, 10),
		},
		{
			name:     "touching a neighbour is not an overlap",
			movingID: "m",
			x:        150, y: 100, w: 150, h: 100,
			all:    []profile.Widget{widgetAt("a", 0, 0, 150, 100)},
			bounds: bounds300,
			want:   geometry.NewPosition(150, 100),
		},
		{
			name:     "full canvas fallback is clamped back inside",
			movingID: "m",
			x:        0, y: 0, w: 100, h: 100,
			all: []profile.Widget{
				widgetAt("a", 0, 0, 300, 300),
				widgetAt("m", 0, 400, 100, 100),
			},
			bounds: bounds300,
			want:   geometry.NewPosition(0, 200),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveOverlapAfterDrag(tt.movingID, tt.x, tt.y, tt.w, tt.h, tt.all, tt.bounds, 10)
			assert.Equal(t, tt.want, got)
			assert.Zero(t, got.X%10)
			assert.Zero(t, got.Y%10)
		})
	}
}

func TestResolveOverlapAfterDrag_IsPure(t *testing.T) {
	all := []profile.Widget{
		widgetAt("a", 0, 0, 150, 100),
		widgetAt("m", 0, 200, 150, 100),
	}
	before := profile.CloneWidgets(all)

	_ = ResolveOverlapAfterDrag("m", 50, 50, 150, 100, all, geometry.Bounds{MaxWidth: 300, MaxHeight: 300}, 10)

	assert.Equal(t, before, all)
}

func TestResolveResize(t *testing.T) {
	bounds := geometry.Bounds{MaxWidth: 300, MaxHeight: 600}

	tests := []struct {
		name     string
		pos      geometry.Position
		proposed geometry.Size
		want     geometry.Size
	}{
		{name: "below minimum", pos: geometry.NewPosition(0, 0), proposed: geometry.NewSize(50, 20), want: geometry.NewSize(80, 80)},
		{name: "snapped", pos: geometry.NewPosition(0, 0), proposed: geometry.NewSize(155, 124), want: geometry.NewSize(160, 120)},
		{name: "limited by right edge", pos: geometry.NewPosition(100, 0), proposed: geometry.NewSize(400, 100), want: geometry.NewSize(200, 100)},
		{name: "snap never crosses the edge", pos: geometry.NewPosition(5, 0), proposed: geometry.NewSize(400, 100), want: geometry.NewSize(290, 100)},
		{name: "edge wins over minimum", pos: geometry.NewPosition(250, 0), proposed: geometry.NewSize(200, 100), want: geometry.NewSize(50, 100)},
		{name: "limited by bottom edge", pos: geometry.NewPosition(0, 500), proposed: geometry.NewSize(100, 300), want: geometry.NewSize(100, 100)},
		{name: "below the bottom edge grows freely", pos: geometry.NewPosition(0, 610), proposed: geometry.NewSize(100, 200), want: geometry.NewSize(100, 200)},
		{name: "near the bottom edge keeps the minimum", pos: geometry.NewPosition(0, 590), proposed: geometry.NewSize(100, 40), want: geometry.NewSize(100, 80)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveResize(tt.pos, tt.proposed, bounds, 10, DefaultMinSize)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAutoArrange(t *testing.T) {
	widgets := []profile.Widget{
		widgetAt("a", 120, 400, 150, 100),
		widgetAt("b", 0, 0, 150, 100),
		{ID: "c", Type: profile.TypeImage, Position: geometry.NewPosition(33, 77)},
		widgetAt("d", 10, 10, 300, 50),
	}
	before := profile.CloneWidgets(widgets)

	arranged := AutoArrange(widgets, geometry.Bounds{MaxWidth: 300, MaxHeight: 1000}, 10)

	assert.Equal(t, before, widgets, "input must not be modified")
	assert.Len(t, arranged, 4)

	want := map[profile.WidgetID]geometry.Position{
		"a": geometry.NewPosition(0, 0),
		"b": geometry.NewPosition(150, 0),
		"c": geometry.NewPosition(0, 100),
		"d": geometry.NewPosition(0, 200),
	}
	for _, w := range arranged {
		assert.Equal(t, want[w.ID], w.Position, "widget %s", w.ID)
	}
	assert.Empty(t, FindOverlaps(arranged))
	assert.Nil(t, arranged[2].Size, "default-sized widgets keep a nil size")
}

func TestFindOverlaps(t *testing.T) {
	widgets := []profile.Widget{
		widgetAt("a", 0, 0, 100, 100),
		widgetAt("b", 50, 50, 100, 100),
		widgetAt("c", 100, 0, 100, 60),
		widgetAt("d", 500, 500, 10, 10),
	}

	assert.Equal(t, []Overlap{{A: "a", B: "b"}, {A: "b", B: "c"}}, FindOverlaps(widgets))
}
