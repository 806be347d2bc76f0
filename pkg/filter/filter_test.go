package filter

import (
	"testing"

	"github.com/dshills/carering/pkg/geometry"
	"github.com/dshills/carering/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWidgets() []profile.Widget {
	return []profile.Widget{
		{ID: "card", Type: profile.TypeProfileCard, Position: geometry.NewPosition(0, 0)},
		profile.Widget{ID: "img", Type: profile.TypeImage, Position: geometry.NewPosition(150, 0)}.WithSize(geometry.NewSize(150, 200)),
		{ID: "div", Type: profile.TypeDivider, Position: geometry.NewPosition(0, 400)},
	}
}

func ids(widgets []profile.Widget) []profile.WidgetID {
	out := make([]profile.WidgetID, 0, len(widgets))
	for _, w := range widgets {
		out = append(out, w.ID)
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       []profile.WidgetID
	}{
		{name: "by type", expression: `type == "image"`, want: []profile.WidgetID{"img"}},
		{name: "by position", expression: `y >= 400`, want: []profile.WidgetID{"div"}},
		{name: "by size", expression: `height > 100`, want: []profile.WidgetID{"img"}},
		{name: "deletable", expression: `deletable`, want: []profile.WidgetID{"img", "div"}},
		{name: "far edge", expression: `right == 300 || bottom == 500`, want: []profile.WidgetID{"img", "div"}},
		{name: "membership", expression: `type in ["divider", "profileCard"]`, want: []profile.WidgetID{"card", "div"}},
		{name: "none", expression: `x > 1000`, want: []profile.WidgetID{}},
	}

	f := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Select(tt.expression, testWidgets())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	f := New()

	assert.ErrorIs(t, f.Compile(""), ErrEmptyExpression)
	assert.ErrorIs(t, f.Compile(`x + 1`), ErrInvalidFilter)
	assert.ErrorIs(t, f.Compile(`unknown_field == 1`), ErrInvalidFilter)
	assert.ErrorIs(t, f.Compile(`type ==`), ErrInvalidFilter)

	_, err := f.Select(`x +`, testWidgets())
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestCompile_Caches(t *testing.T) {
	f := New()

	require.NoError(t, f.Compile(`x == 0`))
	require.NoError(t, f.Compile(`x == 0`))
	assert.Len(t, f.programCache, 1)
}

func TestEnv(t *testing.T) {
	env := Env(testWidgets()[0])

	assert.Equal(t, "card", env["id"])
	assert.Equal(t, 150, env["width"])
	assert.Equal(t, 100, env["height"])
	assert.Equal(t, false, env["deletable"])
}
