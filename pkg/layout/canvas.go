package layout

import (
	"errors"
	"fmt"

	lerrors "github.com/dshills/carering/pkg/errors"
	"github.com/dshills/carering/pkg/geometry"
	"github.com/dshills/carering/pkg/profile"
	"go.uber.org/zap"
)

// Canvas errors
var (
	ErrWidgetNotFound   = errors.New("widget not found")
	ErrProtectedWidget  = errors.New("widget cannot be deleted")
	ErrInvalidSize      = errors.New("invalid widget size")
	ErrNilCustomization = errors.New("customization cannot be nil")
	ErrSectionExists    = errors.New("core section already on the profile")
)

// Options configures a Canvas
type Options struct {
	// Bounds is the usable canvas area
	Bounds geometry.Bounds
	// GridSize is the snapping step; DefaultGridSize when zero
	GridSize int
	// MinSize is the resize floor; DefaultMinSize when zero
	MinSize geometry.Size
	// Logger receives debug output; a no-op logger when nil
	Logger *zap.Logger
}

// Canvas owns the mutable widget list of one customization while it is
// being edited. Every edit goes through the placement rules, so widgets
// written back by a Canvas never overlap unless the canvas is full.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	// Bounds is the usable canvas area
	Bounds geometry.Bounds
	// GridSize is the snapping step for positions and sizes
	GridSize int
	// MinSize is the smallest size a widget can be resized to
	MinSize geometry.Size

	custom  *profile.Customization
	initial []profile.Widget
	logger  *zap.Logger
}

// NewCanvas creates a canvas editing a copy of c. The widgets present at
// construction are kept as the layout restored by Reset.
func NewCanvas(c *profile.Customization, opts Options) (*Canvas, error) {
	if c == nil {
		return nil, ErrNilCustomization
	}

	grid := opts.GridSize
	if grid <= 0 {
		grid = DefaultGridSize
	}
	min := opts.MinSize
	if !min.Valid() {
		min = DefaultMinSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	custom := c.Clone()
	return &Canvas{
		Bounds:   opts.Bounds,
		GridSize: grid,
		MinSize:  min,
		custom:   custom,
		initial:  profile.CloneWidgets(custom.Widgets),
		logger:   logger.With(zap.String("user", c.UserID)),
	}, nil
}

// Customization returns a copy of the edited customization
func (c *Canvas) Customization() *profile.Customization {
	return c.custom.Clone()
}

// Widgets returns a copy of the current widget list
func (c *Canvas) Widgets() []profile.Widget {
	return profile.CloneWidgets(c.custom.Widgets)
}

// Widget returns a copy of the widget with the given ID
func (c *Canvas) Widget(id profile.WidgetID) (profile.Widget, bool) {
	i := profile.IndexOf(c.custom.Widgets, id)
	if i < 0 {
		return profile.Widget{}, false
	}
	return c.custom.Widgets[i].Clone(), true
}

// AddWidget creates a widget of the given type at the first free slot.
// A nil size means profile.DefaultSize.
func (c *Canvas) AddWidget(t profile.WidgetType, cfg profile.Config, size *geometry.Size) (profile.Widget, error) {
	w := profile.NewWidget(t, geometry.Position{}, cfg)
	if !t.Deletable() {
		// Core sections exist at most once and use their type as ID
		w.ID = profile.CoreSectionID(t)
		if profile.IndexOf(c.custom.Widgets, w.ID) >= 0 {
			return profile.Widget{}, c.fail("adding widget", w.ID, fmt.Errorf("%w: %s", ErrSectionExists, t))
		}
	}
	if size != nil {
		if !size.Valid() {
			return profile.Widget{}, c.fail("adding widget", w.ID, fmt.Errorf("%w: must be positive, got %dx%d", ErrInvalidSize, size.Width, size.Height))
		}
		w = w.WithSize(*size)
	}
	if width := w.EffectiveSize().Width; width > c.Bounds.MaxWidth {
		return profile.Widget{}, c.fail("adding widget", w.ID,
			fmt.Errorf("%w: width %d exceeds the %d unit canvas", ErrInvalidSize, width, c.Bounds.MaxWidth))
	}
	if err := w.Validate(); err != nil {
		return profile.Widget{}, c.fail("adding widget", w.ID, err)
	}

	placement := FindPlacement(c.custom.Widgets, w.EffectiveSize(), c.Bounds.MaxWidth, c.Bounds.MaxHeight, c.GridSize)
	if placement.Fallback {
		c.logger.Debug("canvas full, placing widget below layout",
			zap.String("widget", w.ID.String()),
			zap.Int("y", placement.Position.Y))
	}
	w.Position = geometry.SnapPosition(placement.Position, c.GridSize)

	c.custom.Widgets = append(c.custom.Widgets, w)
	c.logger.Debug("widget added",
		zap.String("widget", w.ID.String()),
		zap.String("type", string(t)),
		zap.Int("x", w.Position.X),
		zap.Int("y", w.Position.Y))

	return w.Clone(), nil
}

// MoveWidget applies a drag ending at proposed and returns where the
// widget actually landed.
func (c *Canvas) MoveWidget(id profile.WidgetID, proposed geometry.Position) (geometry.Position, error) {
	i := profile.IndexOf(c.custom.Widgets, id)
	if i < 0 {
		return geometry.Position{}, c.fail("moving widget", id, ErrWidgetNotFound)
	}

	w := &c.custom.Widgets[i]
	size := w.EffectiveSize()
	pos := ResolveOverlapAfterDrag(id, proposed.X, proposed.Y, size.Width, size.Height, c.custom.Widgets, c.Bounds, c.GridSize)

	w.Position = pos
	w.Size = &size

	c.logger.Debug("widget moved",
		zap.String("widget", id.String()),
		zap.Int("proposed_x", proposed.X),
		zap.Int("proposed_y", proposed.Y),
		zap.Int("x", pos.X),
		zap.Int("y", pos.Y))

	return pos, nil
}

// ResizeWidget applies a resize gesture. The new size is bounded and
// snapped, then the widget is re-resolved at its current position so it
// does not grow over a neighbour.
func (c *Canvas) ResizeWidget(id profile.WidgetID, proposed geometry.Size) (profile.Widget, error) {
	i := profile.IndexOf(c.custom.Widgets, id)
	if i < 0 {
		return profile.Widget{}, c.fail("resizing widget", id, ErrWidgetNotFound)
	}
	if !proposed.Valid() {
		return profile.Widget{}, c.fail("resizing widget", id, fmt.Errorf("%w: must be positive, got %dx%d", ErrInvalidSize, proposed.Width, proposed.Height))
	}

	w := &c.custom.Widgets[i]
	size := ResolveResize(w.Position, proposed, c.Bounds, c.GridSize, c.MinSize)

	// A widget below the canvas bottom stays there instead of being
	// clamped back over the widgets above it
	bounds := c.Bounds
	bounds.MaxHeight = max(bounds.MaxHeight, w.Position.Y+size.Height)
	pos := ResolveOverlapAfterDrag(id, w.Position.X, w.Position.Y, size.Width, size.Height, c.custom.Widgets, bounds, c.GridSize)

	w.Size = &size
	w.Position = pos

	c.logger.Debug("widget resized",
		zap.String("widget", id.String()),
		zap.Int("width", size.Width),
		zap.Int("height", size.Height))

	return w.Clone(), nil
}

// AutoArrange re-packs all widgets in their current order
func (c *Canvas) AutoArrange() []profile.Widget {
	c.custom.Widgets = AutoArrange(c.custom.Widgets, c.Bounds, c.GridSize)
	c.logger.Debug("widgets arranged", zap.Int("count", len(c.custom.Widgets)))
	return c.Widgets()
}

// RemoveWidget deletes a widget. The core profile sections cannot be removed.
func (c *Canvas) RemoveWidget(id profile.WidgetID) error {
	i := profile.IndexOf(c.custom.Widgets, id)
	if i < 0 {
		return c.fail("removing widget", id, ErrWidgetNotFound)
	}

	w := c.custom.Widgets[i]
	if !w.Type.Deletable() {
		return c.fail("removing widget", id, fmt.Errorf("%w: %s is a core profile section", ErrProtectedWidget, w.Type))
	}

	c.custom.Widgets = append(c.custom.Widgets[:i], c.custom.Widgets[i+1:]...)
	c.logger.Debug("widget removed", zap.String("widget", id.String()))
	return nil
}

// UpdateConfig merges patch into the widget's configuration
func (c *Canvas) UpdateConfig(id profile.WidgetID, patch map[string]interface{}) (profile.Widget, error) {
	i := profile.IndexOf(c.custom.Widgets, id)
	if i < 0 {
		return profile.Widget{}, c.fail("updating widget config", id, ErrWidgetNotFound)
	}

	w := &c.custom.Widgets[i]
	cfg, err := profile.MergeConfig(w.Type, w.Config, patch)
	if err != nil {
		return profile.Widget{}, c.fail("updating widget config", id, err)
	}
	w.Config = cfg

	return w.Clone(), nil
}

// SetBackground replaces the layout background URL
func (c *Canvas) SetBackground(url string) error {
	prev := c.custom.BackgroundURL
	c.custom.BackgroundURL = url
	if err := c.custom.Validate(); err != nil {
		c.custom.BackgroundURL = prev
		return c.fail("setting background", "", err)
	}
	return nil
}

// Reset restores the widgets the canvas was created with
func (c *Canvas) Reset() []profile.Widget {
	c.custom.Widgets = profile.CloneWidgets(c.initial)
	if c.custom.Widgets == nil {
		c.custom.Widgets = []profile.Widget{}
	}
	c.logger.Debug("layout reset", zap.Int("count", len(c.custom.Widgets)))
	return c.Widgets()
}

// Overlaps lists colliding widget pairs in the current layout
func (c *Canvas) Overlaps() []Overlap {
	return FindOverlaps(c.custom.Widgets)
}

func (c *Canvas) fail(op string, id profile.WidgetID, err error) error {
	return lerrors.NewOperationalError(op, c.custom.UserID, id.String(), err)
}
