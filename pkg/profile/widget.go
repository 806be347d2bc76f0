// Package profile models a user's profile customization: the background and
// the freeform list of decoration widgets placed on the layout canvas.
package profile

import (
	"errors"
	"fmt"

	"github.com/dshills/carering/pkg/geometry"
	"github.com/google/uuid"
)

// WidgetID is a unique identifier for a widget within a layout.
type WidgetID string

// NewWidgetID generates a new unique widget ID.
func NewWidgetID() WidgetID {
	return WidgetID(uuid.NewString())
}

// String returns the string representation of a WidgetID.
func (id WidgetID) String() string {
	return string(id)
}

// WidgetType names the kind of decoration a widget renders.
type WidgetType string

// Known widget types
const (
	TypeProfileCard   WidgetType = "profileCard"
	TypeAbout         WidgetType = "about"
	TypeHealthSummary WidgetType = "healthSummary"
	TypePosts         WidgetType = "posts"
	TypeCustomText    WidgetType = "customText"
	TypeImage         WidgetType = "image"
	TypeLink          WidgetType = "link"
	TypeSocialMedia   WidgetType = "socialMedia"
	TypeCalendar      WidgetType = "calendar"
	TypeDivider       WidgetType = "divider"
	TypeEmpty         WidgetType = "empty"
)

// DefaultSize applies to widgets that carry no explicit size.
var DefaultSize = geometry.Size{Width: 150, Height: 100}

// KnownTypes lists the widget types with a typed configuration, in the
// order the customizer palette offers them.
func KnownTypes() []WidgetType {
	return []WidgetType{
		TypeProfileCard, TypeAbout, TypeHealthSummary, TypePosts,
		TypeCustomText, TypeImage, TypeLink, TypeSocialMedia,
		TypeCalendar, TypeDivider, TypeEmpty,
	}
}

// Known reports whether t has a typed configuration.
func (t WidgetType) Known() bool {
	_, ok := configFactories[t]
	return ok
}

// Deletable reports whether a widget of this type may be removed from a
// layout. The core profile sections are always present.
func (t WidgetType) Deletable() bool {
	switch t {
	case TypeProfileCard, TypeAbout, TypeHealthSummary, TypePosts:
		return false
	}
	return true
}

// Widget is a positioned decoration element on a profile layout.
type Widget struct {
	ID       WidgetID
	Type     WidgetType
	Position geometry.Position
	// Size is nil when the widget uses DefaultSize.
	Size   *geometry.Size
	Config Config
}

// NewWidget creates a widget with a fresh ID. A nil config is replaced
// by the empty configuration for the type.
func NewWidget(t WidgetType, pos geometry.Position, cfg Config) Widget {
	if cfg == nil {
		cfg = NewConfig(t)
	}
	return Widget{
		ID:       NewWidgetID(),
		Type:     t,
		Position: pos,
		Config:   cfg,
	}
}

// EffectiveSize returns the widget size, falling back to DefaultSize.
func (w Widget) EffectiveSize() geometry.Size {
	if w.Size == nil {
		return DefaultSize
	}
	return *w.Size
}

// Rect returns the widget's occupied rectangle.
func (w Widget) Rect() geometry.Rect {
	return geometry.RectAt(w.Position, w.EffectiveSize())
}

// WithSize returns a copy of w with an explicit size.
func (w Widget) WithSize(size geometry.Size) Widget {
	w.Size = &size
	return w
}

// Clone returns a deep copy of the widget.
func (w Widget) Clone() Widget {
	out := w
	if w.Size != nil {
		size := *w.Size
		out.Size = &size
	}
	if w.Config != nil {
		out.Config = w.Config.clone()
	}
	return out
}

// Validate checks if the widget is well formed
func (w Widget) Validate() error {
	if w.ID == "" {
		return errors.New("widget: empty ID")
	}
	if w.Type == "" {
		return fmt.Errorf("widget %s: empty type", w.ID)
	}
	if w.Size != nil && !w.Size.Valid() {
		return fmt.Errorf("widget %s: size must be positive, got %dx%d", w.ID, w.Size.Width, w.Size.Height)
	}
	if w.Config != nil {
		if err := w.Config.Validate(); err != nil {
			return fmt.Errorf("widget %s (%s): %w", w.ID, w.Type, err)
		}
	}
	return nil
}

// CloneWidgets deep-copies a widget list.
func CloneWidgets(widgets []Widget) []Widget {
	if widgets == nil {
		return nil
	}
	out := make([]Widget, len(widgets))
	for i, w := range widgets {
		out[i] = w.Clone()
	}
	return out
}

// IndexOf returns the index of the widget with the given ID, or -1.
func IndexOf(widgets []Widget, id WidgetID) int {
	for i := range widgets {
		if widgets[i].ID == id {
			return i
		}
	}
	return -1
}
