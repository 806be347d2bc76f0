package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/carering/pkg/geometry"
	"gopkg.in/yaml.v3"
)

// Customization is a user's profile customization record: the layout
// background and the widgets placed on it. There is exactly one per user.
type Customization struct {
	UserID        string    `json:"userId,omitempty" yaml:"user_id"`
	BackgroundURL string    `json:"backgroundUrl" yaml:"background_url,omitempty"`
	Widgets       []Widget  `json:"widgets" yaml:"widgets"`
	UpdatedAt     time.Time `json:"-" yaml:"updated_at,omitempty"`
}

// NewCustomization creates an empty customization for a user
func NewCustomization(userID string) *Customization {
	return &Customization{
		UserID:  userID,
		Widgets: []Widget{},
	}
}

// Clone returns a deep copy of the customization
func (c *Customization) Clone() *Customization {
	if c == nil {
		return nil
	}
	out := *c
	out.Widgets = CloneWidgets(c.Widgets)
	if out.Widgets == nil {
		out.Widgets = []Widget{}
	}
	return &out
}

// Validate checks the customization and all of its widgets
func (c *Customization) Validate() error {
	if c == nil {
		return errors.New("customization cannot be nil")
	}
	if err := validateOptionalURL("background", c.BackgroundURL); err != nil {
		return err
	}

	seen := make(map[WidgetID]bool, len(c.Widgets))
	for _, w := range c.Widgets {
		if err := w.Validate(); err != nil {
			return err
		}
		if seen[w.ID] {
			return fmt.Errorf("duplicate widget ID: %s", w.ID)
		}
		seen[w.ID] = true
	}
	return nil
}

// widgetWire is the JSON shape the backend stores for a widget
type widgetWire struct {
	ID       WidgetID          `json:"id"`
	Type     WidgetType        `json:"type"`
	Position geometry.Position `json:"position"`
	Size     *geometry.Size    `json:"size,omitempty"`
	Config   json.RawMessage   `json:"config,omitempty"`
}

// MarshalJSON implements custom JSON marshaling
func (w Widget) MarshalJSON() ([]byte, error) {
	wire := widgetWire{
		ID:       w.ID,
		Type:     w.Type,
		Position: w.Position,
		Size:     w.Size,
	}
	if w.Config != nil {
		data, err := json.Marshal(w.Config)
		if err != nil {
			return nil, fmt.Errorf("widget %s: failed to marshal config: %w", w.ID, err)
		}
		wire.Config = data
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the config into the struct registered for the widget type
func (w *Widget) UnmarshalJSON(data []byte) error {
	var wire widgetWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	cfg := NewConfig(wire.Type)
	if len(wire.Config) > 0 && string(wire.Config) != "null" {
		if err := json.Unmarshal(wire.Config, cfg); err != nil {
			return fmt.Errorf("widget %s: invalid %s config: %w", wire.ID, wire.Type, err)
		}
	}

	*w = Widget{
		ID:       wire.ID,
		Type:     wire.Type,
		Position: wire.Position,
		Size:     wire.Size,
		Config:   cfg,
	}
	return nil
}

type widgetYAML struct {
	ID       WidgetID          `yaml:"id"`
	Type     WidgetType        `yaml:"type"`
	Position geometry.Position `yaml:"position"`
	Size     *geometry.Size    `yaml:"size,omitempty"`
	Config   interface{}       `yaml:"config,omitempty"`
}

// MarshalYAML implements custom YAML marshaling
func (w Widget) MarshalYAML() (interface{}, error) {
	return widgetYAML{
		ID:       w.ID,
		Type:     w.Type,
		Position: w.Position,
		Size:     w.Size,
		Config:   w.Config,
	}, nil
}

// UnmarshalYAML decodes the config into the struct registered for the widget type
func (w *Widget) UnmarshalYAML(value *yaml.Node) error {
	var wire struct {
		ID       WidgetID          `yaml:"id"`
		Type     WidgetType        `yaml:"type"`
		Position geometry.Position `yaml:"position"`
		Size     *geometry.Size    `yaml:"size"`
		Config   yaml.Node         `yaml:"config"`
	}
	if err := value.Decode(&wire); err != nil {
		return err
	}

	cfg := NewConfig(wire.Type)
	if wire.Config.Kind != 0 && wire.Config.Tag != "!!null" {
		if err := wire.Config.Decode(cfg); err != nil {
			return fmt.Errorf("widget %s: invalid %s config: %w", wire.ID, wire.Type, err)
		}
	}

	*w = Widget{
		ID:       wire.ID,
		Type:     wire.Type,
		Position: wire.Position,
		Size:     wire.Size,
		Config:   cfg,
	}
	return nil
}

// ParseJSON decodes a customization in the backend wire format
func ParseJSON(data []byte) (*Customization, error) {
	if len(data) == 0 {
		return nil, errors.New("empty JSON input")
	}
	var c Customization
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse customization JSON: %w", err)
	}
	if c.Widgets == nil {
		c.Widgets = []Widget{}
	}
	return &c, nil
}

// ParseYAML decodes a customization file
func ParseYAML(data []byte) (*Customization, error) {
	if len(data) == 0 {
		return nil, errors.New("empty YAML input")
	}
	var c Customization
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse customization YAML: %w", err)
	}
	if c.Widgets == nil {
		c.Widgets = []Widget{}
	}
	return &c, nil
}

// EncodeJSON encodes the customization in the backend wire format
func (c *Customization) EncodeJSON() ([]byte, error) {
	out := *c
	if out.Widgets == nil {
		out.Widgets = []Widget{}
	}
	return json.MarshalIndent(&out, "", "  ")
}

// Export encodes the customization as YAML for local files
func Export(c *Customization) ([]byte, error) {
	if c == nil {
		return nil, errors.New("cannot export nil customization")
	}
	out := *c
	if out.Widgets == nil {
		out.Widgets = []Widget{}
	}
	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal customization to YAML: %w", err)
	}
	return data, nil
}
