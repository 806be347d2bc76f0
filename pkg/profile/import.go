package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/dshills/carering/pkg/geometry"
	"github.com/tidwall/gjson"
)

// Sentinel errors for payload import
var (
	ErrInvalidPayload = errors.New("invalid customization payload")
	ErrUnknownShape   = errors.New("unrecognized customization payload shape")
)

// PayloadShape identifies which backend response a payload came from
type PayloadShape string

// Payload shapes understood by ImportPayload
const (
	// ShapeCustomization is the customization route: backgroundUrl + widgets
	ShapeCustomization PayloadShape = "customization"
	// ShapeLayout is the widget-layout route: {"layout": [...]}
	ShapeLayout PayloadShape = "layout"
	// ShapeSaveRequest is a layout save request: {"user_id": .., "layout": [...]}
	ShapeSaveRequest PayloadShape = "save_request"
	// ShapeWidgetList is a bare widget array
	ShapeWidgetList PayloadShape = "widget_list"
)

// ImportPayload converts any of the backend's layout payloads into a
// Customization. Coordinates sent as fractional numbers are rounded,
// and widgets without an ID get a fresh one.
func ImportPayload(data []byte) (*Customization, PayloadShape, error) {
	if len(data) == 0 || !gjson.ValidBytes(data) {
		return nil, "", ErrInvalidPayload
	}

	root := gjson.ParseBytes(data)
	c := NewCustomization("")

	var (
		shape   PayloadShape
		widgets gjson.Result
	)

	switch {
	case root.IsArray():
		shape = ShapeWidgetList
		widgets = root
	case root.Get("widgets").Exists():
		shape = ShapeCustomization
		widgets = root.Get("widgets")
		c.BackgroundURL = root.Get("backgroundUrl").String()
		c.UserID = root.Get("userId").String()
	case root.Get("layout").Exists() && root.Get("user_id").Exists():
		shape = ShapeSaveRequest
		widgets = root.Get("layout")
		c.UserID = root.Get("user_id").String()
	case root.Get("layout").Exists():
		shape = ShapeLayout
		widgets = root.Get("layout")
	default:
		return nil, "", ErrUnknownShape
	}

	if widgets.Type != gjson.Null && !widgets.IsArray() {
		return nil, shape, fmt.Errorf("%w: widget list is not an array", ErrInvalidPayload)
	}

	var importErr error
	widgets.ForEach(func(_, value gjson.Result) bool {
		w, err := widgetFromResult(value)
		if err != nil {
			importErr = err
			return false
		}
		c.Widgets = append(c.Widgets, w)
		return true
	})
	if importErr != nil {
		return nil, shape, importErr
	}

	return c, shape, nil
}

func widgetFromResult(r gjson.Result) (Widget, error) {
	if !r.IsObject() {
		return Widget{}, fmt.Errorf("%w: widget entry is not an object", ErrInvalidPayload)
	}

	typ := WidgetType(r.Get("type").String())
	if typ == "" {
		return Widget{}, fmt.Errorf("%w: widget without type", ErrInvalidPayload)
	}

	id := WidgetID(r.Get("id").String())
	if id == "" {
		id = NewWidgetID()
	}

	w := Widget{
		ID:   id,
		Type: typ,
		Position: geometry.Position{
			X: roundCoord(r.Get("position.x")),
			Y: roundCoord(r.Get("position.y")),
		},
	}

	if size := r.Get("size"); size.IsObject() {
		// Missing or zero dimensions fall back one at a time
		s := geometry.Size{
			Width:  roundCoord(size.Get("width")),
			Height: roundCoord(size.Get("height")),
		}
		if s.Width == 0 {
			s.Width = DefaultSize.Width
		}
		if s.Height == 0 {
			s.Height = DefaultSize.Height
		}
		w.Size = &s
	}

	cfg := NewConfig(typ)
	if raw := r.Get("config"); raw.IsObject() {
		if err := json.Unmarshal([]byte(raw.Raw), cfg); err != nil {
			return Widget{}, fmt.Errorf("widget %s: invalid %s config: %w", id, typ, err)
		}
	}
	w.Config = cfg

	return w, nil
}

func roundCoord(r gjson.Result) int {
	return int(math.Round(r.Float()))
}
