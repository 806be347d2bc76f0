package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the per-type configuration carried by a widget.
// Each widget type has its own concrete struct holding only its fields.
type Config interface {
	Validate() error
	clone() Config
}

// configFactories maps a widget type to a constructor for its empty config
var configFactories = map[WidgetType]func() Config{
	TypeProfileCard:   func() Config { return &ProfileCardConfig{} },
	TypeAbout:         func() Config { return &TextConfig{} },
	TypeCustomText:    func() Config { return &TextConfig{} },
	TypeHealthSummary: func() Config { return &HealthSummaryConfig{} },
	TypePosts:         func() Config { return &PostsConfig{} },
	TypeImage:         func() Config { return &ImageConfig{} },
	TypeLink:          func() Config { return &LinkConfig{} },
	TypeSocialMedia:   func() Config { return &SocialMediaConfig{} },
	TypeCalendar:      func() Config { return &EmptyConfig{} },
	TypeDivider:       func() Config { return &DividerConfig{} },
	TypeEmpty:         func() Config { return &EmptyConfig{} },
}

// NewConfig returns the empty configuration for a widget type.
// Unknown types get a RawConfig so their fields survive a round trip.
func NewConfig(t WidgetType) Config {
	if factory, ok := configFactories[t]; ok {
		return factory()
	}
	return &RawConfig{Fields: map[string]interface{}{}}
}

// ProfileCardConfig configures the profile card header
type ProfileCardConfig struct {
	Nickname       string `json:"nickname,omitempty" yaml:"nickname,omitempty"`
	JoinText       string `json:"joinText,omitempty" yaml:"joinText,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	FollowerCount  int    `json:"followerCount,omitempty" yaml:"followerCount,omitempty"`
	FollowingCount int    `json:"followingCount,omitempty" yaml:"followingCount,omitempty"`
}

// Validate checks the follower counters
func (c *ProfileCardConfig) Validate() error {
	if c.FollowerCount < 0 || c.FollowingCount < 0 {
		return errors.New("profile card: follower counts cannot be negative")
	}
	return validateOptionalURL("profile card image", c.ImageURL)
}

func (c *ProfileCardConfig) clone() Config {
	out := *c
	return &out
}

// TextConfig configures the about and customText widgets
type TextConfig struct {
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Validate always succeeds; any text is allowed
func (c *TextConfig) Validate() error { return nil }

func (c *TextConfig) clone() Config {
	out := *c
	return &out
}

// HealthSummaryConfig carries the free-form health record shown on the profile
type HealthSummaryConfig struct {
	Data map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`
}

// Validate always succeeds
func (c *HealthSummaryConfig) Validate() error { return nil }

// Entries returns the displayable health entries, skipping record
// bookkeeping keys and empty values.
func (c *HealthSummaryConfig) Entries() map[string]interface{} {
	out := make(map[string]interface{}, len(c.Data))
	for k, v := range c.Data {
		if k == "id" || k == "user_id" || v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

func (c *HealthSummaryConfig) clone() Config {
	out := &HealthSummaryConfig{}
	if c.Data != nil {
		out.Data = make(map[string]interface{}, len(c.Data))
		for k, v := range c.Data {
			out.Data[k] = v
		}
	}
	return out
}

// PostThumb is a post preview in the posts widget
type PostThumb struct {
	ID       int    `json:"id" yaml:"id"`
	ImageURL string `json:"image_url" yaml:"image_url"`
	Likes    int    `json:"likes" yaml:"likes"`
}

// PostsConfig configures the posts grid
type PostsConfig struct {
	Posts []PostThumb `json:"posts,omitempty" yaml:"posts,omitempty"`
}

// Validate checks post previews
func (c *PostsConfig) Validate() error {
	for _, p := range c.Posts {
		if p.Likes < 0 {
			return fmt.Errorf("posts: post %d has negative likes", p.ID)
		}
	}
	return nil
}

func (c *PostsConfig) clone() Config {
	out := &PostsConfig{}
	if c.Posts != nil {
		out.Posts = append([]PostThumb(nil), c.Posts...)
	}
	return out
}

// ImageConfig configures an image widget
type ImageConfig struct {
	ImageURL string `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
}

// Validate checks the image URL
func (c *ImageConfig) Validate() error {
	return validateOptionalURL("image", c.ImageURL)
}

func (c *ImageConfig) clone() Config {
	out := *c
	return &out
}

// LinkConfig configures a link widget
type LinkConfig struct {
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Validate checks the link target
func (c *LinkConfig) Validate() error {
	return validateOptionalURL("link", c.URL)
}

func (c *LinkConfig) clone() Config {
	out := *c
	return &out
}

// SocialMediaConfig maps a network name (instagram, twitter, ...) to a profile URL
type SocialMediaConfig struct {
	SocialLinks map[string]string `json:"socialLinks,omitempty" yaml:"socialLinks,omitempty"`
}

// Validate checks every social link
func (c *SocialMediaConfig) Validate() error {
	for network, link := range c.SocialLinks {
		if err := validateOptionalURL("social link "+network, link); err != nil {
			return err
		}
	}
	return nil
}

func (c *SocialMediaConfig) clone() Config {
	out := &SocialMediaConfig{}
	if c.SocialLinks != nil {
		out.SocialLinks = make(map[string]string, len(c.SocialLinks))
		for k, v := range c.SocialLinks {
			out.SocialLinks[k] = v
		}
	}
	return out
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// DividerConfig configures a divider line
type DividerConfig struct {
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Validate checks the divider colour
func (c *DividerConfig) Validate() error {
	if c.Color != "" && !hexColor.MatchString(c.Color) {
		return fmt.Errorf("divider: invalid color %q", c.Color)
	}
	return nil
}

func (c *DividerConfig) clone() Config {
	out := *c
	return &out
}

// EmptyConfig is used by widgets without settings (calendar, empty)
type EmptyConfig struct{}

// Validate always succeeds
func (c *EmptyConfig) Validate() error { return nil }

func (c *EmptyConfig) clone() Config { return &EmptyConfig{} }

// RawConfig preserves the configuration of widget types this package
// does not know about.
type RawConfig struct {
	Fields map[string]interface{}
}

// Validate always succeeds
func (c *RawConfig) Validate() error { return nil }

// MarshalJSON encodes the raw fields as a flat object
func (c *RawConfig) MarshalJSON() ([]byte, error) {
	if c.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.Fields)
}

// UnmarshalJSON decodes a flat object into the raw fields
func (c *RawConfig) UnmarshalJSON(data []byte) error {
	c.Fields = map[string]interface{}{}
	return json.Unmarshal(data, &c.Fields)
}

// MarshalYAML encodes the raw fields as a flat mapping
func (c *RawConfig) MarshalYAML() (interface{}, error) {
	if c.Fields == nil {
		return map[string]interface{}{}, nil
	}
	return c.Fields, nil
}

// UnmarshalYAML decodes a flat mapping into the raw fields
func (c *RawConfig) UnmarshalYAML(value *yaml.Node) error {
	c.Fields = map[string]interface{}{}
	return value.Decode(&c.Fields)
}

func (c *RawConfig) clone() Config {
	// JSON round trip gives a deep copy of nested maps and slices
	data, err := json.Marshal(c.Fields)
	if err != nil {
		return &RawConfig{Fields: map[string]interface{}{}}
	}
	out := &RawConfig{}
	if err := out.UnmarshalJSON(data); err != nil {
		return &RawConfig{Fields: map[string]interface{}{}}
	}
	return out
}

// MergeConfig applies a shallow field patch on top of cfg and returns the
// resulting configuration for type t. Keys use the wire (JSON) names.
func MergeConfig(t WidgetType, cfg Config, patch map[string]interface{}) (Config, error) {
	if cfg == nil {
		cfg = NewConfig(t)
	}

	current := map[string]interface{}{}
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := json.Unmarshal(data, &current); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	for k, v := range patch {
		if v == nil {
			delete(current, k)
			continue
		}
		current[k] = v
	}

	merged, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged config: %w", err)
	}

	out := NewConfig(t)
	if err := json.Unmarshal(merged, out); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", t, err)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func validateOptionalURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid URL %q: %w", field, raw, err)
	}
	// Relative upload paths are allowed; absolute URLs must be web URLs
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: URL %q must use http or https", field, raw)
	}
	return nil
}
