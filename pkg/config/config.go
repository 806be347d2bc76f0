// Package config loads the carering configuration file (config.yaml in
// the configuration directory). Missing fields fall back to defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/carering/pkg/geometry"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the configuration file inside the config directory
	FileName = "config.yaml"

	// EnvConfigDir overrides the configuration directory
	EnvConfigDir = "CARERING_CONFIG_DIR"

	// CurrentVersion is written to newly created config files
	CurrentVersion = "1.0"
)

// Canvas describes the layout area and its sizing rules
type Canvas struct {
	Width             int           `yaml:"width"`
	Height            int           `yaml:"height"`
	GridSize          int           `yaml:"grid_size"`
	DefaultWidgetSize geometry.Size `yaml:"default_widget_size"`
	MinWidgetSize     geometry.Size `yaml:"min_widget_size"`
}

// Bounds returns the canvas extent
func (c Canvas) Bounds() geometry.Bounds {
	return geometry.Bounds{MaxWidth: c.Width, MaxHeight: c.Height}
}

// Config is the parsed config.yaml
type Config struct {
	Version string `yaml:"version"`
	Canvas  Canvas `yaml:"canvas"`
	// Store selects the repository backend: sqlite or file
	Store string `yaml:"store"`
}

// Default returns the built-in configuration. The canvas is a phone-width
// column twice the screen height, laid out on a 10 unit grid.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Canvas: Canvas{
			Width:             360,
			Height:            1600,
			GridSize:          10,
			DefaultWidgetSize: geometry.NewSize(150, 100),
			MinWidgetSize:     geometry.NewSize(80, 80),
		},
		Store: "sqlite",
	}
}

// Validate checks that every value is usable
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas dimensions must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.GridSize <= 0 {
		return fmt.Errorf("grid_size must be positive, got %d", c.Canvas.GridSize)
	}
	if !c.Canvas.DefaultWidgetSize.Valid() {
		return errors.New("default_widget_size must be positive")
	}
	if !c.Canvas.MinWidgetSize.Valid() {
		return errors.New("min_widget_size must be positive")
	}
	switch c.Store {
	case "sqlite", "file":
	default:
		return fmt.Errorf("unknown store %q (expected sqlite or file)", c.Store)
	}
	return nil
}

// Load parses a config file on top of the defaults. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrCreate ensures dir exists, writes a default config.yaml when none
// is present, and loads it.
func LoadOrCreate(dir string) (*Config, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		data, err := yaml.Marshal(Default())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal default config: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	return Load(path)
}

// ResolveDir picks the configuration directory. Priority order:
// 1) CARERING_CONFIG_DIR, 2) the flag value, 3) ~/.carering
func ResolveDir(flagValue string) (string, error) {
	if envDir := os.Getenv(EnvConfigDir); envDir != "" {
		return envDir, nil
	}
	if flagValue != "" {
		return flagValue, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".carering"), nil
}
