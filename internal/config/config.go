// Package config holds the settings shared by the ots commands and the
// render service.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

// Config controls layout resolution, description loading and serving.
type Config struct {
	// Layout settings.
	GridSize    float64 `yaml:"grid_size"`    // Grid spacing for snapping and connection points (default: 10)
	AlignMiddle bool    `yaml:"align_middle"` // Snap _Middle anchors to the grid (default: true)

	// Description sources, directories or afs URLs scanned for *.xml.
	Components []string `yaml:"components"`

	LogLevel string `yaml:"log_level"` // debug, info, warn or error (default: info)

	Server ServerConfig `yaml:"server"`
}

// ServerConfig configures the HTTP render service.
type ServerConfig struct {
	Addr string `yaml:"addr"` // listen address (default: :8080)
}

// DefaultConfig returns a Config with the standard grid and alignment.
func DefaultConfig() *Config {
	return &Config{
		GridSize:    geom.DefaultGridSize,
		AlignMiddle: true,
		LogLevel:    "info",
		Server:      ServerConfig{Addr: ":8080"},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.GridSize <= 0 {
		return fmt.Errorf("config: grid_size must be positive, got %g", c.GridSize)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// LayoutOptions returns the resolution options this configuration selects.
// Points are always resolved to absolute document coordinates.
func (c *Config) LayoutOptions() description.LayoutOptions {
	return description.LayoutOptions{
		GridSize:    c.GridSize,
		AlignMiddle: c.AlignMiddle,
		Absolute:    true,
	}
}
