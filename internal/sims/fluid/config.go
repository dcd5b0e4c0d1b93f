package fluid

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"fluid-ca/internal/terrain"
)

// Config controls the fluid simulation world.
type Config struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`

	// Layout is a PNG decoded on Reset. When set it overrides Width and Height.
	Layout string `yaml:"layout"`
	// DiscRadius sizes the default water disc used when neither a layout nor
	// terrain is configured.
	DiscRadius int `yaml:"disc_radius"`

	Terrain terrain.Params `yaml:"terrain"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:      192,
		Height:     128,
		Seed:       1337,
		DiscRadius: 20,
		Terrain:    terrain.DefaultParams(),
	}
}

// LoadConfig reads a YAML scenario over the defaults. A relative layout path
// is resolved against the directory holding the scenario file.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if c.Layout != "" && !filepath.IsAbs(c.Layout) {
		c.Layout = filepath.Join(filepath.Dir(path), c.Layout)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return c, fmt.Errorf("%s: invalid size %dx%d", filepath.Base(path), c.Width, c.Height)
	}
	return c, nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// A "config" entry loads that scenario first; the remaining keys override it.
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	if cfg == nil {
		return c, nil
	}
	if v, ok := cfg["config"]; ok && v != "" {
		loaded, err := LoadConfig(v)
		if err != nil {
			return c, fmt.Errorf("load config: %w", err)
		}
		c = loaded
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["layout"]; ok {
		c.Layout = v
	}
	if v, ok := cfg["disc_radius"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.DiscRadius = parsed
		}
	}
	if v, ok := cfg["terrain"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Terrain.Enabled = parsed
		}
	}
	if v, ok := cfg["sources"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Terrain.Sources = parsed
		}
	}
	if v, ok := cfg["sinks"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Terrain.Sinks = parsed
		}
	}
	return c, nil
}
