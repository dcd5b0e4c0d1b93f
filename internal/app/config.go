package app

import (
	"flag"
	"strconv"
)

// Config holds the command-line options shared by the front ends.
type Config struct {
	Sim      string
	Scenario string
	Scale    int
	TPS      int
	Seed     int64
	Width    int
	Height   int
	HUDWidth int
	Brush    int
	LogLevel string
}

// NewConfig returns the defaults.
func NewConfig() *Config {
	return &Config{
		Sim:      "fluid",
		Scale:    4,
		TPS:      60,
		Seed:     1337,
		HUDWidth: 260,
		Brush:    2,
		LogLevel: "info",
	}
}

// Bind registers the options on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run (fluid, particles)")
	fs.StringVar(&c.Scenario, "config", c.Scenario, "YAML scenario file")
	fs.IntVar(&c.Scale, "scale", c.Scale, "screen pixels per cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed")
	fs.IntVar(&c.Width, "w", c.Width, "grid width, 0 keeps the sim default")
	fs.IntVar(&c.Height, "h", c.Height, "grid height, 0 keeps the sim default")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels, 0 hides it")
	fs.IntVar(&c.Brush, "brush", c.Brush, "initial brush radius in cells")
	fs.StringVar(&c.LogLevel, "log", c.LogLevel, "log level (debug, info, warn, error, quiet)")
}

// SimOptions converts the options into the key/value form sim factories read.
func (c *Config) SimOptions() map[string]string {
	opts := map[string]string{"seed": strconv.FormatInt(c.Seed, 10)}
	if c.Scenario != "" {
		opts["config"] = c.Scenario
	}
	if c.Width > 0 {
		opts["w"] = strconv.Itoa(c.Width)
	}
	if c.Height > 0 {
		opts["h"] = strconv.Itoa(c.Height)
	}
	return opts
}
