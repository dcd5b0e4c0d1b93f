package particles

import (
	"image/color"
	"strconv"

	"fluid-ca/internal/core"
	"fluid-ca/internal/terrain"
)

// Config controls the particle simulation.
type Config struct {
	Width  int
	Height int
	Seed   int64

	FlowMultiplier int
	Layout         string
	Terrain        terrain.Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	t := terrain.DefaultParams()
	t.Enabled = true
	t.Sources = 3
	return Config{
		Width:          192,
		Height:         128,
		Seed:           1337,
		FlowMultiplier: DefaultFlowMultiplier,
		Terrain:        t,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
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
	if v, ok := cfg["flow"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.FlowMultiplier = parsed
		}
	}
	if v, ok := cfg["layout"]; ok {
		c.Layout = v
	}
	if v, ok := cfg["terrain"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Terrain.Enabled = parsed
		}
	}
	return c
}

var palette = [...]color.RGBA{
	Empty: {R: 255, G: 255, B: 255, A: 255},
	Solid: {A: 255},
	Fluid: {B: 255, A: 255},
}

// Sim adapts a Field to core.Sim.
type Sim struct {
	cfg   Config
	field *Field
	tick  uint64
	moved int
}

// New builds a particle sim. A layout path that fails to load is an error.
func New(cfg Config) (*Sim, error) {
	s := &Sim{cfg: cfg}
	if cfg.Layout != "" {
		img, err := terrain.Load(cfg.Layout)
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		s.cfg.Width, s.cfg.Height = b.Dx(), b.Dy()
		s.field = NewField(b.Dx(), b.Dy(), core.NewRNG(cfg.Seed))
		s.field.FlowMultiplier = cfg.FlowMultiplier
		if err := s.field.Decode(img); err != nil {
			return nil, err
		}
		return s, nil
	}
	s.Reset(cfg.Seed)
	return s, nil
}

func (s *Sim) Name() string { return "particles" }

func (s *Sim) Size() core.Size { return s.field.Size() }

// Field exposes the underlying lattice.
func (s *Sim) Field() *Field { return s.field }

// Reset regenerates the world. With terrain disabled the field starts with
// a block of fluid over an empty floor.
func (s *Sim) Reset(seed int64) {
	s.cfg.Seed = seed
	s.tick = 0
	rng := core.NewRNG(seed)
	s.field = NewField(s.cfg.Width, s.cfg.Height, rng)
	if s.cfg.FlowMultiplier > 0 {
		s.field.FlowMultiplier = s.cfg.FlowMultiplier
	}
	if s.cfg.Terrain.Enabled {
		_ = s.field.Decode(terrain.Generate(s.cfg.Width, s.cfg.Height, s.cfg.Terrain, rng))
		return
	}
	w, h := s.field.Size().W, s.field.Size().H
	for y := h / 2; y < h*3/4; y++ {
		for x := w / 4; x < w*3/4; x++ {
			s.field.Set(x, y, Fluid)
		}
	}
}

func (s *Sim) Step() {
	s.field.Step()
	s.tick++
	s.moved = len(s.field.changed)
}

// Changes drains the changed set as image-space pixels.
func (s *Sim) Changes() []core.Pixel {
	idx := s.field.ReadAndClearChanged()
	if len(idx) == 0 {
		return nil
	}
	g := s.field.grid
	out := make([]core.Pixel, len(idx))
	for n, i := range idx {
		out[n] = core.Pixel{X: i % g.W, Y: g.H - 1 - i/g.W, Color: palette[g.Cells()[i]]}
	}
	return out
}

// Apply performs an edit at image coordinates (x, y).
func (s *Sim) Apply(tool core.Tool, x, y int) {
	gy := s.field.grid.H - 1 - y
	switch tool {
	case core.ToolFluid:
		s.field.Set(x, gy, Fluid)
	case core.ToolSolid:
		s.field.Set(x, gy, Solid)
	case core.ToolErase:
		s.field.Set(x, gy, Empty)
	case core.ToolSource:
		s.field.AddSource(x, gy)
	case core.ToolSink:
		s.field.AddSink(x, gy)
	}
}

// Markers lists every source and sink in image space.
func (s *Sim) Markers() []core.Marker {
	g := s.field.grid
	out := make([]core.Marker, 0, len(s.field.sources)+len(s.field.sinks))
	for _, i := range s.field.sources {
		out = append(out, core.Marker{X: i % g.W, Y: g.H - 1 - i/g.W, Tool: core.ToolSource})
	}
	for _, i := range s.field.sinks {
		out = append(out, core.Marker{X: i % g.W, Y: g.H - 1 - i/g.W, Tool: core.ToolSink})
	}
	return out
}

func (s *Sim) Stats() core.TickStats {
	return core.TickStats{
		Tick:    s.tick,
		Changed: s.moved,
		Mass:    float64(s.field.Count(Fluid)),
	}
}

func init() {
	core.Register("particles", func(cfg map[string]string) (core.Sim, error) {
		s, err := New(FromMap(cfg))
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
