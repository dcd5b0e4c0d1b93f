package fluid

import (
	"fmt"
	"image"
	"math"
	"slices"

	"fluid-ca/internal/core"
	"fluid-ca/internal/terrain"
)

// Sim adapts a Grid to the core.Sim contract. Image-space coordinates are
// flipped so row 0 is the top of the window.
type Sim struct {
	cfg    Config
	layout image.Image
	grid   *Grid

	markers map[int]core.Tool
	changed int
}

// New builds a fluid sim from the given configuration and resets it to
// cfg.Seed.
func New(cfg Config) (*Sim, error) {
	s := &Sim{cfg: cfg}
	if cfg.Layout != "" {
		img, err := terrain.Load(cfg.Layout)
		if err != nil {
			return nil, err
		}
		s.layout = img
		b := img.Bounds()
		s.cfg.Width, s.cfg.Height = b.Dx(), b.Dy()
	}
	s.Reset(cfg.Seed)
	return s, nil
}

// NewFromImage builds a sim whose world is decoded from img.
func NewFromImage(img image.Image) *Sim {
	b := img.Bounds()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = b.Dx(), b.Dy()
	s := &Sim{cfg: cfg, layout: img}
	s.Reset(cfg.Seed)
	return s
}

// Name identifies the simulation.
func (s *Sim) Name() string { return "fluid" }

// Size returns the grid dimensions.
func (s *Sim) Size() core.Size { return core.Size{W: s.grid.Width(), H: s.grid.Height()} }

// Grid exposes the underlying grid.
func (s *Sim) Grid() *Grid { return s.grid }

// Config returns the active configuration.
func (s *Sim) Config() Config { return s.cfg }

// Reset rebuilds the world from the layout image, generated terrain or the
// default water disc, in that order of preference.
func (s *Sim) Reset(seed int64) {
	s.cfg.Seed = seed
	s.markers = make(map[int]core.Tool)
	s.changed = 0
	switch {
	case s.layout != nil:
		s.grid = NewGridFromImage(s.layout)
	case s.cfg.Terrain.Enabled:
		img := terrain.Generate(s.cfg.Width, s.cfg.Height, s.cfg.Terrain, core.NewRNG(seed))
		s.grid = NewGridFromImage(img)
	default:
		s.grid = NewGrid(s.cfg.Width, s.cfg.Height)
		s.fillDisc(s.cfg.DiscRadius)
	}
	for _, addr := range s.grid.Sources() {
		s.markers[addr] = core.ToolSource
	}
	for _, addr := range s.grid.Sinks() {
		s.markers[addr] = core.ToolSink
	}
}

func (s *Sim) fillDisc(radius int) {
	w, h := s.grid.Width(), s.grid.Height()
	cx, cy := w/2, h/2
	r := float64(radius)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if math.Hypot(float64(x-cx), float64(y-cy)) < r {
				s.grid.AddMaterial(x, y, Water, 1)
			}
		}
	}
}

// Step advances the grid by one tick.
func (s *Sim) Step() {
	s.grid.Step()
	s.changed = s.grid.DirtyCount()
}

// Changes drains the grid's dirty set as image-space pixels.
func (s *Sim) Changes() []core.Pixel {
	states := s.grid.ReadAndClearDirty()
	if len(states) == 0 {
		return nil
	}
	h := s.grid.Height()
	out := make([]core.Pixel, len(states))
	for i, st := range states {
		out[i] = core.Pixel{X: st.X, Y: h - 1 - st.Y, Color: ColorFor(st)}
	}
	return out
}

// Apply performs an edit at image coordinates (x, y).
func (s *Sim) Apply(tool core.Tool, x, y int) {
	gy := s.grid.Height() - 1 - y
	addr, ok := s.grid.Address(x, gy)
	if !ok {
		return
	}
	switch tool {
	case core.ToolFluid:
		s.grid.AddMaterial(x, gy, Water, 1)
	case core.ToolSolid:
		s.grid.AddMaterial(x, gy, Rock, 0)
	case core.ToolErase:
		if s.grid.Cell(x, gy).Type.Flows() {
			s.grid.AddMaterial(x, gy, Empty, 0)
		} else {
			s.grid.RemoveMaterial(x, gy)
		}
	case core.ToolSource:
		if _, seen := s.markers[addr]; !seen {
			s.grid.AddSource(x, gy)
			s.markers[addr] = tool
		}
	case core.ToolSink:
		if _, seen := s.markers[addr]; !seen {
			s.grid.AddSink(x, gy)
			s.markers[addr] = tool
		}
	}
}

// Markers lists every source and sink in image space, ordered by grid address.
func (s *Sim) Markers() []core.Marker {
	w, h := s.grid.Width(), s.grid.Height()
	addrs := make([]int, 0, len(s.markers))
	for addr := range s.markers {
		addrs = append(addrs, addr)
	}
	slices.Sort(addrs)
	out := make([]core.Marker, 0, len(addrs))
	for _, addr := range addrs {
		out = append(out, core.Marker{X: addr % w, Y: h - 1 - addr/w, Tool: s.markers[addr]})
	}
	return out
}

// FillMask returns each cell's fill level in image space, clamped to [0, 1].
func (s *Sim) FillMask() []float32 {
	return s.mask(func(c *Cell) float64 {
		if c.Capacity <= 0 {
			return 0
		}
		return c.Fluid / c.Capacity
	})
}

// OverfillMask returns how far each cell sits above capacity, in image space.
func (s *Sim) OverfillMask() []float32 {
	return s.mask(func(c *Cell) float64 { return -c.FreeVolume() })
}

func (s *Sim) mask(value func(c *Cell) float64) []float32 {
	w, h := s.grid.Width(), s.grid.Height()
	out := make([]float32, w*h)
	for i := range s.grid.cells {
		c := &s.grid.cells[i]
		v := math.Min(math.Max(value(c), 0), 1)
		out[(h-1-c.Y)*w+c.X] = float32(v)
	}
	return out
}

// Stats reports the most recent tick.
func (s *Sim) Stats() core.TickStats {
	st := s.grid.Stats()
	return core.TickStats{
		Tick:      st.Tick,
		Changed:   s.changed,
		Transfers: st.Transfers,
		Moved:     st.Moved,
		Mass:      s.grid.TotalFluid(),
	}
}

func init() {
	core.Register("fluid", func(cfg map[string]string) (core.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		s, err := New(c)
		if err != nil {
			return nil, fmt.Errorf("fluid: %w", err)
		}
		return s, nil
	})
}
