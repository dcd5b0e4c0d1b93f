package core

import (
	"fmt"
	"image/color"
	"sort"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Pixel is one changed display cell in image space, where y grows downwards.
type Pixel struct {
	X, Y  int
	Color color.RGBA
}

// Sim defines the minimal contract a material simulation must implement.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	// Changes returns the cells altered since the previous call and forgets them.
	Changes() []Pixel
}

// Tool selects what an edit does to the cell under the cursor.
type Tool uint8

const (
	ToolFluid Tool = iota
	ToolSolid
	ToolErase
	ToolSource
	ToolSink
	toolCount
)

// Tools lists every edit tool in cycling order.
func Tools() []Tool {
	tools := make([]Tool, 0, toolCount)
	for t := Tool(0); t < toolCount; t++ {
		tools = append(tools, t)
	}
	return tools
}

func (t Tool) String() string {
	switch t {
	case ToolFluid:
		return "fluid"
	case ToolSolid:
		return "solid"
	case ToolErase:
		return "erase"
	case ToolSource:
		return "source"
	case ToolSink:
		return "sink"
	default:
		return fmt.Sprintf("tool(%d)", uint8(t))
	}
}

// Next returns the tool after t, wrapping around.
func (t Tool) Next() Tool { return (t + 1) % toolCount }

// Editor accepts edit operations in image coordinates.
type Editor interface {
	Apply(tool Tool, x, y int)
}

// Marker is a registered source or sink in image space.
type Marker struct {
	X, Y int
	Tool Tool
}

// MarkerProvider is implemented by sims that expose their sources and sinks.
type MarkerProvider interface {
	Markers() []Marker
}

// TickStats summarises the most recent tick.
type TickStats struct {
	Tick      uint64
	Changed   int
	Transfers int
	Moved     float64
	Mass      float64
}

// StatsProvider exposes per-tick statistics.
type StatsProvider interface {
	Stats() TickStats
}

// Factory constructs a Sim from flag-style key/value options.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// SimNames returns the registered names in sorted order.
func SimNames() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named simulation.
func New(name string, cfg map[string]string) (Sim, error) {
	f, ok := sims[name]
	if !ok {
		return nil, fmt.Errorf("unknown sim %q (have %v)", name, SimNames())
	}
	return f(cfg)
}
