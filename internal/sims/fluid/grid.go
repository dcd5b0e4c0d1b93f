package fluid

import (
	"math"
	"slices"
)

// CellState is a changed cell as reported to renderers.
type CellState struct {
	Address  int
	X, Y     int
	Type     Material
	Fluid    float64
	Capacity float64
}

// TickStats counts the transfers made during the most recent Step.
type TickStats struct {
	Tick      uint64
	Transfers int
	Moved     float64
}

// Grid owns a row-major lattice of cells. Row 0 is the bottom of the world.
// A Grid is not safe for concurrent use.
type Grid struct {
	width, height int
	cells         []Cell

	sweepReversed bool

	dirty     []int
	dirtyMark []bool

	sources []int
	sinks   []int

	stats TickStats
}

// NewGrid allocates a width x height grid. Every cell starts as Water holding
// no fluid and the whole grid is marked dirty. Non-positive dimensions are
// clamped to 1.
func NewGrid(width, height int) *Grid {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	total := width * height
	g := &Grid{
		width:     width,
		height:    height,
		cells:     make([]Cell, total),
		dirty:     make([]int, 0, total),
		dirtyMark: make([]bool, total),
	}
	for i := range g.cells {
		c := &g.cells[i]
		c.Address = i
		c.X = i % width
		c.Y = i / width
		c.SetType(Water)
		g.markDirty(i)
	}
	return g
}

// Width reports the number of columns.
func (g *Grid) Width() int { return g.width }

// Height reports the number of rows.
func (g *Grid) Height() int { return g.height }

// SweepReversed reports whether the next Step scans rows right to left.
func (g *Grid) SweepReversed() bool { return g.sweepReversed }

// Stats returns the counters of the last Step.
func (g *Grid) Stats() TickStats { return g.stats }

// InBounds reports whether (x, y) addresses a real cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Address returns the row-major index of (x, y) and whether it is in bounds.
func (g *Grid) Address(x, y int) (int, bool) {
	if !g.InBounds(x, y) {
		return -1, false
	}
	return y*g.width + x, true
}

// Cell returns a copy of the cell at (x, y). Coordinates outside the grid
// yield the solid boundary cell.
func (g *Grid) Cell(x, y int) Cell {
	c := g.at(x, y)
	if c == nil {
		b := boundary
		b.X, b.Y = x, y
		return b
	}
	return *c
}

// Sources returns a copy of the registered source addresses.
func (g *Grid) Sources() []int { return slices.Clone(g.sources) }

// Sinks returns a copy of the registered sink addresses.
func (g *Grid) Sinks() []int { return slices.Clone(g.sinks) }

// TotalFluid sums the fluid held by every cell.
func (g *Grid) TotalFluid() float64 {
	total := 0.0
	for i := range g.cells {
		total += g.cells[i].Fluid
	}
	return total
}

// MaxOverfill returns the largest amount by which any cell exceeds its capacity.
func (g *Grid) MaxOverfill() float64 {
	worst := 0.0
	for i := range g.cells {
		worst = math.Max(worst, -g.cells[i].FreeVolume())
	}
	return worst
}

// AddMaterial sets the cell's type and fills it to fraction of the new
// type's capacity. Fraction is clamped to [0, 1]. The cell's momentum is
// cleared.
func (g *Grid) AddMaterial(x, y int, m Material, fraction float64) {
	c := g.at(x, y)
	if c == nil || m >= materialCount {
		return
	}
	if math.IsNaN(fraction) {
		return
	}
	fraction = math.Min(math.Max(fraction, 0), 1)
	c.SetType(m)
	c.Fluid = fraction * c.Capacity
	c.Momentum = Vec2{}
	if c.Type == Empty && c.Fluid > 0 {
		c.SetType(Water)
	}
	g.markDirty(c.Address)
}

// RemoveMaterial clears a solid cell back to Empty. Cells that can hold fluid
// are left untouched.
func (g *Grid) RemoveMaterial(x, y int) {
	c := g.at(x, y)
	if c == nil || c.Type.Flows() {
		return
	}
	c.SetType(Empty)
	c.Fluid = 0
	c.Momentum = Vec2{}
	g.markDirty(c.Address)
}

// AddSource registers (x, y) to be filled every tick.
func (g *Grid) AddSource(x, y int) {
	if addr, ok := g.Address(x, y); ok {
		g.sources = append(g.sources, addr)
	}
}

// AddSink registers (x, y) to be drained every tick.
func (g *Grid) AddSink(x, y int) {
	if addr, ok := g.Address(x, y); ok {
		g.sinks = append(g.sinks, addr)
	}
}

// ReadAndClearDirty returns every cell changed since the previous call,
// ordered by address, and empties the dirty set.
func (g *Grid) ReadAndClearDirty() []CellState {
	if len(g.dirty) == 0 {
		return nil
	}
	slices.Sort(g.dirty)
	out := make([]CellState, len(g.dirty))
	for i, addr := range g.dirty {
		c := &g.cells[addr]
		out[i] = CellState{
			Address:  addr,
			X:        c.X,
			Y:        c.Y,
			Type:     c.Type,
			Fluid:    c.Fluid,
			Capacity: c.Capacity,
		}
		g.dirtyMark[addr] = false
	}
	g.dirty = g.dirty[:0]
	return out
}

// DirtyCount reports how many cells are waiting to be read.
func (g *Grid) DirtyCount() int { return len(g.dirty) }

func (g *Grid) at(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.cells[y*g.width+x]
}

func (g *Grid) markDirty(addr int) {
	if g.dirtyMark[addr] {
		return
	}
	g.dirtyMark[addr] = true
	g.dirty = append(g.dirty, addr)
}

func flowable(c *Cell) bool {
	return c != nil && c.Type.Flows()
}
