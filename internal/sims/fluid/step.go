package fluid

import "math"

const (
	// Pressure is the overpressure needed to push fluid into the cell below
	// or relieve an overfilled cell upwards.
	Pressure = 0.005
	// MomentumDecay scales stored momentum once per evaluation.
	MomentumDecay = 0.9
	// LateralReach bounds how far the lateral scan looks along a row.
	LateralReach = 6
)

// Step advances the grid by one tick: an in-place sweep over every cell,
// then source and sink forcing, then the sweep direction flips.
func (g *Grid) Step() {
	g.stats = TickStats{Tick: g.stats.Tick + 1}

	for y := 0; y < g.height; y++ {
		if g.sweepReversed {
			for x := g.width - 1; x >= 0; x-- {
				g.stepNode(x, y)
			}
		} else {
			for x := 0; x < g.width; x++ {
				g.stepNode(x, y)
			}
		}
	}

	g.applySourcesAndSinks()
	g.sweepReversed = !g.sweepReversed
}

func (g *Grid) stepNode(x, y int) {
	c := &g.cells[y*g.width+x]
	if c.Type == Rock {
		return
	}
	if c.Type == Water && c.Fluid == 0 {
		c.SetType(Empty)
		g.markDirty(c.Address)
		return
	}

	// Empty cells only decay their momentum here; every transfer below is
	// limited by their zero fluid.
	momentum := c.Momentum
	c.Momentum.X *= MomentumDecay
	c.Momentum.Y *= MomentumDecay

	if below := g.at(x, y-1); flowable(below) {
		var flow float64
		if free := below.FreeVolume(); free > 0 {
			flow = free + Pressure
		} else if c.Fluid+Pressure > below.Fluid {
			flow = (c.Fluid - below.Fluid + Pressure) / 2
		}
		c.Momentum.Y -= g.moveFluid(c, below, flow)
	}

	// The side ahead of the scan goes first so neither side is favoured
	// once the sweep direction alternates.
	ahead := 1
	if g.sweepReversed {
		ahead = -1
	}
	g.spreadLateral(c, x, y, ahead)
	g.spreadLateral(c, x, y, -ahead)

	if c.FreeVolume() < 0 {
		if above := g.at(x, y+1); flowable(above) && c.Fluid-Pressure > above.Fluid {
			c.Momentum.Y += g.moveFluid(c, above, (c.Fluid-above.Fluid-Pressure)/2)
		}
	}

	// Carry last tick's vertical motion. Horizontal momentum is tracked but
	// not applied.
	switch {
	case momentum.Y > 0:
		if above := g.at(x, y+1); flowable(above) {
			g.moveFluid(c, above, momentum.Y)
		}
	case momentum.Y < 0:
		if below := g.at(x, y-1); flowable(below) {
			g.moveFluid(c, below, -momentum.Y)
		}
	}
}

// spreadLateral averages the contiguous run of flowable cells on one side
// and, if c is above that average, pushes half the difference into the
// immediate neighbour.
func (g *Grid) spreadLateral(c *Cell, x, y, dir int) {
	next := g.at(x+dir, y)
	if !flowable(next) {
		return
	}
	sum := 0.0
	n := 0
	for i := 1; i <= LateralReach; i++ {
		nc := g.at(x+dir*i, y)
		if !flowable(nc) {
			break
		}
		sum += nc.Fluid
		n++
	}
	avg := sum / float64(n)
	if c.Fluid > avg {
		c.Momentum.X += float64(dir) * g.moveFluid(c, next, (c.Fluid-avg)/2)
	}
}

// moveFluid transfers up to volume from src to dst and returns the amount
// moved. Negative or NaN volumes are ignored. The destination may end up
// above its capacity.
func (g *Grid) moveFluid(src, dst *Cell, volume float64) float64 {
	if !(volume >= 0) {
		return 0
	}
	amount := math.Min(src.Fluid, volume)
	if amount <= 0 {
		return 0
	}
	if dst.Type == Empty {
		dst.SetType(Water)
	}
	src.Fluid -= amount
	dst.Fluid += amount
	g.markDirty(src.Address)
	g.markDirty(dst.Address)
	g.stats.Transfers++
	g.stats.Moved += amount
	return amount
}

func (g *Grid) applySourcesAndSinks() {
	for _, addr := range g.sources {
		c := &g.cells[addr]
		if c.Type == Empty && Water.Capacity() > 0 {
			c.SetType(Water)
			g.markDirty(addr)
		}
		if c.Fluid != c.Capacity {
			c.Fluid = c.Capacity
			g.markDirty(addr)
		}
	}
	for _, addr := range g.sinks {
		c := &g.cells[addr]
		if c.Fluid != 0 {
			c.Fluid = 0
			g.markDirty(addr)
		}
	}
}
