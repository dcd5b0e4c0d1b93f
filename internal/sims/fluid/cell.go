package fluid

// Vec2 is a 2D real vector.
type Vec2 struct {
	X, Y float64
}

// Cell is the state held at one lattice point.
type Cell struct {
	Address  int
	X, Y     int
	Type     Material
	Fluid    float64
	Capacity float64
	Momentum Vec2
}

// SetType reassigns the material and its capacity. Fluid is left as is, so
// callers turning a wet cell into Rock must zero it themselves.
func (c *Cell) SetType(m Material) {
	c.Type = m
	c.Capacity = m.Capacity()
}

// FreeVolume is the remaining room in the cell. Negative means overfilled.
func (c Cell) FreeVolume() float64 {
	return c.Capacity - c.Fluid
}

// boundary stands in for every coordinate outside the grid.
var boundary = Cell{Address: -1, Type: Rock}
