package core

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
// Coordinates outside the grid read as the configured border value.
type ByteGrid struct {
	W, H   int
	border uint8
	data   []uint8
}

// NewByteGrid allocates a grid with the given dimensions. Non-positive
// dimensions are clamped to 1.
func NewByteGrid(w, h int, border uint8) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, border: border, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// InBounds reports whether (x, y) lies inside the grid.
func (g *ByteGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Get returns the value at (x, y), or the border value outside the grid.
func (g *ByteGrid) Get(x, y int) uint8 {
	if !g.InBounds(x, y) {
		return g.border
	}
	return g.data[y*g.W+x]
}

// Set writes v at (x, y) and reports whether the stored value changed.
// Writes outside the grid are ignored.
func (g *ByteGrid) Set(x, y int, v uint8) bool {
	if !g.InBounds(x, y) {
		return false
	}
	idx := y*g.W + x
	if g.data[idx] == v {
		return false
	}
	g.data[idx] = v
	return true
}

// Fill sets every cell to v.
func (g *ByteGrid) Fill(v uint8) {
	for i := range g.data {
		g.data[i] = v
	}
}
