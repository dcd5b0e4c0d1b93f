// Package particles implements a discrete falling-sand style fluid: each cell
// is empty, solid or one fluid particle. Particles fall, slip diagonally and
// slide along surfaces.
package particles

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"

	"fluid-ca/internal/core"
)

// Kind is the content of one cell.
type Kind = uint8

const (
	Empty Kind = iota
	Solid
	Fluid
)

// DefaultFlowMultiplier bounds how far a particle slides in one move.
const DefaultFlowMultiplier = 4

// ErrDimensionMismatch is returned when a layout image does not match the field size.
var ErrDimensionMismatch = errors.New("particles: layout dimensions do not match field")

// Field holds the particle lattice. Row 0 is the bottom; out-of-bounds reads
// as Solid.
type Field struct {
	grid *core.ByteGrid
	rng  *core.RNG

	// FlowMultiplier is the longest slide a particle makes along a surface.
	FlowMultiplier int

	reversed    bool
	changed     []int
	changedMark []bool
	sources     []int
	sinks       []int
}

// NewField allocates an empty w x h field with every cell marked changed.
// The RNG breaks left/right ties.
func NewField(w, h int, rng *core.RNG) *Field {
	g := core.NewByteGrid(w, h, Solid)
	f := &Field{
		grid:           g,
		rng:            rng,
		FlowMultiplier: DefaultFlowMultiplier,
		changedMark:    make([]bool, g.W*g.H),
	}
	for i := range f.changedMark {
		f.mark(i)
	}
	return f
}

// Size returns the field dimensions.
func (f *Field) Size() core.Size { return core.Size{W: f.grid.W, H: f.grid.H} }

// Get returns the kind at (x, y).
func (f *Field) Get(x, y int) Kind { return f.grid.Get(x, y) }

// Set writes the kind at (x, y), recording the change.
func (f *Field) Set(x, y int, k Kind) {
	if f.grid.Set(x, y, k) {
		f.mark(f.grid.Index(x, y))
	}
}

// AddSource registers (x, y) to be refilled every tick.
func (f *Field) AddSource(x, y int) {
	if i := f.grid.Index(x, y); f.grid.InBounds(x, y) && !slices.Contains(f.sources, i) {
		f.sources = append(f.sources, i)
	}
}

// AddSink registers (x, y) to be emptied every tick.
func (f *Field) AddSink(x, y int) {
	if i := f.grid.Index(x, y); f.grid.InBounds(x, y) && !slices.Contains(f.sinks, i) {
		f.sinks = append(f.sinks, i)
	}
}

// Sources returns a copy of the source addresses.
func (f *Field) Sources() []int { return slices.Clone(f.sources) }

// Sinks returns a copy of the sink addresses.
func (f *Field) Sinks() []int { return slices.Clone(f.sinks) }

// Count returns how many cells hold k.
func (f *Field) Count(k Kind) int {
	n := 0
	for _, v := range f.grid.Cells() {
		if v == k {
			n++
		}
	}
	return n
}

// Decode loads a layout image: black is solid, blue is fluid, green and red
// register sources and sinks, anything else (transparent included) is empty.
func (f *Field) Decode(img image.Image) error {
	b := img.Bounds()
	if b.Dx() != f.grid.W || b.Dy() != f.grid.H {
		return fmt.Errorf("%w: image %dx%d, field %dx%d", ErrDimensionMismatch, b.Dx(), b.Dy(), f.grid.W, f.grid.H)
	}
	for iy := 0; iy < f.grid.H; iy++ {
		y := f.grid.H - 1 - iy
		for x := 0; x < f.grid.W; x++ {
			px := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+iy)).(color.NRGBA)
			switch {
			case px.A == 0:
				f.Set(x, y, Empty)
			case near(px, color.NRGBA{}):
				f.Set(x, y, Solid)
			case near(px, color.NRGBA{B: 255}):
				f.Set(x, y, Fluid)
			case near(px, color.NRGBA{G: 255}):
				f.AddSource(x, y)
			case near(px, color.NRGBA{R: 255}):
				f.AddSink(x, y)
			default:
				f.Set(x, y, Empty)
			}
		}
	}
	return nil
}

func near(a, b color.NRGBA) bool {
	d := absDiff(a.R, b.R) + absDiff(a.G, b.G) + absDiff(a.B, b.B)
	return float64(d)/255 < 0.1
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// ReadAndClearChanged returns the addresses changed since the last call in
// ascending order.
func (f *Field) ReadAndClearChanged() []int {
	if len(f.changed) == 0 {
		return nil
	}
	out := slices.Clone(f.changed)
	slices.Sort(out)
	for _, i := range out {
		f.changedMark[i] = false
	}
	f.changed = f.changed[:0]
	return out
}

func (f *Field) mark(i int) {
	if f.changedMark[i] {
		return
	}
	f.changedMark[i] = true
	f.changed = append(f.changed, i)
}
