package fluid

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// ErrDimensionMismatch is returned when a layout image does not match the grid size.
var ErrDimensionMismatch = errors.New("fluid: layout dimensions do not match grid")

// colorThreshold is the largest summed RGB distance still treated as a match.
const colorThreshold = 0.1

var (
	layoutRock   = color.NRGBA{A: 255}
	layoutWater  = color.NRGBA{B: 255, A: 255}
	layoutSource = color.NRGBA{G: 255, A: 255}
	layoutSink   = color.NRGBA{R: 255, A: 255}
)

// LayoutColors returns the reference colors recognised by Decode in the
// order they are tested: rock, water, source, sink.
func LayoutColors() [4]color.NRGBA {
	return [4]color.NRGBA{layoutRock, layoutWater, layoutSource, layoutSink}
}

// NewGridFromImage builds a grid sized to img and decodes it.
func NewGridFromImage(img image.Image) *Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())
	// Sizes match by construction.
	_ = g.Decode(img)
	return g
}

// Decode classifies each pixel of img into the grid. Black is rock, blue is
// full water, green registers a source, red registers a sink and anything
// else, fully transparent pixels included, is dry water. Image row 0 is the
// top of the world. Previously registered sources and sinks are dropped and
// all momentum is cleared.
//
// A size mismatch returns ErrDimensionMismatch and leaves the grid untouched.
func (g *Grid) Decode(img image.Image) error {
	b := img.Bounds()
	if b.Dx() != g.width || b.Dy() != g.height {
		return fmt.Errorf("%w: image %dx%d, grid %dx%d", ErrDimensionMismatch, b.Dx(), b.Dy(), g.width, g.height)
	}
	g.sources = g.sources[:0]
	g.sinks = g.sinks[:0]
	for i := range g.cells {
		g.cells[i].Momentum = Vec2{}
	}
	for iy := 0; iy < g.height; iy++ {
		y := g.height - 1 - iy
		for x := 0; x < g.width; x++ {
			px := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+iy)).(color.NRGBA)
			addr := y*g.width + x
			c := &g.cells[addr]
			switch {
			case px.A == 0:
				c.SetType(Water)
				c.Fluid = 0
			case colorDistance(px, layoutRock) < colorThreshold:
				c.SetType(Rock)
				c.Fluid = 0
			case colorDistance(px, layoutWater) < colorThreshold:
				c.SetType(Water)
				c.Fluid = c.Capacity
			case colorDistance(px, layoutSource) < colorThreshold:
				g.sources = append(g.sources, addr)
				continue
			case colorDistance(px, layoutSink) < colorThreshold:
				g.sinks = append(g.sinks, addr)
				continue
			default:
				c.SetType(Water)
				c.Fluid = 0
			}
			g.markDirty(addr)
		}
	}
	return nil
}

// colorDistance sums the absolute channel differences in [0, 1] units.
func colorDistance(a, b color.NRGBA) float64 {
	return (math.Abs(float64(a.R)-float64(b.R)) +
		math.Abs(float64(a.G)-float64(b.G)) +
		math.Abs(float64(a.B)-float64(b.B))) / 255
}
