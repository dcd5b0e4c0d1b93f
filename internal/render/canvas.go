// Package render turns sim change sets into images.
package render

import (
	"image"
	"image/color"

	"fluid-ca/internal/core"
)

// Canvas accumulates pixel deltas into a full RGBA frame.
type Canvas struct {
	img *image.RGBA
	bg  color.RGBA
}

// NewCanvas allocates a w x h canvas filled with bg.
func NewCanvas(w, h int, bg color.RGBA) *Canvas {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h)), bg: bg}
	c.Clear()
	return c
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() core.Size {
	b := c.img.Bounds()
	return core.Size{W: b.Dx(), H: b.Dy()}
}

// Clear resets every pixel to the background.
func (c *Canvas) Clear() {
	fillRGBA(c.img.Pix, c.bg)
}

// Apply writes the pixels that fall inside the canvas and returns how many
// were written.
func (c *Canvas) Apply(px []core.Pixel) int {
	b := c.img.Bounds()
	n := 0
	for _, p := range px {
		if p.X < 0 || p.Y < 0 || p.X >= b.Dx() || p.Y >= b.Dy() {
			continue
		}
		base := c.img.PixOffset(p.X, p.Y)
		buf := c.img.Pix[base : base+4 : base+4]
		buf[0] = p.Color.R
		buf[1] = p.Color.G
		buf[2] = p.Color.B
		buf[3] = p.Color.A
		n++
	}
	return n
}

// Image exposes the backing image. Callers must not retain it across Apply
// calls from another goroutine.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Pixels returns the whole frame as a pixel list, row by row.
func (c *Canvas) Pixels() []core.Pixel {
	s := c.Size()
	out := make([]core.Pixel, 0, s.W*s.H)
	for y := 0; y < s.H; y++ {
		for x := 0; x < s.W; x++ {
			out = append(out, core.Pixel{X: x, Y: y, Color: c.img.RGBAAt(x, y)})
		}
	}
	return out
}

func fillRGBA(buf []byte, col color.RGBA) {
	for base := 0; base+3 < len(buf); base += 4 {
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
