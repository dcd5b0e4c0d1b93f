//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"fluid-ca/internal/core"
)

// GridPainter keeps an ebiten texture in sync with a Canvas and blits it
// scaled to the screen.
type GridPainter struct {
	canvas *Canvas
	img    *ebiten.Image
	dirty  bool
}

// NewGridPainter allocates a painter for a w x h grid.
func NewGridPainter(w, h int, bg color.RGBA) *GridPainter {
	c := NewCanvas(w, h, bg)
	s := c.Size()
	return &GridPainter{canvas: c, img: ebiten.NewImage(s.W, s.H), dirty: true}
}

// Apply queues pixel deltas for the next Draw.
func (p *GridPainter) Apply(px []core.Pixel) {
	if p.canvas.Apply(px) > 0 {
		p.dirty = true
	}
}

// Clear resets the canvas to the background.
func (p *GridPainter) Clear() {
	p.canvas.Clear()
	p.dirty = true
}

// Draw uploads pending changes and draws the grid at the given scale.
func (p *GridPainter) Draw(screen *ebiten.Image, scale int) {
	if p.dirty {
		p.img.WritePixels(p.canvas.Image().Pix)
		p.dirty = false
	}
	if scale <= 0 {
		scale = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(p.img, op)
}
