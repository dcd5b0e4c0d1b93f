package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluid-ca/internal/core"
)

func TestCanvasApply(t *testing.T) {
	bg := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	c := NewCanvas(3, 2, bg)
	assert.Equal(t, core.Size{W: 3, H: 2}, c.Size())
	assert.Equal(t, bg, c.Image().RGBAAt(2, 1))

	blue := color.RGBA{B: 200, A: 255}
	n := c.Apply([]core.Pixel{
		{X: 1, Y: 0, Color: blue},
		{X: 3, Y: 0, Color: blue},
		{X: 0, Y: -1, Color: blue},
	})
	assert.Equal(t, 1, n)
	assert.Equal(t, blue, c.Image().RGBAAt(1, 0))

	px := c.Pixels()
	require.Len(t, px, 6)
	assert.Equal(t, core.Pixel{X: 1, Y: 0, Color: blue}, px[1])
	assert.Equal(t, core.Pixel{X: 0, Y: 1, Color: bg}, px[3])

	c.Clear()
	assert.Equal(t, bg, c.Image().RGBAAt(1, 0))
}
