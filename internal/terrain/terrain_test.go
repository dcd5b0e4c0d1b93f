package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluid-ca/internal/core"
)

func TestGenerateDeterministic(t *testing.T) {
	p := DefaultParams()
	p.Sources = 2
	p.Sinks = 2
	a := Generate(64, 96, p, core.NewRNG(7))
	b := Generate(64, 96, p, core.NewRNG(7))
	require.Equal(t, a.Pix, b.Pix)
}

func TestGenerateGroundBelowOpen(t *testing.T) {
	p := DefaultParams()
	const w, h = 48, 120
	img := Generate(w, h, p, core.NewRNG(3))
	heights := Heights(w, p, core.NewRNG(3))

	for x := 0; x < w; x++ {
		require.GreaterOrEqual(t, heights[x], p.GroundLevel)
		require.LessOrEqual(t, float64(heights[x]), float64(p.GroundLevel)+p.Amplitude+1)
		for y := 0; y < h; y++ {
			got := img.NRGBAAt(x, h-1-y)
			want := Open
			if y < heights[x] {
				want = Ground
			}
			if got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestGeneratePlacesSourcesAndSinks(t *testing.T) {
	p := DefaultParams()
	p.Sources = 3
	p.Sinks = 4
	const w, h = 32, 100
	img := Generate(w, h, p, core.NewRNG(11))

	sources, sinks := 0, 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch img.NRGBAAt(x, y) {
			case Source:
				sources++
				assert.Equal(t, 0, y, "sources sit on the top row")
			case Sink:
				sinks++
			}
		}
	}
	assert.Equal(t, 3, sources)
	assert.Equal(t, 4, sinks)
}

func TestGeneratePool(t *testing.T) {
	p := DefaultParams()
	p.GroundLevel = 2
	p.Amplitude = 0
	p.PoolLevel = 5
	const w, h = 8, 10
	img := Generate(w, h, p, core.NewRNG(1))
	for x := 0; x < w; x++ {
		assert.Equal(t, Ground, img.NRGBAAt(x, h-1-1))
		assert.Equal(t, Water, img.NRGBAAt(x, h-1-3))
		assert.Equal(t, Open, img.NRGBAAt(x, h-1-6))
	}
}
