package particles

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluid-ca/internal/core"
)

func TestParticleFalls(t *testing.T) {
	f := NewField(1, 3, core.NewRNG(1))
	assert.Equal(t, []int{0, 1, 2}, f.ReadAndClearChanged())
	f.Set(0, 2, Fluid)
	assert.Equal(t, []int{2}, f.ReadAndClearChanged())

	f.Step()
	assert.Equal(t, Fluid, f.Get(0, 1))
	assert.Equal(t, []int{1, 2}, f.ReadAndClearChanged())

	f.Step()
	assert.Equal(t, Fluid, f.Get(0, 0))
	assert.Equal(t, Empty, f.Get(0, 2))
	assert.Equal(t, Solid, f.Get(0, -1), "outside reads as solid")
}

func TestParticleSlidesIntoHole(t *testing.T) {
	f := NewField(5, 2, core.NewRNG(9))
	f.FlowMultiplier = 10
	for x := 0; x < 5; x++ {
		if x != 3 {
			f.Set(x, 0, Solid)
		}
	}
	f.Set(0, 1, Fluid)

	f.Step()
	assert.Equal(t, Fluid, f.Get(3, 0))
	assert.Equal(t, 1, f.Count(Fluid))
}

func TestParticlesConserved(t *testing.T) {
	f := randomField(40, 30, 4)
	fluid := f.Count(Fluid)
	solids := solidCells(f)
	require.Positive(t, fluid)

	for tick := 0; tick < 200; tick++ {
		f.Step()
		if got := f.Count(Fluid); got != fluid {
			t.Fatalf("tick %d: %d particles, want %d", tick, got, fluid)
		}
	}
	assert.Equal(t, solids, solidCells(f))
}

func TestParticlesDeterministic(t *testing.T) {
	a := randomField(24, 24, 12)
	b := randomField(24, 24, 12)
	for i := 0; i < 50; i++ {
		a.Step()
		b.Step()
	}
	assert.Equal(t, a.grid.Cells(), b.grid.Cells())
}

func TestSourcesAndSinks(t *testing.T) {
	f := NewField(5, 5, core.NewRNG(3))
	f.AddSource(2, 4)
	f.AddSource(2, 4)
	f.AddSink(2, 0)
	f.AddSink(9, 9)
	assert.Len(t, f.Sources(), 1)
	assert.Len(t, f.Sinks(), 1)

	for i := 0; i < 30; i++ {
		f.Step()
		require.Equal(t, Fluid, f.Get(2, 4))
		require.Equal(t, Empty, f.Get(2, 0))
	}
}

func TestDecode(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{R: 255, A: 255})

	f := NewField(3, 1, core.NewRNG(1))
	require.NoError(t, f.Decode(img))
	assert.Equal(t, Solid, f.Get(0, 0))
	assert.Equal(t, Fluid, f.Get(1, 0))
	assert.Equal(t, []int{2}, f.Sinks())

	err := f.Decode(image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestSimRegistered(t *testing.T) {
	sim, err := core.New("particles", map[string]string{"w": "32", "h": "48", "terrain": "false"})
	require.NoError(t, err)
	assert.Equal(t, core.Size{W: 32, H: 48}, sim.Size())
	sim.Changes()

	sp := sim.(core.StatsProvider)
	mass := sp.Stats().Mass
	require.Positive(t, mass)
	for i := 0; i < 10; i++ {
		sim.Step()
	}
	assert.Equal(t, mass, sp.Stats().Mass)
	assert.Equal(t, uint64(10), sp.Stats().Tick)

	sim.(core.Editor).Apply(core.ToolSink, 3, 0)
	assert.Equal(t, []core.Marker{{X: 3, Y: 0, Tool: core.ToolSink}}, sim.(core.MarkerProvider).Markers())

	sim.Changes()
	sim.(core.Editor).Apply(core.ToolSolid, 0, 0)
	assert.Equal(t, []core.Pixel{{X: 0, Y: 0, Color: color.RGBA{A: 255}}}, sim.Changes())
}

func randomField(w, h int, seed int64) *Field {
	layout := core.NewRNG(seed)
	f := NewField(w, h, core.NewRNG(seed))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch r := layout.Float64(); {
			case r < 0.1:
				f.Set(x, y, Solid)
			case r < 0.4:
				f.Set(x, y, Fluid)
			}
		}
	}
	return f
}

func solidCells(f *Field) []int {
	var out []int
	for i, v := range f.grid.Cells() {
		if v == Solid {
			out = append(out, i)
		}
	}
	return out
}
