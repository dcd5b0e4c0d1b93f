// Package terrain generates layout images for the material simulations. The
// output uses the same palette the sims decode: black ground, white open
// space, blue water, green sources and red sinks.
package terrain

import (
	"image"
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"

	"fluid-ca/internal/core"
)

// Params controls the generated landscape.
type Params struct {
	Enabled bool `yaml:"enabled"`

	// GroundLevel is the base height of the ground in rows from the bottom.
	GroundLevel int `yaml:"ground_level"`
	// Amplitude scales the noise added on top of GroundLevel.
	Amplitude float64 `yaml:"amplitude"`

	Frequency   float64 `yaml:"frequency"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`

	Sources int `yaml:"sources"`
	Sinks   int `yaml:"sinks"`
	// PoolLevel floods open cells below this row with water. Zero disables it.
	PoolLevel int `yaml:"pool_level"`
}

// DefaultParams returns a gentle landscape with no sources or sinks.
func DefaultParams() Params {
	return Params{
		GroundLevel: 24,
		Amplitude:   48,
		Frequency:   0.03,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2,
	}
}

var (
	Ground = color.NRGBA{A: 255}
	Open   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Water  = color.NRGBA{B: 255, A: 255}
	Source = color.NRGBA{G: 255, A: 255}
	Sink   = color.NRGBA{R: 255, A: 255}
)

// Heights returns the ground height of each column, in rows from the bottom.
func Heights(width int, p Params, rng *core.RNG) []int {
	p = normalize(p)
	noise := perlin.NewPerlin(1/p.Persistence, p.Lacunarity, int32(p.Octaves), rng.Source().Int64())
	heights := make([]int, width)
	for x := range heights {
		n := noise.Noise1D(float64(x) * p.Frequency)
		n = math.Min(math.Max((n+1)/2, 0), 1)
		heights[x] = int(math.Ceil(float64(p.GroundLevel) + p.Amplitude*n))
	}
	return heights
}

// Generate renders a width x height layout image. Image row 0 is the top of
// the world.
func Generate(width, height int, p Params, rng *core.RNG) *image.NRGBA {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	heights := Heights(width, p, rng)

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			c := Open
			switch {
			case y < heights[x]:
				c = Ground
			case y < p.PoolLevel:
				c = Water
			}
			img.SetNRGBA(x, height-1-y, c)
		}
	}

	cols := rng.Perm(width)
	for i := 0; i < p.Sources && i < len(cols); i++ {
		img.SetNRGBA(cols[i], 0, Source)
	}
	cols = rng.Perm(width)
	for i := 0; i < p.Sinks && i < len(cols); i++ {
		x := cols[i]
		y := heights[x]
		if y >= height {
			continue
		}
		img.SetNRGBA(x, height-1-y, Sink)
	}
	return img
}

func normalize(p Params) Params {
	if p.Octaves < 1 {
		p.Octaves = 1
	}
	if p.Persistence <= 0 {
		p.Persistence = 0.5
	}
	if p.Lacunarity <= 0 {
		p.Lacunarity = 2
	}
	if p.Frequency <= 0 {
		p.Frequency = 0.03
	}
	return p
}
