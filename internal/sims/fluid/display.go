package fluid

import (
	"image/color"
	"math"
)

var (
	rockColor       = color.NRGBA{R: 58, G: 52, B: 48, A: 255}
	backgroundColor = color.NRGBA{R: 232, G: 236, B: 240, A: 255}
	shallowColor    = color.NRGBA{R: 120, G: 180, B: 235, A: 255}
	deepColor       = color.NRGBA{R: 20, G: 60, B: 170, A: 255}
)

// ColorFor maps a cell to its display color. Water shades from shallow to
// deep with its fill level; an overfilled cell renders as full.
func ColorFor(s CellState) color.RGBA {
	switch {
	case s.Type == Rock:
		return toRGBA(rockColor)
	case s.Type == Water && s.Fluid > 0 && s.Capacity > 0:
		level := math.Min(s.Fluid/s.Capacity, 1)
		// Thin films still need to read as water against the background.
		base := blendColors(backgroundColor, shallowColor, math.Min(level*4, 1))
		return toRGBA(blendColors(base, deepColor, level))
	default:
		return toRGBA(backgroundColor)
	}
}

func toRGBA(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func blendColors(base, overlay color.NRGBA, overlayWeight float64) color.NRGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	br, bg, bb, ba := float64(base.R), float64(base.G), float64(base.B), float64(base.A)
	or, og, ob, oa := float64(overlay.R), float64(overlay.G), float64(overlay.B), float64(overlay.A)
	w := overlayWeight
	inv := 1 - w
	return color.NRGBA{
		R: uint8(br*inv + or*w + 0.5),
		G: uint8(bg*inv + og*w + 0.5),
		B: uint8(bb*inv + ob*w + 0.5),
		A: uint8(ba*inv + oa*w + 0.5),
	}
}
