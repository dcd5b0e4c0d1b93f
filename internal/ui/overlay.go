//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"fluid-ca/internal/core"
)

type maskProvider interface {
	FillMask() []float32
	OverfillMask() []float32
}

var (
	sourceTint   = color.RGBA{R: 40, G: 210, B: 90, A: 230}
	sinkTint     = color.RGBA{R: 230, G: 60, B: 50, A: 230}
	brushTint    = color.RGBA{R: 250, G: 250, B: 250, A: 160}
	fillTint     = color.RGBA{R: 64, G: 164, B: 223, A: 0}
	overfillTint = color.RGBA{R: 255, G: 120, B: 40, A: 0}
)

// Overlay draws debugging visuals on top of the grid: source and sink
// markers, fill and overfill heat maps and the brush outline.
type Overlay struct {
	sim   core.Sim
	scale int

	showMarkers  bool
	showFill     bool
	showOverfill bool

	maskImg *ebiten.Image
	maskBuf []byte
	pixel   *ebiten.Image
}

// NewOverlay constructs an overlay for sim drawn at scale.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{sim: sim, scale: scale, showMarkers: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers: 1 markers, 2 fill level, 3 overfill.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showMarkers = !o.showMarkers
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showFill = !o.showFill
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showOverfill = !o.showOverfill
	}
}

// Draw renders the enabled layers.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if provider, ok := o.sim.(maskProvider); ok {
		if o.showFill {
			o.drawMask(screen, provider.FillMask(), fillTint)
		}
		if o.showOverfill {
			o.drawMask(screen, provider.OverfillMask(), overfillTint)
		}
	}
	if o.showMarkers {
		if provider, ok := o.sim.(core.MarkerProvider); ok {
			s := float64(o.scale)
			for _, m := range provider.Markers() {
				tint := sourceTint
				if m.Tool == core.ToolSink {
					tint = sinkTint
				}
				o.drawPoint(screen, (float64(m.X)+0.5)*s, (float64(m.Y)+0.5)*s, math.Max(s, 3), tint)
			}
		}
	}
}

// DrawBrush outlines a brush of radius cells centred on cell (cx, cy).
func (o *Overlay) DrawBrush(screen *ebiten.Image, cx, cy, radius int) {
	const segments = 24
	s := float64(o.scale)
	x0 := (float64(cx) + 0.5) * s
	y0 := (float64(cy) + 0.5) * s
	r := (float64(radius) + 0.5) * s
	for i := 0; i < segments; i++ {
		a1 := 2 * math.Pi * float64(i) / segments
		a2 := 2 * math.Pi * float64(i+1) / segments
		o.drawLine(screen, x0+r*math.Cos(a1), y0+r*math.Sin(a1), x0+r*math.Cos(a2), y0+r*math.Sin(a2), 1, brushTint)
	}
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 || thickness <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []float32, tint color.RGBA) {
	size := o.sim.Size()
	total := size.W * size.H
	if len(mask) != total || total == 0 {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
	}
	const (
		maxAlpha      = 150.0
		glowBase      = 0.35
		glowRange     = 0.65
		intensityBias = 0.6
	)
	for i, v := range mask {
		base := i * 4
		intensity := clamp01(float64(v))
		if intensity == 0 {
			o.maskBuf[base+0] = 0
			o.maskBuf[base+1] = 0
			o.maskBuf[base+2] = 0
			o.maskBuf[base+3] = 0
			continue
		}
		// Premultiplied alpha.
		alpha := maxAlpha * math.Pow(intensity, intensityBias) / 255
		glow := (glowBase + glowRange*math.Sqrt(intensity)) * alpha
		o.maskBuf[base+0] = scaleColorComponent(tint.R, glow)
		o.maskBuf[base+1] = scaleColorComponent(tint.G, glow)
		o.maskBuf[base+2] = scaleColorComponent(tint.B, glow)
		o.maskBuf[base+3] = uint8(math.Round(alpha * 255))
	}
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.maskImg, op)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scaleColorComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
