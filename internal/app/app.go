//go:build ebiten

package app

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"fluid-ca/internal/core"
	"fluid-ca/internal/logging"
	"fluid-ca/internal/render"
	"fluid-ca/internal/ui"
)

var background = color.RGBA{R: 232, G: 236, B: 240, A: 255}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	editor  core.Editor
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	stepper *core.FixedStep
	log     *logging.Logger

	scale    int
	hudWidth int
	tps      int
	paused   bool
	tickOnce bool
	seed     int64

	tool  core.Tool
	brush int

	cursorX, cursorY int
	cursorIn         bool
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg *Config, log *logging.Logger) *Game {
	size := sim.Size()
	g := &Game{
		sim:      sim,
		painter:  render.NewGridPainter(size.W, size.H, background),
		overlay:  ui.NewOverlay(sim, cfg.Scale),
		hud:      ui.NewHUD(sim, cfg.HUDWidth),
		stepper:  core.NewFixedStep(cfg.TPS),
		log:      log,
		scale:    max(cfg.Scale, 1),
		hudWidth: max(cfg.HUDWidth, 0),
		tps:      cfg.TPS,
		seed:     cfg.Seed,
		brush:    max(cfg.Brush, 0),
	}
	g.editor, _ = sim.(core.Editor)
	g.painter.Apply(sim.Changes())
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.painter.Clear()
	g.painter.Apply(g.sim.Changes())
	g.tickOnce = false
	g.log.Infof("reset %s seed=%d", g.sim.Name(), seed)
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.tool = g.tool.Next()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) && g.brush > 0 {
		g.brush--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) && g.brush < 32 {
		g.brush++
	}

	g.handleMouse()
	g.overlay.Update()
	g.hud.Update(g.sim.Size().W*g.scale, ui.Status{Tool: g.tool, Brush: g.brush, Paused: g.paused, TPS: g.tps})

	if (!g.paused && g.stepper.ShouldStep()) || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	g.painter.Apply(g.sim.Changes())
	return nil
}

func (g *Game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	g.cursorX, g.cursorY, g.cursorIn = ScreenToCell(mx, my, g.scale, g.sim.Size())
	if g.editor == nil || !g.cursorIn {
		return
	}
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		Paint(g.editor, g.tool, g.cursorX, g.cursorY, g.brush)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		Paint(g.editor, core.ToolErase, g.cursorX, g.cursorY, g.brush)
	}
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Draw(screen, g.scale)
	g.overlay.Draw(screen)
	if g.cursorIn && g.editor != nil {
		g.overlay.DrawBrush(screen, g.cursorX, g.cursorY, g.brush)
	}
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
