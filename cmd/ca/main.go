//go:build ebiten

package main

import (
	"errors"
	"flag"

	"github.com/hajimehoshi/ebiten/v2"

	"fluid-ca/internal/app"
	"fluid-ca/internal/core"
	"fluid-ca/internal/logging"
	_ "fluid-ca/internal/sims/fluid"
	_ "fluid-ca/internal/sims/particles"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	log := logging.New("ca")
	if lvl, err := logging.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	} else {
		log.Warnf("%v, using %s", err, log.Level())
	}

	sim, err := core.New(cfg.Sim, cfg.SimOptions())
	if err != nil {
		log.Fatalf("create sim: %v", err)
	}

	game := app.New(sim, cfg, log)
	size := sim.Size()
	log.Infof("running %s %dx%d at %d tps", sim.Name(), size.W, size.H, cfg.TPS)

	ebiten.SetWindowTitle("fluid-ca: " + sim.Name())
	ebiten.SetTPS(ebiten.SyncWithFPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+max(cfg.HUDWidth, 0), size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalf("%v", err)
	}
}
