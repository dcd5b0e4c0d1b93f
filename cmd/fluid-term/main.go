// Command fluid-term runs a sim inside a text terminal.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"fluid-ca/internal/app"
	"fluid-ca/internal/core"
	"fluid-ca/internal/logging"
	"fluid-ca/internal/term"

	_ "fluid-ca/internal/sims/fluid"
	_ "fluid-ca/internal/sims/particles"
)

func main() {
	cfg := app.NewConfig()
	cfg.Width, cfg.Height = 80, 36
	cfg.TPS = 20
	cfg.Brush = 1
	cfg.Bind(flag.CommandLine)
	logPath := flag.String("logfile", "fluid-term.log", "log destination while the terminal is in use")
	flag.Parse()

	// The terminal owns stdout, so logs go to a file.
	f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logging.New("term").Fatalf("open log: %v", err)
	}
	defer f.Close()
	log := logging.NewWithWriter("term", f)
	if lvl, err := logging.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	sim, err := core.New(cfg.Sim, cfg.SimOptions())
	if err != nil {
		log.Fatalf("create sim: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	screen := term.NewScreen(sim, cfg.Seed, cfg.TPS, cfg.Brush, log)
	if err := screen.Run(ctx); err != nil {
		log.Errorf("terminal: %v", err)
		os.Exit(1)
	}
}
