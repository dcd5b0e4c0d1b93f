// Command fluid-headless runs a sim without a window. Frames can be recorded,
// streamed to websocket observers and summarised as Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"fluid-ca/internal/app"
	"fluid-ca/internal/core"
	"fluid-ca/internal/logging"
	"fluid-ca/internal/metrics"
	"fluid-ca/internal/record"
	"fluid-ca/internal/runner"
	"fluid-ca/internal/stream"
	"fluid-ca/internal/terrain"

	_ "fluid-ca/internal/sims/fluid"
	_ "fluid-ca/internal/sims/particles"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	steps := flag.Int("steps", 1000, "ticks to run, 0 runs until interrupted")
	logEvery := flag.Int("log-every", 100, "log statistics every N ticks, 0 disables")
	recordPath := flag.String("record", "", "write a zstd frame recording to this path")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus /metrics on this address")
	wsAddr := flag.String("ws-addr", "", "stream frames to websocket observers at /ws on this address")
	pngPath := flag.String("png", "", "write the final frame as PNG")
	flag.Parse()

	log := logging.New("headless")
	if lvl, err := logging.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	} else {
		log.Warnf("%v, using %s", err, log.Level())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim, err := core.New(cfg.Sim, cfg.SimOptions())
	if err != nil {
		log.Fatalf("create sim: %v", err)
	}
	size := sim.Size()

	// Ticks are not paced unless a live observer needs them to be.
	tps := 0
	var opts []runner.Option

	if *metricsAddr != "" {
		m := metrics.New(sim.Name())
		opts = append(opts, runner.WithMetrics(m))
		go func() {
			if err := m.Serve(ctx, *metricsAddr, logging.New("metrics")); err != nil {
				log.Errorf("metrics: %v", err)
			}
		}()
	}
	if *wsAddr != "" {
		hub := stream.NewHub(sim.Name(), size, runner.Background(), logging.New("stream"))
		opts = append(opts, runner.WithHub(hub))
		tps = cfg.TPS
		go func() {
			if err := hub.Serve(ctx, *wsAddr); err != nil {
				log.Errorf("stream: %v", err)
			}
		}()
	}
	var rec *record.Writer
	if *recordPath != "" {
		rec, err = record.Create(*recordPath, record.Header{Sim: sim.Name(), Width: size.W, Height: size.H, Seed: cfg.Seed})
		if err != nil {
			log.Fatalf("create recording: %v", err)
		}
		opts = append(opts, runner.WithRecorder(rec))
	}

	r, err := runner.New(sim, log, opts...)
	if err != nil {
		log.Fatalf("start: %v", err)
	}
	log.Infof("running %s %dx%d seed=%d", sim.Name(), size.W, size.H, cfg.Seed)

	runErr := r.Run(ctx, *steps, tps, *logEvery)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Errorf("run: %v", runErr)
	}

	if rec != nil {
		if err := rec.Close(); err != nil {
			log.Errorf("close recording: %v", err)
		} else {
			log.Infof("recorded %d ticks to %s", r.Stats().Tick, *recordPath)
		}
	}
	if *pngPath != "" {
		if err := terrain.Save(*pngPath, r.Canvas().Image()); err != nil {
			log.Errorf("write png: %v", err)
		} else {
			log.Infof("wrote %s", *pngPath)
		}
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		os.Exit(1)
	}
}
