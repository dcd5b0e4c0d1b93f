// Package runner drives a sim without a window, fanning each tick's delta
// out to a canvas, a recording, a websocket hub and Prometheus metrics.
package runner

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"fluid-ca/internal/core"
	"fluid-ca/internal/logging"
	"fluid-ca/internal/metrics"
	"fluid-ca/internal/record"
	"fluid-ca/internal/render"
	"fluid-ca/internal/stream"
)

var background = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Option attaches an optional output.
type Option func(*Runner)

// WithMetrics observes every tick in c.
func WithMetrics(c *metrics.Collector) Option { return func(r *Runner) { r.metrics = c } }

// WithRecorder appends every frame to w.
func WithRecorder(w *record.Writer) Option { return func(r *Runner) { r.rec = w } }

// WithHub publishes every frame to h.
func WithHub(h *stream.Hub) Option { return func(r *Runner) { r.hub = h } }

// Runner owns the tick loop for one sim.
type Runner struct {
	sim     core.Sim
	log     *logging.Logger
	canvas  *render.Canvas
	metrics *metrics.Collector
	rec     *record.Writer
	hub     *stream.Hub

	tick uint64
	last core.TickStats
}

// New wraps sim and emits the sim's pending changes as frame 0.
func New(sim core.Sim, log *logging.Logger, opts ...Option) (*Runner, error) {
	size := sim.Size()
	r := &Runner{sim: sim, log: log, canvas: render.NewCanvas(size.W, size.H, background)}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.emit(r.stats(nil), sim.Changes()); err != nil {
		return nil, err
	}
	return r, nil
}

// Background is the color of cells the sim has not reported yet.
func Background() color.RGBA { return background }

// Canvas is the frame assembled from every delta so far.
func (r *Runner) Canvas() *render.Canvas { return r.canvas }

// Stats returns the statistics of the last tick.
func (r *Runner) Stats() core.TickStats { return r.last }

// Step advances the sim once and emits the resulting delta.
func (r *Runner) Step() error {
	start := time.Now()
	r.sim.Step()
	took := time.Since(start)
	r.tick++

	px := r.sim.Changes()
	st := r.stats(px)
	if r.metrics != nil {
		r.metrics.Observe(st, took)
	}
	return r.emit(st, px)
}

func (r *Runner) stats(px []core.Pixel) core.TickStats {
	if sp, ok := r.sim.(core.StatsProvider); ok {
		st := sp.Stats()
		st.Tick = r.tick
		return st
	}
	return core.TickStats{Tick: r.tick, Changed: len(px)}
}

func (r *Runner) emit(st core.TickStats, px []core.Pixel) error {
	r.last = st
	r.canvas.Apply(px)
	frame := record.Frame{Tick: r.tick, Stats: st, Pixels: px}
	if r.rec != nil {
		if err := r.rec.WriteFrame(frame); err != nil {
			return fmt.Errorf("record tick %d: %w", r.tick, err)
		}
	}
	if r.hub != nil {
		r.hub.Publish(frame)
	}
	return nil
}

// Run steps the sim until steps ticks have run or ctx is cancelled. A
// non-positive steps runs until cancellation. A positive tps paces the loop;
// otherwise it runs flat out. Progress is logged every logEvery ticks.
func (r *Runner) Run(ctx context.Context, steps, tps, logEvery int) error {
	var pace <-chan time.Time
	if tps > 0 {
		ticker := time.NewTicker(core.NewFixedStep(tps).Interval())
		defer ticker.Stop()
		pace = ticker.C
	}
	start := time.Now()
	for n := 0; steps <= 0 || n < steps; n++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Step(); err != nil {
			return err
		}
		if logEvery > 0 && r.tick%uint64(logEvery) == 0 {
			st := r.last
			r.log.Infof("tick %d mass=%.4f changed=%d transfers=%d moved=%.4f",
				st.Tick, st.Mass, st.Changed, st.Transfers, st.Moved)
		}
	}
	elapsed := time.Since(start)
	r.log.Infof("%s: %d ticks in %s", r.sim.Name(), r.tick, elapsed.Round(time.Millisecond))
	return nil
}
