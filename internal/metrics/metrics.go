// Package metrics exports per-tick simulation statistics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fluid-ca/internal/core"
	"fluid-ca/internal/logging"
)

// Collector owns a private registry so several sims can run in one process.
type Collector struct {
	reg *prometheus.Registry

	ticks     prometheus.Counter
	transfers prometheus.Counter
	moved     prometheus.Counter
	changed   prometheus.Gauge
	mass      prometheus.Gauge
	stepTime  prometheus.Histogram
}

// New registers the tick metrics for the named sim.
func New(sim string) *Collector {
	labels := prometheus.Labels{"sim": sim}
	c := &Collector{
		reg: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "fluidca",
			Name:        "ticks_total",
			Help:        "Simulation ticks completed.",
			ConstLabels: labels,
		}),
		transfers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "fluidca",
			Name:        "transfers_total",
			Help:        "Fluid transfers between neighbouring cells.",
			ConstLabels: labels,
		}),
		moved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "fluidca",
			Name:        "fluid_moved_total",
			Help:        "Fluid volume moved by transfers.",
			ConstLabels: labels,
		}),
		changed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "fluidca",
			Name:        "changed_cells",
			Help:        "Cells changed during the last tick.",
			ConstLabels: labels,
		}),
		mass: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "fluidca",
			Name:        "fluid_mass",
			Help:        "Total fluid held by the grid.",
			ConstLabels: labels,
		}),
		stepTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "fluidca",
			Name:        "step_duration_seconds",
			Help:        "Wall time spent in Step.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
	}
	c.reg.MustRegister(c.ticks, c.transfers, c.moved, c.changed, c.mass, c.stepTime)
	return c
}

// Observe records one tick.
func (c *Collector) Observe(st core.TickStats, took time.Duration) {
	c.ticks.Inc()
	c.transfers.Add(float64(st.Transfers))
	if st.Moved > 0 {
		c.moved.Add(st.Moved)
	}
	c.changed.Set(float64(st.Changed))
	c.mass.Set(st.Mass)
	c.stepTime.Observe(took.Seconds())
}

// Registry exposes the collector's registry.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string, log *logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infof("serving /metrics on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
