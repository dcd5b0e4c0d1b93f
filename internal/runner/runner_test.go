package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluid-ca/internal/core"
	"fluid-ca/internal/logging"
	"fluid-ca/internal/metrics"
	"fluid-ca/internal/record"
	_ "fluid-ca/internal/sims/fluid"
)

func quiet() *logging.Logger { return logging.NewWithWriter("runner", io.Discard) }

func newSim(t *testing.T) core.Sim {
	t.Helper()
	sim, err := core.New("fluid", map[string]string{"w": "8", "h": "6", "terrain": "false", "disc_radius": "3"})
	require.NoError(t, err)
	return sim
}

func TestRunnerRecordsEveryTick(t *testing.T) {
	sim := newSim(t)
	var buf bytes.Buffer
	w, err := record.NewWriter(&buf, record.Header{Version: record.Version, Sim: sim.Name(), Width: 8, Height: 6})
	require.NoError(t, err)
	m := metrics.New(sim.Name())

	r, err := New(sim, quiet(), WithRecorder(w), WithMetrics(m))
	require.NoError(t, err)
	mass := r.Stats().Mass
	require.Greater(t, mass, 0.0)

	require.NoError(t, r.Run(context.Background(), 5, 0, 2))
	require.NoError(t, w.Close())
	assert.Equal(t, uint64(5), r.Stats().Tick)

	rd, err := record.NewReader(&buf)
	require.NoError(t, err)
	defer rd.Close()
	assert.Equal(t, "fluid", rd.Header.Sim)

	var ticks []uint64
	for {
		f, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		if f.Tick == 0 {
			assert.Len(t, f.Pixels, 8*6)
		}
		assert.InDelta(t, mass, f.Stats.Mass, 1e-9)
		ticks = append(ticks, f.Tick)
	}
	assert.Equal(t, []uint64{0, 1, 2, 3, 4, 5}, ticks)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `fluidca_ticks_total{sim="fluid"} 5`)
}

func TestRunnerCanvasTracksSim(t *testing.T) {
	sim := newSim(t)
	r, err := New(sim, quiet())
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		require.NoError(t, r.Step())
	}

	fresh := newSim(t)
	fr, err := New(fresh, quiet())
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		fresh.Step()
	}
	fr.Canvas().Apply(fresh.Changes())
	assert.Equal(t, fr.Canvas().Image().Pix, r.Canvas().Image().Pix)
}

func TestRunnerStopsOnCancel(t *testing.T) {
	r, err := New(newSim(t), quiet())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = r.Run(ctx, 0, 1000, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, r.Stats().Tick, uint64(0))
}
