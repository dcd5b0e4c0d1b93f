package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluid-ca/internal/core"
)

type bareSim struct{}

func (bareSim) Name() string          { return "bare" }
func (bareSim) Size() core.Size       { return core.Size{W: 2, H: 2} }
func (bareSim) Reset(int64)           {}
func (bareSim) Step()                 {}
func (bareSim) Changes() []core.Pixel { return nil }

type fakeSim struct {
	bareSim
	stats core.TickStats
}

func (f *fakeSim) Stats() core.TickStats { return f.stats }

func TestStatusLines(t *testing.T) {
	sim := &fakeSim{stats: core.TickStats{Tick: 12, Mass: 3.25, Changed: 7, Transfers: 40}}
	lines := StatusLines(sim, Status{Tool: core.ToolSink, Brush: 3, Paused: true, TPS: 30})
	require.Len(t, lines, statusRows)
	assert.Equal(t, "paused  30 tps", lines[0])
	assert.Equal(t, "tool sink  brush 3", lines[1])
	assert.Equal(t, "tick 12", lines[2])
	assert.Equal(t, "mass 3.250", lines[3])
	assert.Equal(t, "changed 7  moves 40", lines[4])
}

func TestStatusLinesWithoutStats(t *testing.T) {
	lines := StatusLines(bareSim{}, Status{Tool: core.ToolFluid, TPS: 60})
	assert.Equal(t, []string{"running  60 tps", "tool fluid  brush 0"}, lines)
}
