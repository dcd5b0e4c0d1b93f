package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedStepPacing(t *testing.T) {
	fs := NewFixedStep(10)
	require.Equal(t, 100*time.Millisecond, fs.Interval())

	t0 := time.Unix(1000, 0)
	assert.True(t, fs.Advance(t0), "first tick fires immediately")
	assert.False(t, fs.Advance(t0.Add(50*time.Millisecond)))
	assert.True(t, fs.Advance(t0.Add(100*time.Millisecond)))

	// A long stall yields at most two back-to-back ticks.
	stalled := t0.Add(time.Second)
	assert.True(t, fs.Advance(stalled))
	assert.True(t, fs.Advance(stalled))
	assert.False(t, fs.Advance(stalled))
}

func TestFixedStepDefaultsTPS(t *testing.T) {
	fs := NewFixedStep(0)
	assert.Equal(t, time.Second/60, fs.Interval())
}

func TestByteGridBorder(t *testing.T) {
	g := NewByteGrid(3, 2, 7)
	require.Len(t, g.Cells(), 6)

	assert.True(t, g.Set(2, 1, 4))
	assert.False(t, g.Set(2, 1, 4), "unchanged write reports false")
	assert.False(t, g.Set(3, 0, 1), "out of bounds write is ignored")

	assert.Equal(t, uint8(4), g.Get(2, 1))
	assert.Equal(t, uint8(4), g.Cells()[g.Index(2, 1)])
	assert.Equal(t, uint8(7), g.Get(-1, 0))
	assert.Equal(t, uint8(7), g.Get(0, 2))

	g.Fill(1)
	for i, v := range g.Cells() {
		if v != 1 {
			t.Fatalf("cell %d = %d after Fill, want 1", i, v)
		}
	}
}

func TestByteGridClampsDimensions(t *testing.T) {
	g := NewByteGrid(0, -3, 0)
	assert.Equal(t, 1, g.W)
	assert.Equal(t, 1, g.H)
}

func TestToolCycle(t *testing.T) {
	tools := Tools()
	require.Len(t, tools, 5)
	assert.Equal(t, ToolFluid, ToolSink.Next())
	assert.Equal(t, ToolSolid, ToolFluid.Next())
	assert.Equal(t, "source", ToolSource.String())
}

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 32; i++ {
		require.Equal(t, a.IntN(1000), b.IntN(1000))
	}
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, NewRNG(1).Perm(4))
	assert.Equal(t, 0, a.IntN(0))
	s := a.Sign()
	assert.True(t, s == 1 || s == -1)
}

func TestNewUnknownSim(t *testing.T) {
	_, err := New("does-not-exist", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestParameterLookup(t *testing.T) {
	snap := ParameterSnapshot{Groups: []ParameterGroup{{
		Name:   "World",
		Params: []Parameter{IntParam("w", "Width", 64), FloatParam("p", "Pressure", 0.005)},
	}}}
	p, ok := snap.Lookup("p")
	require.True(t, ok)
	assert.Equal(t, "0.005", p.Value)
	_, ok = snap.Lookup("missing")
	assert.False(t, ok)
}
