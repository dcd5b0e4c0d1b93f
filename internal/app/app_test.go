package app

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluid-ca/internal/core"
)

type recordingEditor struct {
	calls []core.Pixel
	tools []core.Tool
}

func (r *recordingEditor) Apply(tool core.Tool, x, y int) {
	r.calls = append(r.calls, core.Pixel{X: x, Y: y})
	r.tools = append(r.tools, tool)
}

func TestPaintDisc(t *testing.T) {
	ed := &recordingEditor{}
	n := Paint(ed, core.ToolFluid, 10, 10, 1)
	assert.Equal(t, 5, n)
	assert.Len(t, ed.calls, 5)
	assert.Contains(t, ed.calls, core.Pixel{X: 10, Y: 9})
	assert.NotContains(t, ed.calls, core.Pixel{X: 11, Y: 11})
}

func TestPaintSourceIsSingleCell(t *testing.T) {
	ed := &recordingEditor{}
	assert.Equal(t, 1, Paint(ed, core.ToolSource, 3, 4, 5))
	assert.Equal(t, []core.Pixel{{X: 3, Y: 4}}, ed.calls)
	assert.Equal(t, []core.Tool{core.ToolSource}, ed.tools)
}

func TestScreenToCell(t *testing.T) {
	size := core.Size{W: 10, H: 5}
	x, y, ok := ScreenToCell(17, 9, 4, size)
	require.True(t, ok)
	assert.Equal(t, 4, x)
	assert.Equal(t, 2, y)

	_, _, ok = ScreenToCell(40, 0, 4, size)
	assert.False(t, ok, "cursor over the HUD")
	_, _, ok = ScreenToCell(-1, 0, 4, size)
	assert.False(t, ok)
}

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("ca", flag.ContinueOnError)
	cfg.Bind(fs)
	require.NoError(t, fs.Parse([]string{"-sim", "particles", "-seed", "9", "-w", "64", "-config", "basin.yaml"}))

	assert.Equal(t, "particles", cfg.Sim)
	assert.Equal(t, map[string]string{"seed": "9", "w": "64", "config": "basin.yaml"}, cfg.SimOptions())
}
