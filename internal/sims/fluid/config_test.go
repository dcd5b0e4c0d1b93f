package fluid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenario = `
width: 64
height: 32
seed: 9
layout: maps/basin.png
terrain:
  enabled: true
  sources: 3
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeScenario(t, scenario)
	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 64, c.Width)
	assert.Equal(t, 32, c.Height)
	assert.Equal(t, int64(9), c.Seed)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "maps", "basin.png"), c.Layout)
	assert.True(t, c.Terrain.Enabled)
	assert.Equal(t, 3, c.Terrain.Sources)
	assert.Equal(t, DefaultConfig().Terrain.Octaves, c.Terrain.Octaves, "unset keys keep defaults")
	assert.Equal(t, 20, c.DiscRadius)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeScenario(t, "width: [1, 2"))
	assert.Error(t, err)

	_, err = LoadConfig(writeScenario(t, "width: -4\n"))
	assert.ErrorContains(t, err, "invalid size")
}

func TestFromMap(t *testing.T) {
	c, err := FromMap(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	c, err = FromMap(map[string]string{
		"config":  writeScenario(t, scenario),
		"w":       "10",
		"h":       "bogus",
		"seed":    "-3",
		"terrain": "false",
		"sinks":   "2",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, c.Width)
	assert.Equal(t, 32, c.Height)
	assert.Equal(t, int64(-3), c.Seed)
	assert.False(t, c.Terrain.Enabled)
	assert.Equal(t, 2, c.Terrain.Sinks)

	_, err = FromMap(map[string]string{"config": "/does/not/exist.yaml"})
	assert.Error(t, err)
}
