package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("headless", &buf)

	l.Debugf("hidden %d", 1)
	l.Infof("tick %d", 42)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[headless] ")
	assert.Contains(t, buf.String(), "INFO tick 42")

	buf.Reset()
	l.SetLevel(Quiet)
	l.Errorf("boom")
	assert.Empty(t, buf.String())

	l.SetLevel(Debug)
	l.Debugf("shown")
	assert.Contains(t, buf.String(), "DEBUG shown")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, Warn, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
