package term

import (
	"image/color"
	"io"
	"testing"

	"github.com/nsf/termbox-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluid-ca/internal/core"
	"fluid-ca/internal/logging"
	_ "fluid-ca/internal/sims/fluid"
)

func TestGlyph(t *testing.T) {
	cases := []struct {
		name string
		in   color.RGBA
		ch   rune
		fg   termbox.Attribute
	}{
		{"background", color.RGBA{R: 232, G: 236, B: 240, A: 255}, ' ', termbox.ColorDefault},
		{"white", color.RGBA{R: 255, G: 255, B: 255, A: 255}, ' ', termbox.ColorDefault},
		{"rock", color.RGBA{R: 58, G: 52, B: 48, A: 255}, '█', termbox.ColorWhite},
		{"black", color.RGBA{A: 255}, '█', termbox.ColorWhite},
		{"shallow", color.RGBA{R: 120, G: 180, B: 235, A: 255}, '░', termbox.ColorBlue},
		{"deep", color.RGBA{R: 20, G: 60, B: 170, A: 255}, '█', termbox.ColorBlue},
		{"pure blue", color.RGBA{B: 255, A: 255}, '█', termbox.ColorBlue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Glyph(tc.in)
			assert.Equal(t, tc.ch, got.Ch)
			assert.Equal(t, tc.fg, got.Fg)
		})
	}
}

func newScreen(t *testing.T) *Screen {
	t.Helper()
	sim, err := core.New("fluid", map[string]string{"w": "4", "h": "4", "seed": "1", "terrain": "false", "disc_radius": "0"})
	require.NoError(t, err)
	return NewScreen(sim, 1, 30, 0, logging.NewWithWriter("term", io.Discard))
}

func TestScreenKeys(t *testing.T) {
	s := newScreen(t)
	assert.Equal(t, core.ToolFluid, s.Status().Tool)

	assert.True(t, s.Handle(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyTab}))
	assert.Equal(t, core.ToolSolid, s.Status().Tool)

	s.Handle(termbox.Event{Type: termbox.EventKey, Key: termbox.KeySpace})
	assert.True(t, s.Status().Paused)

	s.Handle(termbox.Event{Type: termbox.EventKey, Ch: ']'})
	s.Handle(termbox.Event{Type: termbox.EventKey, Ch: ']'})
	s.Handle(termbox.Event{Type: termbox.EventKey, Ch: '['})
	assert.Equal(t, 1, s.Status().Brush)

	assert.False(t, s.Handle(termbox.Event{Type: termbox.EventKey, Ch: 'q'}))
}

func TestScreenPaintsAndSteps(t *testing.T) {
	s := newScreen(t)
	assert.Equal(t, ' ', s.CellAt(1, 0).Ch)

	s.Handle(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyTab})
	s.Handle(termbox.Event{Type: termbox.EventMouse, Key: termbox.MouseLeft, MouseX: 1, MouseY: 0})
	assert.Equal(t, '█', s.CellAt(1, 0).Ch)
	assert.Equal(t, termbox.ColorWhite, s.CellAt(1, 0).Fg)

	s.Handle(termbox.Event{Type: termbox.EventMouse, Key: termbox.MouseRight, MouseX: 1, MouseY: 0})
	assert.Equal(t, ' ', s.CellAt(1, 0).Ch)

	// A full water cell at the top falls one row per tick.
	s.Handle(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyTab})
	s.Handle(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyTab})
	s.Handle(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyTab})
	s.Handle(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyTab})
	require.Equal(t, core.ToolFluid, s.Status().Tool)
	s.Handle(termbox.Event{Type: termbox.EventMouse, Key: termbox.MouseLeft, MouseX: 0, MouseY: 0})
	assert.Equal(t, termbox.ColorBlue, s.CellAt(0, 0).Fg)

	s.Tick()
	assert.Equal(t, termbox.ColorBlue, s.CellAt(0, 1).Fg)
}

func TestScreenPausedStepsOnlyOnRequest(t *testing.T) {
	s := newScreen(t)
	st, ok := s.sim.(core.StatsProvider)
	require.True(t, ok)

	s.Handle(termbox.Event{Type: termbox.EventKey, Key: termbox.KeySpace})
	s.Tick()
	assert.Equal(t, uint64(0), st.Stats().Tick)

	s.Handle(termbox.Event{Type: termbox.EventKey, Ch: 'n'})
	s.Tick()
	s.Tick()
	assert.Equal(t, uint64(1), st.Stats().Tick)
}
