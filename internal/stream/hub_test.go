package stream

import (
	"encoding/json"
	"image/color"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluid-ca/internal/core"
	"fluid-ca/internal/logging"
	"fluid-ca/internal/record"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubSnapshotThenFrames(t *testing.T) {
	hub := NewHub("fluid", core.Size{W: 2, H: 2}, white, logging.NewWithWriter("stream", io.Discard))
	blue := color.RGBA{B: 255, A: 255}
	hub.Publish(record.Frame{Tick: 1, Pixels: []core.Pixel{{X: 1, Y: 0, Color: blue}}})

	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn := dial(t, srv)

	snap := readMessage(t, conn)
	assert.Equal(t, "snapshot", snap.Type)
	assert.Equal(t, "fluid", snap.Sim)
	assert.Equal(t, 2, snap.Width)
	assert.Equal(t, 2, snap.Height)
	assert.Equal(t, uint64(1), snap.Tick)
	require.Len(t, snap.Pixels, 4)
	assert.Equal(t, Pixel{X: 0, Y: 0, C: 0xffffffff}, snap.Pixels[0])
	assert.Equal(t, Pixel{X: 1, Y: 0, C: 0x0000ffff}, snap.Pixels[1])
	assert.Equal(t, 1, hub.Clients())

	hub.Publish(record.Frame{
		Tick:   2,
		Stats:  core.TickStats{Tick: 2, Transfers: 3},
		Pixels: []core.Pixel{{X: 0, Y: 1, Color: color.RGBA{A: 255}}},
	})
	frame := readMessage(t, conn)
	assert.Equal(t, "frame", frame.Type)
	assert.Equal(t, uint64(2), frame.Tick)
	require.NotNil(t, frame.Stats)
	assert.Equal(t, 3, frame.Stats.Transfers)
	assert.Equal(t, []Pixel{{X: 0, Y: 1, C: 0x000000ff}}, frame.Pixels)
}

func TestHubDropsClosedObservers(t *testing.T) {
	hub := NewHub("particles", core.Size{W: 1, H: 1}, white, logging.NewWithWriter("stream", io.Discard))
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	readMessage(t, conn)
	require.Equal(t, 1, hub.Clients())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubCloseDisconnects(t *testing.T) {
	hub := NewHub("fluid", core.Size{W: 1, H: 1}, white, logging.NewWithWriter("stream", io.Discard))
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	readMessage(t, conn)
	hub.Close()
	assert.Equal(t, 0, hub.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}
