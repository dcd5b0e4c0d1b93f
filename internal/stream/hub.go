// Package stream broadcasts simulation frames to websocket observers. A new
// observer first receives a snapshot of the whole grid, then one delta
// message per tick.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fluid-ca/internal/core"
	"fluid-ca/internal/logging"
	"fluid-ca/internal/record"
	"fluid-ca/internal/render"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 64
)

// Message is the JSON envelope sent to observers.
type Message struct {
	Type   string          `json:"type"`
	Sim    string          `json:"sim,omitempty"`
	Width  int             `json:"w,omitempty"`
	Height int             `json:"h,omitempty"`
	Tick   uint64          `json:"tick"`
	Stats  *core.TickStats `json:"stats,omitempty"`
	Pixels []Pixel         `json:"pixels"`
}

// Pixel is a changed cell with its color packed as 0xRRGGBBAA.
type Pixel struct {
	X int    `json:"x"`
	Y int    `json:"y"`
	C uint32 `json:"c"`
}

func packPixels(px []core.Pixel) []Pixel {
	out := make([]Pixel, len(px))
	for i, p := range px {
		c := p.Color
		out[i] = Pixel{X: p.X, Y: p.Y, C: uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)}
	}
	return out
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to every connected observer. Observers that fall
// behind by more than a small buffer are disconnected.
type Hub struct {
	log      *logging.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	sim     string
	canvas  *render.Canvas
	tick    uint64
	clients map[*client]struct{}
}

// NewHub creates a hub for a sim of the given size. Cells not yet published
// are reported as bg.
func NewHub(sim string, size core.Size, bg color.RGBA, log *logging.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sim:     sim,
		canvas:  render.NewCanvas(size.W, size.H, bg),
		clients: make(map[*client]struct{}),
	}
}

// Publish records f in the hub's frame and sends it to every observer.
func (h *Hub) Publish(f record.Frame) {
	stats := f.Stats
	msg, err := json.Marshal(Message{Type: "frame", Tick: f.Tick, Stats: &stats, Pixels: packPixels(f.Pixels)})
	if err != nil {
		h.log.Errorf("encode frame %d: %v", f.Tick, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.canvas.Apply(f.Pixels)
	h.tick = f.Tick
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warnf("observer %s too slow, dropping", c.conn.RemoteAddr())
			h.removeLocked(c)
		}
	}
}

// Clients reports the number of connected observers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and registers the observer.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		var hs websocket.HandshakeError
		if !errors.As(err, &hs) {
			h.log.Warnf("upgrade: %v", err)
		}
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	size := h.canvas.Size()
	snap, err := json.Marshal(Message{
		Type:   "snapshot",
		Sim:    h.sim,
		Width:  size.W,
		Height: size.H,
		Tick:   h.tick,
		Pixels: packPixels(h.canvas.Pixels()),
	})
	if err != nil {
		h.mu.Unlock()
		h.log.Errorf("encode snapshot: %v", err)
		_ = conn.Close()
		return
	}
	c.send <- snap
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Infof("observer %s joined", conn.RemoteAddr())

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.remove(c)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
}

// readLoop discards inbound messages until the observer goes away.
func (h *Hub) readLoop(c *client) {
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debugf("observer %s: %v", c.conn.RemoteAddr(), err)
			}
			break
		}
	}
	h.remove(c)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// Close disconnects every observer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// Serve exposes the hub at /ws on addr until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	h.log.Infof("streaming on ws://%s/ws", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
