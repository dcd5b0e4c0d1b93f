// Command fluid-replay plays back a recording made by fluid-headless. It can
// re-stream the frames to websocket observers and dump PNG snapshots.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"fluid-ca/internal/core"
	"fluid-ca/internal/logging"
	"fluid-ca/internal/record"
	"fluid-ca/internal/render"
	"fluid-ca/internal/runner"
	"fluid-ca/internal/stream"
	"fluid-ca/internal/terrain"
)

func main() {
	in := flag.String("in", "", "recording to play back")
	wsAddr := flag.String("ws-addr", "", "stream frames to websocket observers at /ws on this address")
	tps := flag.Int("tps", 60, "playback rate when streaming")
	pngPath := flag.String("png", "", "write the final frame as PNG")
	snapDir := flag.String("snapshots", "", "write a PNG every -snap-every ticks into this directory")
	snapEvery := flag.Int("snap-every", 100, "snapshot interval in ticks")
	flag.Parse()

	log := logging.New("replay")
	if *in == "" {
		log.Fatalf("-in is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rd, err := record.Open(*in)
	if err != nil {
		log.Fatalf("open %s: %v", *in, err)
	}
	defer rd.Close()
	h := rd.Header
	log.Infof("%s: %s %dx%d seed=%d", filepath.Base(*in), h.Sim, h.Width, h.Height, h.Seed)

	canvas := render.NewCanvas(h.Width, h.Height, runner.Background())

	var hub *stream.Hub
	var pace <-chan time.Time
	if *wsAddr != "" {
		hub = stream.NewHub(h.Sim, core.Size{W: h.Width, H: h.Height}, runner.Background(), logging.New("stream"))
		go func() {
			if err := hub.Serve(ctx, *wsAddr); err != nil {
				log.Errorf("stream: %v", err)
			}
		}()
		ticker := time.NewTicker(core.NewFixedStep(*tps).Interval())
		defer ticker.Stop()
		pace = ticker.C
	}
	if *snapDir != "" {
		if err := os.MkdirAll(*snapDir, 0o755); err != nil {
			log.Fatalf("create %s: %v", *snapDir, err)
		}
	}

	frames := 0
	var last record.Frame
	for {
		f, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Errorf("frame %d: %v", frames, err)
			break
		}
		if pace != nil {
			select {
			case <-ctx.Done():
				return
			case <-pace:
			}
		}
		canvas.Apply(f.Pixels)
		if hub != nil {
			hub.Publish(f)
		}
		if *snapDir != "" && *snapEvery > 0 && f.Tick%uint64(*snapEvery) == 0 {
			path := filepath.Join(*snapDir, fmt.Sprintf("tick-%06d.png", f.Tick))
			if err := terrain.Save(path, canvas.Image()); err != nil {
				log.Errorf("snapshot: %v", err)
			}
		}
		last = f
		frames++
	}
	log.Infof("replayed %d frames, last tick %d mass=%.4f", frames, last.Tick, last.Stats.Mass)

	if *pngPath != "" {
		if err := terrain.Save(*pngPath, canvas.Image()); err != nil {
			log.Fatalf("write png: %v", err)
		}
		log.Infof("wrote %s", *pngPath)
	}
}
