package term

import (
	"context"
	"time"

	"github.com/nsf/termbox-go"

	"fluid-ca/internal/app"
	"fluid-ca/internal/core"
	"fluid-ca/internal/logging"
	"fluid-ca/internal/ui"
)

// Screen keeps a cell back buffer for one sim and the interactive state
// around it.
type Screen struct {
	sim    core.Sim
	editor core.Editor
	log    *logging.Logger

	w, h    int
	backbuf []termbox.Cell

	seed   int64
	status ui.Status
	quit   bool
	stepN  bool
}

// NewScreen wraps sim. The back buffer starts from the sim's pending changes.
func NewScreen(sim core.Sim, seed int64, tps, brush int, log *logging.Logger) *Screen {
	size := sim.Size()
	s := &Screen{
		sim:     sim,
		log:     log,
		w:       size.W,
		h:       size.H,
		backbuf: make([]termbox.Cell, size.W*size.H),
		seed:    seed,
		status:  ui.Status{Tool: core.ToolFluid, Brush: brush, TPS: tps},
	}
	s.editor, _ = sim.(core.Editor)
	for i := range s.backbuf {
		s.backbuf[i] = termbox.Cell{Ch: ' '}
	}
	s.apply(sim.Changes())
	return s
}

func (s *Screen) apply(px []core.Pixel) int {
	n := 0
	for _, p := range px {
		if p.X < 0 || p.Y < 0 || p.X >= s.w || p.Y >= s.h {
			continue
		}
		s.backbuf[p.Y*s.w+p.X] = Glyph(p.Color)
		n++
	}
	return n
}

// CellAt returns the buffered cell at (x, y).
func (s *Screen) CellAt(x, y int) termbox.Cell {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return termbox.Cell{}
	}
	return s.backbuf[y*s.w+x]
}

// Tick steps the sim unless paused and folds its changes into the buffer.
func (s *Screen) Tick() {
	if s.status.Paused && !s.stepN {
		return
	}
	s.stepN = false
	s.sim.Step()
	s.apply(s.sim.Changes())
}

// Handle reacts to one input event. It reports false once the user quits.
func (s *Screen) Handle(ev termbox.Event) bool {
	switch ev.Type {
	case termbox.EventKey:
		s.handleKey(ev)
	case termbox.EventMouse:
		switch ev.Key {
		case termbox.MouseLeft:
			s.paint(s.status.Tool, ev.MouseX, ev.MouseY)
		case termbox.MouseRight:
			s.paint(core.ToolErase, ev.MouseX, ev.MouseY)
		}
	case termbox.EventError:
		s.log.Errorf("terminal: %v", ev.Err)
		s.quit = true
	}
	return !s.quit
}

func (s *Screen) handleKey(ev termbox.Event) {
	switch ev.Key {
	case termbox.KeyEsc, termbox.KeyCtrlC:
		s.quit = true
		return
	case termbox.KeySpace:
		s.status.Paused = !s.status.Paused
		return
	case termbox.KeyTab:
		s.status.Tool = s.status.Tool.Next()
		return
	}
	switch ev.Ch {
	case 'q':
		s.quit = true
	case 'n':
		s.stepN = true
	case 'r':
		s.reset(s.seed)
	case 's':
		s.reset(time.Now().UnixNano())
	case '[':
		if s.status.Brush > 0 {
			s.status.Brush--
		}
	case ']':
		s.status.Brush++
	}
}

func (s *Screen) reset(seed int64) {
	s.seed = seed
	s.sim.Reset(seed)
	s.apply(s.sim.Changes())
	s.log.Infof("reset %s seed=%d", s.sim.Name(), seed)
}

func (s *Screen) paint(tool core.Tool, x, y int) {
	if s.editor == nil || x >= s.w || y >= s.h {
		return
	}
	app.Paint(s.editor, tool, x, y, s.status.Brush)
	s.apply(s.sim.Changes())
}

// Status returns the interactive state shown under the grid.
func (s *Screen) Status() ui.Status { return s.status }

func (s *Screen) draw() {
	_ = termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	tw, th := termbox.Size()
	for y := 0; y < s.h && y < th; y++ {
		for x := 0; x < s.w && x < tw; x++ {
			c := s.backbuf[y*s.w+x]
			termbox.SetCell(x, y, c.Ch, c.Fg, c.Bg)
		}
	}
	row := s.h + 1
	for _, line := range ui.StatusLines(s.sim, s.status) {
		if row >= th {
			break
		}
		for i, r := range []rune(line) {
			if i >= tw {
				break
			}
			termbox.SetCell(i, row, r, termbox.ColorDefault, termbox.ColorDefault)
		}
		row++
	}
	_ = termbox.Flush()
}

// Run takes over the terminal until the user quits or ctx is cancelled.
func (s *Screen) Run(ctx context.Context) error {
	if err := termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)

	events := make(chan termbox.Event)
	done := make(chan struct{})
	go func() {
		for {
			ev := termbox.PollEvent()
			if ev.Type == termbox.EventInterrupt {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	defer termbox.Interrupt()
	defer close(done)

	stepper := core.NewFixedStep(s.status.TPS)
	ticker := time.NewTicker(stepper.Interval())
	defer ticker.Stop()

	s.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !s.Handle(ev) {
				return nil
			}
		case <-ticker.C:
			s.Tick()
		}
		s.draw()
	}
}
