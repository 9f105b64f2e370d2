package letui

import (
	"fmt"
	"os"
)

// Backend is the surface an App renders to. *Screen implements it for real
// terminals; tests supply in-memory fakes.
type Backend interface {
	Size() (int, int)
	Buffer() *Buffer
	Flush() error
}

// App owns the render loop: one tracked pass that lays out the tree into
// the backend's buffer, paints it and flushes. Any signal the tree reads
// during a pass re-arms it.
type App struct {
	rt      *Runtime
	backend Backend
	root    *Node

	width  *Signal[int]
	height *Signal[int]

	focus   *FocusState
	hits    *HitMap
	ctrl    *Controller
	painter *Painter
	parser  *Parser

	renderEffect *Effect
	flushErr     error
	quit         chan struct{}
}

// NewApp wires an app around a backend and a root builder. The builder runs
// once, outside tracking; dynamic regions come from signals inside the tree.
func NewApp(rt *Runtime, backend Backend, build func() *Node) *App {
	w, h := backend.Size()
	a := &App{
		rt:      rt,
		backend: backend,
		width:   NewSignal(rt, w),
		height:  NewSignal(rt, h),
		focus:   NewFocusState(rt),
		hits:    &HitMap{},
		parser:  &Parser{},
		quit:    make(chan struct{}),
	}
	a.ctrl = NewController(rt, a.hits, a.focus)
	a.painter = NewPainter(backend.Buffer(), a.hits, a.focus)
	a.root = build()
	return a
}

// Runtime returns the app's signal runtime.
func (a *App) Runtime() *Runtime { return a.rt }

// Focus returns the app's focus state.
func (a *App) Focus() *FocusState { return a.focus }

// Start installs the render effect. The first pass runs synchronously;
// afterwards every signal write that reaches the tree schedules another.
func (a *App) Start() {
	a.renderEffect = a.rt.Effect(func() {
		// Subscribe to interaction state up front; paint only reads these
		// signals on the branches that style them.
		a.focus.Pressed.Get()
		a.focus.Focused.Get()
		w := a.width.Get()
		h := a.height.Get()
		a.painter.buf = a.backend.Buffer()
		a.painter.buf.Clear()
		Layout(a.root, w, h)
		a.painter.Paint(a.root)
		a.flushErr = a.backend.Flush()
	})
}

// Stop tears down the render effect. Further signal writes no longer
// trigger passes.
func (a *App) Stop() {
	if a.renderEffect != nil {
		a.renderEffect.Stop()
		a.renderEffect = nil
	}
	select {
	case <-a.quit:
	default:
		close(a.quit)
	}
}

// Err returns the outcome of the most recent flush: nil after a successful
// pass, the flush error otherwise.
func (a *App) Err() error { return a.flushErr }

// Resize updates the granted box. Both dimensions land in one pass.
func (a *App) Resize(w, h int) {
	a.rt.Batch(func() {
		a.width.Set(w)
		a.height.Set(h)
	})
}

// Dispatch routes a decoded event to the hit-test controller.
func (a *App) Dispatch(ev Event) {
	switch ev.Type {
	case EventMousePress:
		a.ctrl.Press(ev.X, ev.Y)
	case EventMouseRelease:
		a.ctrl.Release(ev.X, ev.Y)
	case EventKey:
		a.ctrl.Key(ev)
	}
}

// Feed decodes raw terminal bytes and dispatches the resulting events.
// Incomplete escape sequences are held until the next call.
func (a *App) Feed(data []byte) {
	for _, ev := range a.parser.Feed(data) {
		a.Dispatch(ev)
	}
}

// Run drives a full interactive session on a *Screen backend: raw mode,
// stdin decoding, resize handling and cross-goroutine wakeups. It returns
// when Stop is called or stdin closes.
func (a *App) Run() error {
	screen, ok := a.backend.(*Screen)
	if !ok {
		return fmt.Errorf("Run requires a *Screen backend, got %T", a.backend)
	}

	if err := screen.EnterRawMode(); err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer screen.ExitRawMode()

	a.Start()

	input := make(chan []byte, 8)
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(input)
				return
			}
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case input <- chunk:
			case <-a.quit:
				return
			}
		}
	}()

	for {
		select {
		case data, ok := <-input:
			if !ok {
				a.Stop()
				return a.flushErr
			}
			// ISIG is off in raw mode, so ctrl-c arrives as a plain byte.
			for _, b := range data {
				if b == 0x03 {
					a.Stop()
					return a.flushErr
				}
			}
			a.Feed(data)
		case sz := <-screen.ResizeChan():
			screen.Resize(sz.Width, sz.Height)
			a.Resize(sz.Width, sz.Height)
		case <-a.rt.Wake():
			a.rt.DrainPosted()
		case <-a.quit:
			return a.flushErr
		}
	}
}
