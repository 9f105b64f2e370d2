package letui

import (
	"errors"
	"strings"
	"testing"
)

// testBackend is an in-memory Backend that counts flushes.
type testBackend struct {
	buf     *Buffer
	flushes int
	err     error
}

func newTestBackend(w, h int) *testBackend {
	return &testBackend{buf: NewBuffer(w, h)}
}

func (b *testBackend) Size() (int, int) { return b.buf.Size() }
func (b *testBackend) Buffer() *Buffer  { return b.buf }
func (b *testBackend) Flush() error {
	b.flushes++
	return b.err
}

func TestAppRendersOnStart(t *testing.T) {
	rt := NewRuntime()
	backend := newTestBackend(20, 5)
	app := NewApp(rt, backend, func() *Node {
		return Column(Props{}, Label(Props{}, "ready"))
	})
	app.Start()

	if backend.flushes != 1 {
		t.Errorf("start should flush once, got %d", backend.flushes)
	}
	if got := backend.buf.StringTrimmed(); !strings.HasPrefix(got, "ready") {
		t.Errorf("first pass should paint the tree, got %q", got)
	}
}

func TestAppRerendersOnSignalWrite(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)
	label := Derive(rt, func() string {
		if count.Get() == 0 {
			return "zero"
		}
		return "some"
	})

	backend := newTestBackend(20, 5)
	app := NewApp(rt, backend, func() *Node {
		return Column(Props{}, Text(Props{}, label))
	})
	app.Start()

	count.Set(3)

	if backend.flushes != 2 {
		t.Errorf("one visible change should mean one extra flush, got %d", backend.flushes)
	}
	if got := backend.buf.StringTrimmed(); !strings.HasPrefix(got, "some") {
		t.Errorf("repaint should show the new text, got %q", got)
	}
}

func TestAppDoesNotRerenderOnInvisibleWrite(t *testing.T) {
	rt := NewRuntime()
	hidden := NewSignal(rt, 0)

	backend := newTestBackend(20, 5)
	app := NewApp(rt, backend, func() *Node {
		return Column(Props{}, Label(Props{}, "static"))
	})
	app.Start()

	hidden.Set(1)

	if backend.flushes != 1 {
		t.Errorf("a signal the tree never read must not trigger a pass, got %d flushes", backend.flushes)
	}
}

func TestAppClickUpdatesTree(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)
	label := Derive(rt, func() string { return strings.Repeat("*", count.Get()) })

	backend := newTestBackend(20, 5)
	app := NewApp(rt, backend, func() *Node {
		return Column(Props{},
			Text(Props{}, label),
			Button(Props{Border: Border{Style: BorderSquare}}, Static("+"), func() {
				count.Update(func(v int) int { return v + 1 })
			}),
		)
	})
	app.Start()

	// SGR press+release on the button, which sits at row 1 after the text.
	btnY := 2 // 1-based terminal row of the button's first line
	app.Feed([]byte("\x1b[<0;1;" + itoa(btnY) + "M\x1b[<0;1;" + itoa(btnY) + "m"))

	if count.Get() != 1 {
		t.Errorf("click should increment, got %d", count.Get())
	}
	if got := backend.buf.StringTrimmed(); !strings.HasPrefix(got, "*") {
		t.Errorf("repaint should show the click's effect, got %q", got)
	}
}

func TestAppTypingFlow(t *testing.T) {
	rt := NewRuntime()
	text := NewSignal(rt, "")

	backend := newTestBackend(20, 5)
	app := NewApp(rt, backend, func() *Node {
		return Column(Props{},
			Input(Props{Border: Border{Style: BorderSquare}}, text, InputOptions{}),
		)
	})
	app.Start()

	app.Feed([]byte("\x1b[<0;1;1M\x1b[<0;1;1m")) // focus the input
	app.Feed([]byte("hi"))

	if text.Get() != "hi" {
		t.Errorf("typed text should land in the signal, got %q", text.Get())
	}

	app.Feed([]byte{0x7f})
	if text.Get() != "h" {
		t.Errorf("backspace should trim, got %q", text.Get())
	}
}

func TestAppResize(t *testing.T) {
	rt := NewRuntime()
	backend := newTestBackend(80, 24)
	root := Column(Props{Padding: Pad(1)},
		Label(Props{}, "title"),
		Row(Props{}, Button(Props{Border: Border{Style: BorderSquare}}, Static("OK"), nil)),
	)
	app := NewApp(rt, backend, func() *Node { return root })
	app.Start()

	backend.buf.Resize(40, 12)
	app.Resize(40, 12)

	var frames []Frame
	collectFrames(root, &frames)
	for i, f := range frames {
		if f.X < 0 || f.Y < 0 || f.X+f.W > 40 || f.Y+f.H > 12 {
			t.Errorf("frame %d (%+v) escapes 40x12 after resize", i, f)
		}
	}
	if backend.flushes != 2 {
		t.Errorf("resize should cost exactly one extra pass, got %d flushes", backend.flushes)
	}
}

func TestAppStop(t *testing.T) {
	rt := NewRuntime()
	s := NewSignal(rt, 0)
	label := Derive(rt, func() string { return strings.Repeat("x", s.Get()+1) })

	backend := newTestBackend(20, 5)
	app := NewApp(rt, backend, func() *Node {
		return Column(Props{}, Text(Props{}, label))
	})
	app.Start()
	app.Stop()

	s.Set(5)

	if backend.flushes != 1 {
		t.Errorf("stopped app must not repaint, got %d flushes", backend.flushes)
	}
}

func TestAppFlushErrorCaptured(t *testing.T) {
	rt := NewRuntime()
	backend := newTestBackend(20, 5)
	backend.err = errFlush
	app := NewApp(rt, backend, func() *Node {
		return Column(Props{}, Label(Props{}, "x"))
	})
	app.Start()

	if app.Err() != errFlush {
		t.Errorf("flush error should surface through Err, got %v", app.Err())
	}
}

func TestAppErrClearsOnSuccessfulFlush(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)
	label := Derive(rt, func() string { return strings.Repeat("x", count.Get()+1) })

	backend := newTestBackend(20, 5)
	backend.err = errFlush
	app := NewApp(rt, backend, func() *Node {
		return Column(Props{}, Text(Props{}, label))
	})
	app.Start()

	if app.Err() != errFlush {
		t.Fatalf("failing flush should surface, got %v", app.Err())
	}

	backend.err = nil
	count.Set(1) // next pass flushes cleanly

	if app.Err() != nil {
		t.Errorf("a successful flush should clear the error, got %v", app.Err())
	}
}

var errFlush = errors.New("flush failed")

// itoa avoids pulling strconv into the test for two digits.
func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}
