package letui

import (
	"bytes"
	"strings"
	"testing"
)

func newTestScreen(w, h int) (*Screen, *bytes.Buffer) {
	var out bytes.Buffer
	s := &Screen{
		front:      NewBuffer(w, h),
		back:       NewBuffer(w, h),
		writer:     &out,
		width:      w,
		height:     h,
		resizeChan: make(chan Size, 1),
	}
	return s, &out
}

func TestFlushWritesOnlyChangedCells(t *testing.T) {
	s, out := newTestScreen(10, 4)

	s.Buffer().WriteString(2, 1, "hi", DefaultFG, DefaultBG)
	if err := s.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "\x1b[2;3H") {
		t.Errorf("output should position the cursor at row 2 col 3, got %q", got)
	}
	if !strings.Contains(got, "hi") {
		t.Errorf("output should contain the written text, got %q", got)
	}

	// Second flush with no changes writes nothing.
	out.Reset()
	if err := s.Flush(); err != nil {
		t.Fatalf("second flush failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("unchanged buffer should flush zero bytes, got %q", out.String())
	}
}

func TestFlushEmitsTruecolor(t *testing.T) {
	s, out := newTestScreen(5, 2)

	s.Buffer().Set(0, 0, Cell{Rune: 'x', FG: RGB(1, 2, 3), BG: RGB(4, 5, 6)})
	if err := s.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "\x1b[38;2;1;2;3;48;2;4;5;6m") {
		t.Errorf("output should carry 24-bit colors, got %q", got)
	}
}

func TestFlushSkipsRedundantColorChanges(t *testing.T) {
	s, out := newTestScreen(10, 1)

	s.Buffer().WriteString(0, 0, "aaa", RGB(9, 9, 9), DefaultBG)
	if err := s.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	if n := strings.Count(out.String(), "38;2;9;9;9"); n != 1 {
		t.Errorf("same-color run should set the color once, got %d times", n)
	}
}

func TestResizeReallocatesBothBuffers(t *testing.T) {
	s, out := newTestScreen(10, 4)

	s.Buffer().WriteString(0, 0, "stale", DefaultFG, DefaultBG)
	if err := s.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	out.Reset()
	s.Resize(20, 6)

	if w, h := s.Size(); w != 20 || h != 6 {
		t.Errorf("size should be 20x6 after resize, got %dx%d", w, h)
	}
	if s.back.Width() != 20 || s.front.Width() != 20 {
		t.Errorf("both buffers should be reallocated to the new width")
	}
	if !strings.Contains(out.String(), "\x1b[2J") {
		t.Errorf("resize should clear the physical screen")
	}

	// The cleared front buffer forces a full repaint on the next flush.
	out.Reset()
	s.Buffer().WriteString(0, 0, "fresh", DefaultFG, DefaultBG)
	if err := s.Flush(); err != nil {
		t.Fatalf("flush after resize failed: %v", err)
	}
	if !strings.Contains(out.String(), "fresh") {
		t.Errorf("post-resize flush should repaint, got %q", out.String())
	}
}

func TestResizeSameSizeKeepsContent(t *testing.T) {
	s, _ := newTestScreen(10, 4)

	s.Buffer().WriteString(0, 0, "keep", DefaultFG, DefaultBG)
	s.Resize(10, 4)

	if s.back.Get(0, 0).Rune != 'k' {
		t.Errorf("same-size resize must not clear the back buffer")
	}
}

// The SIGWINCH goroutine only publishes sizes; the buffers are touched
// solely by the goroutine that paints and flushes. Painting while sizes
// arrive concurrently must therefore stay race-free, with the run loop
// applying each size between passes.
func TestPublishResizeConcurrentWithPaint(t *testing.T) {
	s, _ := newTestScreen(30, 10)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			s.publishResize(20+i%10, 5+i%5)
		}
		close(done)
	}()

	for {
		select {
		case sz := <-s.ResizeChan():
			s.Resize(sz.Width, sz.Height)
		case <-done:
			if w, h := s.Size(); s.back.Width() != w || s.back.Height() != h {
				t.Errorf("buffer dimensions drifted from screen size")
			}
			return
		default:
			s.back.FillRect(0, 0, s.width, s.height, Cell{Rune: '#', FG: DefaultFG, BG: DefaultBG})
			if err := s.Flush(); err != nil {
				t.Fatalf("flush failed: %v", err)
			}
		}
	}
}

func TestPublishResizeLatestWins(t *testing.T) {
	s, _ := newTestScreen(10, 4)

	s.publishResize(20, 6)
	s.publishResize(40, 12) // replaces the pending size

	sz := <-s.ResizeChan()
	if sz.Width != 40 || sz.Height != 12 {
		t.Errorf("pending size should be the newest, got %dx%d", sz.Width, sz.Height)
	}
	select {
	case stale := <-s.ResizeChan():
		t.Errorf("stale size should have been replaced, got %dx%d", stale.Width, stale.Height)
	default:
	}
}

func TestFlushSyncsFrontBuffer(t *testing.T) {
	s, _ := newTestScreen(5, 2)

	s.Buffer().Set(1, 1, Cell{Rune: 'z', FG: DefaultFG, BG: DefaultBG})
	if err := s.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	if s.front.Get(1, 1).Rune != 'z' {
		t.Errorf("flush should copy changed cells into the front buffer")
	}
}
