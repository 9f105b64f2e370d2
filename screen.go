package letui

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-runewidth"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Screen is the native terminal backend: raw mode, alternate screen, SGR
// mouse reporting, resize detection and double-buffered diff flushing. The
// core only sees it through the Backend interface.
type Screen struct {
	front  *Buffer   // what's currently displayed
	back   *Buffer   // what paint draws to
	writer io.Writer // output destination (usually os.Stdout)
	fd     int       // file descriptor for terminal operations

	width  int
	height int

	origTermios *unix.Termios
	inRawMode   bool

	resizeChan chan Size
	sigChan    chan os.Signal

	lastFG Color
	lastBG Color
	buf    bytes.Buffer // reusable buffer for building output
}

// Size represents terminal dimensions.
type Size struct {
	Width  int
	Height int
}

// NewScreen creates a screen writing to the given writer.
// Pass nil to use os.Stdout.
func NewScreen(w io.Writer) (*Screen, error) {
	if w == nil {
		w = os.Stdout
	}

	fd := int(os.Stdout.Fd())
	width, height, err := term.GetSize(fd)
	if err != nil {
		// Not a terminal (tests, pipes); fall back to a sane default.
		width, height = 80, 24
	}

	s := &Screen{
		front:      NewBuffer(width, height),
		back:       NewBuffer(width, height),
		writer:     w,
		fd:         fd,
		width:      width,
		height:     height,
		resizeChan: make(chan Size, 1),
		sigChan:    make(chan os.Signal, 1),
	}

	return s, nil
}

// Size returns the current screen dimensions.
func (s *Screen) Size() (int, int) {
	return s.width, s.height
}

// Buffer returns the back buffer for drawing.
func (s *Screen) Buffer() *Buffer {
	return s.back
}

// ResizeChan returns a channel that receives size updates on terminal
// resize.
func (s *Screen) ResizeChan() <-chan Size {
	return s.resizeChan
}

// EnterRawMode puts the terminal into raw mode, switches to the alternate
// screen, hides the cursor and enables SGR mouse reporting.
func (s *Screen) EnterRawMode() error {
	if s.inRawMode {
		return nil
	}

	termios, err := unix.IoctlGetTermios(s.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("failed to get termios: %w", err)
	}
	s.origTermios = termios

	raw := *termios
	// Input flags: disable break, CR to NL, parity, strip, flow control
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	// Output flags: disable post processing
	raw.Oflag &^= unix.OPOST
	// Control flags: set 8 bit chars
	raw.Cflag |= unix.CS8
	// Local flags: disable echo, canonical mode, signals, extended input
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	// Control chars: min bytes = 1, timeout = 0
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(s.fd, ioctlSetTermios, &raw); err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}

	s.inRawMode = true

	signal.Notify(s.sigChan, syscall.SIGWINCH)
	go s.handleSignals()

	s.writeString("\x1b[?1049h") // enter alternate screen
	s.writeString("\x1b[2J")     // clear (front buffer now matches the screen)
	s.writeString("\x1b[H")      // cursor home
	s.writeString("\x1b[?25l")   // hide cursor
	s.writeString("\x1b[?1000h") // mouse press/release reporting
	s.writeString("\x1b[?1006h") // SGR extended coordinates

	return nil
}

// ExitRawMode restores the terminal to its original state. Safe to call
// after a failed pass; abnormal unwinds should reach it via defer so the
// terminal never stays in raw mode.
func (s *Screen) ExitRawMode() error {
	if !s.inRawMode {
		return nil
	}

	s.writeString("\x1b[?1006l")
	s.writeString("\x1b[?1000l")
	s.writeString("\x1b[?25h")   // show cursor
	s.writeString("\x1b[0m")     // reset style
	s.writeString("\x1b[?1049l") // exit alternate screen

	signal.Stop(s.sigChan)

	if s.origTermios != nil {
		if err := unix.IoctlSetTermios(s.fd, ioctlSetTermios, s.origTermios); err != nil {
			return fmt.Errorf("failed to restore termios: %w", err)
		}
	}

	s.inRawMode = false
	return nil
}

// handleSignals publishes the new terminal size on every SIGWINCH. It never
// touches the buffers: those belong to the run-loop goroutine, which applies
// the size through Resize when it drains the channel.
func (s *Screen) handleSignals() {
	for range s.sigChan {
		width, height, err := term.GetSize(s.fd)
		if err != nil {
			continue
		}
		s.publishResize(width, height)
	}
}

// publishResize hands a size to the run loop. Non-blocking; a pending
// stale size is replaced rather than queued behind.
func (s *Screen) publishResize(width, height int) {
	for {
		select {
		case s.resizeChan <- Size{Width: width, Height: height}:
			return
		default:
		}
		select {
		case <-s.resizeChan:
		default:
		}
	}
}

// Resize reallocates both buffers to the new dimensions and clears the
// physical screen. Must run on the same goroutine as paint and Flush.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width = width
	s.height = height
	s.front.Resize(width, height)
	s.back.Resize(width, height)
	// Clear both buffers to avoid stale content
	s.front.Clear()
	s.back.Clear()
	s.writeString("\x1b[2J")
}

// debugFlush enables flush diagnostics via the LETUI_DEBUG_FLUSH env var.
var debugFlush = os.Getenv("LETUI_DEBUG_FLUSH") != ""

// Flush pushes the back buffer to the terminal using a per-cell diff
// against the front buffer. Only changed cells are written, with cursor
// positioning per run.
func (s *Screen) Flush() error {
	s.buf.Reset()

	changed := 0
	cursorX, cursorY := -1, -1

	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			backCell := s.back.Get(x, y)
			if backCell.Equal(s.front.Get(x, y)) {
				continue
			}
			changed++

			if cursorX != x || cursorY != y {
				s.buf.WriteString("\x1b[")
				s.writeIntToBuf(y + 1)
				s.buf.WriteByte(';')
				s.writeIntToBuf(x + 1)
				s.buf.WriteByte('H')
			}

			s.writeCell(backCell)
			s.front.Set(x, y, backCell)
			// cursor advances by the display width of the character
			rw := runewidth.RuneWidth(backCell.Rune)
			if rw == 0 {
				rw = 1
			}
			cursorX = x + rw
			cursorY = y
		}
	}

	if debugFlush {
		fmt.Fprintf(os.Stderr, "flush: %d changed cells, buf size %d\n", changed, s.buf.Len())
	}

	if changed == 0 {
		return nil
	}

	s.buf.WriteString("\x1b[0m")
	s.lastFG, s.lastBG = NoColor, NoColor

	if _, err := s.writer.Write(s.buf.Bytes()); err != nil {
		return fmt.Errorf("terminal write failed: %w", err)
	}
	return nil
}

// writeCell emits the cell's colors (when they differ from the previous
// cell's) and its rune.
func (s *Screen) writeCell(c Cell) {
	if c.FG != s.lastFG || c.BG != s.lastBG {
		s.buf.WriteString("\x1b[38;2;")
		s.writeIntToBuf(int(c.FG.R()))
		s.buf.WriteByte(';')
		s.writeIntToBuf(int(c.FG.G()))
		s.buf.WriteByte(';')
		s.writeIntToBuf(int(c.FG.B()))
		s.buf.WriteString(";48;2;")
		s.writeIntToBuf(int(c.BG.R()))
		s.buf.WriteByte(';')
		s.writeIntToBuf(int(c.BG.G()))
		s.buf.WriteByte(';')
		s.writeIntToBuf(int(c.BG.B()))
		s.buf.WriteByte('m')
		s.lastFG, s.lastBG = c.FG, c.BG
	}
	s.buf.WriteRune(c.Rune)
}

// writeIntToBuf writes an integer to the buffer without allocation.
func (s *Screen) writeIntToBuf(n int) {
	if n == 0 {
		s.buf.WriteByte('0')
		return
	}
	if n < 0 {
		s.buf.WriteByte('-')
		n = -n
	}

	var scratch [10]byte
	i := len(scratch)
	for n > 0 {
		i--
		scratch[i] = byte('0' + n%10)
		n /= 10
	}
	s.buf.Write(scratch[i:])
}

// writeString is a helper to write a string directly to the terminal.
func (s *Screen) writeString(str string) {
	io.WriteString(s.writer, str)
}

// Clear clears the back buffer.
func (s *Screen) Clear() {
	s.back.Clear()
}
