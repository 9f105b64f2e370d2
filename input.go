package letui

// Event is one decoded input event from the raw terminal byte stream.
type Event struct {
	Type   EventType
	Key    Key  // key events
	Rune   rune // KeyRune only
	X, Y   int  // mouse events, 0-based cell coordinates
	Button int  // mouse events, low two bits of Cb
}

// EventType discriminates pointer and keyboard events.
type EventType uint8

const (
	EventKey EventType = iota
	EventMousePress
	EventMouseRelease
)

// Key tags keyboard events the toolkit reacts to.
type Key uint8

const (
	KeyRune      Key = iota // printable 0x20-0x7E, carried in Rune
	KeyEnter                // CR 0x0D
	KeyBackspace            // DEL 0x7F
)

// Parser decodes the raw input byte stream: printable ASCII, CR, DEL and
// SGR mouse reports (ESC [ < Cb ; Px ; Py M for press, trailing m for
// release, 1-based coordinates). Partial escape sequences are kept across
// Feed calls, except a feed ending in a bare ESC, which is taken as the
// ESC key and dropped. Unrecognized sequences are consumed and dropped.
type Parser struct {
	buf []byte
}

// Feed appends raw bytes and returns every complete event decoded so far.
func (p *Parser) Feed(data []byte) []Event {
	p.buf = append(p.buf, data...)

	var events []Event
	for len(p.buf) > 0 {
		ev, n, ok := p.next()
		if n == 0 {
			break // incomplete sequence, wait for more bytes
		}
		p.buf = p.buf[n:]
		if ok {
			events = append(events, ev)
		}
	}
	// A read ending in a lone ESC is the ESC key, not the start of a
	// sequence: sequences arrive whole in one read. Holding it would
	// stall until the next keypress, so drop it now.
	if len(p.buf) == 1 && p.buf[0] == 0x1b {
		p.buf = p.buf[:0]
	}
	return events
}

// next decodes one event from the front of the buffer. It returns the
// consumed byte count (0 = need more input) and whether an event was
// produced.
func (p *Parser) next() (Event, int, bool) {
	b := p.buf[0]
	switch {
	case b == 0x1b:
		return p.escape()
	case b == 0x0d:
		return Event{Type: EventKey, Key: KeyEnter}, 1, true
	case b == 0x7f:
		return Event{Type: EventKey, Key: KeyBackspace}, 1, true
	case b >= 0x20 && b <= 0x7e:
		return Event{Type: EventKey, Key: KeyRune, Rune: rune(b)}, 1, true
	default:
		// Control bytes and non-ASCII have no meaning here.
		return Event{}, 1, false
	}
}

// escape decodes an ESC-initiated sequence. Only SGR mouse reports produce
// events; any other CSI sequence is skipped to its final byte.
func (p *Parser) escape() (Event, int, bool) {
	if len(p.buf) < 2 {
		return Event{}, 0, false
	}
	if p.buf[1] != '[' {
		// Bare ESC or a non-CSI sequence lead-in; drop the ESC and let the
		// following byte decode on its own.
		return Event{}, 1, false
	}

	// Find the CSI final byte (0x40-0x7E).
	end := -1
	for i := 2; i < len(p.buf); i++ {
		if p.buf[i] >= 0x40 && p.buf[i] <= 0x7e {
			end = i
			break
		}
	}
	if end == -1 {
		return Event{}, 0, false
	}

	seq := p.buf[2:end]
	final := p.buf[end]
	consumed := end + 1

	if len(seq) == 0 || seq[0] != '<' || (final != 'M' && final != 'm') {
		return Event{}, consumed, false
	}

	cb, px, py, ok := splitMouseParams(seq[1:])
	if !ok || cb&32 != 0 {
		// Malformed report, or a motion event (bit 5) we do not dispatch.
		return Event{}, consumed, false
	}

	ev := Event{
		Type:   EventMousePress,
		Button: cb & 3,
		X:      px - 1,
		Y:      py - 1,
	}
	if final == 'm' {
		ev.Type = EventMouseRelease
	}
	return ev, consumed, true
}

// splitMouseParams parses "Cb;Px;Py" decimal parameters.
func splitMouseParams(s []byte) (cb, px, py int, ok bool) {
	vals := make([]int, 0, 3)
	cur, started := 0, false
	for _, b := range s {
		switch {
		case b >= '0' && b <= '9':
			cur = cur*10 + int(b-'0')
			started = true
		case b == ';':
			if !started {
				return 0, 0, 0, false
			}
			vals = append(vals, cur)
			cur, started = 0, false
		default:
			return 0, 0, 0, false
		}
	}
	if !started || len(vals) != 2 {
		return 0, 0, 0, false
	}
	vals = append(vals, cur)
	return vals[0], vals[1], vals[2], true
}
