package letui

// HitEntry maps a painted region to the interactive node that owns it.
// Entries are rebuilt wholesale on every paint pass.
type HitEntry struct {
	Frame Frame
	ID    NodeID
	node  *Node
}

// HitMap is the spatial lookup for pointer dispatch. Paint is its only
// writer, the event controller its only reader; single-threaded execution
// keeps them from ever overlapping.
type HitMap struct {
	entries []HitEntry
}

// Reset drops all entries. Called at the start of every paint pass.
func (m *HitMap) Reset() {
	m.entries = m.entries[:0]
}

// Add records an entry. Paint order means later entries sit on top.
func (m *HitMap) Add(e HitEntry) {
	m.entries = append(m.entries, e)
}

// Len returns the number of entries from the latest pass.
func (m *HitMap) Len() int {
	return len(m.entries)
}

// At resolves the topmost entry covering the point.
func (m *HitMap) At(x, y int) (HitEntry, bool) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].Frame.Contains(x, y) {
			return m.entries[i], true
		}
	}
	return HitEntry{}, false
}

// FocusState holds the interaction state as signals, so every transition
// re-triggers the render loop like any other write.
type FocusState struct {
	Pressed *Signal[NodeID]
	Focused *Signal[NodeID]
}

// NewFocusState creates an empty focus state on the runtime.
func NewFocusState(rt *Runtime) *FocusState {
	return &FocusState{
		Pressed: NewSignal(rt, NoNode),
		Focused: NewSignal(rt, NoNode),
	}
}

// Controller resolves pointer and keyboard events against the latest hit
// map and writes the outcome into signals.
type Controller struct {
	rt    *Runtime
	hits  *HitMap
	focus *FocusState
}

// NewController creates a controller over the given hit map and focus
// state.
func NewController(rt *Runtime, hits *HitMap, focus *FocusState) *Controller {
	return &Controller{rt: rt, hits: hits, focus: focus}
}

// Press resolves the press coordinate. A hit presses and focuses the
// target, blurring the previously focused input first; a miss clears
// focus.
func (c *Controller) Press(x, y int) {
	c.rt.Batch(func() {
		e, ok := c.hits.At(x, y)
		if !ok {
			c.clearFocus()
			return
		}
		prev := c.focus.Focused.Peek()
		if prev != e.ID {
			c.blur(prev)
		}
		c.focus.Pressed.Set(e.ID)
		c.focus.Focused.Set(e.ID)
		if prev != e.ID && e.node.kind == KindInput && e.node.onFocus != nil {
			e.node.onFocus()
		}
	})
}

// Release resolves the release coordinate. A button clicks only when the
// release lands on the currently pressed identity; pressed state clears
// unconditionally.
func (c *Controller) Release(x, y int) {
	c.rt.Batch(func() {
		pressed := c.focus.Pressed.Peek()
		if e, ok := c.hits.At(x, y); ok && e.ID == pressed {
			if e.node.kind == KindButton && e.node.onClick != nil {
				e.node.onClick()
			}
		}
		c.focus.Pressed.Set(NoNode)
	})
}

// Key routes a keyboard event to the focused component. Buttons click on
// Enter or Space. Inputs append printable runes, trim on backspace and
// clear focus (submit) on enter.
func (c *Controller) Key(ev Event) {
	c.rt.Batch(func() {
		n := NodeByID(c.focus.Focused.Peek())
		if n == nil {
			return
		}
		switch n.kind {
		case KindButton:
			if ev.Key == KeyEnter || (ev.Key == KeyRune && ev.Rune == ' ') {
				if n.onClick != nil {
					n.onClick()
				}
			}
		case KindInput:
			switch ev.Key {
			case KeyRune:
				n.input.Update(func(s string) string { return s + string(ev.Rune) })
				if n.onType != nil {
					n.onType(ev.Rune)
				}
			case KeyBackspace:
				n.input.Update(trimLastRune)
			case KeyEnter:
				c.clearFocus()
			}
		}
	})
}

// clearFocus blurs the focused input, if any, and clears the focused id.
func (c *Controller) clearFocus() {
	c.blur(c.focus.Focused.Peek())
	c.focus.Focused.Set(NoNode)
}

// blur fires the blur callback when the id names an input.
func (c *Controller) blur(id NodeID) {
	if n := NodeByID(id); n != nil && n.kind == KindInput && n.onBlur != nil {
		n.onBlur()
	}
}

// trimLastRune removes the final code point of s.
func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return string(runes[:len(runes)-1])
}
