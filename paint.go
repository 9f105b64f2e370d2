package letui

// Painter walks a laid-out tree and writes cells. One pass fills every
// node's frame with its resolved background, draws borders, writes leaf
// text and rebuilds the hit map from nothing. Pressed and focused overlays
// are read fresh from the focus signals each pass, never cached.
type Painter struct {
	buf   *Buffer
	hits  *HitMap
	focus *FocusState
}

// NewPainter creates a painter over the given buffer, hit map and focus
// state.
func NewPainter(buf *Buffer, hits *HitMap, focus *FocusState) *Painter {
	return &Painter{buf: buf, hits: hits, focus: focus}
}

// Paint renders the tree rooted at root. The hit map is reset first, so
// stale entries from earlier passes never survive.
func (p *Painter) Paint(root *Node) {
	p.hits.Reset()
	p.paint(root, DefaultBG)
}

// paint renders one node and recurses, propagating the inherited
// background: a node without its own bg paints in the nearest ancestor's.
func (p *Painter) paint(n *Node, inherited Color) {
	f := n.Frame
	bg := n.props.BG.Or(inherited)
	fg := n.props.FG.Or(DefaultFG)

	p.buf.FillRect(f.X, f.Y, f.W, f.H, Cell{Rune: ' ', FG: fg, BG: bg})

	if n.props.Border.Style != BorderNone {
		stroke := n.props.Border.Color.Or(fg)
		if n.kind == KindInput && p.focus.Focused.Get() == n.id {
			// Focused inputs repaint their border in the foreground color
			// as the focus highlight.
			stroke = fg
		}
		p.buf.DrawBorder(f.X, f.Y, f.W, f.H, n.props.Border.Style.glyphs(), stroke, bg)
	}

	if !n.kind.IsContainer() {
		b := n.props.borderWidth()
		ox := f.X + b + n.props.Padding.X
		oy := f.Y + b + n.props.Padding.Y
		tfg, tbg := fg, bg
		if n.kind == KindButton && p.focus.Pressed.Get() == n.id {
			tfg, tbg = tbg, tfg
		}
		p.buf.WriteString(ox, oy, n.Text(), tfg, tbg)
	}

	if n.kind.Interactive() {
		p.hits.Add(HitEntry{Frame: f, ID: n.id, node: n})
	}

	for _, child := range n.Children() {
		p.paint(child, bg)
	}
}
