package letui

import "unicode/utf8"

// Layout resolves absolute frames for the whole tree. Containers take the
// granted box; stacking is pre-order along the main axis with a uniform gap
// between children. Each child is offered the full cross-axis content size:
// container children stretch to it, leaves keep their intrinsic size on
// both axes. Nested containers resolve their main-axis extent from content,
// measured bottom-up.
//
// Layout is pure geometry: it reads text lengths (a tracked read when run
// inside the render effect) and branches on kind, and never touches the
// cell buffer. Negative or oversized inputs are not clamped; malformed
// geometry is a programmer error.
func Layout(root *Node, width, height int) {
	if root.kind.IsContainer() {
		layout(root, 0, 0, width, height)
		return
	}
	w, h := measure(root)
	layout(root, 0, 0, w, h)
}

// measure returns the intrinsic size of a node. Leaves size from their text:
// width = code-point count + horizontal chrome, height = one line + vertical
// chrome. Containers sum children along the main axis (plus gaps) and take
// the max across, plus their own chrome. Zero-child containers collapse to
// chrome only.
func measure(n *Node) (int, int) {
	b := n.props.borderWidth()
	pad := n.props.Padding
	chromeW := 2*pad.X + 2*b
	chromeH := 2*pad.Y + 2*b

	if !n.kind.IsContainer() {
		return utf8.RuneCountInString(n.Text()) + chromeW, 1 + chromeH
	}

	kids := n.Children()
	if len(kids) == 0 {
		return chromeW, chromeH
	}

	var mainSum, crossMax int
	for i, child := range kids {
		cw, ch := measure(child)
		if n.kind == KindColumn {
			mainSum += ch
			if cw > crossMax {
				crossMax = cw
			}
		} else {
			mainSum += cw
			if ch > crossMax {
				crossMax = ch
			}
		}
		if i > 0 {
			mainSum += n.props.Gap
		}
	}

	if n.kind == KindColumn {
		return crossMax + chromeW, mainSum + chromeH
	}
	return mainSum + chromeW, crossMax + chromeH
}

// layout assigns the node's frame and positions children inside the content
// box, which is the frame minus border and per-axis padding.
func layout(n *Node, x, y, w, h int) {
	n.Frame = Frame{X: x, Y: y, W: w, H: h}

	if !n.kind.IsContainer() {
		return
	}

	b := n.props.borderWidth()
	pad := n.props.Padding
	contentX := x + b + pad.X
	contentY := y + b + pad.Y
	contentW := w - 2*(b+pad.X)
	contentH := h - 2*(b+pad.Y)

	cursor := 0
	for _, child := range n.Children() {
		cw, ch := measure(child)
		if n.kind == KindColumn {
			if child.kind.IsContainer() {
				cw = contentW // cross-axis stretch
			}
			layout(child, contentX, contentY+cursor, cw, ch)
			cursor += ch + n.props.Gap
		} else {
			if child.kind.IsContainer() {
				ch = contentH
			}
			layout(child, contentX+cursor, contentY, cw, ch)
			cursor += cw + n.props.Gap
		}
	}
}
