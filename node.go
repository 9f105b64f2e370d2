package letui

// NodeID is an arena-backed integer handle identifying a component node.
// IDs compare in O(1) and never repeat within a process.
type NodeID int32

// NoNode is the null identity: no component pressed, nothing focused.
const NoNode NodeID = 0

// Kind tags what a node is.
type Kind uint8

const (
	KindColumn Kind = iota
	KindRow
	KindText
	KindButton
	KindInput
)

// IsContainer reports whether the kind holds children.
func (k Kind) IsContainer() bool {
	return k == KindColumn || k == KindRow
}

// Interactive reports whether the kind participates in hit testing.
func (k Kind) Interactive() bool {
	return k == KindButton || k == KindInput
}

// BorderStyle selects the border glyph set.
type BorderStyle uint8

const (
	BorderNone BorderStyle = iota
	BorderSquare
	BorderRounded
)

// glyphs returns the glyph set for a drawable style.
func (s BorderStyle) glyphs() BorderGlyphs {
	if s == BorderRounded {
		return RoundedGlyphs
	}
	return SquareGlyphs
}

// Border combines a style with a stroke color.
type Border struct {
	Style BorderStyle
	Color Color
}

// Padding is inner spacing per axis, in cells.
type Padding struct {
	X, Y int
}

// Pad returns uniform padding on both axes.
func Pad(n int) Padding {
	return Padding{X: n, Y: n}
}

// Props is the styling bag shared by all node kinds. The zero value means
// no border, no padding, no gap and inherited colors.
type Props struct {
	Border  Border
	Padding Padding
	Gap     int // containers only: cells between stacked children
	FG      Color
	BG      Color
}

// borderWidth is the per-side box-model cost of the border.
func (p Props) borderWidth() int {
	if p.Border.Style == BorderNone {
		return 0
	}
	return 1
}

// TextSource is a zero-argument text read. Both *Signal[string] and
// *Derived[string] satisfy it; layout and paint read it lazily inside the
// tracked render pass, so text changes re-trigger rendering on their own.
type TextSource interface {
	Get() string
}

// staticText adapts a constant string to TextSource.
type staticText string

func (s staticText) Get() string { return string(s) }

// Static wraps a constant string as a TextSource.
func Static(s string) TextSource {
	return staticText(s)
}

// Node is one element of the component tree. Nodes are built once by the
// factories below; the Frame is overwritten by every layout pass.
type Node struct {
	id    NodeID
	kind  Kind
	props Props

	text  TextSource
	input *Signal[string] // writable text, inputs only

	onClick func()
	onFocus func()
	onBlur  func()
	onType  func(r rune)

	kids    []*Node
	dynamic *Signal[[]*Node]

	// Frame is the resolved absolute geometry from the latest layout pass.
	Frame Frame
}

// ID returns the node's identity handle.
func (n *Node) ID() NodeID {
	return n.id
}

// Kind returns the node's kind tag.
func (n *Node) Kind() Kind {
	return n.kind
}

// Props returns the node's styling bag.
func (n *Node) Props() Props {
	return n.props
}

// Children returns the current child list. For dynamic containers this is a
// tracked signal read, so structural edits flow through the same
// write-notify path as any other state change.
func (n *Node) Children() []*Node {
	if n.dynamic != nil {
		return n.dynamic.Get()
	}
	return n.kids
}

// Text returns the node's current text, or "" for containers.
func (n *Node) Text() string {
	if n.text == nil {
		return ""
	}
	return n.text.Get()
}

// nodeArena hands out pool-index identities. Single goroutine, like the
// rest of the core.
type nodeArena struct {
	nodes []*Node
}

var arena nodeArena

func (a *nodeArena) alloc(n *Node) {
	a.nodes = append(a.nodes, n)
	n.id = NodeID(len(a.nodes))
}

// NodeByID resolves an identity handle back to its node, or nil.
func NodeByID(id NodeID) *Node {
	if id <= 0 || int(id) > len(arena.nodes) {
		return nil
	}
	return arena.nodes[id-1]
}

func newNode(kind Kind, p Props) *Node {
	n := &Node{kind: kind, props: p}
	arena.alloc(n)
	return n
}

// Column creates a container stacking its children vertically.
func Column(p Props, children ...*Node) *Node {
	n := newNode(KindColumn, p)
	n.kids = children
	return n
}

// Row creates a container stacking its children horizontally.
func Row(p Props, children ...*Node) *Node {
	n := newNode(KindRow, p)
	n.kids = children
	return n
}

// ColumnOf creates a vertical container whose children live behind a
// signal. Replacing the slice re-renders like any other write.
func ColumnOf(p Props, children *Signal[[]*Node]) *Node {
	n := newNode(KindColumn, p)
	n.dynamic = children
	return n
}

// RowOf creates a horizontal container whose children live behind a signal.
func RowOf(p Props, children *Signal[[]*Node]) *Node {
	n := newNode(KindRow, p)
	n.dynamic = children
	return n
}

// Text creates a text leaf over any text source.
func Text(p Props, text TextSource) *Node {
	n := newNode(KindText, p)
	n.text = text
	return n
}

// Label creates a text leaf over a constant string.
func Label(p Props, s string) *Node {
	return Text(p, Static(s))
}

// Button creates a clickable leaf. onClick fires on a completed press (the
// release lands on the same button) and on Enter or Space while focused.
func Button(p Props, text TextSource, onClick func()) *Node {
	n := newNode(KindButton, p)
	n.text = text
	n.onClick = onClick
	return n
}

// InputOptions carries the optional input callbacks.
type InputOptions struct {
	OnFocus func()
	OnBlur  func()
	OnType  func(r rune)
}

// Input creates an editable text leaf bound to a writable signal. Printable
// keys append while focused, backspace trims the last code point, enter
// clears focus.
func Input(p Props, text *Signal[string], opts InputOptions) *Node {
	n := newNode(KindInput, p)
	n.text = text
	n.input = text
	n.onFocus = opts.OnFocus
	n.onBlur = opts.OnBlur
	n.onType = opts.OnType
	return n
}
