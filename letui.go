// Package letui is a reactive terminal UI toolkit. Application state lives
// in signals; a single tracked render effect lays out and paints a component
// tree into a cell buffer whenever any state it read changes. Pointer and
// keyboard events resolve against the painted tree and write back into the
// same signals, closing the loop.
package letui

// Color is a 24-bit RGB value. The zero value is "unset": unset backgrounds
// cascade from the nearest ancestor during paint, unset foregrounds fall
// back to DefaultFG. Bit 24 marks a carried value so that black stays
// distinct from unset.
type Color int32

// NoColor is the absence of a color.
const NoColor Color = 0

const colorSet = 1 << 24

// Default cell colors, matching a plain white-on-black terminal.
const (
	DefaultFG Color = colorSet | 0xFFFFFF
	DefaultBG Color = colorSet | 0x000000
)

// RGB packs three 8-bit channels into a Color.
func RGB(r, g, b uint8) Color {
	return Color(colorSet | int32(r)<<16 | int32(g)<<8 | int32(b))
}

// Hex returns a Color from a 0xRRGGBB literal.
func Hex(v uint32) Color {
	return Color(colorSet | int32(v&0xFFFFFF))
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// Packed returns the 24-bit 0xRRGGBB payload.
func (c Color) Packed() uint32 { return uint32(c) & 0xFFFFFF }

// Set reports whether the color carries a value.
func (c Color) Set() bool { return c&colorSet != 0 }

// Or returns c if set, otherwise the fallback.
func (c Color) Or(fallback Color) Color {
	if c.Set() {
		return c
	}
	return fallback
}

// Cell represents a single character cell on the terminal. Cells in the
// buffer are always fully resolved: paint substitutes inherited and default
// colors before writing.
type Cell struct {
	Rune rune
	FG   Color
	BG   Color
}

// EmptyCell returns a blank cell in the default colors.
func EmptyCell() Cell {
	return Cell{Rune: ' ', FG: DefaultFG, BG: DefaultBG}
}

// Equal returns true if two cells are equal.
func (c Cell) Equal(other Cell) bool {
	return c == other
}

// Frame is the resolved geometry of a component on the terminal grid,
// in absolute cell coordinates.
type Frame struct {
	X, Y int
	W, H int
}

// Contains reports whether the point lies inside the frame.
func (f Frame) Contains(x, y int) bool {
	return x >= f.X && x < f.X+f.W && y >= f.Y && y < f.Y+f.H
}
