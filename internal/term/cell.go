// Package term implements the embedded terminal's screen model: a VT
// escape-sequence parser driving a cell grid with primary/alternate
// buffers, a scroll region and bounded scrollback.
package term

// ColorKind distinguishes the three color forms SGR can select.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorIndexed
	ColorRGB
)

// Color is a terminal color: the default, a palette index, or 24-bit RGB.
type Color struct {
	Kind    ColorKind
	Index   uint8
	R, G, B uint8
}

// IndexedColor returns a palette color.
func IndexedColor(idx uint8) Color {
	return Color{Kind: ColorIndexed, Index: idx}
}

// RGBColor returns a 24-bit color.
func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// Attr is the cell attribute bitset.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrItalic
	AttrUnderline
	AttrStrikethrough
	AttrDim
	AttrReverse
	AttrHidden
)

// Has reports whether all bits in mask are set.
func (a Attr) Has(mask Attr) bool { return a&mask == mask }

// Cell is one character cell of the grid.
type Cell struct {
	Ch        rune
	FG        Color
	BG        Color
	Attrs     Attr
	Hyperlink string // OSC 8 URI attached to the cell, if any
}

// blankCell is what erase operations write.
var blankCell = Cell{Ch: ' '}
