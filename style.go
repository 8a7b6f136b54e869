package wisp

// Attr is a bitfield of text attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrHidden
	AttrStrikethrough
)

// Has reports whether a contains every flag in o.
func (a Attr) Has(o Attr) bool { return a&o == o }

// ColorKind selects which representation a Color carries.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorANSI // one of the 16 standard indices, 0-15
	Color256  // one of the 256 palette indices
	ColorRGB  // 24-bit truecolor
)

// Color is a foreground or background color value. Zero value is ColorDefault.
type Color struct {
	Kind    ColorKind
	Index   uint8 // valid for ColorANSI (0-15) and Color256 (0-255)
	R, G, B uint8 // valid for ColorRGB
}

// Default is the terminal's default color.
var Default = Color{Kind: ColorDefault}

// ANSI builds a 16-color (0-15) color value.
func ANSI(index uint8) Color {
	return Color{Kind: ColorANSI, Index: index % 16}
}

// Palette builds a 256-color palette index value.
func Palette(index uint8) Color {
	return Color{Kind: Color256, Index: index}
}

// RGB builds a 24-bit truecolor value.
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// Style describes the visual appearance of a cell. Two styles compare
// structurally with ==; that equality is what the differ uses to decide
// whether an SGR sequence must be emitted.
type Style struct {
	Fg   Color
	Bg   Color
	Attr Attr
}

// WithAttr returns a copy of s with the given attribute flags set.
func (s Style) WithAttr(a Attr) Style {
	s.Attr |= a
	return s
}
