package wisp

// Cell is one occupied terminal position: a grapheme cluster (empty for a
// wide-char continuation slot), its display width in columns, and a style.
type Cell struct {
	Grapheme string
	Width    uint8
	Style    Style
}

// blank is a single space in the default style, width 1 — the screen's
// fill value for Clear and newly exposed cells after Resize.
var blank = Cell{Grapheme: " ", Width: 1}

// continuation marks the trailing column of a width-2 cluster. Its Grapheme
// is empty; column addressing always targets the cluster's first cell.
func continuation(style Style) Cell {
	return Cell{Grapheme: "", Width: 0, Style: style}
}
