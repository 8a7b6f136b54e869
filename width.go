package wisp

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// graphemes splits s into extended grapheme clusters in order. It is the
// single place that decides cluster boundaries so Screen.PutString and
// RenderContext.PutString never disagree about where one glyph ends and the
// next begins.
func graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// clusterWidth returns the display width in columns of a single grapheme
// cluster: 0 for combining marks and other zero-width content, 1 for most
// glyphs, 2 for East-Asian wide and fullwidth glyphs (including most emoji).
// Screen and RenderContext both call this; the Renderer reads the width that
// Screen stored in each Cell, so back and front buffers agree on column
// advancement.
func clusterWidth(cluster string) int {
	if cluster == "" {
		return 0
	}
	w := 0
	for _, r := range cluster {
		if rw := runewidth.RuneWidth(r); rw > w {
			w = rw
		}
	}
	return w
}
