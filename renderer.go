package wisp

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Renderer owns the back buffer (what the current frame draws into) and the
// front buffer (what is on screen), plus a pooled output byte buffer. It
// computes the minimal mutation script between the two and emits it.
type Renderer struct {
	back, front *Screen
	cap         Capability

	out []byte

	lastStyle    Style
	lastX, lastY int
	havePos      bool

	dirty bool

	// CursorVisible/CursorX/CursorY: if the application wants the hardware
	// cursor parked somewhere after a flush (e.g. at a text input caret),
	// it sets these; otherwise the terminal controller is responsible for
	// hiding the cursor.
	CursorVisible bool
	CursorX       int
	CursorY       int

	logger Logger
}

// NewRenderer allocates a renderer with back/front buffers of the given
// size and an output buffer pre-sized for a full-screen truecolor redraw
// (~24 bytes/cell worst case), so steady-state flushes never grow it.
func NewRenderer(width, height int, cap Capability) *Renderer {
	return &Renderer{
		back:  NewScreen(width, height),
		front: NewScreen(width, height),
		cap:   cap,
		out:   make([]byte, 0, worstCaseBytes(width, height)),
		dirty: true, // first frame must do a full redraw

		// The real terminal starts in the default rendition with no prior
		// cursor placement assumed; tracking lastStyle as the zero Style
		// (rather than "no style emitted yet") means a widget that never
		// changes from default style produces no SGR bytes at all.
		lastStyle: Style{},
		logger:    noopLogger{},
	}
}

// SetLogger installs the sink used to report a clamped resize. A nil
// logger is treated as a no-op sink.
func (r *Renderer) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	r.logger = l
}

func worstCaseBytes(width, height int) int {
	n := width * height * 24
	if n < 1024 {
		n = 1024
	}
	return n
}

// Back returns the buffer widgets draw into.
func (r *Renderer) Back() *Screen { return r.back }

// SetCapability overrides the color capability used to choose SGR encodings.
func (r *Renderer) SetCapability(c Capability) { r.cap = c }

// MarkDirty flags that the back buffer must be diffed and flushed even if
// no handler explicitly requested a redraw (used for the first frame and
// after a resize).
func (r *Renderer) MarkDirty() { r.dirty = true }

// Dirty reports whether a flush is currently pending.
func (r *Renderer) Dirty() bool { return r.dirty }

// BeginFrame clears the back buffer to blanks in the default style. The
// dirty flag is left untouched here — callers set it via MarkDirty once
// they know a handler asked for a redraw.
func (r *Renderer) BeginFrame() {
	r.back.SetStyle(Style{})
	r.back.Clear()
}

// Resize reallocates both buffers and marks the renderer fully dirty so the
// next flush performs a complete redraw of the new area.
func (r *Renderer) Resize(width, height int) {
	if width < 1 || height < 1 {
		r.logger.Warn("resize reported non-positive dimensions, clamping to 1x1",
			"err", wrapErr(ErrResizeInvalid, fmt.Errorf("reported size %dx%d", width, height)))
	}
	r.back = NewScreen(width, height)
	r.front = NewScreen(width, height)
	// No real cell is 255 columns wide, so filling front with this cell
	// makes every back cell differ and the next flush redraws everything.
	r.front.fill(Cell{Width: 0xFF})
	r.havePos = false
	r.out = r.out[:0]
	if cap(r.out) < worstCaseBytes(width, height) {
		r.out = make([]byte, 0, worstCaseBytes(width, height))
	}
	r.dirty = true
}

// Flush computes the diff between back and front, writes it to sink in one
// call, and on success swaps the buffers (front becomes the just-drawn
// back; the old front is reused as the next back). It returns the number
// of bytes written.
//
// If the write fails, front is left unchanged and the dirty flag stays
// set, so the next flush retries a full diff against the same front
// instead of silently adopting a partially-written screen as the new
// baseline.
func (r *Renderer) Flush(sink io.Writer) (int, error) {
	r.out = r.out[:0]
	r.diff()

	if len(r.out) == 0 {
		r.dirty = false
		r.back, r.front = r.front, r.back
		return 0, nil
	}

	n, err := sink.Write(r.out)
	if err != nil {
		return n, err
	}

	r.dirty = false
	r.back, r.front = r.front, r.back
	return n, nil
}

func (r *Renderer) diff() {
	w, h := r.back.width, r.back.height
	skip := make([]bool, 0) // continuation columns already emitted by a wide cell

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if idx < len(skip) && skip[idx] {
				continue
			}
			back := r.back.cells[idx]
			front := r.front.cells[idx]
			if back == front {
				continue
			}

			if !r.havePos || r.lastX != x || r.lastY != y {
				r.writeCursorMove(x, y)
				r.havePos = true
			}

			if back.Style != r.lastStyle {
				r.out = append(r.out, buildSGR(r.lastStyle, back.Style, r.cap)...)
				r.lastStyle = back.Style
			}

			g := back.Grapheme
			if g == "" {
				g = " "
			}
			r.out = append(r.out, g...)
			r.lastX, r.lastY = x+int(back.Width), y
			if back.Width == 0 {
				r.lastX = x + 1
			}

			if back.Width == 2 && x+1 < w {
				// The continuation column is implicitly updated; never
				// re-emit it even though it differs cell-for-cell.
				for len(skip) <= idx+1 {
					skip = append(skip, false)
				}
				skip[idx+1] = true
			}
		}
	}

	if r.CursorVisible {
		r.writeCursorMove(r.CursorX, r.CursorY)
		r.havePos = false // force a fresh move next frame
	}
}

func (r *Renderer) writeCursorMove(x, y int) {
	r.out = append(r.out, "\x1b["...)
	r.out = strconv.AppendInt(r.out, int64(y+1), 10)
	r.out = append(r.out, ';')
	r.out = strconv.AppendInt(r.out, int64(x+1), 10)
	r.out = append(r.out, 'H')
	r.lastX, r.lastY = x, y
}

// buildSGR returns the bytes needed to transition the terminal's rendition
// state from prev to next. When any attribute is being turned off, a full
// reset (ESC[0m) plus reapplication of next's attributes/colors is used;
// the individual attribute "off" codes are never emitted. Otherwise only
// the incremental attribute/color changes are emitted.
func buildSGR(prev, next Style, cap Capability) []byte {
	turnedOff := (prev.Attr &^ next.Attr) != 0
	var codes []string

	if turnedOff {
		codes = append(codes, "0")
		codes = appendAttrCodes(codes, next.Attr)
		codes = appendColorCode(codes, next.Fg, false, cap)
		codes = appendColorCode(codes, next.Bg, true, cap)
	} else {
		newlyOn := next.Attr &^ prev.Attr
		codes = appendAttrCodes(codes, newlyOn)
		if next.Fg != prev.Fg {
			codes = appendColorCode(codes, next.Fg, false, cap)
		}
		if next.Bg != prev.Bg {
			codes = appendColorCode(codes, next.Bg, true, cap)
		}
	}

	if len(codes) == 0 {
		return nil
	}
	return []byte("\x1b[" + strings.Join(codes, ";") + "m")
}

var attrCodes = []struct {
	bit  Attr
	code string
}{
	{AttrBold, "1"},
	{AttrDim, "2"},
	{AttrItalic, "3"},
	{AttrUnderline, "4"},
	{AttrBlink, "5"},
	{AttrReverse, "7"},
	{AttrHidden, "8"},
	{AttrStrikethrough, "9"},
}

func appendAttrCodes(codes []string, a Attr) []string {
	for _, c := range attrCodes {
		if a.Has(c.bit) {
			codes = append(codes, c.code)
		}
	}
	return codes
}

// appendColorCode appends the narrowest SGR code(s) representing color,
// choosing truecolor/256/16 encoding based on cap and downsampling via
// nearestANSI256/nearestANSI16 when the terminal can't do truecolor.
func appendColorCode(codes []string, color Color, background bool, cap Capability) []string {
	base16 := 30
	baseBright16 := 90
	base256 := 38
	if background {
		base16 = 40
		baseBright16 = 100
		base256 = 48
	}

	switch color.Kind {
	case ColorDefault:
		if background {
			return append(codes, "49")
		}
		return append(codes, "39")

	case ColorANSI:
		idx := int(color.Index)
		if idx < 8 {
			return append(codes, strconv.Itoa(base16+idx))
		}
		return append(codes, strconv.Itoa(baseBright16+idx-8))

	case Color256:
		if cap == CapabilityNone || cap == Capability16 {
			return append(codes, strconv.Itoa(colorCodeFor16(int(color.Index), base16, baseBright16)))
		}
		return append(codes, strconv.Itoa(base256), "5", strconv.Itoa(int(color.Index)))

	case ColorRGB:
		switch cap {
		case CapabilityTrueColor:
			return append(codes, strconv.Itoa(base256), "2",
				strconv.Itoa(int(color.R)), strconv.Itoa(int(color.G)), strconv.Itoa(int(color.B)))
		case Capability256:
			idx := nearestANSI256(color.R, color.G, color.B)
			return append(codes, strconv.Itoa(base256), "5", strconv.Itoa(int(idx)))
		default:
			idx := nearestANSI16(color.R, color.G, color.B)
			return append(codes, strconv.Itoa(colorCodeFor16(int(idx), base16, baseBright16)))
		}
	}
	return codes
}

// colorCodeFor16 maps a 0-15 index (or an arbitrary 256 index, best-effort)
// onto the standard/bright 16-color SGR code ranges.
func colorCodeFor16(idx, base16, baseBright16 int) int {
	idx %= 16
	if idx < 8 {
		return base16 + idx
	}
	return baseBright16 + idx - 8
}
