package wisp

// Rect is an axis-aligned rectangle in cell coordinates, used for clipping
// and for the sub-screen a RenderContext hands to a widget.
type Rect struct {
	X, Y, W, H int
}

// Screen is a width x height grid of cells with a cursor and a current
// style for subsequent writes. It is the buffer widgets draw into and the
// buffer the differ compares against; Renderer owns two of these (back and
// front).
type Screen struct {
	width, height int
	cells         []Cell

	cursorX, cursorY int
	pendingWrap      bool
	style            Style

	// lastX/lastY track the most recently written primary cell so a
	// zero-width combining mark arriving via PutChar can be folded into it
	// instead of opening a new cell. -1 means "nothing written yet".
	lastX, lastY int
}

// NewScreen allocates a width*height screen filled with blanks in the
// default style, cursor at (0,0).
func NewScreen(width, height int) *Screen {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s := &Screen{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		lastX:  -1,
		lastY:  -1,
	}
	s.fill(blank)
	return s
}

// Width and Height report the current dimensions.
func (s *Screen) Width() int  { return s.width }
func (s *Screen) Height() int { return s.height }

// Cursor returns the current cursor position.
func (s *Screen) Cursor() (x, y int) { return s.cursorX, s.cursorY }

func (s *Screen) fill(c Cell) {
	for i := range s.cells {
		s.cells[i] = c
	}
}

// Resize reallocates the cell grid, preserving the overlapping region and
// filling newly exposed cells with blanks. The cursor is clamped to the new
// bounds. Non-positive dimensions clamp to 1x1 rather than failing; the
// caller that owns a Logger (Renderer.Resize) is responsible for reporting
// that a clamp happened, since Screen itself is unlogged data-model
// plumbing.
func (s *Screen) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	next := make([]Cell, width*height)
	for i := range next {
		next[i] = blank
	}

	minW, minH := width, height
	if s.width < minW {
		minW = s.width
	}
	if s.height < minH {
		minH = s.height
	}
	for y := 0; y < minH; y++ {
		copy(next[y*width:y*width+minW], s.cells[y*s.width:y*s.width+minW])
	}

	s.width, s.height, s.cells = width, height, next
	s.MoveCursor(s.cursorX, s.cursorY)
	s.lastX, s.lastY = -1, -1
}

// Clear fills the screen with blanks in the current style and homes the
// cursor.
func (s *Screen) Clear() {
	blankStyled := Cell{Grapheme: " ", Width: 1, Style: s.style}
	s.fill(blankStyled)
	s.cursorX, s.cursorY = 0, 0
	s.pendingWrap = false
	s.lastX, s.lastY = -1, -1
}

// MoveCursor sets the cursor position, clamped to [0,width] x [0,height).
// x == width is a valid "parked" position representing a pending line wrap.
func (s *Screen) MoveCursor(x, y int) {
	if y < 0 {
		y = 0
	}
	if y >= s.height {
		y = s.height - 1
	}
	if x < 0 {
		x = 0
	}
	if x > s.width {
		x = s.width
	}
	s.cursorX, s.cursorY = x, y
	s.pendingWrap = x == s.width
}

// SetStyle replaces the style applied to subsequent writes.
func (s *Screen) SetStyle(st Style) { s.style = st }

// Style returns the current style.
func (s *Screen) Style() Style { return s.style }

func (s *Screen) index(x, y int) (int, bool) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return 0, false
	}
	return y*s.width + x, true
}

// Get returns the cell at (x,y), or the zero Cell if out of bounds.
func (s *Screen) Get(x, y int) Cell {
	idx, ok := s.index(x, y)
	if !ok {
		return Cell{}
	}
	return s.cells[idx]
}

// set writes a cell directly, bypassing the cursor.
func (s *Screen) set(x, y int, c Cell) {
	if idx, ok := s.index(x, y); ok {
		s.cells[idx] = c
	}
}

// FillRect bulk-fills a rectangle, clipped to the screen bounds.
func (s *Screen) FillRect(r Rect, c Cell) {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.W, r.Y+r.H
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > s.width {
		x1 = s.width
	}
	if y1 > s.height {
		y1 = s.height
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			s.set(x, y, c)
		}
	}
}

// PutChar writes one grapheme cluster at the cursor using the current
// style, then advances the cursor by the cluster's display width.
//
// A zero-width cluster (a combining mark) is folded into the most recently
// written cell instead of occupying a new one; if nothing has been written
// yet (an empty screen, cursor never advanced) it is discarded rather than
// panicking or wrapping to a negative index.
//
// A glyph that would cross the right edge is clipped, not wrapped: the
// glyph is not written and the trailing column is set to blank.
func (s *Screen) PutChar(cluster string) {
	w := clusterWidth(cluster)

	if w == 0 {
		if s.lastX >= 0 {
			if idx, ok := s.index(s.lastX, s.lastY); ok {
				s.cells[idx].Grapheme += cluster
			}
		}
		return
	}

	x, y := s.cursorX, s.cursorY
	if x+w > s.width {
		// Clipped: the glyph does not fit. Park the cursor at the edge so a
		// subsequent write does not silently retry the same spot.
		if x < s.width {
			s.set(x, y, blank)
		}
		s.cursorX = s.width
		s.pendingWrap = true
		return
	}

	s.set(x, y, Cell{Grapheme: cluster, Width: uint8(w), Style: s.style})
	if w == 2 {
		s.set(x+1, y, continuation(s.style))
	}
	s.lastX, s.lastY = x, y

	s.cursorX = x + w
	s.pendingWrap = s.cursorX == s.width
}

// PutString decodes data as a sequence of extended grapheme clusters and
// writes each one via PutChar. Bytes with value < 0x20 (control bytes,
// including newline) are skipped rather than rendered.
func (s *Screen) PutString(data []byte) {
	filtered := make([]byte, 0, len(data))
	for _, b := range data {
		if b < 0x20 {
			continue
		}
		filtered = append(filtered, b)
	}
	for _, cluster := range graphemes(string(filtered)) {
		s.PutChar(cluster)
	}
}
