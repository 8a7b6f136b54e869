package wisp

// EventResult is a Widget event handler's verdict.
type EventResult int

const (
	// Ignored means the widget did not act on the event at all.
	Ignored EventResult = iota
	// Consumed means the widget handled the event; no further effect.
	Consumed
	// NeedsRedraw means the widget handled the event and changed state
	// that affects its next render; the app loop marks the renderer dirty.
	NeedsRedraw
	// Propagate means the widget did not (fully) handle the event and it
	// should be offered to the next widget in whatever traversal order
	// the root widget defines.
	Propagate
	// Quit requests the app loop stop after this frame's dispatch.
	Quit
)

// Widget is anything the App loop can drive: render into a bounded
// region and react to events. Expressed as an interface with dynamic
// dispatch rather than a tagged variant, the idiomatic Go analogue of the
// source's function-pointer dispatch.
type Widget interface {
	// Render draws into ctx. It takes no error return — rendering a
	// widget tree is expected to be a pure, total function of state; a
	// widget that fails to draw should draw nothing rather than error.
	Render(ctx *RenderContext)
	// HandleEvent reacts to ev and reports what the app loop should do.
	HandleEvent(ev Event) EventResult
}

// RenderContext is the view a Widget draws through: a sub-region of the
// renderer's back buffer clipped to Rect, plus the style that applies if
// the widget doesn't set its own.
type RenderContext struct {
	screen *Screen
	Rect   Rect
	Style  Style
}

// NewRenderContext bounds ctx to rect within screen.
func NewRenderContext(screen *Screen, rect Rect) *RenderContext {
	return &RenderContext{screen: screen, Rect: rect, Style: screen.Style()}
}

// Sub returns a context further bounded to rect, interpreted relative to
// this context's own origin and clipped to it — the mechanism a
// container widget uses to hand each child only its allotted area.
func (c *RenderContext) Sub(rect Rect) *RenderContext {
	abs := Rect{
		X: c.Rect.X + rect.X,
		Y: c.Rect.Y + rect.Y,
		W: rect.W,
		H: rect.H,
	}
	if abs.X+abs.W > c.Rect.X+c.Rect.W {
		abs.W = c.Rect.X + c.Rect.W - abs.X
	}
	if abs.Y+abs.H > c.Rect.Y+c.Rect.H {
		abs.H = c.Rect.Y + c.Rect.H - abs.Y
	}
	if abs.W < 0 {
		abs.W = 0
	}
	if abs.H < 0 {
		abs.H = 0
	}
	return &RenderContext{screen: c.screen, Rect: abs, Style: c.Style}
}

// SetStyle changes the style subsequent Put calls use when a cell-level
// style isn't given explicitly, and applies it to the underlying screen's
// current style so PutString picks it up.
func (c *RenderContext) SetStyle(s Style) {
	c.Style = s
	c.screen.SetStyle(s)
}

// PutString writes data, grapheme-segmented, starting at (x, y) relative
// to Rect, clipped to Rect's bounds (not the whole screen).
func (c *RenderContext) PutString(x, y int, data []byte) {
	if y < 0 || y >= c.Rect.H {
		return
	}
	absY := c.Rect.Y + y
	col := x
	for _, g := range graphemes(string(data)) {
		w := clusterWidth(g)
		if col < 0 {
			col += w
			continue
		}
		if col >= c.Rect.W || col+w > c.Rect.W {
			return
		}
		absX := c.Rect.X + col
		c.screen.MoveCursor(absX, absY)
		c.screen.PutChar(g)
		col += w
	}
}

// Fill paints every cell of Rect with c.
func (c *RenderContext) Fill(cell Cell) {
	c.screen.FillRect(c.Rect, cell)
}
