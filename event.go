package wisp

import "time"

// Key identifies a special key; for KeyChar, Event.Rune carries the
// character, and for KeyUnknown it carries the raw unrecognized byte.
type Key int

const (
	KeyNull Key = iota
	KeyChar
	KeyFunction // F1-F12; Event.Function holds 1-12
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeySpace
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyUnknown
)

// Modifiers is a bitset of modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
	ModSuper
	ModHyper
	ModMeta
)

// Has reports whether m contains every flag in o.
func (m Modifiers) Has(o Modifiers) bool { return m&o == o }

// MouseKind distinguishes the mouse action an Event carries.
type MouseKind int

const (
	MousePress MouseKind = iota
	MouseRelease
	MouseMove
	MouseDrag
	MouseScrollUp
	MouseScrollDown
	MouseScrollLeft
	MouseScrollRight
)

func (k MouseKind) String() string {
	switch k {
	case MousePress:
		return "press"
	case MouseRelease:
		return "release"
	case MouseMove:
		return "move"
	case MouseDrag:
		return "drag"
	case MouseScrollUp:
		return "scroll_up"
	case MouseScrollDown:
		return "scroll_down"
	case MouseScrollLeft:
		return "scroll_left"
	case MouseScrollRight:
		return "scroll_right"
	default:
		return "unknown"
	}
}

// MouseButton identifies which button a press/release/drag refers to.
type MouseButton int

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonMiddle
	MouseButtonRight
)

// Event is anything the input parser or the app loop can push onto the
// event queue. Go has no tagged union, so (following gdamore/tcell's
// Event interface, the same shape lixenwraith-vi-fighter and
// kungfusheep-glyph build on top of) each kind is its own concrete type
// implementing this interface; a Widget type-switches on it.
type Event interface {
	// When returns the time the event was produced.
	When() time.Time
}

type base struct{ at time.Time }

func (b base) When() time.Time { return b.at }

func newBase() base { return base{at: time.Now()} }

// KeyEvent is a keyboard event.
type KeyEvent struct {
	base
	Key       Key
	Rune      rune
	Function  int // 1-12 when Key == KeyFunction
	Modifiers Modifiers
}

// MouseEvent is a mouse event, 0-based column/row.
type MouseEvent struct {
	base
	Kind      MouseKind
	X, Y      int
	Button    MouseButton
	Modifiers Modifiers
}

// ResizeEvent reports the terminal's new size in columns/rows.
type ResizeEvent struct {
	base
	Cols, Rows int
}

// FocusEvent reports the terminal gaining or losing input focus.
type FocusEvent struct {
	base
	Gained bool
}

// PasteEvent carries the verbatim content of a bracketed paste.
type PasteEvent struct {
	base
	Content string
}

// TickEvent is synthesized once per frame when the app loop's ticking is
// enabled.
type TickEvent struct {
	base
	Number  uint64
	Delta   time.Duration
	Elapsed time.Duration
}

// UserEvent carries an application-defined payload through the same queue
// and dispatch path as built-in events.
type UserEvent struct {
	base
	TypeID string
	Data   any
}

// QuitEvent requests the app loop stop after the current frame's dispatch.
type QuitEvent struct{ base }

func newKeyEvent(k Key, r rune, mods Modifiers) KeyEvent {
	return KeyEvent{base: newBase(), Key: k, Rune: r, Modifiers: mods}
}

func newFunctionKeyEvent(n int, mods Modifiers) KeyEvent {
	return KeyEvent{base: newBase(), Key: KeyFunction, Function: n, Modifiers: mods}
}
