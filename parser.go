package wisp

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// DefaultEscapeTimeout is the window the parser waits for follow-up bytes
// before concluding a lone 0x1B is a bare Escape key rather than the start
// of an escape sequence.
const DefaultEscapeTimeout = 50 * time.Millisecond

// Parser is a stateful byte-to-event decoder for VT-style CSI/SS3,
// SGR/X10 mouse and bracketed-paste input streams. Bytes are fed
// incrementally via Feed; an incomplete sequence is held in an internal
// buffer (capped at 32 bytes) until either more bytes complete it or
// FlushTimeout concludes it was a bare Escape.
//
// Now is an injectable clock so the escape-timeout disambiguation can be
// driven deterministically in tests instead of by the wall clock.
type Parser struct {
	pending []byte
	lastRx  time.Time
	Timeout time.Duration
	Now     func() time.Time
	Logger  Logger

	inPaste  bool
	pasteBuf []byte
}

// NewParser creates a parser with the default 50ms escape timeout, the
// real wall clock, and a no-op logger.
func NewParser() *Parser {
	return &Parser{
		Timeout: DefaultEscapeTimeout,
		Now:     time.Now,
		Logger:  noopLogger{},
	}
}

func (p *Parser) logger() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return noopLogger{}
}

func (p *Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Pending reports whether the parser is holding an incomplete sequence.
func (p *Parser) Pending() bool { return len(p.pending) > 0 }

// Feed decodes as many complete events as data contains. Any trailing
// incomplete escape sequence — including a lone 0x1B that might be the
// start of one — is retained internally; call FlushTimeout once the
// configured Timeout has elapsed with no further input to resolve it.
func (p *Parser) Feed(data []byte) []Event {
	if len(data) == 0 && len(p.pending) == 0 {
		return nil
	}

	buf := data
	if len(p.pending) > 0 {
		buf = append(append([]byte{}, p.pending...), data...)
		p.pending = nil
	}

	var events []Event
	pos := 0
	for pos < len(buf) {
		if p.inPaste {
			// stepPaste owns its own accumulation buffer (pasteBuf); unlike
			// the escape-sequence path below it must never also be copied
			// into p.pending, or the next Feed call would re-append the
			// same bytes on top of what stepPaste already buffered.
			ev, consumed, complete := p.stepPaste(buf[pos:])
			if !complete {
				pos = len(buf)
				break
			}
			if ev != nil {
				events = append(events, ev)
			}
			pos += consumed
			continue
		}

		ev, consumed, complete := p.step(buf[pos:])
		if !complete {
			p.pending = append([]byte{}, buf[pos:]...)
			if len(p.pending) > 32 {
				// Malformed beyond any recognized sequence length; drop it
				// rather than buffer unboundedly.
				dropped := len(p.pending)
				p.pending = nil
				p.logger().Warn("dropping unrecognized input sequence",
					"err", wrapErr(ErrParserMalformed, fmt.Errorf("%d pending bytes exceeded the escape-sequence buffer", dropped)))
			}
			break
		}
		if ev != nil {
			events = append(events, ev)
		}
		pos += consumed
	}

	p.lastRx = p.now()
	return events
}

// FlushTimeout resolves a pending lone-Escape once Timeout has elapsed
// since the last byte arrived, returning a bare Escape KeyEvent. It is a
// no-op (returns nil) if nothing is pending or the timeout has not elapsed.
func (p *Parser) FlushTimeout() []Event {
	if !p.Pending() {
		return nil
	}
	if p.now().Sub(p.lastRx) < p.Timeout {
		return nil
	}
	// Only a bare, unaccompanied ESC resolves this way; a partial CSI/SS3
	// sequence that timed out is simply discarded (ParserMalformed).
	isBareEscape := len(p.pending) == 1 && p.pending[0] == 0x1B
	p.pending = nil
	if isBareEscape {
		return []Event{newKeyEvent(KeyEscape, 0, 0)}
	}
	return nil
}

// step decodes one non-paste event (or determines more bytes are needed)
// from the front of b; consumed is only meaningful when complete is true.
// Feed routes to stepPaste directly while p.inPaste so paste accumulation
// never passes through the pending-escape buffering below.
func (p *Parser) step(b []byte) (ev Event, consumed int, complete bool) {
	first := b[0]

	switch {
	case first == 0x1B:
		return p.stepEscape(b)
	case first < 0x20:
		return p.stepControl(b)
	default:
		return p.stepPlain(b)
	}
}

func (p *Parser) stepControl(b []byte) (Event, int, bool) {
	switch b[0] {
	case 0x08, 0x7F:
		return newKeyEvent(KeyBackspace, 0, 0), 1, true
	case 0x09:
		return newKeyEvent(KeyTab, 0, 0), 1, true
	case 0x0A, 0x0D:
		return newKeyEvent(KeyEnter, 0, 0), 1, true
	case 0x00:
		return newKeyEvent(KeyChar, ' ', ModCtrl), 1, true
	default:
		return newKeyEvent(KeyChar, rune(b[0]+'a'-1), ModCtrl), 1, true
	}
}

func (p *Parser) stepPlain(b []byte) (Event, int, bool) {
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		if !utf8.FullRune(b) {
			return nil, 0, false // wait for the rest of the rune
		}
		return newKeyEvent(KeyUnknown, rune(b[0]), 0), 1, true
	}
	if r == ' ' {
		return newKeyEvent(KeySpace, ' ', 0), size, true
	}
	return newKeyEvent(KeyChar, r, 0), size, true
}

func (p *Parser) stepEscape(b []byte) (Event, int, bool) {
	if len(b) == 1 {
		return nil, 0, false // could be a bare Escape or the start of a sequence
	}
	switch b[1] {
	case '[':
		return p.stepCSI(b)
	case 'O':
		return p.stepSS3(b)
	default:
		r, size := utf8.DecodeRune(b[1:])
		if r == utf8.RuneError && size <= 1 {
			if !utf8.FullRune(b[1:]) {
				return nil, 0, false
			}
			return newKeyEvent(KeyUnknown, rune(b[1]), ModAlt), 2, true
		}
		return newKeyEvent(KeyChar, r, ModAlt), 1 + size, true
	}
}

func (p *Parser) stepSS3(b []byte) (Event, int, bool) {
	if len(b) < 3 {
		return nil, 0, false
	}
	switch b[2] {
	case 'A':
		return newKeyEvent(KeyUp, 0, 0), 3, true
	case 'B':
		return newKeyEvent(KeyDown, 0, 0), 3, true
	case 'C':
		return newKeyEvent(KeyRight, 0, 0), 3, true
	case 'D':
		return newKeyEvent(KeyLeft, 0, 0), 3, true
	case 'H':
		return newKeyEvent(KeyHome, 0, 0), 3, true
	case 'F':
		return newKeyEvent(KeyEnd, 0, 0), 3, true
	case 'P':
		return newFunctionKeyEvent(1, 0), 3, true
	case 'Q':
		return newFunctionKeyEvent(2, 0), 3, true
	case 'R':
		return newFunctionKeyEvent(3, 0), 3, true
	case 'S':
		return newFunctionKeyEvent(4, 0), 3, true
	default:
		return nil, 3, true // unrecognized SS3 final byte: discard silently
	}
}

func isFinalByte(b byte) bool { return b >= 0x40 && b <= 0x7E }

func (p *Parser) stepCSI(b []byte) (Event, int, bool) {
	if len(b) < 3 {
		return nil, 0, false
	}

	switch b[2] {
	case 'I':
		return FocusEvent{base: newBase(), Gained: true}, 3, true
	case 'O':
		return FocusEvent{base: newBase(), Gained: false}, 3, true
	case '<':
		return p.stepSGRMouse(b)
	case 'M':
		return p.stepX10Mouse(b)
	}

	// Generic CSI: accumulate parameter bytes (digits, ';') until a final
	// byte in [0x40, 0x7E]. Bracketed-paste start (ESC[200~) is a special
	// case of this shape that switches the parser into paste mode.
	i := 2
	for i < len(b) && !isFinalByte(b[i]) {
		i++
	}
	if i >= len(b) {
		return nil, 0, false // final byte not seen yet
	}

	params := string(b[2:i])
	final := b[i]
	consumed := i + 1

	switch final {
	case 'A':
		return newKeyEvent(KeyUp, 0, 0), consumed, true
	case 'B':
		return newKeyEvent(KeyDown, 0, 0), consumed, true
	case 'C':
		return newKeyEvent(KeyRight, 0, 0), consumed, true
	case 'D':
		return newKeyEvent(KeyLeft, 0, 0), consumed, true
	case 'H':
		return newKeyEvent(KeyHome, 0, 0), consumed, true
	case 'F':
		return newKeyEvent(KeyEnd, 0, 0), consumed, true
	case '~':
		if params == "200" {
			p.inPaste = true
			p.pasteBuf = p.pasteBuf[:0]
			return nil, consumed, true
		}
		return tildeKey(params), consumed, true
	default:
		// Unrecognized CSI sequence (e.g. a cursor-position report the
		// terminal sent back unprompted): discard silently so interleaved,
		// unrelated terminal replies never surface as a bogus event.
		return nil, consumed, true
	}
}

func tildeKey(params string) Event {
	key := params
	for i := 0; i < len(key); i++ {
		if key[i] == ';' {
			key = key[:i]
			break
		}
	}
	switch key {
	case "1", "7":
		return newKeyEvent(KeyHome, 0, 0)
	case "2":
		return newKeyEvent(KeyInsert, 0, 0)
	case "3":
		return newKeyEvent(KeyDelete, 0, 0)
	case "4", "8":
		return newKeyEvent(KeyEnd, 0, 0)
	case "5":
		return newKeyEvent(KeyPageUp, 0, 0)
	case "6":
		return newKeyEvent(KeyPageDown, 0, 0)
	case "11":
		return newFunctionKeyEvent(1, 0)
	case "12":
		return newFunctionKeyEvent(2, 0)
	case "13":
		return newFunctionKeyEvent(3, 0)
	case "14":
		return newFunctionKeyEvent(4, 0)
	case "15":
		return newFunctionKeyEvent(5, 0)
	case "17":
		return newFunctionKeyEvent(6, 0)
	case "18":
		return newFunctionKeyEvent(7, 0)
	case "19":
		return newFunctionKeyEvent(8, 0)
	case "20":
		return newFunctionKeyEvent(9, 0)
	case "21":
		return newFunctionKeyEvent(10, 0)
	case "23":
		return newFunctionKeyEvent(11, 0)
	case "24":
		return newFunctionKeyEvent(12, 0)
	default:
		return nil
	}
}

// stepSGRMouse parses "ESC [ < Pb ; Px ; Py M|m".
func (p *Parser) stepSGRMouse(b []byte) (Event, int, bool) {
	i := 3
	for i < len(b) && b[i] != 'M' && b[i] != 'm' {
		i++
	}
	if i >= len(b) {
		return nil, 0, false
	}
	params := string(b[3:i])
	release := b[i] == 'm'
	consumed := i + 1

	var pb, px, py int
	n, _ := parseInts(params, &pb, &px, &py)
	if n < 3 {
		return nil, consumed, true
	}
	return decodeMouse(pb, px-1, py-1, release), consumed, true
}

// stepX10Mouse parses the legacy "ESC [ M Cb Cx Cy" form: exactly three
// raw (not parameter-encoded) bytes follow 'M', each biased by 32.
func (p *Parser) stepX10Mouse(b []byte) (Event, int, bool) {
	if len(b) < 6 {
		return nil, 0, false
	}
	cb := int(b[3]) - 32
	cx := int(b[4]) - 33
	cy := int(b[5]) - 33
	release := cb&0x03 == 3
	return decodeMouse(cb, cx, cy, release), 6, true
}

// decodeMouse shares the bit layout between the SGR and X10 forms: bits
// 0-1 select a button (3 = none), 0x04/0x08/0x10 are shift/alt/ctrl,
// 0x20 marks a drag, 0x40 marks a wheel event (bit 0 then picks direction).
func decodeMouse(cb, x, y int, release bool) Event {
	mods := Modifiers(0)
	if cb&0x04 != 0 {
		mods |= ModShift
	}
	if cb&0x08 != 0 {
		mods |= ModAlt
	}
	if cb&0x10 != 0 {
		mods |= ModCtrl
	}

	ev := MouseEvent{base: newBase(), X: x, Y: y, Modifiers: mods}

	switch {
	case cb&0x40 != 0:
		if cb&0x01 != 0 {
			ev.Kind = MouseScrollDown
		} else {
			ev.Kind = MouseScrollUp
		}
		ev.Button = MouseButtonNone
		return ev
	case cb&0x20 != 0:
		ev.Kind = MouseDrag
	case release:
		ev.Kind = MouseRelease
	default:
		ev.Kind = MousePress
	}

	switch cb & 0x03 {
	case 0:
		ev.Button = MouseButtonLeft
	case 1:
		ev.Button = MouseButtonMiddle
	case 2:
		ev.Button = MouseButtonRight
	default:
		ev.Button = MouseButtonNone
	}
	return ev
}

// stepPaste accumulates bytes until it sees the literal bracketed-paste
// terminator "ESC[201~", at which point it emits one PasteEvent with the
// collected (verbatim) content. The terminator may be split across Feed
// calls: the search also covers the tail of what earlier calls buffered.
func (p *Parser) stepPaste(b []byte) (Event, int, bool) {
	term := []byte{0x1B, '[', '2', '0', '1', '~'}
	prevLen := len(p.pasteBuf)
	start := prevLen - (len(term) - 1)
	if start < 0 {
		start = 0
	}
	p.pasteBuf = append(p.pasteBuf, b...)
	idx := indexBytes(p.pasteBuf[start:], term)
	if idx < 0 {
		// No terminator yet: everything is buffered in pasteBuf; report
		// incomplete so Feed asks for more bytes.
		return nil, 0, false
	}
	idx += start
	content := string(p.pasteBuf[:idx])
	p.pasteBuf = nil
	p.inPaste = false
	return PasteEvent{base: newBase(), Content: content}, idx + len(term) - prevLen, true
}

func indexBytes(haystack, needle []byte) int {
	if len(needle) == 0 || len(haystack) < len(needle) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// parseInts parses up to three ';'-separated decimal integers from s,
// writing them into a, b, c and returning how many were found.
func parseInts(s string, a, b, c *int) (int, bool) {
	vals := [3]*int{a, b, c}
	n := 0
	cur := 0
	started := false
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ';' {
			if started && n < 3 {
				*vals[n] = cur
				n++
			}
			cur = 0
			started = false
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return n, false
		}
		started = true
		cur = cur*10 + int(s[i]-'0')
	}
	return n, true
}
