package wisp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestArrowKeyScenario checks that ESC [ A decodes to a bare up-arrow key
// event with no modifiers.
func TestArrowKeyScenario(t *testing.T) {
	p := NewParser()
	events := p.Feed([]byte{0x1B, 0x5B, 0x41})

	require.Len(t, events, 1)
	key, ok := events[0].(KeyEvent)
	require.True(t, ok)
	assert.Equal(t, KeyUp, key.Key)
	assert.Equal(t, Modifiers(0), key.Modifiers)
}

// TestCtrlCScenario checks that the raw 0x03 byte decodes to a 'c' key
// event with the ctrl modifier set, not a dedicated "interrupt" event.
func TestCtrlCScenario(t *testing.T) {
	p := NewParser()
	events := p.Feed([]byte{0x03})

	require.Len(t, events, 1)
	key, ok := events[0].(KeyEvent)
	require.True(t, ok)
	assert.Equal(t, KeyChar, key.Key)
	assert.Equal(t, 'c', key.Rune)
	assert.True(t, key.Modifiers.Has(ModCtrl))
}

// TestMouseSGRScrollUpBoundary checks the 1-indexed-to-0-indexed coordinate
// boundary: Cb=64, Cx=1, Cy=1, final=M yields mouse{scroll_up, x=0, y=0}.
func TestMouseSGRScrollUpBoundary(t *testing.T) {
	p := NewParser()
	events := p.Feed([]byte("\x1b[<64;1;1M"))

	require.Len(t, events, 1)
	m, ok := events[0].(MouseEvent)
	require.True(t, ok)
	assert.Equal(t, MouseScrollUp, m.Kind)
	assert.Equal(t, 0, m.X)
	assert.Equal(t, 0, m.Y)
}

// TestBareEscapeTimeout checks that a single 0x1B followed by no further
// input for >=50ms yields one key{escape} rather than waiting forever for
// a CSI/SS3 sequence that never arrives. The clock is injected so the test
// does not depend on wall time.
func TestBareEscapeTimeout(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewParser()
	p.Now = func() time.Time { return now }

	events := p.Feed([]byte{0x1B})
	require.Empty(t, events, "a lone ESC must not resolve immediately")
	assert.True(t, p.Pending())

	assert.Empty(t, p.FlushTimeout(), "timeout has not elapsed yet")

	now = now.Add(p.Timeout)
	events = p.FlushTimeout()
	require.Len(t, events, 1)
	key, ok := events[0].(KeyEvent)
	require.True(t, ok)
	assert.Equal(t, KeyEscape, key.Key)
	assert.False(t, p.Pending())
}

// TestAltLetterTypedFastIsNotEscape exercises the other side of the
// disambiguator: ESC followed immediately (same Feed call) by a letter is
// Alt+letter, never a bare escape, regardless of timeout.
func TestAltLetterTypedFastIsNotEscape(t *testing.T) {
	p := NewParser()
	events := p.Feed([]byte{0x1B, 'x'})

	require.Len(t, events, 1)
	key, ok := events[0].(KeyEvent)
	require.True(t, ok)
	assert.Equal(t, KeyChar, key.Key)
	assert.Equal(t, 'x', key.Rune)
	assert.True(t, key.Modifiers.Has(ModAlt))
}

func TestPartialSequenceAcrossFeedCalls(t *testing.T) {
	p := NewParser()
	events := p.Feed([]byte{0x1B, 0x5B})
	assert.Empty(t, events)
	assert.True(t, p.Pending())

	events = p.Feed([]byte{0x41})
	require.Len(t, events, 1)
	key, ok := events[0].(KeyEvent)
	require.True(t, ok)
	assert.Equal(t, KeyUp, key.Key)
}

func TestBracketedPasteRoundTrip(t *testing.T) {
	p := NewParser()
	var data []byte
	data = append(data, []byte("\x1b[200~")...)
	data = append(data, []byte("hello\nworld")...)
	data = append(data, []byte("\x1b[201~")...)

	events := p.Feed(data)

	require.Len(t, events, 1)
	paste, ok := events[0].(PasteEvent)
	require.True(t, ok)
	assert.Equal(t, "hello\nworld", paste.Content)
}

func TestBracketedPasteAcrossMultipleFeedCalls(t *testing.T) {
	p := NewParser()

	events := p.Feed([]byte("\x1b[200~hello"))
	require.Empty(t, events)
	assert.True(t, p.inPaste)

	events = p.Feed([]byte(" world"))
	require.Empty(t, events)

	events = p.Feed([]byte("\x1b[201~"))
	require.Len(t, events, 1)
	paste, ok := events[0].(PasteEvent)
	require.True(t, ok)
	assert.Equal(t, "hello world", paste.Content)
}

func TestFocusInOut(t *testing.T) {
	p := NewParser()

	events := p.Feed([]byte("\x1b[I"))
	require.Len(t, events, 1)
	focus, ok := events[0].(FocusEvent)
	require.True(t, ok)
	assert.True(t, focus.Gained)

	events = p.Feed([]byte("\x1b[O"))
	require.Len(t, events, 1)
	focus, ok = events[0].(FocusEvent)
	require.True(t, ok)
	assert.False(t, focus.Gained)
}

func TestUnrecognizedCSIIsDiscardedSilently(t *testing.T) {
	p := NewParser()
	events := p.Feed([]byte("\x1b[999zOK"))

	// The malformed/unrecognized CSI sequence yields no event; "OK"
	// parses as two plain KeyChar events.
	require.Len(t, events, 2)
	assert.Equal(t, 'O', events[0].(KeyEvent).Rune)
	assert.Equal(t, 'K', events[1].(KeyEvent).Rune)
}

func TestPlainRuneDecoding(t *testing.T) {
	p := NewParser()
	events := p.Feed([]byte("h€"))

	require.Len(t, events, 2)
	assert.Equal(t, 'h', events[0].(KeyEvent).Rune)
	assert.Equal(t, '€', events[1].(KeyEvent).Rune)
}
