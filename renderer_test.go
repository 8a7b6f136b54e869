package wisp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelloWorldScenario checks that writing "Hi" at (0,0) in default style
// into an empty 80x24 screen emits exactly the cursor move plus the two
// characters, with zero SGR bytes.
func TestHelloWorldScenario(t *testing.T) {
	r := NewRenderer(80, 24, CapabilityTrueColor)

	r.BeginFrame()
	r.MarkDirty()
	r.Back().MoveCursor(0, 0)
	r.Back().PutString([]byte("Hi"))

	var out bytes.Buffer
	n, err := r.Flush(&out)
	require.NoError(t, err)
	assert.Equal(t, "\x1b[1;1HHi", out.String())
	assert.Equal(t, len(out.Bytes()), n)

	out.Reset()
	r.BeginFrame()
	r.Back().MoveCursor(0, 0)
	r.Back().PutString([]byte("Hi"))
	r.MarkDirty()
	n, err = r.Flush(&out)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "second flush with no changes must emit 0 bytes")
}

// TestStyledUpdateScenario checks a single-cell style change: cell (5,2)
// changes from {'a', default} to {'b', bold + fg=red(255,0,0)}.
func TestStyledUpdateScenario(t *testing.T) {
	r := NewRenderer(80, 24, CapabilityTrueColor)

	r.BeginFrame()
	r.Back().MoveCursor(5, 2)
	r.Back().PutString([]byte("a"))
	r.MarkDirty()
	var warm bytes.Buffer
	_, err := r.Flush(&warm)
	require.NoError(t, err)

	r.BeginFrame()
	r.Back().MoveCursor(5, 2)
	r.Back().SetStyle(Style{Attr: AttrBold, Fg: RGB(255, 0, 0)})
	r.Back().PutString([]byte("b"))
	r.MarkDirty()

	var out bytes.Buffer
	_, err = r.Flush(&out)
	require.NoError(t, err)
	assert.Equal(t, "\x1b[3;6H\x1b[1;38;2;255;0;0mb", out.String())
}

// TestFlushRoundTrip checks the round-trip law: directly comparing the
// resulting front buffer's visible cells against the back buffer that was
// flushed yields equality.
func TestFlushRoundTrip(t *testing.T) {
	r := NewRenderer(10, 3, CapabilityTrueColor)
	r.BeginFrame()
	r.Back().MoveCursor(2, 1)
	r.Back().SetStyle(Style{Attr: AttrUnderline})
	r.Back().PutString([]byte("hi"))
	r.MarkDirty()

	wantCells := make([]Cell, len(r.Back().cells))
	copy(wantCells, r.Back().cells)

	var out bytes.Buffer
	_, err := r.Flush(&out)
	require.NoError(t, err)

	for i, c := range wantCells {
		assert.Equal(t, c, r.front.cells[i], "front cell %d should match the flushed back buffer", i)
	}
}

func TestFlushEmitsNothingWhenBackEqualsFront(t *testing.T) {
	r := NewRenderer(5, 5, CapabilityTrueColor)
	r.BeginFrame()
	r.MarkDirty()

	var out bytes.Buffer
	_, err := r.Flush(&out)
	require.NoError(t, err)

	r.BeginFrame()
	r.MarkDirty()
	out.Reset()
	n, err := r.Flush(&out)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestResizeForcesFullRedrawOfNewArea(t *testing.T) {
	r := NewRenderer(80, 24, CapabilityTrueColor)
	r.BeginFrame()
	r.MarkDirty()
	var warm bytes.Buffer
	_, err := r.Flush(&warm)
	require.NoError(t, err)

	r.Resize(100, 30)
	assert.True(t, r.Dirty())
	assert.Equal(t, 100, r.Back().Width())
	assert.Equal(t, 30, r.Back().Height())

	r.BeginFrame()
	r.Back().PutString([]byte("x"))
	var out bytes.Buffer
	n, err := r.Flush(&out)
	require.NoError(t, err)
	assert.Greater(t, n, 0)
}

func TestNearestANSI16AndANSI256AreStable(t *testing.T) {
	assert.Equal(t, uint8(9), nearestANSI16(255, 0, 0))
	assert.Equal(t, uint8(196), nearestANSI256(255, 0, 0))
}
