package wisp

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWidget struct {
	events []Event
	result EventResult
	text   string
}

func (w *recordingWidget) Render(ctx *RenderContext) {
	ctx.PutString(0, 0, []byte(w.text))
}

func (w *recordingWidget) HandleEvent(ev Event) EventResult {
	w.events = append(w.events, ev)
	return w.result
}

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	app := &App{
		config:    Config{TargetFPS: 60},
		renderer:  NewRenderer(10, 3, CapabilityTrueColor),
		queue:     NewEventQueue(16),
		logger:    noopLogger{},
		terminal:  &Terminal{out: &out},
		frameTime: time.Millisecond,
	}
	return app, &out
}

func TestDispatchEventsUpdatesRendererOnResize(t *testing.T) {
	app, _ := newTestApp(t)
	widget := &recordingWidget{result: Ignored}
	app.SetRoot(widget)

	app.queue.Push(ResizeEvent{base: newBase(), Cols: 20, Rows: 6})

	dirty := app.dispatchEvents()

	require.True(t, dirty)
	assert.Equal(t, 20, app.renderer.Back().Width())
	assert.Equal(t, 6, app.renderer.Back().Height())
	require.Len(t, widget.events, 1)
}

func TestDispatchEventsQuitStopsTheLoop(t *testing.T) {
	app, _ := newTestApp(t)
	widget := &recordingWidget{result: Quit}
	app.SetRoot(widget)
	app.running = true

	app.queue.Push(KeyEvent{base: newBase(), Key: KeyChar, Rune: 'q'})
	app.dispatchEvents()

	assert.False(t, app.running)
}

func TestDispatchEventsNeedsRedrawPropagates(t *testing.T) {
	app, _ := newTestApp(t)
	widget := &recordingWidget{result: NeedsRedraw}
	app.SetRoot(widget)

	app.queue.Push(KeyEvent{base: newBase(), Key: KeySpace})

	assert.True(t, app.dispatchEvents())
}

func TestQuitEventAlwaysStopsRegardlessOfWidget(t *testing.T) {
	app, _ := newTestApp(t)
	widget := &recordingWidget{result: Ignored}
	app.SetRoot(widget)
	app.running = true

	app.queue.Push(QuitEvent{base: newBase()})
	app.dispatchEvents()

	assert.False(t, app.running)
	assert.Empty(t, widget.events, "QuitEvent is handled by the loop, not forwarded to the widget")
}

func TestRenderFlushesThroughToTerminalOutput(t *testing.T) {
	app, out := newTestApp(t)
	widget := &recordingWidget{text: "Hi"}
	app.SetRoot(widget)

	app.render()

	assert.Equal(t, "\x1b[1;1HHi", out.String())
}

func TestDispatchTickIncrementsNumberAndDelta(t *testing.T) {
	app, _ := newTestApp(t)
	widget := &recordingWidget{result: Ignored}
	app.SetRoot(widget)
	app.startTime = time.Now()
	app.lastTick = app.startTime

	app.dispatchTick(app.startTime.Add(10 * time.Millisecond))

	require.Len(t, widget.events, 1)
	tick, ok := widget.events[0].(TickEvent)
	require.True(t, ok)
	assert.Equal(t, uint64(1), tick.Number)
	assert.Equal(t, 10*time.Millisecond, tick.Delta)
}
