package wisp

import (
	"fmt"
	"time"
)

// Config configures an App: target frame rate, whether to synthesize
// TickEvents, and the event queue's bounded capacity.
type Config struct {
	TargetFPS     int
	EnableTicks   bool
	QueueCapacity int
	MouseEnabled  bool
	PasteEnabled  bool
	Logger        Logger

	// ForceCapability overrides color-capability auto-detection when set
	// (wired from config.Settings.ColorCapability via ParseCapability).
	ForceCapability *Capability
}

// DefaultConfig returns sensible defaults: 60fps, ticks off, a 256-event
// queue.
func DefaultConfig() Config {
	return Config{TargetFPS: 60, QueueCapacity: 256}
}

// App is the loop orchestrator: it owns the terminal controller, the
// renderer, and the event queue, and drives one root Widget through
// input-drain / dispatch / tick / render / sleep each frame.
type App struct {
	config   Config
	terminal *Terminal
	renderer *Renderer
	queue    *EventQueue
	logger   Logger

	root Widget

	running    bool
	frameTime  time.Duration
	startTime  time.Time
	lastTick   time.Time
	tickNumber uint64

	consecutiveWriteFailures int
}

// NewApp constructs the terminal controller, sizes the renderer to the
// terminal's current dimensions, and allocates the event queue. A raw-mode
// or setup-write failure here is fatal and leaves no state behind — the
// caller should not call any other App method if NewApp returns an error.
func NewApp(config Config) (*App, error) {
	if config.TargetFPS <= 0 {
		config.TargetFPS = 60
	}
	if config.QueueCapacity <= 0 {
		config.QueueCapacity = 256
	}
	logger := config.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}

	queue := NewEventQueue(config.QueueCapacity)
	terminal := NewTerminal(queue)
	terminal.MouseEnabled = config.MouseEnabled
	terminal.PasteEnabled = config.PasteEnabled
	terminal.Logger = logger

	if err := terminal.Start(); err != nil {
		return nil, wrapErr(ErrTerminalSetup, err)
	}

	width, height, _ := terminal.Size()
	capability := DetectDefaultCapability()
	if config.ForceCapability != nil {
		capability = *config.ForceCapability
	}
	renderer := NewRenderer(width, height, capability)
	renderer.SetLogger(logger)

	return &App{
		config:    config,
		terminal:  terminal,
		renderer:  renderer,
		queue:     queue,
		logger:    logger,
		frameTime: time.Second / time.Duration(config.TargetFPS),
	}, nil
}

// SetRoot records the widget the loop will drive; it is a borrowed
// reference, not owned by the App.
func (a *App) SetRoot(w Widget) { a.root = w }

// RequestQuit is level-triggered: it only flips a flag the top of the
// next frame observes, rather than interrupting whatever the loop is
// doing right now.
func (a *App) RequestQuit() { a.running = false }

// Deinit tears down the terminal controller. It is idempotent and safe
// to call more than once (e.g. once from a deferred recover and again
// from normal Run() cleanup).
func (a *App) Deinit() error {
	if a.terminal == nil {
		return nil
	}
	err := a.terminal.Stop()
	a.terminal = nil
	return err
}

// Run enters the per-frame loop — drain input, dispatch events, tick,
// render, sleep until the frame deadline — and returns when RequestQuit
// is observed, the root's handler returns Quit, or input/output failures
// force an implicit quit. A panic inside the root widget's render or
// event handler is recovered so teardown still runs in the same order a
// clean quit would; Run then returns the recovered value wrapped as an
// error instead of crashing the process mid-raw-mode.
func (a *App) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			a.Deinit()
			err = fmt.Errorf("wisp: panic in app loop: %v", r)
			return
		}
		err = a.Deinit()
	}()

	a.running = true
	a.startTime = time.Now()
	a.lastTick = a.startTime
	a.renderer.MarkDirty()

	for a.running {
		frameStart := time.Now()
		frameDeadline := frameStart.Add(a.frameTime)

		a.drainInput(frameDeadline)

		if a.dispatchEvents() {
			a.renderer.MarkDirty()
		}

		if a.config.EnableTicks {
			a.dispatchTick(frameStart)
		}

		if a.renderer.Dirty() {
			a.render()
		}

		if remaining := time.Until(frameDeadline); remaining > 0 {
			time.Sleep(remaining)
		}
	}

	return nil
}

// drainInput polls the queue (already fed asynchronously by the terminal
// controller's own goroutines). The loop's own suspension point is this
// bounded wait, not a blocking read, since the Terminal does the actual
// stdin read off-loop.
func (a *App) drainInput(deadline time.Time) {
	if a.queue.Len() > 0 {
		return
	}
	wait := time.Until(deadline)
	if wait <= 0 {
		return
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	<-timer.C
}

// dispatchEvents pops every currently queued event and hands each to the
// root widget, returning whether any handler asked for a redraw.
func (a *App) dispatchEvents() bool {
	needsRedraw := false
	for _, ev := range a.queue.DrainAll() {
		if resize, ok := ev.(ResizeEvent); ok {
			a.renderer.Resize(resize.Cols, resize.Rows)
			needsRedraw = true
		}
		if _, ok := ev.(QuitEvent); ok {
			a.running = false
			continue
		}
		if a.root == nil {
			continue
		}
		switch a.root.HandleEvent(ev) {
		case NeedsRedraw:
			needsRedraw = true
		case Quit:
			a.running = false
		}
	}
	return needsRedraw
}

func (a *App) dispatchTick(now time.Time) {
	delta := now.Sub(a.lastTick)
	a.lastTick = now
	a.tickNumber++
	tick := TickEvent{
		base:    newBase(),
		Number:  a.tickNumber,
		Delta:   delta,
		Elapsed: now.Sub(a.startTime),
	}
	if a.root == nil {
		return
	}
	switch a.root.HandleEvent(tick) {
	case NeedsRedraw:
		a.renderer.MarkDirty()
	case Quit:
		a.running = false
	}
}

func (a *App) render() {
	a.renderer.BeginFrame()
	if a.root != nil {
		back := a.renderer.Back()
		ctx := NewRenderContext(back, Rect{X: 0, Y: 0, W: back.Width(), H: back.Height()})
		a.root.Render(ctx)
	}

	n, err := a.renderer.Flush(a.terminal.out)
	_ = n
	if err != nil {
		a.consecutiveWriteFailures++
		a.logger.Error("output write failed", "err", wrapErr(ErrOutputWrite, err), "consecutive", a.consecutiveWriteFailures)
		if a.consecutiveWriteFailures >= 3 {
			a.running = false
		}
		return
	}
	a.consecutiveWriteFailures = 0
}
