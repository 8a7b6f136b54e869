package wisp

import (
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// Terminal owns the real stdin/stdout file descriptors: entering and
// leaving raw mode, the alternate screen, bracketed paste and mouse
// reporting, and the background goroutine that turns stdin bytes into
// Events via a Parser. The raw-mode enable/disable pair is adapted from
// basementui's tui.enableRawMode / disableRawMode (golang.org/x/term's
// MakeRaw/Restore), generalized from a single bool flag into an explicit
// set of independently toggleable modes (paste, mouse, focus reporting).
type Terminal struct {
	in  *os.File
	out io.Writer

	rawState *term.State

	parser *Parser
	queue  *EventQueue

	resizeCh chan os.Signal
	rawBytes chan byte
	stop     chan struct{}
	wg       sync.WaitGroup

	mu     sync.Mutex
	width  int
	height int

	MouseEnabled bool
	PasteEnabled bool

	Logger Logger
}

// NewTerminal wires a Terminal to the given queue using os.Stdin/os.Stdout
// and a fresh Parser with the default escape timeout.
func NewTerminal(queue *EventQueue) *Terminal {
	return &Terminal{
		in:     os.Stdin,
		out:    os.Stdout,
		parser: NewParser(),
		queue:  queue,
		Logger: noopLogger{},
	}
}

// Size returns the terminal's current column/row count, querying the
// real terminal the first time and the cached value thereafter (kept
// current by the resize watcher).
func (t *Terminal) Size() (width, height int, err error) {
	t.mu.Lock()
	w, h := t.width, t.height
	t.mu.Unlock()
	if w > 0 && h > 0 {
		return w, h, nil
	}
	w, h, err = term.GetSize(int(t.in.Fd()))
	if err != nil {
		return 80, 24, err
	}
	t.mu.Lock()
	t.width, t.height = w, h
	t.mu.Unlock()
	return w, h, nil
}

// Start enters raw mode, switches to the alternate screen, hides the
// cursor, and optionally enables bracketed paste and mouse reporting,
// then launches the stdin-reading and SIGWINCH-watching goroutines.
func (t *Terminal) Start() error {
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return err
	}
	t.rawState = state

	if t.Logger != nil {
		t.parser.Logger = t.Logger
	}

	setup := "\x1b[?1049h\x1b[2J\x1b[?25l"
	if t.PasteEnabled {
		setup += "\x1b[?2004h"
	}
	if t.MouseEnabled {
		setup += "\x1b[?1000h\x1b[?1002h\x1b[?1003h\x1b[?1006h"
	}
	setup += "\x1b[?1004h"
	if _, err := io.WriteString(t.out, setup); err != nil {
		term.Restore(int(t.in.Fd()), state)
		t.rawState = nil
		return err
	}

	t.width, t.height, _ = term.GetSize(int(t.in.Fd()))

	t.stop = make(chan struct{})
	t.rawBytes = make(chan byte, 4096)
	t.resizeCh = make(chan os.Signal, 1)
	signal.Notify(t.resizeCh, syscall.SIGWINCH)

	t.wg.Add(3)
	go t.readLoop()
	go t.dispatchLoop()
	go t.resizeLoop()

	return nil
}

// Stop disables every mode Start enabled, in reverse order, restores the
// original terminal state, and stops the background goroutines.
func (t *Terminal) Stop() error {
	if t.stop == nil {
		return nil // never started, or already stopped
	}
	signal.Stop(t.resizeCh)
	close(t.stop)
	t.wg.Wait()
	t.stop = nil

	io.WriteString(t.out, "\x1b[?1004l")
	if t.MouseEnabled {
		io.WriteString(t.out, "\x1b[?1000l\x1b[?1002l\x1b[?1003l\x1b[?1006l")
	}
	if t.PasteEnabled {
		io.WriteString(t.out, "\x1b[?2004l")
	}

	// Teardown must be observable in exactly this terminal-visible order:
	// cursor shown, alt screen exited, raw mode disabled, SGR reset.
	// Individual write failures here are suppressed so every remaining
	// step still runs rather than leaving the terminal half-restored.
	io.WriteString(t.out, "\x1b[?25h")
	io.WriteString(t.out, "\x1b[?1049l")

	var restoreErr error
	if t.rawState != nil {
		restoreErr = term.Restore(int(t.in.Fd()), t.rawState)
	}

	io.WriteString(t.out, "\x1b[0m")

	return restoreErr
}

// readLoop is the only goroutine that calls Read on stdin, mirroring
// basementui's single-reader-goroutine discipline to avoid data races on
// the fd; it hands raw bytes off to dispatchLoop over a channel.
func (t *Terminal) readLoop() {
	defer t.wg.Done()
	defer close(t.rawBytes)
	buf := make([]byte, 4096)
	for {
		n, err := t.in.Read(buf)
		for i := 0; i < n; i++ {
			select {
			case t.rawBytes <- buf[i]:
			case <-t.stop:
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				t.Logger.Error("input read failed, treating as end-of-input", "err", wrapErr(ErrInputRead, err))
			}
			t.queue.Push(QuitEvent{base: newBase()})
			return
		}
		select {
		case <-t.stop:
			return
		default:
		}
	}
}

// dispatchLoop feeds bytes into the Parser and pushes resulting Events
// onto the queue, polling a ticker to resolve a pending bare Escape once
// the parser's timeout elapses with no further input.
func (t *Terminal) dispatchLoop() {
	defer t.wg.Done()
	ticker := time.NewTicker(t.parser.Timeout / 2)
	defer ticker.Stop()

	chunk := make([]byte, 0, 64)
	for {
		select {
		case <-t.stop:
			return
		case b, ok := <-t.rawBytes:
			if !ok {
				return
			}
			chunk = append(chunk[:0], b)
		drain:
			for len(chunk) < cap(chunk) {
				select {
				case b, ok := <-t.rawBytes:
					if !ok {
						break drain
					}
					chunk = append(chunk, b)
				default:
					break drain
				}
			}
			for _, ev := range t.parser.Feed(chunk) {
				t.queue.Push(ev)
			}
		case <-ticker.C:
			for _, ev := range t.parser.FlushTimeout() {
				t.queue.Push(ev)
			}
		}
	}
}

// resizeLoop turns SIGWINCH into ResizeEvents with the freshly queried
// size, the way basementui's Screen.handleResize does, generalized to
// push onto the shared EventQueue instead of calling an OnResize hook.
func (t *Terminal) resizeLoop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.stop:
			return
		case <-t.resizeCh:
			w, h, err := term.GetSize(int(t.in.Fd()))
			if err != nil {
				continue
			}
			t.mu.Lock()
			t.width, t.height = w, h
			t.mu.Unlock()
			t.queue.Push(ResizeEvent{base: newBase(), Cols: w, Rows: h})
		}
	}
}
