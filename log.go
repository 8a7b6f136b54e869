package wisp

import (
	"log/slog"
	"os"
)

// Logger is the injectable sink the App, Terminal, Parser and Renderer use
// for non-fatal diagnostics: an end-of-input read error, a dropped/retried
// output write, a clamped resize, or a discarded malformed input sequence.
// No third-party logging library appears anywhere in the example corpus, so
// this is one of the few concerns built directly on the standard library:
// log/slog is the stdlib's structured-logging package and needs no further
// justification beyond "nothing in the corpus does better."
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// defaultLogger wraps a text-handler slog.Logger, writing to stderr the same way
// basementui's Screen.NewScreen reports a failed raw-mode acquisition.
type defaultLogger struct{ l *slog.Logger }

// NewDefaultLogger returns a Logger backed by a text-handler slog.Logger
// writing to os.Stderr.
func NewDefaultLogger() Logger {
	return &defaultLogger{l: slog.New(slog.NewTextHandler(os.Stderr, nil))}
}

func (d *defaultLogger) Warn(msg string, args ...any)  { d.l.Warn(msg, args...) }
func (d *defaultLogger) Error(msg string, args ...any) { d.l.Error(msg, args...) }

// noopLogger discards everything; it is the initial Logger of Parser,
// Terminal and Renderer and replaces a nil Logger passed to
// Renderer.SetLogger. (NewApp uses NewDefaultLogger when Config.Logger is nil.)
type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
