// Package logx is the engine-wide logging seam: a small interface the World
// reports region load and compression completion through, backed by a
// mutex-guarded default implementation over the standard library's
// log.Logger.
package logx

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Logger is deliberately tiny: Debugf/Infof/Warnf/Errorf plus a debug-enable
// toggle. Nothing in internal/world logs per-particle or per-chunk events
// through it; only region-granularity lifecycle events.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes Info/Debug to stdout and Warn/Error to stderr, each
// line prefixed with its level and an optional tag.
type DefaultLogger struct {
	mu    sync.Mutex
	debug bool
	tag   string
	out   *log.Logger
	err   *log.Logger
}

// NewDefaultLogger builds a logger tagged with tag (pass "" for none).
func NewDefaultLogger(tag string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug: debug,
		tag:   tag,
		out:   log.New(os.Stdout, "", flags),
		err:   log.New(os.Stderr, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) line(level, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if l.tag != "" {
		return fmt.Sprintf("[%s] %s: %s", l.tag, level, msg)
	}
	return fmt.Sprintf("%s: %s", level, msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.out.Print(l.line("DEBUG", format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Print(l.line("INFO", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Print(l.line("WARN", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Print(l.line("ERROR", format, args...))
}

type nopLogger struct{}

// NewNopLogger returns a Logger that discards everything, for tests and
// headless runs that don't want console noise.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool                { return false }
func (nopLogger) SetDebug(enabled bool)              {}
func (nopLogger) Debugf(format string, args ...any)  {}
func (nopLogger) Infof(format string, args ...any)   {}
func (nopLogger) Warnf(format string, args ...any)   {}
func (nopLogger) Errorf(format string, args ...any)  {}
