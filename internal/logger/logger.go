// Package logger provides the leveled logger shared by every NutriPlan
// component. Three levels are supported: off (no output), normal
// (info/warn/error) and verbose (adds debug). Component loggers derived
// with Named share their parent's level, so flipping verbosity at runtime
// affects the whole tree. Safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// String returns the flag-friendly name of the level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelNormal:
		return "normal"
	case LevelVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// levelState is shared between a root logger and every Named child.
type levelState struct {
	mu    sync.RWMutex
	level Level
}

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	state  *levelState
	out    io.Writer
	name   string
	debug  *log.Logger
	info   *log.Logger
	warn   *log.Logger
	errLog *log.Logger
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return build(&levelState{level: level}, out, "")
}

func build(state *levelState, out io.Writer, name string) *Logger {
	flags := log.Ltime
	prefix := func(tag string) string {
		if name == "" {
			return "[" + tag + "] "
		}
		return "[" + tag + "] " + name + ": "
	}
	return &Logger{
		state:  state,
		out:    out,
		name:   name,
		debug:  log.New(out, prefix("DBG"), flags),
		info:   log.New(out, prefix("INF"), flags),
		warn:   log.New(out, prefix("WRN"), flags),
		errLog: log.New(out, prefix("ERR"), flags),
	}
}

// Named returns a child logger whose lines carry the given component name.
// The child shares the parent's output and level.
func (l *Logger) Named(name string) *Logger {
	if l.name != "" {
		name = l.name + "." + name
	}
	return build(l.state, l.out, name)
}

// Writer returns the underlying output, e.g. for redirecting the standard
// log package.
func (l *Logger) Writer() io.Writer { return l.out }

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	l.state.level = level
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	l.state.mu.RLock()
	defer l.state.mu.RUnlock()
	return l.state.level
}

func (l *Logger) enabled(min Level) bool {
	l.state.mu.RLock()
	defer l.state.mu.RUnlock()
	return l.state.level >= min
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	if l.enabled(LevelVerbose) {
		l.debug.Output(2, fmt.Sprintf(format, args...))
	}
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	if l.enabled(LevelNormal) {
		l.info.Output(2, fmt.Sprintf(format, args...))
	}
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	if l.enabled(LevelNormal) {
		l.warn.Output(2, fmt.Sprintf(format, args...))
	}
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	if l.enabled(LevelNormal) {
		l.errLog.Output(2, fmt.Sprintf(format, args...))
	}
}
