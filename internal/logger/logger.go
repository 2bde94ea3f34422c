package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelFault
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelFault:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel accepts the names used in config files and on the command line.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error", "fault":
		return LevelFault, nil
	}
	return LevelWarn, fmt.Errorf("invalid log level %q, expected 'info', 'warn', 'error' or 'debug'", s)
}

var defaultPrefixes = map[Level]string{
	LevelDebug: "🐞",
	LevelInfo:  "ℹ️",
	LevelWarn:  "⚠️",
	LevelFault: "❌",
}

type entry struct {
	always    bool
	prefix    string
	hasPrefix bool
}

type Option func(*entry)

// Always shows the message regardless of the configured threshold.
func Always() Option {
	return func(e *entry) { e.always = true }
}

// Prefix replaces the level's default prefix symbol.
func Prefix(p string) Option {
	return func(e *entry) {
		e.prefix = p
		e.hasPrefix = true
	}
}

// Bare prints the message without any prefix symbol.
func Bare() Option {
	return Prefix("")
}

// Sink accepts leveled console messages.
type Sink interface {
	Log(level Level, msg string, opts ...Option)
}

// Logger writes coloured console messages and owns the diagnostic slog logger.
type Logger struct {
	mu        sync.Mutex
	threshold Level
	out       io.Writer
	errOut    io.Writer
	colors    map[Level]*color.Color
	diagLevel *slog.LevelVar
	diag      *slog.Logger
}

// New creates a Logger. FAULT messages go to errOut, everything else to out.
func New(threshold Level, out, errOut io.Writer) *Logger {
	l := &Logger{
		out:    out,
		errOut: errOut,
		colors: map[Level]*color.Color{
			LevelDebug: color.New(color.FgMagenta),
			LevelInfo:  color.New(color.FgCyan),
			LevelWarn:  color.New(color.FgYellow),
			LevelFault: color.New(color.FgRed),
		},
		diagLevel: &slog.LevelVar{},
	}
	for lvl, c := range l.colors {
		if !isTerminal(l.writerFor(lvl)) {
			c.DisableColor()
		}
	}
	l.diag = slog.New(tint.NewHandler(errOut, &tint.Options{
		Level:      l.diagLevel,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(errOut),
	}))
	l.SetThreshold(threshold)
	return l
}

// NewConsole creates a Logger bound to the process stdout and stderr.
func NewConsole(threshold Level) *Logger {
	return New(threshold, os.Stdout, os.Stderr)
}

func (l *Logger) SetThreshold(threshold Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.threshold = threshold
	if threshold == LevelDebug {
		l.diagLevel.Set(slog.LevelDebug)
	} else {
		// diagnostics stay silent unless debugging
		l.diagLevel.Set(slog.LevelError + 4)
	}
}

func (l *Logger) Threshold() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.threshold
}

// Diag returns the structured logger used for internal tracing.
func (l *Logger) Diag() *slog.Logger {
	return l.diag
}

func (l *Logger) Log(level Level, msg string, opts ...Option) {
	e := entry{}
	for _, opt := range opts {
		opt(&e)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !e.always && level < l.threshold {
		return
	}

	prefix := defaultPrefixes[level]
	if e.hasPrefix {
		prefix = e.prefix
	}
	line := msg
	if prefix != "" {
		line = prefix + " " + msg
	}

	c, ok := l.colors[level]
	if !ok {
		fmt.Fprintln(l.writerFor(level), line)
		return
	}
	c.Fprintln(l.writerFor(level), line)
}

func (l *Logger) Debug(msg string, opts ...Option) { l.Log(LevelDebug, msg, opts...) }
func (l *Logger) Info(msg string, opts ...Option)  { l.Log(LevelInfo, msg, opts...) }
func (l *Logger) Warn(msg string, opts ...Option)  { l.Log(LevelWarn, msg, opts...) }
func (l *Logger) Fault(msg string, opts ...Option) { l.Log(LevelFault, msg, opts...) }

func (l *Logger) writerFor(level Level) io.Writer {
	if level == LevelFault {
		return l.errOut
	}
	return l.out
}

func isTerminal(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Nop discards every message.
type Nop struct{}

func (Nop) Log(Level, string, ...Option) {}
