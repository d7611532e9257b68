// Package logging provides the leveled logger shared by inkwell components.
//
// Lines have the form
//
//	2006-01-02T15:04:05.000 [LEVEL] prefix: message key=value key=value
//
// Fields attached with WithField come first, in key order, followed by the
// key-value pairs passed to the call.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name. Unknown names yield LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// sink is shared by a logger and every logger derived from it.
type sink struct {
	mu       sync.Mutex
	level    Level
	output   io.Writer
	disabled bool
}

// Logger writes leveled lines with structured fields.
type Logger struct {
	sink   *sink
	prefix string
	fields map[string]any
	now    func() time.Time
}

// Config configures a Logger.
type Config struct {
	// Level is the minimum level written.
	Level Level
	// Output defaults to os.Stderr.
	Output io.Writer
	// Prefix is written before every message.
	Prefix string
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
		Prefix: "inkwell",
	}
}

// New creates a logger.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Logger{
		sink:   &sink{level: cfg.Level, output: cfg.Output},
		prefix: cfg.Prefix,
		fields: map[string]any{},
		now:    time.Now,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	l := New(Config{Output: io.Discard})
	l.sink.disabled = true
	return l
}

// WithField returns a logger that adds key=value to every line. The
// derived logger shares level and output with l.
func (l *Logger) WithField(key string, value any) *Logger {
	if l == nil {
		return nil
	}
	fields := make(map[string]any, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Logger{sink: l.sink, prefix: l.prefix, fields: fields, now: l.now}
}

// WithComponent returns a logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel sets the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// Level returns the minimum level.
func (l *Logger) Level() Level {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.output = w
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return !l.sink.disabled && level >= l.sink.level
}

// Debug logs a debug message with key-value pairs.
func (l *Logger) Debug(msg string, kv ...any) {
	l.log(LevelDebug, msg, kv)
}

// Info logs an info message with key-value pairs.
func (l *Logger) Info(msg string, kv ...any) {
	l.log(LevelInfo, msg, kv)
}

// Warn logs a warning with key-value pairs.
func (l *Logger) Warn(msg string, kv ...any) {
	l.log(LevelWarn, msg, kv)
}

// Error logs an error with key-value pairs.
func (l *Logger) Error(msg string, kv ...any) {
	l.log(LevelError, msg, kv)
}

func (l *Logger) log(level Level, msg string, kv []any) {
	if l == nil || !l.Enabled(level) {
		return
	}

	var sb strings.Builder
	sb.WriteString(l.now().Format("2006-01-02T15:04:05.000"))
	sb.WriteString(" [")
	sb.WriteString(level.String())
	sb.WriteString("] ")
	if l.prefix != "" {
		sb.WriteString(l.prefix)
		sb.WriteString(": ")
	}
	sb.WriteString(msg)

	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeField(&sb, k, l.fields[k])
	}
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 == len(kv) {
			writeField(&sb, "!BADKEY", key)
			break
		}
		writeField(&sb, key, kv[i+1])
	}
	sb.WriteByte('\n')

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = io.WriteString(l.sink.output, sb.String())
}

func writeField(sb *strings.Builder, key string, value any) {
	s := fmt.Sprint(value)
	if strings.ContainsAny(s, " \t\n\"=") {
		s = fmt.Sprintf("%q", s)
	}
	sb.WriteByte(' ')
	sb.WriteString(key)
	sb.WriteByte('=')
	sb.WriteString(s)
}
