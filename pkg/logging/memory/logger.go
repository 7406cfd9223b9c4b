// Package memory provides a logging.Logger that records entries for tests.
package memory

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/butter-bot-machines/cfile/pkg/logging"
)

// Logger implements logging.Logger with in-memory storage. Loggers derived
// with With and WithGroup record into the same store.
type Logger struct {
	store  *store
	level  logging.Level
	output io.Writer
	attrs  []interface{}
	groups []string
}

type store struct {
	mu      sync.RWMutex
	clock   clock.Clock
	entries []LogEntry
}

// LogEntry represents a stored log entry
type LogEntry struct {
	Time    time.Time
	Level   logging.Level
	Message string
	Args    []interface{}
	Attrs   []interface{}
	Groups  []string
}

// Value returns the value recorded for key in the entry's args or attrs
func (e LogEntry) Value(key string) (interface{}, bool) {
	for _, kv := range [][]interface{}{e.Args, e.Attrs} {
		for i := 0; i+1 < len(kv); i += 2 {
			if k, ok := kv[i].(string); ok && k == key {
				return kv[i+1], true
			}
		}
	}
	return nil, false
}

// NewLogger creates a new memory logger. output may be nil.
func NewLogger(level logging.Level, output io.Writer) *Logger {
	return &Logger{
		store:  &store{clock: clock.New()},
		level:  level,
		output: output,
	}
}

// SetClock replaces the clock used to stamp entries
func (l *Logger) SetClock(c clock.Clock) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	l.store.clock = c
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(logging.LevelDebug, msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(logging.LevelInfo, msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(logging.LevelWarn, msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(logging.LevelError, msg, args...)
}

// With returns a new logger with additional attributes
func (l *Logger) With(args ...interface{}) logging.Logger {
	if len(args)%2 != 0 {
		args = append(args, "MISSING_VALUE")
	}

	n := l.derive()
	n.attrs = append(n.attrs, args...)
	return n
}

// WithGroup returns a new logger with an additional group
func (l *Logger) WithGroup(name string) logging.Logger {
	n := l.derive()
	n.groups = append(n.groups, name)
	return n
}

func (l *Logger) derive() *Logger {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	return &Logger{
		store:  l.store,
		level:  l.level,
		output: l.output,
		attrs:  append([]interface{}{}, l.attrs...),
		groups: append([]string{}, l.groups...),
	}
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level logging.Level) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() logging.Level {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	return l.level
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	l.output = w
}

// GetOutput returns the current output writer
func (l *Logger) GetOutput() io.Writer {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	return l.output
}

// GetEntries returns a copy of all stored log entries
func (l *Logger) GetEntries() []LogEntry {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()

	entries := make([]LogEntry, len(l.store.entries))
	copy(entries, l.store.entries)
	return entries
}

// Find returns the stored entries whose message is msg
func (l *Logger) Find(msg string) []LogEntry {
	var found []LogEntry
	for _, e := range l.GetEntries() {
		if e.Message == msg {
			found = append(found, e)
		}
	}
	return found
}

// Reset drops all stored entries
func (l *Logger) Reset() {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	l.store.entries = nil
}

func (l *Logger) log(level logging.Level, msg string, args ...interface{}) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	if level < l.level {
		return
	}

	entry := LogEntry{
		Time:    l.store.clock.Now(),
		Level:   level,
		Message: msg,
		Args:    args,
		Attrs:   append([]interface{}{}, l.attrs...),
		Groups:  append([]string{}, l.groups...),
	}
	l.store.entries = append(l.store.entries, entry)

	if l.output == nil {
		return
	}

	// Format: TIME [LEVEL] [GROUP1][GROUP2]... MESSAGE key1=value1 key2=value2 ...
	var b strings.Builder
	for _, g := range l.groups {
		fmt.Fprintf(&b, "[%s]", g)
	}
	b.WriteString(msg)
	for _, kv := range [][]interface{}{l.attrs, args} {
		for i := 0; i+1 < len(kv); i += 2 {
			fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
		}
	}

	fmt.Fprintf(l.output, "%s [%s] %s\n",
		entry.Time.Format("2006-01-02T15:04:05.000"),
		level.String(),
		b.String(),
	)
}

var _ logging.Logger = (*Logger)(nil)
