// Package slog implements logging.Logger on top of log/slog.
package slog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/butter-bot-machines/cfile/pkg/logging"
)

// LoggerWrapper wraps slog.Logger to implement logging.Logger
type LoggerWrapper struct {
	*slog.Logger
	opts logging.Options
	// steps are replayed in order when the handler is rebuilt
	steps []step
}

// step is one With or WithGroup call
type step struct {
	group string
	attrs []any
}

// NewLogger creates a JSON logger with the given level and output
func NewLogger(level logging.Level, output io.Writer) logging.Logger {
	return New(&logging.Options{Level: level, Format: logging.FormatJSON, Output: output})
}

// New creates a logger from opts. A nil output means os.Stderr.
func New(opts *logging.Options) *LoggerWrapper {
	o := logging.Options{Level: logging.LevelInfo}
	if opts != nil {
		o = *opts
	}
	if o.Output == nil {
		o.Output = os.Stderr
	}
	o.Format = logging.ResolveFormat(o.Format, o.Output)

	l := &LoggerWrapper{opts: o}
	l.rebuild()
	return l
}

func (l *LoggerWrapper) rebuild() {
	logger := slog.New(logging.NewHandler(&l.opts))
	for _, s := range l.steps {
		logger = s.apply(logger)
	}
	l.Logger = logger
}

func (s step) apply(logger *slog.Logger) *slog.Logger {
	if s.group != "" {
		return logger.WithGroup(s.group)
	}
	return logger.With(s.attrs...)
}

func (l *LoggerWrapper) derive(s step) *LoggerWrapper {
	steps := make([]step, len(l.steps), len(l.steps)+1)
	copy(steps, l.steps)
	return &LoggerWrapper{
		Logger: s.apply(l.Logger),
		opts:   l.opts,
		steps:  append(steps, s),
	}
}

// GetLevel returns the current log level
func (l *LoggerWrapper) GetLevel() logging.Level {
	return l.opts.Level
}

// SetLevel sets the log level
func (l *LoggerWrapper) SetLevel(level logging.Level) {
	l.opts.Level = level
	l.rebuild()
}

// GetOutput returns the current output writer
func (l *LoggerWrapper) GetOutput() io.Writer {
	return l.opts.Output
}

// SetOutput sets the output writer
func (l *LoggerWrapper) SetOutput(w io.Writer) {
	l.opts.Output = w
	l.rebuild()
}

// With returns a new logger with the given attributes
func (l *LoggerWrapper) With(args ...interface{}) logging.Logger {
	return l.derive(step{attrs: toAttrs(args)})
}

// WithGroup returns a new logger with the given group
func (l *LoggerWrapper) WithGroup(name string) logging.Logger {
	return l.derive(step{group: name})
}

// Debug logs a debug message
func (l *LoggerWrapper) Debug(msg string, args ...interface{}) {
	l.log(logging.LevelDebug, msg, args...)
}

// Info logs an info message
func (l *LoggerWrapper) Info(msg string, args ...interface{}) {
	l.log(logging.LevelInfo, msg, args...)
}

// Warn logs a warning message
func (l *LoggerWrapper) Warn(msg string, args ...interface{}) {
	l.log(logging.LevelWarn, msg, args...)
}

// Error logs an error message
func (l *LoggerWrapper) Error(msg string, args ...interface{}) {
	l.log(logging.LevelError, msg, args...)
}

func (l *LoggerWrapper) log(level logging.Level, msg string, args ...interface{}) {
	if level < l.opts.Level {
		return
	}
	l.Logger.Log(context.Background(), level.Slog(), msg, toAttrs(args)...)
}

// toAttrs pairs up key-value args. A trailing key gets MISSING_VALUE and a
// non-string key is formatted with %v.
func toAttrs(args []interface{}) []any {
	if len(args)%2 != 0 {
		args = append(args, "MISSING_VALUE")
	}

	attrs := make([]any, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}

var _ logging.Logger = (*LoggerWrapper)(nil)
