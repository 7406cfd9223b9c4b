package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// Options configures the logger
type Options struct {
	// Level sets the minimum level to log
	Level Level
	// Format selects JSON or text output
	Format Format
	// AddSource adds source code information to log messages
	AddSource bool
	// Output sets the output destination (defaults to os.Stderr)
	Output io.Writer
}

// ResolveFormat turns FormatAuto into a concrete format for w: text when w
// is a terminal, JSON otherwise.
func ResolveFormat(f Format, w io.Writer) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	if file, ok := w.(*os.File); ok {
		fd := file.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return FormatText
		}
	}
	return FormatJSON
}

// NewHandler builds the slog handler described by opts
func NewHandler(opts *Options) slog.Handler {
	if opts == nil {
		opts = &Options{Level: LevelInfo}
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     opts.Level.Slog(),
		AddSource: opts.AddSource,
	}

	if ResolveFormat(opts.Format, output) == FormatText {
		return slog.NewTextHandler(output, handlerOpts)
	}
	return slog.NewJSONHandler(output, handlerOpts)
}

// NewLogger creates a new logger with the given options
func NewLogger(opts *Options) *slog.Logger {
	return slog.New(NewHandler(opts))
}
