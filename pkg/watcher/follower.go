package watcher

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/butter-bot-machines/cfile/pkg/fs"
	"github.com/butter-bot-machines/cfile/pkg/logging"
)

const (
	// DefaultDebounce is the quiet period before new bytes are read
	DefaultDebounce = 100 * time.Millisecond
	// DefaultMaxDelay bounds how long a steady stream of writes can defer a read
	DefaultMaxDelay = time.Second

	bufferSize = 32 * 1024
)

// Options configures a Follower
type Options struct {
	Debounce time.Duration
	MaxDelay time.Duration
	Clock    clock.Clock
	Logger   logging.Logger
}

// Follower copies bytes appended to a file to an output
type Follower struct {
	file      fs.File
	out       io.Writer
	source    Source
	debouncer Debouncer
	logger    logging.Logger
	wake      chan struct{}
}

// NewFollower reads f from its current cursor. It does not take ownership
// of f or source.
func NewFollower(f fs.File, out io.Writer, source Source, opts *Options) *Follower {
	o := Options{Debounce: DefaultDebounce, MaxDelay: DefaultMaxDelay}
	if opts != nil {
		if opts.Debounce > 0 {
			o.Debounce = opts.Debounce
		}
		if opts.MaxDelay > 0 {
			o.MaxDelay = opts.MaxDelay
		}
		o.Clock = opts.Clock
		o.Logger = opts.Logger
	}

	return &Follower{
		file:      f,
		out:       out,
		source:    source,
		debouncer: NewDebouncer(o.Debounce, o.MaxDelay, o.Clock),
		logger:    o.Logger,
		wake:      make(chan struct{}, 1),
	}
}

// Run copies what is already there, then follows until ctx is done, the
// file is removed or a transfer fails.
func (fl *Follower) Run(ctx context.Context) error {
	defer fl.debouncer.Stop()

	if err := fl.drain(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-fl.source.Changes():
			if !ok {
				return nil
			}
			if change.Op == Removed {
				fl.debug("file removed", "name", fl.file.Name())
				return fl.drain()
			}
			fl.debouncer.Debounce(change.Name, fl.signal)
		case err, ok := <-fl.source.Errors():
			if ok && fl.logger != nil {
				fl.logger.Warn("watch error", "name", fl.file.Name(), "error", err)
			}
		case <-fl.wake:
			if err := fl.drain(); err != nil {
				return err
			}
		}
	}
}

func (fl *Follower) signal() {
	select {
	case fl.wake <- struct{}{}:
	default:
	}
}

// drain copies from the cursor to the current end. A file shorter than the
// cursor was truncated and is read again from the start.
func (fl *Follower) drain() error {
	size, err := fl.file.SizeOf()
	if err != nil {
		return err
	}
	if size < fl.file.Cursor() {
		fl.debug("file truncated", "name", fl.file.Name(), "size", size)
		if err := fl.file.SetCursor(0); err != nil {
			return err
		}
	}

	buf := make([]byte, bufferSize)
	var total int
	for {
		n, err := fl.file.Read(buf)
		if n > 0 {
			if _, werr := fl.out.Write(buf[:n]); werr != nil {
				return fmt.Errorf("failed to write output: %w", werr)
			}
			total += n
		}
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}
	if total > 0 {
		fl.debug("read appended bytes", "name", fl.file.Name(), "count", total)
	}
	return nil
}

func (fl *Follower) debug(msg string, args ...interface{}) {
	if fl.logger != nil {
		fl.logger.Debug(msg, args...)
	}
}
