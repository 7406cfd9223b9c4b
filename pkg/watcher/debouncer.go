package watcher

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// debouncer runs a callback once events for a key have been quiet for
// delay, or once maxDelay has passed since the first event of the burst.
type debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	maxDelay time.Duration
	clock    clock.Clock
	pending  map[string]*burst
	stopped  bool
}

type burst struct {
	first    time.Time
	deadline time.Time
	timer    *clock.Timer
	gen      int // bumped on every event so a superseded timer is ignored
}

// NewDebouncer creates a debouncer. A nil clock means the wall clock.
func NewDebouncer(delay, maxDelay time.Duration, clk clock.Clock) Debouncer {
	if clk == nil {
		clk = clock.New()
	}
	if maxDelay < delay {
		maxDelay = delay
	}
	return &debouncer{
		delay:    delay,
		maxDelay: maxDelay,
		clock:    clk,
		pending:  make(map[string]*burst),
	}
}

func (d *debouncer) Debounce(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	now := d.clock.Now()
	b, ok := d.pending[key]
	if ok && !now.Before(b.deadline) {
		// The timer is due and will run on its own; this event opens a new burst.
		ok = false
	}
	if !ok {
		b = &burst{first: now}
		d.pending[key] = b
	}
	if b.timer != nil {
		b.timer.Stop()
	}

	wait := d.delay
	if left := d.maxDelay - now.Sub(b.first); left < wait {
		wait = left
	}
	if wait <= 0 {
		b.gen++
		delete(d.pending, key)
		go fn()
		return
	}

	b.gen++
	gen := b.gen
	b.deadline = now.Add(wait)
	b.timer = d.clock.AfterFunc(wait, func() {
		d.mu.Lock()
		if d.stopped || b.gen != gen {
			d.mu.Unlock()
			return
		}
		if d.pending[key] == b {
			delete(d.pending, key)
		}
		d.mu.Unlock()
		fn()
	})
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, b := range d.pending {
		if b.timer != nil {
			b.timer.Stop()
		}
		delete(d.pending, key)
	}
}
