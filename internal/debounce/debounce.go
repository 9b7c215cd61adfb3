// Package debounce decouples optimistic in-memory edits from store writes.
// Each entity key gets its own timer that resets on every new edit and
// fires after a quiet interval, so rapid keystrokes on one record collapse
// into a single write while edits to different records stay independent.
package debounce

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultQuiet is the interval an entity must stay untouched before its
// pending write fires.
const DefaultQuiet = 450 * time.Millisecond

type pending struct {
	timer *time.Timer
	fn    func() error
}

type Debouncer struct {
	mu      sync.Mutex
	quiet   time.Duration
	pending map[string]*pending
	stopped bool
	logger  *slog.Logger

	// onFlush, when set, observes every fired write (metrics hook).
	onFlush func(key string, err error)
}

func New(quiet time.Duration, logger *slog.Logger) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Debouncer{
		quiet:   quiet,
		pending: make(map[string]*pending),
		logger:  logger,
	}
}

// OnFlush registers a hook called after every fired write.
func (d *Debouncer) OnFlush(fn func(key string, err error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onFlush = fn
}

// Trigger schedules fn to run after the quiet interval. A later Trigger for
// the same key replaces fn and restarts the interval; other keys are
// unaffected. Write errors are logged once, never retried: the next edit's
// flush writes the whole document again anyway.
func (d *Debouncer) Trigger(key string, fn func() error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if p, ok := d.pending[key]; ok {
		p.fn = fn
		p.timer.Reset(d.quiet)
		return
	}
	p := &pending{fn: fn}
	p.timer = time.AfterFunc(d.quiet, func() { d.fire(key) })
	d.pending[key] = p
}

func (d *Debouncer) fire(key string) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	fn, hook := p.fn, d.onFlush
	d.mu.Unlock()

	err := fn()
	if err != nil {
		d.logger.Error("debounced write failed", "key", key, "error", err)
	}
	if hook != nil {
		hook(key, err)
	}
}

// Flush runs every pending write immediately. Called on graceful shutdown
// so edits sitting inside the quiet interval are not lost.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	keys := make([]string, 0, len(d.pending))
	for key, p := range d.pending {
		p.timer.Stop()
		keys = append(keys, key)
	}
	d.mu.Unlock()

	for _, key := range keys {
		d.fire(key)
	}
}

// Stop flushes pending writes and rejects further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.Flush()
}
