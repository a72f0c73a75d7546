package timer

import (
	"sync"
	"time"
)

// metadata is the debounced payload for notes/tags edits.
type metadata struct {
	Notes string
	Tags  string
}

// debouncer coalesces rapid Set calls into a single flush of the
// latest value after the delay settles. Last write wins; there is no
// ordering guarantee beyond that.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	flush   func(metadata)
	pending *metadata
	t       *time.Timer
}

func newDebouncer(delay time.Duration, flush func(metadata)) *debouncer {
	return &debouncer{delay: delay, flush: flush}
}

// Set records v as the latest value and (re)arms the flush timer.
func (d *debouncer) Set(v metadata) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = &v
	if d.t != nil {
		d.t.Stop()
	}
	d.t = time.AfterFunc(d.delay, d.fire)
}

func (d *debouncer) fire() {
	d.mu.Lock()
	v := d.pending
	d.pending = nil
	d.t = nil
	d.mu.Unlock()
	if v != nil {
		d.flush(*v)
	}
}

// Flush delivers any pending value immediately.
func (d *debouncer) Flush() {
	d.mu.Lock()
	if d.t != nil {
		d.t.Stop()
		d.t = nil
	}
	d.mu.Unlock()
	d.fire()
}

// Stop drops any pending value without flushing.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.t != nil {
		d.t.Stop()
		d.t = nil
	}
	d.pending = nil
}
