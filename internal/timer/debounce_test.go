package timer

import (
	"sync"
	"testing"
	"time"
)

type captured struct {
	mu   sync.Mutex
	vals []metadata
}

func (c *captured) add(v metadata) {
	c.mu.Lock()
	c.vals = append(c.vals, v)
	c.mu.Unlock()
}

func (c *captured) snapshot() []metadata {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]metadata(nil), c.vals...)
}

func TestDebouncerKeepsLatestOnly(t *testing.T) {
	c := &captured{}
	d := newDebouncer(10*time.Millisecond, c.add)

	d.Set(metadata{Notes: "a"})
	d.Set(metadata{Notes: "b"})
	d.Set(metadata{Notes: "c"})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if vals := c.snapshot(); len(vals) > 0 {
			if len(vals) != 1 || vals[0].Notes != "c" {
				t.Fatalf("flushed %+v, want single latest value", vals)
			}
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("debouncer never flushed")
}

func TestDebouncerFlushIsImmediate(t *testing.T) {
	c := &captured{}
	d := newDebouncer(time.Hour, c.add)

	d.Set(metadata{Notes: "now"})
	d.Flush()

	vals := c.snapshot()
	if len(vals) != 1 || vals[0].Notes != "now" {
		t.Fatalf("flush delivered %+v", vals)
	}
}

func TestDebouncerFlushWithoutPendingIsNoop(t *testing.T) {
	c := &captured{}
	d := newDebouncer(time.Hour, c.add)
	d.Flush()
	if len(c.snapshot()) != 0 {
		t.Fatal("nothing was pending, nothing should flush")
	}
}

func TestDebouncerStopDropsPending(t *testing.T) {
	c := &captured{}
	d := newDebouncer(10*time.Millisecond, c.add)

	d.Set(metadata{Notes: "dropped"})
	d.Stop()

	time.Sleep(50 * time.Millisecond)
	if len(c.snapshot()) != 0 {
		t.Fatal("stopped debouncer must not flush")
	}
}
