package sim

import (
	"cmp"
	"fmt"
	"math"

	"github.com/addrummond/heap"
)

// event is a pending continuation. Events run in non-decreasing time; equal
// times run in submission order (seq).
type event struct {
	at  float64
	seq uint64
	fn  func()
}

func (a *event) Cmp(b *event) int {
	if c := cmp.Compare(a.at, b.at); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// Clock holds simulated time and the pending-event heap, and drives every
// process of a run. It is not safe for concurrent use; a run executes on a
// single goroutine.
type Clock struct {
	now      float64
	nextSeq  uint64
	pending  int
	executed uint64
	events   heap.Heap[event, heap.Min]
}

// NewClock returns a clock at time zero with no pending events.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current simulated time in seconds.
func (c *Clock) Now() float64 {
	return c.now
}

// Pending returns the number of scheduled events not yet executed.
func (c *Clock) Pending() int {
	return c.pending
}

// Executed returns the number of events executed so far.
func (c *Clock) Executed() uint64 {
	return c.executed
}

// Schedule runs fn after delay seconds of simulated time. A zero delay queues
// fn behind every event already pending at the current instant. A continuation
// that keeps rescheduling itself at zero delay never lets time advance; that
// is the caller's responsibility.
func (c *Clock) Schedule(delay float64, fn func()) {
	if math.IsNaN(delay) || delay < 0 {
		panic(fmt.Sprintf("Schedule: delay must be non-negative, got %g", delay))
	}
	if fn == nil {
		panic("Schedule: fn must not be nil")
	}
	heap.PushOrderable(&c.events, event{at: c.now + delay, seq: c.nextSeq, fn: fn})
	c.nextSeq++
	c.pending++
}

// Run executes events in order while the next event time is within horizon.
// It returns when no event is left or the next one lies beyond the horizon;
// in both cases the clock then reads the horizon (unless it is infinite).
// Events scheduled beyond the horizon stay pending.
func (c *Clock) Run(horizon float64) {
	for {
		next, ok := heap.Peek(&c.events)
		if !ok || next.at > horizon {
			break
		}
		ev, _ := heap.PopOrderable(&c.events)
		c.pending--
		if ev.at < c.now {
			panic(fmt.Sprintf("Run: event at %g is earlier than clock %g", ev.at, c.now))
		}
		c.now = ev.at
		c.executed++
		ev.fn()
	}
	if !math.IsInf(horizon, 1) && horizon > c.now {
		c.now = horizon
	}
}
