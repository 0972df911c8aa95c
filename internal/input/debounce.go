// Package input handles the two set-point buttons: debouncing of raw
// interrupt edges and the clamped atomic set-point store. This is the
// only state shared between the interrupt context (gpiocdev event
// handler goroutines) and the control loop, so everything here is
// lock-free: the interrupt path never blocks and readers never observe
// a torn value.
package input

import (
	"sync/atomic"
	"time"
)

// Debouncer turns a raw, bouncy edge signal into at most one clean
// press per debounce window.
//
// RawEdge is called from the interrupt context on every raw electrical
// transition. An edge is accepted only if it arrives at least one full
// window after the last accepted edge; everything else is suppressed.
// Acceptance sets a single-slot pending flag: rapid multi-press bursts
// collapse to one event rather than accumulating, so one physical press
// can never account for more than one set-point step.
type Debouncer struct {
	window int64 // nanoseconds

	lastAccepted atomic.Int64 // unix nanos, non-decreasing
	pending      atomic.Bool

	accepted   atomic.Uint64
	suppressed atomic.Uint64
}

// NewDebouncer creates a Debouncer with the given debounce window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window.Nanoseconds()}
}

// RawEdge records a raw electrical transition at time t and reports
// whether it was accepted as a genuine press. Safe to call from the
// interrupt context; never blocks.
func (d *Debouncer) RawEdge(t time.Time) bool {
	ts := t.UnixNano()
	for {
		last := d.lastAccepted.Load()
		// A negative delta (clock went backwards relative to the last
		// accepted edge) is treated as inside the window, which keeps
		// lastAccepted monotonically non-decreasing.
		if ts-last < d.window {
			d.suppressed.Add(1)
			return false
		}
		if d.lastAccepted.CompareAndSwap(last, ts) {
			d.pending.Store(true)
			d.accepted.Add(1)
			return true
		}
	}
}

// TakePending consumes the pending press, if any. Called from the
// control loop; at most one press is returned per accepted edge.
func (d *Debouncer) TakePending() bool {
	return d.pending.Swap(false)
}

// Accepted returns the number of edges accepted as presses.
func (d *Debouncer) Accepted() uint64 {
	return d.accepted.Load()
}

// Suppressed returns the number of edges discarded as bounces.
// A suppressed bounce is not an error; it is the intended behavior.
func (d *Debouncer) Suppressed() uint64 {
	return d.suppressed.Load()
}
