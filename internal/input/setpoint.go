package input

import "sync/atomic"

// Store holds the target temperature in whole degrees Fahrenheit,
// clamped to [Min, Max]. Increment and Decrement are callable from the
// interrupt context; Load is callable from anywhere. Updates are a
// single CAS loop, so no reader ever sees a partially written value and
// the interrupt path is never blocked waiting on the control loop.
type Store struct {
	min, max int64
	v        atomic.Int64
}

// NewStore creates a Store with the given initial value and range.
// The initial value is clamped into [min, max].
func NewStore(initial, min, max int) *Store {
	s := &Store{min: int64(min), max: int64(max)}
	s.v.Store(clamp(int64(initial), s.min, s.max))
	return s
}

// Increment raises the set point by one degree, clamping at Max.
// An adjustment at the rail is silently absorbed, not an error.
func (s *Store) Increment() {
	s.adjust(1)
}

// Decrement lowers the set point by one degree, clamping at Min.
func (s *Store) Decrement() {
	s.adjust(-1)
}

// Load returns the current set point.
func (s *Store) Load() int {
	return int(s.v.Load())
}

// Min returns the lower clamp bound.
func (s *Store) Min() int { return int(s.min) }

// Max returns the upper clamp bound.
func (s *Store) Max() int { return int(s.max) }

func (s *Store) adjust(delta int64) {
	for {
		cur := s.v.Load()
		next := clamp(cur+delta, s.min, s.max)
		if next == cur {
			return
		}
		if s.v.CompareAndSwap(cur, next) {
			return
		}
	}
}

func clamp(v, min, max int64) int64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
