// Package param carries parameter values from the control side into the
// engine. Values cross the thread boundary through single-writer
// single-reader slots that never block either side.
package param

import "sync/atomic"

const (
	marked  = 0b100
	posMask = 0b11
)

// Slot is a triple buffer holding the latest value written by one producer
// for one consumer. Intermediate values can be dropped, the last one never is.
type Slot[T any] struct {
	swap  atomic.Uint32
	read  uint32
	write uint32
	store [3]T
}

// NewSlot returns a slot which yields initial on the first pull.
func NewSlot[T any](initial T) *Slot[T] {
	s := &Slot[T]{read: 0, write: 2}
	s.swap.Store(1)
	s.Push(initial)
	return s
}

// Push publishes v. Must be called from the producer only.
func (s *Slot[T]) Push(v T) {
	s.store[s.write] = v
	s.write = s.swap.Swap(s.write|marked) & posMask
}

// Consume calls fn with the latest value if it wasn't consumed yet. Must be
// called from the consumer only.
func (s *Slot[T]) Consume(fn func(T)) bool {
	if s.swap.Load()&marked == 0 {
		return false
	}
	s.read = s.swap.Swap(s.read) & posMask
	fn(s.store[s.read])
	return true
}

// Pull returns the latest value if it wasn't consumed yet.
func (s *Slot[T]) Pull() (v T, ok bool) {
	ok = s.Consume(func(value T) { v = value })
	return
}
