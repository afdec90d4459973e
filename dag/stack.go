package dag

import (
	"fmt"
	"sync/atomic"
)

// stack is a fixed-capacity lock-free LIFO of node indices. Every index can
// be in the stack at most once. The head packs a modification tag into the
// upper 32 bits to defeat ABA.
type stack struct {
	head     atomic.Uint64
	next     []atomic.Uint32
	size     atomic.Int32
	capacity int32
}

func newStack(nodes, capacity int) *stack {
	return &stack{
		next:     make([]atomic.Uint32, nodes),
		capacity: int32(capacity),
	}
}

func (s *stack) reset() {
	s.head.Store(0)
	s.size.Store(0)
}

// push panics if capacity is exceeded.
func (s *stack) push(i int32) {
	if n := s.size.Add(1); n > s.capacity {
		panic(fmt.Sprintf("dag: ready stack overflow: %d tasks, capacity %d", n, s.capacity))
	}
	for {
		old := s.head.Load()
		s.next[i].Store(uint32(old))
		if s.head.CompareAndSwap(old, pack(old>>32+1, uint32(i)+1)) {
			return
		}
	}
}

func (s *stack) pop() (int32, bool) {
	for {
		old := s.head.Load()
		top := uint32(old)
		if top == 0 {
			return 0, false
		}
		next := s.next[top-1].Load()
		if s.head.CompareAndSwap(old, pack(old>>32+1, next)) {
			s.size.Add(-1)
			return int32(top - 1), true
		}
	}
}

func pack(tag uint64, top uint32) uint64 {
	return tag<<32 | uint64(top)
}
