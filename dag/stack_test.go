package dag

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	s := newStack(4, 3)
	_, ok := s.pop()
	assert.False(t, ok)

	s.push(2)
	s.push(0)
	s.push(3)
	assert.Panics(t, func() { s.push(1) })

	for _, expected := range []int32{3, 0, 2} {
		i, ok := s.pop()
		assert.True(t, ok)
		assert.Equal(t, expected, i)
	}
	_, ok = s.pop()
	assert.False(t, ok)
}

func TestStackConcurrent(t *testing.T) {
	const n = 1024
	s := newStack(n, n)
	for i := 0; i < n; i++ {
		s.push(int32(i))
	}

	seen := make([]int32, n)
	var wg sync.WaitGroup
	for c := 0; c < 4; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i, ok := s.pop()
				if !ok {
					return
				}
				seen[i]++
			}
		}()
	}
	wg.Wait()
	for i := range seen {
		assert.Equal(t, int32(1), seen[i])
	}
}
