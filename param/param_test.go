package param_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/engine/param"
)

func TestSlot(t *testing.T) {
	s := param.NewSlot(1)

	v, ok := s.Pull()
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.Pull()
	assert.False(t, ok)

	s.Push(2)
	s.Push(3)
	v, ok = s.Pull()
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	called := s.Consume(func(int) { t.Fatal("consumed twice") })
	assert.False(t, called)
}

func TestSlotConcurrent(t *testing.T) {
	const n = 10000
	s := param.NewSlot(0)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= n; i++ {
			s.Push(i)
		}
	}()

	last := -1
	for last != n {
		if v, ok := s.Pull(); ok {
			assert.Greater(t, v, last)
			last = v
		}
	}
	wg.Wait()
}

func TestPusher(t *testing.T) {
	volume := param.New[float32](1)
	pan := param.New[float32](0)
	unknown := param.New(false)
	p := param.NewPusher(volume, pan)

	// initial values
	v, _ := volume.Slot().Pull()
	assert.Equal(t, float32(1), v)
	pan.Slot().Pull()

	p.Put(volume.Set(0.5), volume.Set(0.25), pan.Set(-1))
	assert.Equal(t, 2, p.Pending())
	assert.Panics(t, func() { p.Put(unknown.Set(true)) })

	assert.Equal(t, 2, p.Push())
	assert.Equal(t, 0, p.Pending())

	v, ok := volume.Slot().Pull()
	assert.True(t, ok)
	assert.Equal(t, float32(0.25), v)
	v, ok = pan.Slot().Pull()
	assert.True(t, ok)
	assert.Equal(t, float32(-1), v)

	p.Put(pan.Set(1))
	p.Remove(pan)
	assert.Equal(t, 0, p.Push())
	assert.Panics(t, func() { p.Put(pan.Set(0)) })
}
