package stream_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/engine/slice"
	"pipelined.dev/engine/stream"
)

func ramp(from, n int) []float32 {
	b := make([]float32, n)
	for i := range b {
		b[i] = float32(from + i)
	}
	return b
}

func TestRing(t *testing.T) {
	r := stream.NewRing(2, 6)
	assert.Equal(t, 8, r.Capacity())
	assert.Equal(t, [][]float32{{}, {}}, r.Consume())

	tests := []struct {
		description string
		frames      int
		written     int
		expected    [][]float32
	}{
		{
			description: "partial",
			frames:      5,
			written:     5,
			expected:    [][]float32{ramp(0, 5), {1, 1, 1, 1, 1}},
		},
		{
			description: "wraps around",
			frames:      6,
			written:     6,
			expected:    [][]float32{ramp(0, 6), {1, 1, 1, 1, 1, 1}},
		},
	}
	for _, test := range tests {
		n := r.Write([]slice.Slice[float32]{
			slice.Buffer(ramp(0, test.frames)),
			slice.Constant[float32](1),
		}, test.frames)
		assert.Equal(t, test.written, n, test.description)
		assert.Equal(t, test.written, r.Available(), test.description)
		assert.Equal(t, test.expected, r.Consume(), test.description)
		assert.Zero(t, r.Available(), test.description)
	}
}

func TestRingFull(t *testing.T) {
	r := stream.NewRing(1, 4)
	in := []slice.Slice[float32]{slice.Buffer(ramp(0, 3))}
	assert.Equal(t, 3, r.Write(in, 3))
	assert.Equal(t, 1, r.Write(in, 3))
	assert.Zero(t, r.Write(in, 3))
	assert.Equal(t, [][]float32{{0, 1, 2, 0}}, r.Consume())
	assert.Panics(t, func() { r.Write(nil, 3) })
}

func TestRingConcurrent(t *testing.T) {
	const (
		periods = 1000
		frames  = 16
	)
	r := stream.NewRing(1, 64)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for p := 0; p < periods; p++ {
			in := []slice.Slice[float32]{slice.Buffer(ramp(p*frames, frames))}
			for written := 0; written < frames; {
				written += r.Write([]slice.Slice[float32]{slice.Subslice(in[0], written, frames-written)}, frames-written)
			}
		}
	}()

	var received []float32
	for len(received) < periods*frames {
		received = append(received, r.Consume()[0]...)
	}
	wg.Wait()
	assert.Equal(t, ramp(0, periods*frames), received)
}
