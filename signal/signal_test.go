package signal_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/engine/signal"
	"pipelined.dev/engine/slice"
)

func TestAsFloat32(t *testing.T) {
	tests := []struct {
		ints     []int
		bitDepth signal.BitDepth
		expected []float32
	}{
		{
			ints:     []int{1, 2, -1, 0},
			expected: []float32{1, 2, -1, 0},
		},
		{
			ints:     []int{math.MaxInt16, -math.MaxInt16, 0},
			bitDepth: signal.BitDepth16,
			expected: []float32{1, -1, 0},
		},
		{
			ints:     []int{1<<23 - 1},
			bitDepth: signal.BitDepth24,
			expected: []float32{1},
		},
		{
			ints:     nil,
			expected: []float32{},
		},
	}
	for _, test := range tests {
		floats := make([]float32, len(test.ints))
		test.bitDepth.AsFloat32(test.ints, floats)
		assert.Equal(t, test.expected, floats)
	}
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		floats   []float32
		bitDepth signal.BitDepth
		expected []int
	}{
		{
			floats:   []float32{1, -1, 0, 0.5},
			bitDepth: signal.BitDepth16,
			expected: []int{math.MaxInt16, -math.MaxInt16, 0, math.MaxInt16 / 2},
		},
		{
			floats:   []float32{2, -3},
			bitDepth: signal.BitDepth8,
			expected: []int{math.MaxInt8, -math.MaxInt8},
		},
	}
	for _, test := range tests {
		ints := make([]int, len(test.floats))
		test.bitDepth.AsInt(test.floats, ints)
		assert.Equal(t, test.expected, ints)
	}
}

func TestDuration(t *testing.T) {
	assert.Equal(t, time.Second, signal.DurationOf(44100, 44100))
	assert.Equal(t, 10*time.Millisecond, signal.DurationOf(48000, 480))
	assert.Equal(t, 480, signal.FramesOf(48000, 10*time.Millisecond))
}

func TestInterleaved(t *testing.T) {
	b := signal.NewInterleaved(2, 4)
	assert.Equal(t, 4, b.Frames())

	b.Writer(0)(slice.Buffer([]float32{1, 2, 3, 4}))
	b.Writer(1)(slice.Constant[float32](9))
	assert.Equal(t, []float32{1, 9, 2, 9, 3, 9, 4, 9}, b.Data)

	out := make([]float32, 3)
	b.Reader(0)(out)
	assert.Equal(t, []float32{1, 2, 3}, out)
	b.ReadChannel(1, out)
	assert.Equal(t, []float32{9, 9, 9}, out)

	b.Clear()
	assert.Equal(t, make([]float32, 8), b.Data)
	assert.Zero(t, (&signal.Interleaved{}).Frames())
}
