package slice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/engine/slice"
)

func TestConstantArithmetic(t *testing.T) {
	tests := []struct {
		a, b     float32
		sum, mul float32
	}{
		{a: 0, b: 0, sum: 0, mul: 0},
		{a: 1, b: 2, sum: 3, mul: 2},
		{a: -0.5, b: 0.25, sum: -0.25, mul: -0.125},
		{a: 3, b: -1, sum: 2, mul: -3},
	}
	for _, test := range tests {
		sum := slice.Add(slice.Constant(test.a), slice.Constant(test.b), nil)
		assert.True(t, sum.IsConstant())
		assert.Equal(t, test.sum, sum.Constant())

		mul := slice.Multiply(slice.Constant(test.a), slice.Constant(test.b), nil)
		assert.True(t, mul.IsConstant())
		assert.Equal(t, test.mul, mul.Constant())
	}
}

func TestAdd(t *testing.T) {
	x := []float32{1, 2, 3, 4, 5}
	out := make([]float32, len(x))

	res := slice.Add(slice.Buffer(x), slice.Constant[float32](0), out)
	assert.True(t, slice.SameBuffer(x, res.Buffer()))
	res = slice.Add(slice.Constant[float32](0), slice.Buffer(x), out)
	assert.True(t, slice.SameBuffer(x, res.Buffer()))

	res = slice.Add(slice.Buffer(x), slice.Constant[float32](1), out)
	assert.True(t, slice.SameBuffer(out, res.Buffer()))
	assert.Equal(t, []float32{2, 3, 4, 5, 6}, out)

	res = slice.Add(slice.Buffer(x), slice.Buffer(x), out)
	assert.Equal(t, []float32{2, 4, 6, 8, 10}, res.Buffer())
}

func TestMultiply(t *testing.T) {
	x := []float32{1, -2, 3, -4, 5, 6}
	out := make([]float32, len(x))

	// reads of x must not happen for zero
	res := slice.Multiply(slice.Buffer[float32](nil), slice.Constant[float32](0), nil)
	assert.True(t, res.IsConstant())
	assert.Equal(t, float32(0), res.Constant())

	res = slice.Multiply(slice.Buffer(x), slice.Constant[float32](1), out)
	assert.True(t, res.IsBuffer())
	assert.True(t, slice.SameBuffer(x, res.Buffer()))

	res = slice.Multiply(slice.Constant[float32](-1), slice.Buffer(x), out)
	assert.Equal(t, []float32{-1, 2, -3, 4, -5, -6}, res.Buffer())

	res = slice.Multiply(slice.Buffer(x), slice.Constant[float32](0.5), out)
	assert.Equal(t, []float32{0.5, -1, 1.5, -2, 2.5, 3}, res.Buffer())

	res = slice.Multiply(slice.Buffer(x), slice.Buffer(x), out)
	assert.Equal(t, []float32{1, 4, 9, 16, 25, 36}, res.Buffer())
}

func TestClamp(t *testing.T) {
	res := slice.Clamp(slice.Constant[float32](2), -1, 1, nil)
	assert.Equal(t, float32(1), res.Constant())

	x := []float32{-3, -0.5, 0, 0.5, 3}
	out := slice.Make[float32](len(x))
	res = slice.Clamp(slice.Buffer(x), -1, 1, out)
	assert.Equal(t, []float32{-1, -0.5, 0, 0.5, 1}, res.Buffer())

	unaligned := slice.Make[float32](len(x) + 1)[1:]
	assert.Panics(t, func() { slice.Clamp(slice.Buffer(x), -1, 1, unaligned) })
}

func TestCopy(t *testing.T) {
	out := make([]float32, 3)
	slice.Copy(slice.Constant[float32](0.25), out)
	assert.Equal(t, []float32{0.25, 0.25, 0.25}, out)

	x := []float32{1, 2, 3}
	slice.Copy(slice.Buffer(x), out)
	assert.Equal(t, x, out)

	// self copy is a no-op
	slice.Copy(slice.Buffer(out), out)
	assert.Equal(t, x, out)
}

func TestSubslice(t *testing.T) {
	tests := []struct {
		offset, size int
	}{
		{0, 0},
		{3, 100},
		{1000, 1},
	}
	for _, test := range tests {
		res := slice.Subslice(slice.Constant[float32](0.7), test.offset, test.size)
		assert.True(t, res.IsConstant())
		assert.Equal(t, float32(0.7), res.Constant())
	}

	x := []float32{1, 2, 3, 4}
	res := slice.Subslice(slice.Buffer(x), 1, 2)
	assert.Equal(t, []float32{2, 3}, res.Buffer())
	assert.Panics(t, func() { slice.Subslice(slice.Buffer(x), 3, 2) })
}

func TestTransform(t *testing.T) {
	double := func(v float32) float32 { return v * 2 }
	res := slice.Transform(slice.Constant[float32](3), nil, double)
	assert.Equal(t, float32(6), res.Constant())

	out := make([]float32, 3)
	res = slice.Transform(slice.Buffer([]float32{1, 2, 3}), out, double)
	assert.Equal(t, []float32{2, 4, 6}, res.Buffer())
}

func TestInterleave(t *testing.T) {
	tests := []struct {
		channels []slice.Slice[float32]
		expected []float32
	}{
		{
			channels: []slice.Slice[float32]{
				slice.Buffer([]float32{1, 2}),
				slice.Constant[float32](0),
			},
			expected: []float32{1, 0, 2, 0},
		},
		{
			channels: []slice.Slice[float32]{
				slice.Buffer([]float32{1, 2}),
				slice.Buffer([]float32{3, 4}),
				slice.Constant[float32](5),
				slice.Buffer([]float32{6, 7}),
			},
			expected: []float32{1, 3, 5, 6, 2, 4, 5, 7},
		},
		{
			channels: []slice.Slice[float32]{
				slice.Buffer([]float32{1, 2}),
				slice.Buffer([]float32{3, 4}),
				slice.Buffer([]float32{5, 6}),
			},
			expected: []float32{1, 3, 5, 2, 4, 6},
		},
	}
	for _, test := range tests {
		out := make([]float32, len(test.expected))
		slice.Interleave(out, test.channels...)
		assert.Equal(t, test.expected, out)
	}

	l, r := make([]float32, 2), make([]float32, 2)
	slice.Deinterleave([]float32{1, 3, 2, 4}, l, r)
	assert.Equal(t, []float32{1, 2}, l)
	assert.Equal(t, []float32{3, 4}, r)
}

func TestMake(t *testing.T) {
	for _, size := range []int{1, 3, 64, 129} {
		b := slice.Make[float32](size)
		assert.Equal(t, size, len(b))
		assert.True(t, slice.IsAligned(b))
	}
	assert.Nil(t, slice.Make[float64](0))
}

func TestEqual(t *testing.T) {
	assert.True(t, slice.Equal(slice.Constant(1), slice.Buffer([]int{1, 1})))
	assert.False(t, slice.Equal(slice.Buffer([]int{1, 2}), slice.Constant(1)))
	assert.True(t, slice.Equal(slice.Buffer([]int{1, 2}), slice.Buffer([]int{1, 2})))
	assert.False(t, slice.Equal(slice.Constant(1), slice.Constant(2)))
}
