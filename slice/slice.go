// Package slice provides a signal value which is either a single repeated
// constant or a reference to a sample buffer. Algorithms in this package
// short-circuit on constants, so silent or static paths are never touched
// sample by sample.
package slice

import "unsafe"

type (
	// Number is a numeric sample type.
	Number interface {
		~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
	}

	// Slice is either a constant or a buffer. The zero value is the constant
	// zero, which is silence for audio samples.
	Slice[T any] struct {
		buf      []T
		constant T
		isBuffer bool
	}
)

// Constant returns a constant slice.
func Constant[T any](v T) Slice[T] {
	return Slice[T]{constant: v}
}

// Buffer returns a slice that references b. The data is not copied.
func Buffer[T any](b []T) Slice[T] {
	return Slice[T]{buf: b, isBuffer: true}
}

// IsConstant returns true if slice holds a single repeated value.
func (s Slice[T]) IsConstant() bool {
	return !s.isBuffer
}

// IsBuffer returns true if slice references a buffer.
func (s Slice[T]) IsBuffer() bool {
	return s.isBuffer
}

// Constant returns the constant value. It panics if slice is a buffer.
func (s Slice[T]) Constant() T {
	if s.isBuffer {
		panic("slice: constant of a buffer slice")
	}
	return s.constant
}

// Buffer returns the referenced buffer. It panics if slice is a constant.
func (s Slice[T]) Buffer() []T {
	if !s.isBuffer {
		panic("slice: buffer of a constant slice")
	}
	return s.buf
}

// At returns the value at frame i.
func (s Slice[T]) At(i int) T {
	if s.isBuffer {
		return s.buf[i]
	}
	return s.constant
}

// Len returns the buffer length. Constants have no length and return -1.
func (s Slice[T]) Len() int {
	if s.isBuffer {
		return len(s.buf)
	}
	return -1
}

// Fill expands the slice into dst. Buffers are copied, constants repeated.
func (s Slice[T]) Fill(dst []T) {
	if s.isBuffer {
		copy(dst, s.buf)
		return
	}
	for i := range dst {
		dst[i] = s.constant
	}
}

// SameBuffer reports whether a and b start at the same address and have the
// same length.
func SameBuffer[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return unsafe.SliceData(a) == unsafe.SliceData(b)
}

// Equal compares values of two slices. Constants are compared to every
// frame of a buffer.
func Equal[T comparable](a, b Slice[T]) bool {
	switch {
	case !a.isBuffer && !b.isBuffer:
		return a.constant == b.constant
	case a.isBuffer && b.isBuffer:
		if len(a.buf) != len(b.buf) {
			return false
		}
		for i := range a.buf {
			if a.buf[i] != b.buf[i] {
				return false
			}
		}
		return true
	case a.isBuffer:
		return equalsConstant(a.buf, b.constant)
	default:
		return equalsConstant(b.buf, a.constant)
	}
}

func equalsConstant[T comparable](buf []T, c T) bool {
	for _, v := range buf {
		if v != c {
			return false
		}
	}
	return true
}
