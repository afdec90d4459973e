package slice

import "unsafe"

// Alignment is the byte alignment of buffers returned by Make. Vectorized
// algorithms require their output to be aligned to it.
const Alignment = 64

// Make allocates a zeroed buffer of size samples with its first sample
// aligned to Alignment.
func Make[T Number](size int) []T {
	if size == 0 {
		return nil
	}
	var zero T
	elem := int(unsafe.Sizeof(zero))
	pad := (Alignment + elem - 1) / elem
	buf := make([]T, size+pad)
	offset := 0
	for !IsAligned(buf[offset:]) {
		offset++
	}
	return buf[offset : offset+size : offset+size]
}

// IsAligned reports whether the first element of b is aligned to
// Alignment. Empty buffers are aligned.
func IsAligned[T any](b []T) bool {
	if len(b) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))%Alignment == 0
}
