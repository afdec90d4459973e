package event

import (
	"fmt"
	"unsafe"
)

// Arena is a bump allocator for event storage. Memory is carved from one
// pre-allocated region and handed back all at once with Reset. Arena must
// only back pointer-free types and must not be shared between goroutines.
type Arena struct {
	buf    []byte
	offset uintptr
}

const cacheLine = 64

// NewArena allocates an arena of size bytes.
func NewArena(size int) *Arena {
	if size <= 0 {
		return &Arena{}
	}
	buf := make([]byte, size+cacheLine-1)
	var offset uintptr
	if mod := uintptr(unsafe.Pointer(&buf[0])) % cacheLine; mod != 0 {
		offset = cacheLine - mod
	}
	return &Arena{buf: buf[offset : offset+uintptr(size)]}
}

// Reset releases every allocation.
func (a *Arena) Reset() {
	a.offset = 0
}

// Size returns capacity of arena in bytes.
func (a *Arena) Size() int {
	return len(a.buf)
}

// Used returns number of allocated bytes.
func (a *Arena) Used() int {
	return int(a.offset)
}

func (a *Arena) alloc(size, align uintptr) unsafe.Pointer {
	start := (a.offset + align - 1) &^ (align - 1)
	if start+size > uintptr(len(a.buf)) {
		panic(fmt.Sprintf("event: arena exhausted: need %d bytes, %d of %d used", size, a.offset, len(a.buf)))
	}
	a.offset = start + size
	return unsafe.Pointer(&a.buf[start])
}

// Alloc returns zero-length storage for n values of T carved from arena.
func Alloc[T any](a *Arena, n int) []T {
	if n == 0 {
		return nil
	}
	var zero T
	size, align := unsafe.Sizeof(zero), unsafe.Alignof(zero)
	if size == 0 {
		return make([]T, 0, n)
	}
	p := a.alloc(size*uintptr(n), align)
	return unsafe.Slice((*T)(p), n)[:0]
}
