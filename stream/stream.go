// Package stream moves audio from the engine to the control side. A Ring
// is written by one processor on the audio thread and consumed by one
// control goroutine. Neither side blocks.
package stream

import (
	"fmt"
	"sync/atomic"

	"pipelined.dev/engine/slice"
)

// Ring is a single-producer single-consumer multichannel audio ring.
// Channels are stored one after another and share positions.
type Ring struct {
	written atomic.Uint64
	_       [56]byte
	read    atomic.Uint64
	_       [56]byte

	channels int
	size     uint64
	mask     uint64
	buf      []float32
}

// NewRing returns ring for numChannels holding at least frames per channel.
// Capacity is rounded up to the next power of two.
func NewRing(numChannels, frames int) *Ring {
	size := 1
	for size < frames {
		size <<= 1
	}
	return &Ring{
		channels: numChannels,
		size:     uint64(size),
		mask:     uint64(size - 1),
		buf:      make([]float32, numChannels*size),
	}
}

// NumChannels returns number of channels.
func (r *Ring) NumChannels() int {
	return r.channels
}

// Capacity returns number of frames per channel the ring can hold.
func (r *Ring) Capacity() int {
	return int(r.size)
}

func (r *Ring) channel(c int) []float32 {
	return r.buf[uint64(c)*r.size : uint64(c+1)*r.size]
}

// Write appends first frames of every channel. Frames that don't fit are
// dropped. It returns number of frames written. Only the producer may call
// it.
func (r *Ring) Write(channels []slice.Slice[float32], frames int) int {
	if len(channels) != r.channels {
		panic(fmt.Sprintf("stream: writing %d channels into ring of %d", len(channels), r.channels))
	}
	w := r.written.Load()
	n := min(uint64(frames), r.size-(w-r.read.Load()))
	if n == 0 {
		return 0
	}

	pos := w & r.mask
	first := min(n, r.size-pos)
	for c, s := range channels {
		ch := r.channel(c)
		slice.Copy(slice.Subslice(s, 0, int(first)), ch[pos:pos+first])
		slice.Copy(slice.Subslice(s, int(first), int(n-first)), ch[:n-first])
	}
	r.written.Store(w + n)
	return int(n)
}

// Available returns number of frames ready to consume.
func (r *Ring) Available() int {
	return int(r.written.Load() - r.read.Load())
}

// Consume returns all written frames per channel and releases them. Only
// the consumer may call it.
func (r *Ring) Consume() [][]float32 {
	rd := r.read.Load()
	n := r.written.Load() - rd

	result := make([][]float32, r.channels)
	pos := rd & r.mask
	first := min(n, r.size-pos)
	for c := range result {
		ch := r.channel(c)
		result[c] = make([]float32, 0, n)
		result[c] = append(result[c], ch[pos:pos+first]...)
		result[c] = append(result[c], ch[:n-first]...)
	}
	r.read.Store(rd + n)
	return result
}
