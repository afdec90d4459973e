// Package signal converts between float32 channels used by the engine and
// device formats. It allows to:
//   - convert integer PCM of a bit depth to float32 and backward
//   - stage interleaved device frames for per-channel converters
package signal

import (
	"math"
	"time"

	"pipelined.dev/engine/slice"
)

const (
	// BitDepth8 is 8 bit depth.
	BitDepth8 = BitDepth(8)
	// BitDepth16 is 16 bit depth.
	BitDepth16 = BitDepth(16)
	// BitDepth24 is 24 bit depth.
	BitDepth24 = BitDepth(24)
	// BitDepth32 is 32 bit depth.
	BitDepth32 = BitDepth(32)
)

// BitDepth contains values required for int-to-float and backward conversion.
type BitDepth int

// divider is used when int to float conversion is done.
func (bitDepth BitDepth) divider() float64 {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8
	case BitDepth16:
		return math.MaxInt16
	case BitDepth24:
		return 1<<23 - 1
	case BitDepth32:
		return math.MaxInt32
	default:
		return 1
	}
}

// MaxValue returns the largest sample value of the bit depth.
func (bitDepth BitDepth) MaxValue() int {
	return int(bitDepth.divider())
}

// AsFloat32 converts interleaved ints into floats. Lengths must match.
func (bitDepth BitDepth) AsFloat32(ints []int, floats []float32) {
	divider := bitDepth.divider()
	for i := range floats {
		floats[i] = float32(float64(ints[i]) / divider)
	}
}

// AsInt converts floats into ints, clipping values out of [-1, 1].
// Lengths must match.
func (bitDepth BitDepth) AsInt(floats []float32, ints []int) {
	multiplier := bitDepth.divider()
	for i, v := range floats {
		switch {
		case v > 1:
			v = 1
		case v < -1:
			v = -1
		}
		ints[i] = int(float64(v) * multiplier)
	}
}

// DurationOf returns time duration of passed samples for this sample rate.
func DurationOf(sampleRate int, samples int64) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// FramesOf returns number of frames in d for this sample rate.
func FramesOf(sampleRate int, d time.Duration) int {
	return int(math.Round(d.Seconds() * float64(sampleRate)))
}

// Interleaved is a buffer of interleaved frames exchanged with a device.
// Channel converters read and write it in place.
type Interleaved struct {
	Data        []float32
	NumChannels int
}

// NewInterleaved allocates buffer for frames of numChannels.
func NewInterleaved(numChannels, frames int) *Interleaved {
	return &Interleaved{
		Data:        make([]float32, numChannels*frames),
		NumChannels: numChannels,
	}
}

// Frames returns number of frames in the buffer.
func (b *Interleaved) Frames() int {
	if b.NumChannels == 0 {
		return 0
	}
	return len(b.Data) / b.NumChannels
}

// ReadChannel copies first len(out) frames of channel into out.
func (b *Interleaved) ReadChannel(channel int, out []float32) {
	for i, pos := 0, channel; i < len(out); i, pos = i+1, pos+b.NumChannels {
		out[i] = b.Data[pos]
	}
}

// WriteChannel writes s into the first frames of channel.
func (b *Interleaved) WriteChannel(channel int, s slice.Slice[float32]) {
	if s.IsConstant() {
		v := s.Constant()
		for pos := channel; pos < len(b.Data); pos += b.NumChannels {
			b.Data[pos] = v
		}
		return
	}
	for i, v := range s.Buffer() {
		b.Data[channel+i*b.NumChannels] = v
	}
}

// Reader returns a function that reads channel. It fits device input
// converters.
func (b *Interleaved) Reader(channel int) func(out []float32) {
	return func(out []float32) {
		b.ReadChannel(channel, out)
	}
}

// Writer returns a function that writes channel. It fits device output
// converters.
func (b *Interleaved) Writer(channel int) func(s slice.Slice[float32]) {
	return func(s slice.Slice[float32]) {
		b.WriteChannel(channel, s)
	}
}

// Clear zeroes the buffer.
func (b *Interleaved) Clear() {
	clear(b.Data)
}
