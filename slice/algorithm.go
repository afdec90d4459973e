package slice

import "fmt"

// Add returns l+r. Output is written into out only if neither operand is a
// constant zero and at least one of them is a buffer.
func Add[T Number](l, r Slice[T], out []T) Slice[T] {
	switch {
	case !l.isBuffer && !r.isBuffer:
		return Constant(l.constant + r.constant)
	case !r.isBuffer:
		if r.constant == 0 {
			return l
		}
		mustFit(out, len(l.buf))
		addConstant(l.buf, r.constant, out)
		return Buffer(out)
	case !l.isBuffer:
		if l.constant == 0 {
			return r
		}
		mustFit(out, len(r.buf))
		addConstant(r.buf, l.constant, out)
		return Buffer(out)
	default:
		mustFit(out, len(l.buf))
		mustFit(r.buf, len(l.buf))
		addBuffers(l.buf, r.buf, out)
		return Buffer(out)
	}
}

// Multiply returns l*r. A buffer multiplied by constant zero is the constant
// zero and a buffer multiplied by constant one is the buffer itself.
func Multiply[T Number](l, r Slice[T], out []T) Slice[T] {
	switch {
	case !l.isBuffer && !r.isBuffer:
		return Constant(l.constant * r.constant)
	case !r.isBuffer:
		return multiplyConstant(l.buf, r.constant, out)
	case !l.isBuffer:
		return multiplyConstant(r.buf, l.constant, out)
	default:
		mustFit(out, len(l.buf))
		mustFit(r.buf, len(l.buf))
		multiplyBuffers(l.buf, r.buf, out)
		return Buffer(out)
	}
}

func multiplyConstant[T Number](buf []T, c T, out []T) Slice[T] {
	switch c {
	case 0:
		return Constant(T(0))
	case 1:
		return Buffer(buf)
	}
	mustFit(out, len(buf))
	if c == 0-1 {
		negate(buf, out)
	} else {
		scale(buf, c, out)
	}
	return Buffer(out)
}

// Clamp limits every value of s to [lo, hi]. Buffer output must be aligned
// to Alignment.
func Clamp[T Number](s Slice[T], lo, hi T, out []T) Slice[T] {
	if !s.isBuffer {
		return Constant(clamp(s.constant, lo, hi))
	}
	mustFit(out, len(s.buf))
	if !IsAligned(out) {
		panic("slice: clamp output is not aligned")
	}
	n := len(s.buf) &^ 3
	for i := 0; i < n; i += 4 {
		out[i] = clamp(s.buf[i], lo, hi)
		out[i+1] = clamp(s.buf[i+1], lo, hi)
		out[i+2] = clamp(s.buf[i+2], lo, hi)
		out[i+3] = clamp(s.buf[i+3], lo, hi)
	}
	for i := n; i < len(s.buf); i++ {
		out[i] = clamp(s.buf[i], lo, hi)
	}
	return Buffer(out)
}

// Copy writes s into out. Constants are repeated. A buffer is not copied
// onto itself.
func Copy[T any](s Slice[T], out []T) {
	if !s.isBuffer {
		for i := range out {
			out[i] = s.constant
		}
		return
	}
	if SameBuffer(s.buf, out) {
		return
	}
	mustFit(out, len(s.buf))
	copy(out, s.buf)
}

// Subslice returns size frames of s starting at offset. Constants are
// returned unchanged.
func Subslice[T any](s Slice[T], offset, size int) Slice[T] {
	if !s.isBuffer {
		return s
	}
	if offset < 0 || size < 0 || offset+size > len(s.buf) {
		panic(fmt.Sprintf("slice: subslice [%d:%d] out of range for length %d", offset, offset+size, len(s.buf)))
	}
	return Buffer(s.buf[offset : offset+size])
}

// Transform maps f over s. f must be pure and pointwise: for constants it's
// applied once and the result stays a constant.
func Transform[T, U any](s Slice[T], out []U, f func(T) U) Slice[U] {
	if !s.isBuffer {
		return Constant(f(s.constant))
	}
	mustFit(out, len(s.buf))
	for i, v := range s.buf {
		out[i] = f(v)
	}
	return Buffer(out)
}

// Interleave writes channels frame by frame into out. Length of out must be
// a multiple of the number of channels.
func Interleave[T any](out []T, channels ...Slice[T]) {
	n := len(channels)
	if n == 0 {
		return
	}
	if len(out)%n != 0 {
		panic(fmt.Sprintf("slice: interleave output length %d is not a multiple of %d channels", len(out), n))
	}
	frames := len(out) / n
	switch n {
	case 2:
		interleave2(channels[0], channels[1], out, frames, 0, 2)
	case 4:
		interleave2(channels[0], channels[1], out, frames, 0, 4)
		interleave2(channels[2], channels[3], out, frames, 2, 4)
	default:
		for c, s := range channels {
			for i := 0; i < frames; i++ {
				out[i*n+c] = s.At(i)
			}
		}
	}
}

func interleave2[T any](l, r Slice[T], out []T, frames, first, stride int) {
	for i := 0; i < frames; i++ {
		out[i*stride+first] = l.At(i)
		out[i*stride+first+1] = r.At(i)
	}
}

// Deinterleave splits interleaved frames into channel buffers.
func Deinterleave[T any](in []T, channels ...[]T) {
	n := len(channels)
	if n == 0 {
		return
	}
	for i := 0; i < len(in)/n; i++ {
		for c := range channels {
			channels[c][i] = in[i*n+c]
		}
	}
}

func clamp[T Number](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mustFit[T any](out []T, size int) {
	if len(out) != size {
		panic(fmt.Sprintf("slice: buffer length %d, expected %d", len(out), size))
	}
}

// batched loops, four samples per step.

func addConstant[T Number](in []T, c T, out []T) {
	n := len(in) &^ 3
	for i := 0; i < n; i += 4 {
		out[i] = in[i] + c
		out[i+1] = in[i+1] + c
		out[i+2] = in[i+2] + c
		out[i+3] = in[i+3] + c
	}
	for i := n; i < len(in); i++ {
		out[i] = in[i] + c
	}
}

func addBuffers[T Number](l, r, out []T) {
	n := len(l) &^ 3
	for i := 0; i < n; i += 4 {
		out[i] = l[i] + r[i]
		out[i+1] = l[i+1] + r[i+1]
		out[i+2] = l[i+2] + r[i+2]
		out[i+3] = l[i+3] + r[i+3]
	}
	for i := n; i < len(l); i++ {
		out[i] = l[i] + r[i]
	}
}

func multiplyBuffers[T Number](l, r, out []T) {
	n := len(l) &^ 3
	for i := 0; i < n; i += 4 {
		out[i] = l[i] * r[i]
		out[i+1] = l[i+1] * r[i+1]
		out[i+2] = l[i+2] * r[i+2]
		out[i+3] = l[i+3] * r[i+3]
	}
	for i := n; i < len(l); i++ {
		out[i] = l[i] * r[i]
	}
}

func scale[T Number](in []T, c T, out []T) {
	n := len(in) &^ 3
	for i := 0; i < n; i += 4 {
		out[i] = in[i] * c
		out[i+1] = in[i+1] * c
		out[i+2] = in[i+2] * c
		out[i+3] = in[i+3] * c
	}
	for i := n; i < len(in); i++ {
		out[i] = in[i] * c
	}
}

func negate[T Number](in, out []T) {
	for i, v := range in {
		out[i] = -v
	}
}
