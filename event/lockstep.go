package event

import "math"

// Lockstep walks two buffers merged by offset. At every step the events at
// the smallest pending offset are consumed and fn receives the latest value
// of each buffer, starting from a and b. Final values are returned.
func Lockstep[A, B any](fn func(offset int, a A, b B), a A, b B, ea *Buffer[A], eb *Buffer[B]) (A, B) {
	as, bs := ea.Events(), eb.Events()
	var i, j int
	for i < len(as) || j < len(bs) {
		oa, ob := math.MaxInt, math.MaxInt
		if i < len(as) {
			oa = as[i].Offset
		}
		if j < len(bs) {
			ob = bs[j].Offset
		}
		offset := min(oa, ob)
		if oa == offset {
			a = as[i].Value
			i++
		}
		if ob == offset {
			b = bs[j].Value
			j++
		}
		fn(offset, a, b)
	}
	return a, b
}
