package flowrx

import "math"

// Range returns a Flow emitting the count consecutive int32 values starting
// at start, then completing. It rejects at construction time — not at
// subscribe time — a start/count pair whose last value would overflow the
// signed 32-bit maximum, matching Observable.java's range() bounds check.
func Range(start, count int32) Flow[int32] {
	if count < 0 {
		panic(constraintf("Range", "count must be >= 0, got %d", count))
	}
	if count > 0 {
		last := int64(start) + int64(count) - 1
		if last > math.MaxInt32 {
			panic(constraintf("Range", "start=%d count=%d overflows int32", start, count))
		}
	}
	return Create(func(s Subscriber[int32]) {
		i := int32(0)
		runColdSource(func() (v int32, ok bool, err error) {
			if i >= count {
				return 0, false, nil
			}
			v = start + i
			i++
			return v, true, nil
		}, s)
	})
}
