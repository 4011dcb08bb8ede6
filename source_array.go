package flowrx

// FromArray returns a Flow emitting each element of vs in order, then
// completing. An empty vs emits no value and completes on the first
// positive Request; unlike Empty[T](), it does not complete before that.
func FromArray[T any](vs []T) Flow[T] {
	return Create(func(s Subscriber[T]) {
		i := 0
		runColdSource(func() (v T, ok bool, err error) {
			if i >= len(vs) {
				return v, false, nil
			}
			v = vs[i]
			i++
			return v, true, nil
		}, s)
	})
}
