package flowrx

// Never returns a Flow that emits OnSubscribe and then nothing, ever: no
// value, no error, no completion.
func Never[T any]() Flow[T] {
	return Create(func(s Subscriber[T]) {
		s.OnSubscribe(&noopSubscription{sink: s})
	})
}
