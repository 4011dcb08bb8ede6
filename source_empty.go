package flowrx

// Empty returns a Flow that emits OnComplete immediately upon subscription
// and never emits a value. In a generic Go API the element type is chosen
// per call site, so Empty allocates a fresh (but behaviorally identical)
// Flow[T] each time rather than sharing one instance across incompatible
// T's.
func Empty[T any]() Flow[T] {
	return Create(func(s Subscriber[T]) {
		s.OnSubscribe(&noopSubscription{sink: s})
		s.OnComplete()
	})
}
