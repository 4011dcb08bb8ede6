package flowrx

// Defer returns a Flow that, at each subscription, invokes supplier to
// materialize a fresh per-subscription Flow and subscribes to it. A panic
// from supplier is recovered and delivered directly to the subscriber as
// OnError — unlike Subscribe's ambiguous-throw path, this is safe because
// OnSubscribe has not yet reached the subscriber at the point supplier runs.
func Defer[T any](supplier func() Flow[T]) Flow[T] {
	return Create(func(s Subscriber[T]) {
		inner, err := evalDeferSupplier(supplier)
		if err != nil {
			s.OnSubscribe(&noopSubscription{sink: s})
			s.OnError(err)
			return
		}
		inner.subscribe(s)
	})
}

func evalDeferSupplier[T any](supplier func() Flow[T]) (f Flow[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = constraintf("Defer", "supplier panicked: %v", r)
		}
	}()
	f = supplier()
	return
}
