package flowrx

// Error returns a Flow that emits OnError(err) immediately upon
// subscription, and nothing else.
func Error[T any](err error) Flow[T] {
	return Create(func(s Subscriber[T]) {
		s.OnSubscribe(&noopSubscription{sink: s})
		s.OnError(err)
	})
}

// ErrorFunc returns a Flow that evaluates supplier at subscribe time and
// emits its result as OnError. If supplier itself panics, that panic is
// recovered and delivered as OnError instead; if supplier returns a nil
// error, a constraint-kind error is delivered in its place so the
// subscriber always receives a non-nil error.
func ErrorFunc[T any](supplier func() error) Flow[T] {
	return Create(func(s Subscriber[T]) {
		s.OnSubscribe(&noopSubscription{sink: s})
		err := evalErrorSupplier(supplier)
		s.OnError(err)
	})
}

func evalErrorSupplier(supplier func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = constraintf("ErrorFunc", "supplier panicked: %v", r)
		}
	}()
	err = supplier()
	if err == nil {
		err = constraintf("ErrorFunc", "supplier returned a nil error")
	}
	return
}
