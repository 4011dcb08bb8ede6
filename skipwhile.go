package flowrx

// SkipWhile returns a Flow dropping values while p holds, then emitting
// that first rejected value and everything after it unconditionally. A
// panic from p cancels upstream and delivers OnError.
func SkipWhile[T any](source Flow[T], p func(T) bool) Flow[T] {
	if p == nil {
		panic(constraintf("SkipWhile", "predicate must not be nil"))
	}
	return Lift(source, func(down Subscriber[T]) Subscriber[T] {
		return &skipWhileSubscriber[T]{down: down, predicate: p, skipping: true}
	})
}

type skipWhileSubscriber[T any] struct {
	down      Subscriber[T]
	predicate func(T) bool
	up        Subscription
	skipping  bool
}

func (s *skipWhileSubscriber[T]) OnSubscribe(sub Subscription) {
	s.up = sub
	s.down.OnSubscribe(sub)
}

func (s *skipWhileSubscriber[T]) OnNext(v T) {
	if !s.skipping {
		s.down.OnNext(v)
		return
	}
	hold, err := applyPredicate(s.predicate, v)
	if err != nil {
		if s.up != nil {
			s.up.Cancel()
		}
		s.down.OnError(err)
		return
	}
	if hold {
		if s.up != nil {
			s.up.Request(1)
		}
		return
	}
	s.skipping = false
	s.down.OnNext(v)
}

func (s *skipWhileSubscriber[T]) OnError(err error) { s.down.OnError(err) }
func (s *skipWhileSubscriber[T]) OnComplete()       { s.down.OnComplete() }
