package flowrx

// Map returns a Flow applying f to every value of source. Demand passes
// through 1:1: each upstream item consumes exactly one unit of downstream
// demand, whether or not f is expensive. A panic from f cancels upstream
// and delivers OnError downstream instead of propagating.
func Map[T, R any](source Flow[T], f func(T) R) Flow[R] {
	if f == nil {
		panic(constraintf("Map", "f must not be nil"))
	}
	return Lift(source, func(down Subscriber[R]) Subscriber[T] {
		return &mapSubscriber[T, R]{down: down, f: f}
	})
}

type mapSubscriber[T, R any] struct {
	down Subscriber[R]
	f    func(T) R
	up   Subscription
}

func (m *mapSubscriber[T, R]) OnSubscribe(s Subscription) {
	m.up = s
	m.down.OnSubscribe(s)
}

func (m *mapSubscriber[T, R]) OnNext(v T) {
	out, err := applyMap(m.f, v)
	if err != nil {
		if m.up != nil {
			m.up.Cancel()
		}
		m.down.OnError(err)
		return
	}
	m.down.OnNext(out)
}

func (m *mapSubscriber[T, R]) OnError(err error) { m.down.OnError(err) }
func (m *mapSubscriber[T, R]) OnComplete()       { m.down.OnComplete() }

func applyMap[T, R any](f func(T) R, v T) (out R, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = constraintf("Map", "mapper panicked: %v", r)
		}
	}()
	out = f(v)
	return
}
