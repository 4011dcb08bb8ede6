package flowrx

// Take returns a Flow emitting only the first n values of source, then
// cancelling upstream and completing. n == 0 reduces to Empty[T](); n < 0
// is a constraint violation raised synchronously. After the cutoff, any
// further upstream signal is suppressed — upstream may not have observed
// the cancellation yet.
func Take[T any](source Flow[T], n int64) Flow[T] {
	if n < 0 {
		panic(constraintf("Take", "n must be >= 0, got %d", n))
	}
	if n == 0 {
		return Empty[T]()
	}
	return Lift(source, func(down Subscriber[T]) Subscriber[T] {
		return &takeSubscriber[T]{down: down, remaining: n}
	})
}

type takeSubscriber[T any] struct {
	down      Subscriber[T]
	remaining int64
	up        Subscription
	done      bool
}

func (t *takeSubscriber[T]) OnSubscribe(s Subscription) {
	t.up = s
	t.down.OnSubscribe(s)
}

func (t *takeSubscriber[T]) OnNext(v T) {
	if t.done {
		return
	}
	t.down.OnNext(v)
	t.remaining--
	if t.remaining <= 0 {
		t.done = true
		t.up.Cancel()
		t.down.OnComplete()
	}
}

func (t *takeSubscriber[T]) OnError(err error) {
	if t.done {
		return
	}
	t.done = true
	t.down.OnError(err)
}

func (t *takeSubscriber[T]) OnComplete() {
	if t.done {
		return
	}
	t.done = true
	t.down.OnComplete()
}
