package flowrx

// erasedSubscriber adapts a Subscriber[T] to Subscriber[any] so it can pass
// through the process-wide, necessarily-untyped plugin hooks.
type erasedSubscriber[T any] struct {
	inner Subscriber[T]
}

func (e erasedSubscriber[T]) OnSubscribe(s Subscription) { e.inner.OnSubscribe(s) }
func (e erasedSubscriber[T]) OnNext(v any)               { e.inner.OnNext(v.(T)) }
func (e erasedSubscriber[T]) OnError(err error)          { e.inner.OnError(err) }
func (e erasedSubscriber[T]) OnComplete()                { e.inner.OnComplete() }

// unerasedSubscriber adapts a Subscriber[any] (typically the result of a
// hook that may have wrapped the original) back to Subscriber[T].
type unerasedSubscriber[T any] struct {
	inner Subscriber[any]
}

func (u unerasedSubscriber[T]) OnSubscribe(s Subscription) { u.inner.OnSubscribe(s) }
func (u unerasedSubscriber[T]) OnNext(v T)                 { u.inner.OnNext(v) }
func (u unerasedSubscriber[T]) OnError(err error)          { u.inner.OnError(err) }
func (u unerasedSubscriber[T]) OnComplete()                { u.inner.OnComplete() }

func applySubscribeHook[T any](s Subscriber[T]) Subscriber[T] {
	hook := snapshotSubscribeHook()
	wrapped := hook(erasedSubscriber[T]{inner: s})
	return unerasedSubscriber[T]{inner: wrapped}
}

func applyCreateHook[T any](subscribeFn func(Subscriber[T])) func(Subscriber[T]) {
	hook := snapshotCreateHook()
	erasedFn := func(s Subscriber[any]) {
		subscribeFn(unerasedSubscriber[T]{inner: s})
	}
	wrapped := hook(erasedFn)
	return func(s Subscriber[T]) {
		wrapped(erasedSubscriber[T]{inner: s})
	}
}

func reportUnreachableError(err error) {
	snapshotErrorHook()(err)
}
