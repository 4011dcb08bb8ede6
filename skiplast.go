package flowrx

import "github.com/wangjianwxj/flowrx/internal/ringbuffer"

// SkipLast returns a Flow emitting each value evicted from a sliding window
// of size n: the first n values are held back, and from then on every new
// value pushes the oldest held value downstream. On completion the window
// is simply dropped, so the last n values of source never appear. n == 0 is
// identity; n < 0 is a constraint violation.
func SkipLast[T any](source Flow[T], n int64) Flow[T] {
	if n < 0 {
		panic(constraintf("SkipLast", "n must be >= 0, got %d", n))
	}
	if n == 0 {
		return source
	}
	return Lift(source, func(down Subscriber[T]) Subscriber[T] {
		return &skipLastSubscriber[T]{down: down, window: ringbuffer.New[T](int(n))}
	})
}

type skipLastSubscriber[T any] struct {
	down   Subscriber[T]
	window *ringbuffer.Ring[T]
}

func (s *skipLastSubscriber[T]) OnSubscribe(sub Subscription) { s.down.OnSubscribe(sub) }

func (s *skipLastSubscriber[T]) OnNext(v T) {
	if evicted, ok := s.window.Push(v); ok {
		s.down.OnNext(evicted)
	}
}

func (s *skipLastSubscriber[T]) OnError(err error) {
	s.window.Clear()
	s.down.OnError(err)
}

func (s *skipLastSubscriber[T]) OnComplete() {
	s.window.Clear()
	s.down.OnComplete()
}
