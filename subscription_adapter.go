package flowrx

import "github.com/wangjianwxj/flowrx/internal/coldsource"

// engineSubscription adapts an internal/coldsource.Engine to the public
// Subscription interface, rejecting non-positive requests before the
// engine ever sees them.
type engineSubscription[T any] struct {
	engine *coldsource.Engine[T]
}

func (s *engineSubscription[T]) Request(n uint64) {
	if n == 0 {
		s.engine.Fail(constraintf("Request", "n must be >= 1, got 0"))
		return
	}
	s.engine.Request(n)
}

func (s *engineSubscription[T]) Cancel() {
	s.engine.Cancel()
}

// engineSink adapts a Subscriber[T] to the minimal coldsource.Sink
// interface.
type engineSink[T any] struct {
	sub Subscriber[T]
}

func (e engineSink[T]) OnNext(v T)         { e.sub.OnNext(v) }
func (e engineSink[T]) OnError(err error)  { e.sub.OnError(err) }
func (e engineSink[T]) OnComplete()        { e.sub.OnComplete() }

// runColdSource wires next through a coldsource.Engine into sub, delivering
// OnSubscribe first as every source must.
func runColdSource[T any](next coldsource.Next[T], sub Subscriber[T]) {
	engine := coldsource.New(next, engineSink[T]{sub: sub})
	sub.OnSubscribe(&engineSubscription[T]{engine: engine})
}
