package flowrx

import (
	"sync"

	"github.com/google/uuid"
)

// guardSubscriber enforces two of the four protocol invariants around
// whatever Subscriber it wraps: OnNext, OnError and OnComplete are
// serialized, and nothing is delivered after a terminal signal. OnSubscribe
// runs outside the guard's lock, so a Request issued from inside it may
// synchronously deliver OnNext. It is the wrapping SafeSubscribe applies;
// raw Subscribe does not.
//
// Every guardSubscriber is tagged with a UUID at construction time so a
// signal dropped for arriving after the terminal one can be logged with
// something more useful than "some subscription, somewhere".
type guardSubscriber[T any] struct {
	mu    sync.Mutex
	id    uuid.UUID
	done  bool
	inner Subscriber[T]
}

func newGuardSubscriber[T any](inner Subscriber[T]) *guardSubscriber[T] {
	return &guardSubscriber[T]{id: uuid.New(), inner: inner}
}

func (g *guardSubscriber[T]) OnSubscribe(s Subscription) {
	g.mu.Lock()
	done := g.done
	g.mu.Unlock()
	if done {
		g.reportDropped("OnSubscribe")
		return
	}
	g.inner.OnSubscribe(s)
}

func (g *guardSubscriber[T]) OnNext(v T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		g.reportDropped("OnNext")
		return
	}
	g.inner.OnNext(v)
}

func (g *guardSubscriber[T]) OnError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		g.reportDropped("OnError")
		return
	}
	g.done = true
	g.inner.OnError(err)
}

func (g *guardSubscriber[T]) OnComplete() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		g.reportDropped("OnComplete")
		return
	}
	g.done = true
	g.inner.OnComplete()
}

// reportDropped surfaces a signal arriving after this subscription's
// terminal one through the onError plugin hook instead of silently
// swallowing it, so a misbehaving upstream is at least visible in logs.
func (g *guardSubscriber[T]) reportDropped(signal string) {
	reportUnreachableError(constraintf(signal, "signal delivered to subscription %s after its terminal signal", g.id))
}
