package flowrx

import (
	"sync"

	"github.com/wangjianwxj/flowrx/internal/composite"
)

// SkipUntil returns a Flow dropping every value from source until other
// emits any value or completes, then passing through everything after.
// Both source and other are subscribed concurrently at subscription time,
// and cancelling the result cancels both.
func SkipUntil[T, R any](source Flow[T], other Flow[R]) Flow[T] {
	return Create(func(down Subscriber[T]) {
		st := &skipUntilState[T]{down: down, comp: composite.New()}
		down.OnSubscribe(&skipUntilSubscription[T]{state: st})
		// other is subscribed before source: if it is itself a cold,
		// synchronously completing/emitting source, it must have a chance
		// to flip triggered before source's own drain begins.
		other.Subscribe(&skipUntilOtherSubscriber[T, R]{state: st})
		source.Subscribe(&skipUntilSourceSubscriber[T]{state: st})
	})
}

type skipUntilState[T any] struct {
	mu            sync.Mutex
	down          Subscriber[T]
	comp          *composite.Composite
	sourceSub     Subscription
	otherSub      Subscription
	pendingDemand uint64
	triggered     bool
	done          bool
}

func (st *skipUntilState[T]) markDone() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.done {
		return false
	}
	st.done = true
	return true
}

func (st *skipUntilState[T]) trigger() {
	st.mu.Lock()
	already := st.triggered
	st.triggered = true
	other := st.otherSub
	st.mu.Unlock()
	if !already && other != nil {
		other.Cancel()
	}
}

func (st *skipUntilState[T]) isTriggered() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.triggered
}

// request forwards n to the source subscription once it exists; if source
// has not finished subscribing yet, n accumulates and is flushed once it
// does.
func (st *skipUntilState[T]) request(n uint64) {
	st.mu.Lock()
	sub := st.sourceSub
	if sub == nil {
		next := st.pendingDemand + n
		if next < st.pendingDemand {
			next = Unbounded
		}
		st.pendingDemand = next
		st.mu.Unlock()
		return
	}
	st.mu.Unlock()
	sub.Request(n)
}

func (st *skipUntilState[T]) fail(err error) {
	if !st.markDone() {
		return
	}
	st.down.OnError(err)
	st.comp.Cancel()
}

type skipUntilSubscription[T any] struct {
	state *skipUntilState[T]
}

func (s *skipUntilSubscription[T]) Request(n uint64) {
	if n == 0 {
		s.state.fail(constraintf("Request", "n must be >= 1, got 0"))
		return
	}
	s.state.request(n)
}

func (s *skipUntilSubscription[T]) Cancel() { s.state.comp.Cancel() }

type skipUntilSourceSubscriber[T any] struct {
	state *skipUntilState[T]
}

func (s *skipUntilSourceSubscriber[T]) OnSubscribe(sub Subscription) {
	st := s.state
	st.mu.Lock()
	st.sourceSub = sub
	pending := st.pendingDemand
	st.pendingDemand = 0
	st.mu.Unlock()
	st.comp.Add(asTarget(sub))
	if pending > 0 {
		sub.Request(pending)
	}
}

func (s *skipUntilSourceSubscriber[T]) OnNext(v T) {
	if s.state.isTriggered() {
		s.state.down.OnNext(v)
	}
}

func (s *skipUntilSourceSubscriber[T]) OnError(err error) {
	if !s.state.markDone() {
		return
	}
	s.state.down.OnError(err)
	s.state.comp.Cancel()
}

func (s *skipUntilSourceSubscriber[T]) OnComplete() {
	if !s.state.markDone() {
		return
	}
	s.state.down.OnComplete()
	s.state.comp.Cancel()
}

type skipUntilOtherSubscriber[T, R any] struct {
	state *skipUntilState[T]
}

func (s *skipUntilOtherSubscriber[T, R]) OnSubscribe(sub Subscription) {
	s.state.mu.Lock()
	s.state.otherSub = sub
	s.state.mu.Unlock()
	s.state.comp.Add(asTarget(sub))
	sub.Request(Unbounded)
}

func (s *skipUntilOtherSubscriber[T, R]) OnNext(R)    { s.state.trigger() }
func (s *skipUntilOtherSubscriber[T, R]) OnComplete() { s.state.trigger() }

func (s *skipUntilOtherSubscriber[T, R]) OnError(err error) {
	if !s.state.markDone() {
		return
	}
	s.state.down.OnError(err)
	s.state.comp.Cancel()
}
