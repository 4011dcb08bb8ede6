package flowrx

import (
	"sync"

	"github.com/wangjianwxj/flowrx/internal/composite"
)

// TakeUntil returns a Flow forwarding source's values until other emits
// its first onNext or completes, at which point upstream is cancelled and
// the result completes. An error from other cancels upstream and is
// delivered downstream as OnError. Both source and other are subscribed
// concurrently; cancelling the result cancels both.
func TakeUntil[T, R any](source Flow[T], other Flow[R]) Flow[T] {
	return Create(func(down Subscriber[T]) {
		st := &takeUntilState[T]{down: down, comp: composite.New()}
		down.OnSubscribe(&takeUntilSubscription[T]{state: st})
		// other is subscribed before source: if it is itself a cold,
		// synchronously completing/emitting source, it must have a chance
		// to terminate the result before source's own drain begins.
		other.Subscribe(&takeUntilOtherSubscriber[T, R]{state: st})
		source.Subscribe(&takeUntilSourceSubscriber[T]{state: st})
	})
}

// TakeUntilPredicate returns a Flow forwarding each value from source, then
// cancelling upstream and completing once predicate returns true for a
// value that was just emitted. A panic from predicate cancels upstream and
// delivers OnError.
func TakeUntilPredicate[T any](source Flow[T], predicate func(T) bool) Flow[T] {
	if predicate == nil {
		panic(constraintf("TakeUntilPredicate", "predicate must not be nil"))
	}
	return Lift(source, func(down Subscriber[T]) Subscriber[T] {
		return &takeUntilPredicateSubscriber[T]{down: down, predicate: predicate}
	})
}

type takeUntilState[T any] struct {
	mu            sync.Mutex
	down          Subscriber[T]
	comp          *composite.Composite
	sourceSub     Subscription
	otherSub      Subscription
	pendingDemand uint64
	done          bool
}

func (st *takeUntilState[T]) markDone() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.done {
		return false
	}
	st.done = true
	return true
}

// request forwards n to the source subscription once it exists; if source
// has not finished subscribing yet (other is still ahead of it in the
// synchronous setup), n accumulates and is flushed once it does.
func (st *takeUntilState[T]) request(n uint64) {
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

func (st *takeUntilState[T]) fail(err error) {
	if !st.markDone() {
		return
	}
	st.down.OnError(err)
	st.comp.Cancel()
}

type takeUntilSubscription[T any] struct {
	state *takeUntilState[T]
}

func (s *takeUntilSubscription[T]) Request(n uint64) {
	if n == 0 {
		s.state.fail(constraintf("Request", "n must be >= 1, got 0"))
		return
	}
	s.state.request(n)
}

func (s *takeUntilSubscription[T]) Cancel() { s.state.comp.Cancel() }

type takeUntilSourceSubscriber[T any] struct {
	state *takeUntilState[T]
}

func (s *takeUntilSourceSubscriber[T]) OnSubscribe(sub Subscription) {
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

func (s *takeUntilSourceSubscriber[T]) OnNext(v T) { s.state.down.OnNext(v) }

func (s *takeUntilSourceSubscriber[T]) OnError(err error) {
	if !s.state.markDone() {
		return
	}
	s.state.down.OnError(err)
	s.state.comp.Cancel()
}

func (s *takeUntilSourceSubscriber[T]) OnComplete() {
	if !s.state.markDone() {
		return
	}
	s.state.down.OnComplete()
	s.state.comp.Cancel()
}

type takeUntilOtherSubscriber[T, R any] struct {
	state *takeUntilState[T]
}

func (s *takeUntilOtherSubscriber[T, R]) OnSubscribe(sub Subscription) {
	s.state.mu.Lock()
	s.state.otherSub = sub
	s.state.mu.Unlock()
	s.state.comp.Add(asTarget(sub))
	sub.Request(1)
}

func (s *takeUntilOtherSubscriber[T, R]) OnNext(R) {
	if !s.state.markDone() {
		return
	}
	s.state.down.OnComplete()
	s.state.comp.Cancel()
}

func (s *takeUntilOtherSubscriber[T, R]) OnComplete() {
	if !s.state.markDone() {
		return
	}
	s.state.down.OnComplete()
	s.state.comp.Cancel()
}

func (s *takeUntilOtherSubscriber[T, R]) OnError(err error) {
	if !s.state.markDone() {
		return
	}
	s.state.down.OnError(err)
	s.state.comp.Cancel()
}

type takeUntilPredicateSubscriber[T any] struct {
	down      Subscriber[T]
	predicate func(T) bool
	up        Subscription
	done      bool
}

func (t *takeUntilPredicateSubscriber[T]) OnSubscribe(sub Subscription) {
	t.up = sub
	t.down.OnSubscribe(sub)
}

func (t *takeUntilPredicateSubscriber[T]) OnNext(v T) {
	if t.done {
		return
	}
	t.down.OnNext(v)
	stop, err := applyPredicate(t.predicate, v)
	if err != nil {
		t.done = true
		t.up.Cancel()
		t.down.OnError(err)
		return
	}
	if stop {
		t.done = true
		t.up.Cancel()
		t.down.OnComplete()
	}
}

func (t *takeUntilPredicateSubscriber[T]) OnError(err error) {
	if t.done {
		return
	}
	t.done = true
	t.down.OnError(err)
}

func (t *takeUntilPredicateSubscriber[T]) OnComplete() {
	if t.done {
		return
	}
	t.done = true
	t.down.OnComplete()
}
