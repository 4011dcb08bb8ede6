package flowrx

import (
	"sync"
	"sync/atomic"

	"github.com/wangjianwxj/flowrx/internal/demand"
	"github.com/wangjianwxj/flowrx/internal/ringbuffer"
	"github.com/wangjianwxj/flowrx/internal/trampoline"
)

// TakeLast returns a Flow that buffers the trailing n values of source in a
// bounded ring and, once source completes, drains that buffer to the
// downstream subscriber respecting its requested demand. An upstream
// OnError drops the buffer and forwards the error immediately. n == 0
// reduces to IgnoreElements; n < 0 is a constraint violation.
func TakeLast[T any](source Flow[T], n int64) Flow[T] {
	if n < 0 {
		panic(constraintf("TakeLast", "n must be >= 0, got %d", n))
	}
	if n == 0 {
		return IgnoreElements(source)
	}
	return Create(func(down Subscriber[T]) {
		st := &takeLastState[T]{down: down, ring: ringbuffer.New[T](int(n))}
		source.Subscribe(&takeLastSourceSubscriber[T]{state: st})
	})
}

type takeLastState[T any] struct {
	mu        sync.Mutex
	down      Subscriber[T]
	up        Subscription
	ring      *ringbuffer.Ring[T]
	buffer    []T
	pos       int
	completed bool
	upErr     error
	cancelled atomic.Bool
	demand    demand.Counter
	tramp     trampoline.Trampoline
}

func (st *takeLastState[T]) request(n uint64) {
	st.demand.Add(n)
	st.tramp.Run(st.drainStep)
}

func (st *takeLastState[T]) cancel() {
	st.cancelled.Store(true)
	if st.up != nil {
		st.up.Cancel()
	}
}

func (st *takeLastState[T]) drainStep() {
	for {
		if st.cancelled.Load() {
			return
		}
		st.mu.Lock()
		if !st.completed {
			st.mu.Unlock()
			return
		}
		if st.upErr != nil {
			err := st.upErr
			st.upErr = nil
			st.mu.Unlock()
			st.down.OnError(err)
			return
		}
		if st.pos >= len(st.buffer) {
			st.mu.Unlock()
			return
		}
		if !st.demand.TryTake() {
			st.mu.Unlock()
			return
		}
		v := st.buffer[st.pos]
		st.pos++
		done := st.pos >= len(st.buffer)
		st.mu.Unlock()
		st.down.OnNext(v)
		if done {
			st.down.OnComplete()
			return
		}
	}
}

// fail terminates the operator with err, routed through the same
// completed/upErr single-shot path an upstream OnError uses, so a later
// natural terminal signal can't reach down a second time. It cancels up
// directly rather than going through cancel(), since cancel() sets the
// cancelled flag drainStep checks first and would suppress delivery of err.
func (st *takeLastState[T]) fail(err error) {
	st.mu.Lock()
	if st.completed {
		st.mu.Unlock()
		return
	}
	st.ring.Clear()
	st.completed = true
	st.upErr = err
	up := st.up
	st.mu.Unlock()
	if up != nil {
		up.Cancel()
	}
	st.tramp.Run(st.drainStep)
}

type takeLastSubscription[T any] struct {
	state *takeLastState[T]
}

func (s *takeLastSubscription[T]) Request(n uint64) {
	if n == 0 {
		s.state.fail(constraintf("Request", "n must be >= 1, got 0"))
		return
	}
	s.state.request(n)
}

func (s *takeLastSubscription[T]) Cancel() { s.state.cancel() }

type takeLastSourceSubscriber[T any] struct {
	state *takeLastState[T]
}

func (s *takeLastSourceSubscriber[T]) OnSubscribe(sub Subscription) {
	s.state.up = sub
	s.state.down.OnSubscribe(&takeLastSubscription[T]{state: s.state})
	sub.Request(Unbounded)
}

func (s *takeLastSourceSubscriber[T]) OnNext(v T) {
	s.state.mu.Lock()
	s.state.ring.Push(v)
	s.state.mu.Unlock()
}

func (s *takeLastSourceSubscriber[T]) OnError(err error) {
	s.state.mu.Lock()
	if s.state.completed {
		s.state.mu.Unlock()
		return
	}
	s.state.ring.Clear()
	s.state.completed = true
	s.state.upErr = err
	s.state.mu.Unlock()
	s.state.tramp.Run(s.state.drainStep)
}

func (s *takeLastSourceSubscriber[T]) OnComplete() {
	s.state.mu.Lock()
	if s.state.completed {
		s.state.mu.Unlock()
		return
	}
	s.state.buffer = s.state.ring.Drain()
	s.state.completed = true
	s.state.mu.Unlock()
	s.state.tramp.Run(s.state.drainStep)
}
