package flowrx

import (
	"sync"

	"github.com/wangjianwxj/flowrx/internal/trampoline"
)

// Filter returns a Flow emitting only the values of source for which
// predicate returns true. Rejecting a value requests one more from
// upstream to keep downstream demand satisfied. That re-request can
// synchronously trigger another OnNext on the same call stack if upstream
// emits eagerly; filterSubscriber runs the reject/re-request loop through
// a trampoline so a long run of rejected values against a synchronous
// upstream loops instead of recursing.
func Filter[T any](source Flow[T], predicate func(T) bool) Flow[T] {
	if predicate == nil {
		panic(constraintf("Filter", "predicate must not be nil"))
	}
	return Lift(source, func(down Subscriber[T]) Subscriber[T] {
		return &filterSubscriber[T]{down: down, predicate: predicate}
	})
}

type filterSubscriber[T any] struct {
	down      Subscriber[T]
	predicate func(T) bool
	up        Subscription

	tramp   trampoline.Trampoline
	mu      sync.Mutex
	pending []T
}

func (f *filterSubscriber[T]) OnSubscribe(s Subscription) {
	f.up = s
	f.down.OnSubscribe(s)
}

func (f *filterSubscriber[T]) OnNext(v T) {
	f.mu.Lock()
	f.pending = append(f.pending, v)
	f.mu.Unlock()
	f.tramp.Run(f.drainOne)
}

func (f *filterSubscriber[T]) drainOne() {
	f.mu.Lock()
	if len(f.pending) == 0 {
		f.mu.Unlock()
		return
	}
	v := f.pending[0]
	f.pending = f.pending[1:]
	f.mu.Unlock()

	ok, err := applyPredicate(f.predicate, v)
	if err != nil {
		if f.up != nil {
			f.up.Cancel()
		}
		f.down.OnError(err)
		return
	}
	if ok {
		f.down.OnNext(v)
		return
	}
	if f.up != nil {
		f.up.Request(1)
	}
}

func (f *filterSubscriber[T]) OnError(err error) { f.down.OnError(err) }
func (f *filterSubscriber[T]) OnComplete()       { f.down.OnComplete() }

func applyPredicate[T any](p func(T) bool, v T) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, isErr := r.(error); isErr {
				err = e
				return
			}
			err = constraintf("Filter", "predicate panicked: %v", r)
		}
	}()
	ok = p(v)
	return
}
