package flowrx

import (
	"iter"
	"sync/atomic"
)

// FromIterable returns a Flow emitting every value seq produces, in order,
// then completing. seq is pulled one item at a time via iter.Pull so
// emission can honor demand instead of racing ahead of a slow consumer. A
// panic from seq during traversal is recovered and delivered as OnError.
func FromIterable[T any](seq iter.Seq[T]) Flow[T] {
	return Create(func(s Subscriber[T]) {
		next, stop := iter.Pull(seq)
		done := false
		runColdSource(func() (v T, ok bool, err error) {
			if done {
				return v, false, nil
			}
			v, ok, err = pullNext(next)
			if !ok || err != nil {
				done = true
				stop()
			}
			return v, ok, err
		}, s)
	})
}

func pullNext[T any](next func() (T, bool)) (v T, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, isErr := r.(error); isErr {
				err = e
				return
			}
			err = constraintf("FromIterable", "iterator panicked: %v", r)
		}
	}()
	v, ok = next()
	return v, ok, nil
}

// FromStream is FromIterable's single-use counterpart: attempting to
// subscribe to the returned Flow a second time delivers OnError instead of
// re-running seq, since a stream source is single-use.
func FromStream[T any](seq iter.Seq[T]) Flow[T] {
	var used atomic.Bool
	return Create(func(s Subscriber[T]) {
		if !used.CompareAndSwap(false, true) {
			s.OnSubscribe(&noopSubscription{sink: s})
			s.OnError(constraintf("FromStream", "stream source already subscribed once"))
			return
		}
		next, stop := iter.Pull(seq)
		done := false
		runColdSource(func() (v T, ok bool, err error) {
			if done {
				return v, false, nil
			}
			v, ok, err = pullNext(next)
			if !ok || err != nil {
				done = true
				stop()
			}
			return v, ok, err
		}, s)
	})
}
