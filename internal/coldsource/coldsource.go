// Package coldsource is the shared engine behind every finite synchronous
// source in this module (fromArray, fromIterable, fromStream, range): pull
// one item at a time from a Next function, honor demand, and take the fast
// unbounded path or the slow bounded path.
//
// It exists because fromArray, fromIterable, fromStream, and range all
// share exactly this shape and differ only in what Next does — the same
// reasoning KasperOmsK-pipefn applies with its internal/iterx helpers for
// turning a slice or a channel into an iter.Seq.
package coldsource

import "sync/atomic"

// Next returns the item at the current cursor and advances it. ok is false
// once the source is exhausted. err is non-nil if advancing failed (an
// iterator panicked, a stream read errored); once err is returned, Next
// will not be called again.
type Next[T any] func() (v T, ok bool, err error)

// Sink is the minimal signal surface Engine needs to drive — satisfied
// directly by flowrx.Subscriber[T] at the call site, kept minimal here so
// this package has no dependency on the parent package.
type Sink[T any] interface {
	OnNext(T)
	OnError(error)
	OnComplete()
}

// Engine drives Sink from Next, honoring a Request/Cancel protocol.
type Engine[T any] struct {
	next      Next[T]
	sink      Sink[T]
	demand    int64 // -1 means unbounded
	wip       int64
	cancelled int32
	failed    int32
	failErr   error
	done      bool
}

// New builds an Engine. Call Request/Cancel from the Subscription your
// source's OnSubscribe hands to sink.
func New[T any](next Next[T], sink Sink[T]) *Engine[T] {
	return &Engine[T]{next: next, sink: sink}
}

// Request grants n more units of demand and drains as much as that demand
// (and the source's remaining items) allow. n == 0 is ignored (callers are
// expected to have already rejected n <= 0 as a protocol violation before
// reaching here).
func (e *Engine[T]) Request(n uint64) {
	if n == 0 {
		return
	}
	if n == ^uint64(0) {
		atomic.StoreInt64(&e.demand, -1)
	} else {
		for {
			old := atomic.LoadInt64(&e.demand)
			if old < 0 {
				break // already unbounded
			}
			next := old + int64(n)
			if next < old { // overflow
				next = -1
			}
			if atomic.CompareAndSwapInt64(&e.demand, old, next) {
				break
			}
		}
	}
	e.drain()
}

// Cancel marks the engine cancelled; any drain in progress observes this
// and stops emitting on its next check.
func (e *Engine[T]) Cancel() {
	atomic.StoreInt32(&e.cancelled, 1)
}

func (e *Engine[T]) isCancelled() bool {
	return atomic.LoadInt32(&e.cancelled) == 1
}

// Fail marks the engine permanently failed with err: any drain in progress
// (or the next one to run) delivers OnError exactly once and stops, as if
// Next had returned err. A second call is ignored.
func (e *Engine[T]) Fail(err error) {
	if !atomic.CompareAndSwapInt32(&e.failed, 0, 1) {
		return
	}
	e.failErr = err
	e.drain()
}

func (e *Engine[T]) isFailed() bool {
	return atomic.LoadInt32(&e.failed) == 1
}

// drain is the trampoline: the first caller to arrive with wip==0 runs the
// loop (possibly more than once, if Request lands again mid-drain from
// another goroutine); everyone else just bumps wip and trusts the active
// drainer to notice.
func (e *Engine[T]) drain() {
	if atomic.AddInt64(&e.wip, 1) != 1 {
		return
	}
	for {
		e.drainOnce()
		if atomic.AddInt64(&e.wip, -1) == 0 {
			return
		}
	}
}

func (e *Engine[T]) drainOnce() {
	if e.done {
		return
	}
	unbounded := atomic.LoadInt64(&e.demand) < 0
	for {
		if e.isCancelled() {
			e.done = true
			return
		}
		if e.isFailed() {
			e.done = true
			e.sink.OnError(e.failErr)
			return
		}
		if !unbounded {
			d := atomic.LoadInt64(&e.demand)
			if d <= 0 {
				return
			}
		}
		v, ok, err := e.next()
		if err != nil {
			e.done = true
			e.sink.OnError(err)
			return
		}
		if !ok {
			e.done = true
			e.sink.OnComplete()
			return
		}
		if !unbounded {
			atomic.AddInt64(&e.demand, -1)
		}
		e.sink.OnNext(v)
	}
}
