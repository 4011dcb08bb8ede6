package flowrx

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/wangjianwxj/flowrx/internal/composite"
	"github.com/wangjianwxj/flowrx/internal/demand"
	"github.com/wangjianwxj/flowrx/internal/ringbuffer"
	"github.com/wangjianwxj/flowrx/internal/trampoline"
)

// FlatMap subscribes to source, maps each value to an inner Flow, and
// merges the values of all currently-active inners into one downstream
// stream. It is the concurrent core of the package: up to maxConcurrency
// inners run at once, each with a bounded prefetch queue, fairly
// round-robined through a single serialized drain loop. With
// delayErrors false (fail-fast) the first inner or outer error cancels
// everything and terminates immediately; with delayErrors true, errors are
// collected and surfaced as a *CompositeError once every inner has
// finished.
//
// maxConcurrency and prefetch must both be >= 1.
func FlatMap[T, R any](source Flow[T], mapper func(T) Flow[R], delayErrors bool, maxConcurrency, prefetch int) Flow[R] {
	if mapper == nil {
		panic(constraintf("FlatMap", "mapper must not be nil"))
	}
	if maxConcurrency < 1 {
		panic(constraintf("FlatMap", "maxConcurrency must be >= 1, got %d", maxConcurrency))
	}
	if prefetch < 1 {
		panic(constraintf("FlatMap", "prefetch must be >= 1, got %d", prefetch))
	}
	return Create(func(down Subscriber[R]) {
		st := &flatMapState[T, R]{
			down:           down,
			comp:           composite.New(),
			sem:            semaphore.NewWeighted(int64(maxConcurrency)),
			maxConcurrency: int64(maxConcurrency),
			prefetch:       prefetch,
			mapper:         mapper,
			delayErrors:    delayErrors,
			inners:         make(map[uint64]*flatMapInner[R]),
		}
		source.Subscribe(&flatMapOuterSubscriber[T, R]{state: st})
	})
}

// FlatMapDefault applies FlatMap with the package's default buffer size as
// both maxConcurrency and prefetch, fail-fast on errors — the zero-argument
// overload every caller reaches for first.
func FlatMapDefault[T, R any](source Flow[T], mapper func(T) Flow[R]) Flow[R] {
	n := BufferSize()
	return FlatMap(source, mapper, false, n, n)
}

// Merge subscribes to every source concurrently (up to the default buffer
// size at a time) and interleaves their values into one Flow, terminating
// on the first error or once every source has completed.
func Merge[T any](sources ...Flow[T]) Flow[T] {
	n := BufferSize()
	return MergeWith(n, n, sources...)
}

// MergeWith is Merge with an explicit maxConcurrency and prefetch.
func MergeWith[T any](maxConcurrency, prefetch int, sources ...Flow[T]) Flow[T] {
	return FlatMap[Flow[T], T](FromArray(sources), identityFlow[T], false, maxConcurrency, prefetch)
}

// MergeDelayError is Merge with delayErrors enabled: every source runs to
// completion (or its own error) before a *CompositeError is delivered.
func MergeDelayError[T any](sources ...Flow[T]) Flow[T] {
	n := BufferSize()
	return MergeDelayErrorWith(n, n, sources...)
}

// MergeDelayErrorWith is MergeDelayError with an explicit maxConcurrency
// and prefetch.
func MergeDelayErrorWith[T any](maxConcurrency, prefetch int, sources ...Flow[T]) Flow[T] {
	return FlatMap[Flow[T], T](FromArray(sources), identityFlow[T], true, maxConcurrency, prefetch)
}

func identityFlow[T any](f Flow[T]) Flow[T] { return f }

type flatMapInner[R any] struct {
	id    uint64
	sub   Subscription
	queue *ringbuffer.Ring[R]
	done  bool
}

type flatMapState[T, R any] struct {
	mu sync.Mutex

	down           Subscriber[R]
	comp           *composite.Composite
	sem            *semaphore.Weighted
	maxConcurrency int64
	prefetch       int
	mapper         func(T) Flow[R]
	delayErrors    bool

	upSub  Subscription
	upDone bool

	nextID uint64
	inners map[uint64]*flatMapInner[R]
	order  []uint64
	rrIdx  int

	downstreamDemand demand.Counter
	errs             []error
	terminalEmitted  atomic.Bool
	cancelled        atomic.Bool

	tramp trampoline.Trampoline
}

func (st *flatMapState[T, R]) schedule() { st.tramp.Run(st.drain) }

func (st *flatMapState[T, R]) requestDownstreamDemand(n uint64) {
	st.downstreamDemand.Add(n)
	st.schedule()
}

func (st *flatMapState[T, R]) cancel() {
	if !st.cancelled.CompareAndSwap(false, true) {
		return
	}
	st.comp.Cancel()
	st.mu.Lock()
	for _, in := range st.inners {
		in.queue.Clear()
	}
	st.inners = make(map[uint64]*flatMapInner[R])
	st.order = nil
	st.mu.Unlock()
}

// emitTerminalError cancels everything still running, then delivers err
// downstream exactly once. Used by the fail-fast path.
func (st *flatMapState[T, R]) emitTerminalError(err error) {
	if !st.terminalEmitted.CompareAndSwap(false, true) {
		return
	}
	st.cancel()
	st.down.OnError(err)
}

func (st *flatMapState[T, R]) emitComplete() {
	if !st.terminalEmitted.CompareAndSwap(false, true) {
		return
	}
	st.mu.Lock()
	errs := st.errs
	st.mu.Unlock()
	if len(errs) > 0 {
		st.down.OnError(newCompositeError(errs))
		return
	}
	st.down.OnComplete()
}

// subscribeInner maps v, allocates an inner's queue and subscribes to it.
// Called from the outer subscriber's OnNext, on whatever goroutine drives
// the outer Flow.
func (st *flatMapState[T, R]) subscribeInner(v T) {
	inner, err := applyFlatMapper(st.mapper, v)
	if err != nil {
		st.onInnerError(0, err)
		return
	}
	if !st.sem.TryAcquire(1) {
		// maxConcurrency is enforced by outer request accounting (step 1/4
		// of the drain protocol), so this should never be contended; treat
		// contention defensively as a transient backlog rather than a bug.
		_ = st.sem.Acquire(context.Background(), 1)
	}
	id := atomic.AddUint64(&st.nextID, 1)
	in := &flatMapInner[R]{id: id, queue: ringbuffer.New[R](st.prefetch)}
	st.mu.Lock()
	st.inners[id] = in
	st.order = append(st.order, id)
	st.mu.Unlock()
	inner.Subscribe(&flatMapInnerSubscriber[T, R]{state: st, id: id})
}

func (st *flatMapState[T, R]) onInnerSubscribed(id uint64, sub Subscription) {
	st.mu.Lock()
	in, ok := st.inners[id]
	if ok {
		in.sub = sub
	}
	st.mu.Unlock()
	if !ok {
		sub.Cancel()
		return
	}
	st.comp.Add(asTarget(sub))
	sub.Request(uint64(st.prefetch))
}

func (st *flatMapState[T, R]) onInnerNext(id uint64, v R) {
	st.mu.Lock()
	in, ok := st.inners[id]
	if ok {
		in.queue.TryPush(v)
	}
	st.mu.Unlock()
	if !ok {
		return
	}
	st.schedule()
}

func (st *flatMapState[T, R]) onInnerComplete(id uint64) {
	st.mu.Lock()
	if in, ok := st.inners[id]; ok {
		in.done = true
	}
	st.mu.Unlock()
	st.schedule()
}

func (st *flatMapState[T, R]) onInnerError(id uint64, err error) {
	if st.delayErrors {
		st.mu.Lock()
		st.errs = append(st.errs, err)
		if in, ok := st.inners[id]; ok {
			in.done = true
		}
		st.mu.Unlock()
		st.schedule()
		return
	}
	st.emitTerminalError(err)
}

func (st *flatMapState[T, R]) onOuterNext(v T) { st.subscribeInner(v) }

func (st *flatMapState[T, R]) onOuterComplete() {
	st.mu.Lock()
	st.upDone = true
	st.mu.Unlock()
	st.schedule()
}

func (st *flatMapState[T, R]) onOuterError(err error) {
	if st.delayErrors {
		st.mu.Lock()
		st.errs = append(st.errs, err)
		st.upDone = true
		st.mu.Unlock()
		st.schedule()
		return
	}
	st.emitTerminalError(err)
}

// drain is the single serialized worker. It round-robins outstanding
// inner queues, emitting one item per inner per pass while downstream
// demand remains, then reaps finished inners (releasing their semaphore
// slot and requesting one more source from upstream) and finally checks
// for the terminal condition.
func (st *flatMapState[T, R]) drain() {
	for {
		if st.cancelled.Load() {
			return
		}
		progressed := st.emitOnePass()
		reaped := st.reapFinishedInners()
		if st.maybeTerminate() {
			return
		}
		if !progressed && !reaped {
			return
		}
	}
}

func (st *flatMapState[T, R]) emitOnePass() bool {
	progressed := false
	for {
		v, sub, ok := st.nextEmittable()
		if !ok {
			return progressed
		}
		progressed = true
		st.down.OnNext(v)
		// Replenish the inner's demand as its queue drains (low-water-mark
		// style, one out one in) so an inner producing more than prefetch
		// values keeps being asked for more instead of stalling once its
		// initial grant is exhausted.
		if sub != nil {
			sub.Request(1)
		}
	}
}

// nextEmittable pops one value from the next non-empty inner queue in
// round-robin order, consuming one unit of downstream demand, and returns
// that inner's Subscription so the caller can replenish its demand. ok is
// false once either demand or buffered values are exhausted.
func (st *flatMapState[T, R]) nextEmittable() (v R, sub Subscription, ok bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := len(st.order)
	if n == 0 {
		return v, nil, false
	}
	for i := 0; i < n; i++ {
		idx := (st.rrIdx + i) % n
		id := st.order[idx]
		in := st.inners[id]
		if in == nil || in.queue.Empty() {
			continue
		}
		if !st.downstreamDemand.TryTake() {
			return v, nil, false
		}
		v, _ = in.queue.Pop()
		st.rrIdx = (idx + 1) % n
		return v, in.sub, true
	}
	return v, nil, false
}

func (st *flatMapState[T, R]) reapFinishedInners() bool {
	st.mu.Lock()
	var toRelease []uint64
	remaining := st.order[:0]
	for _, id := range st.order {
		in := st.inners[id]
		if in != nil && in.done && in.queue.Empty() {
			toRelease = append(toRelease, id)
			delete(st.inners, id)
			continue
		}
		remaining = append(remaining, id)
	}
	st.order = remaining
	if len(st.order) > 0 {
		st.rrIdx %= len(st.order)
	} else {
		st.rrIdx = 0
	}
	cancelled := st.cancelled.Load()
	upDone := st.upDone
	st.mu.Unlock()

	for range toRelease {
		st.sem.Release(1)
	}
	if len(toRelease) > 0 && !cancelled && !upDone && st.upSub != nil {
		st.upSub.Request(uint64(len(toRelease)))
	}
	return len(toRelease) > 0
}

func (st *flatMapState[T, R]) maybeTerminate() bool {
	st.mu.Lock()
	upDone := st.upDone
	noInners := len(st.inners) == 0
	st.mu.Unlock()
	if upDone && noInners {
		st.emitComplete()
		return true
	}
	return false
}

func applyFlatMapper[T, R any](mapper func(T) Flow[R], v T) (out Flow[R], err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = constraintf("FlatMap", "mapper panicked: %v", r)
		}
	}()
	out = mapper(v)
	return
}

type flatMapSubscription[T, R any] struct {
	state *flatMapState[T, R]
}

func (s *flatMapSubscription[T, R]) Request(n uint64) {
	if n == 0 {
		s.state.emitTerminalError(constraintf("Request", "n must be >= 1, got 0"))
		return
	}
	s.state.requestDownstreamDemand(n)
}

func (s *flatMapSubscription[T, R]) Cancel() { s.state.cancel() }

type flatMapOuterSubscriber[T, R any] struct {
	state *flatMapState[T, R]
}

func (s *flatMapOuterSubscriber[T, R]) OnSubscribe(sub Subscription) {
	s.state.upSub = sub
	s.state.comp.Add(asTarget(sub))
	s.state.down.OnSubscribe(&flatMapSubscription[T, R]{state: s.state})
	sub.Request(uint64(s.state.maxConcurrency))
}

func (s *flatMapOuterSubscriber[T, R]) OnNext(v T)        { s.state.onOuterNext(v) }
func (s *flatMapOuterSubscriber[T, R]) OnError(err error) { s.state.onOuterError(err) }
func (s *flatMapOuterSubscriber[T, R]) OnComplete()       { s.state.onOuterComplete() }

type flatMapInnerSubscriber[T, R any] struct {
	state *flatMapState[T, R]
	id    uint64
}

func (s *flatMapInnerSubscriber[T, R]) OnSubscribe(sub Subscription) {
	s.state.onInnerSubscribed(s.id, sub)
}

func (s *flatMapInnerSubscriber[T, R]) OnNext(v R)        { s.state.onInnerNext(s.id, v) }
func (s *flatMapInnerSubscriber[T, R]) OnError(err error) { s.state.onInnerError(s.id, err) }
func (s *flatMapInnerSubscriber[T, R]) OnComplete()       { s.state.onInnerComplete(s.id) }
