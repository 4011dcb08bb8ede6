package flowrx

import (
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJustEmitsSingleValueThenCompletes(t *testing.T) {
	r := &recorder[string]{}
	unbounded(Just("hi"), r)

	assert.Equal(t, []string{"hi"}, r.Values())
	assert.True(t, r.Completed())
}

func TestEmptyCompletesWithNoValues(t *testing.T) {
	r := &recorder[int]{}
	unbounded(Empty[int](), r)

	assert.Empty(t, r.Values())
	assert.True(t, r.Completed())
}

func TestNeverEmitsNothing(t *testing.T) {
	r := &recorder[int]{}
	unbounded(Never[int](), r)

	assert.Empty(t, r.Values())
	assert.False(t, r.Completed())
	assert.Nil(t, r.Err())
}

func TestErrorDeliversImmediately(t *testing.T) {
	wantErr := errors.New("boom")
	r := &recorder[int]{}
	unbounded(Error[int](wantErr), r)

	assert.ErrorIs(t, r.Err(), wantErr)
	assert.Empty(t, r.Values())
}

func TestErrorFuncEvaluatesSupplierEachSubscription(t *testing.T) {
	calls := 0
	wantErr := errors.New("boom")
	f := ErrorFunc[int](func() error {
		calls++
		return wantErr
	})

	r1 := &recorder[int]{}
	unbounded(f, r1)
	r2 := &recorder[int]{}
	unbounded(f, r2)

	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, r1.Err(), wantErr)
	assert.ErrorIs(t, r2.Err(), wantErr)
}

func TestErrorFuncNilErrorBecomesConstraintError(t *testing.T) {
	r := &recorder[int]{}
	unbounded(ErrorFunc[int](func() error { return nil }), r)

	require.Error(t, r.Err())
}

func TestErrorFuncSupplierPanicDeliversAsError(t *testing.T) {
	r := &recorder[int]{}
	unbounded(ErrorFunc[int](func() error { panic("kaboom") }), r)

	require.Error(t, r.Err())
}

func TestFromCallableEmitsSupplierResultOnce(t *testing.T) {
	calls := 0
	f := FromCallable(func() (int, error) {
		calls++
		return 42, nil
	})
	r := &recorder[int]{}
	unbounded(f, r)

	assert.Equal(t, []int{42}, r.Values())
	assert.True(t, r.Completed())
	assert.Equal(t, 1, calls)
}

func TestFromCallableSupplierErrorForwarded(t *testing.T) {
	wantErr := errors.New("boom")
	f := FromCallable(func() (int, error) { return 0, wantErr })
	r := &recorder[int]{}
	unbounded(f, r)

	assert.ErrorIs(t, r.Err(), wantErr)
}

func TestFromCallableSupplierPanicDeliversAsError(t *testing.T) {
	f := FromCallable(func() (int, error) { panic("kaboom") })
	r := &recorder[int]{}
	unbounded(f, r)

	require.Error(t, r.Err())
}

func TestFromIterableEmitsEverySequenceValue(t *testing.T) {
	seq := func(yield func(int) bool) {
		for _, v := range []int{1, 2, 3} {
			if !yield(v) {
				return
			}
		}
	}
	r := &recorder[int]{}
	unbounded(FromIterable[int](iter.Seq[int](seq)), r)

	assert.Equal(t, []int{1, 2, 3}, r.Values())
	assert.True(t, r.Completed())
}

func TestFromIterableCanBeSubscribedMultipleTimes(t *testing.T) {
	seq := func(yield func(int) bool) {
		yield(7)
	}
	f := FromIterable[int](iter.Seq[int](seq))

	r1 := &recorder[int]{}
	unbounded(f, r1)
	r2 := &recorder[int]{}
	unbounded(f, r2)

	assert.Equal(t, []int{7}, r1.Values())
	assert.Equal(t, []int{7}, r2.Values())
}

func TestFromStreamEmitsSequenceOnFirstSubscription(t *testing.T) {
	seq := func(yield func(int) bool) {
		for _, v := range []int{1, 2, 3} {
			if !yield(v) {
				return
			}
		}
	}
	r := &recorder[int]{}
	unbounded(FromStream[int](iter.Seq[int](seq)), r)

	assert.Equal(t, []int{1, 2, 3}, r.Values())
	assert.True(t, r.Completed())
}

func TestFromStreamRejectsSecondSubscription(t *testing.T) {
	seq := func(yield func(int) bool) { yield(1) }
	f := FromStream[int](iter.Seq[int](seq))

	r1 := &recorder[int]{}
	unbounded(f, r1)
	require.True(t, r1.Completed())

	r2 := &recorder[int]{}
	unbounded(f, r2)
	require.Error(t, r2.Err())
	assert.Empty(t, r2.Values())
}

func TestFromChannelEmitsFirstValueThenCompletes(t *testing.T) {
	values := make(chan int, 1)
	errs := make(chan error, 1)
	values <- 5

	r := &recorder[int]{}
	done := make(chan struct{})
	FromChannel[int](values, errs).SafeSubscribe(FuncSubscriber[int]{
		OnSubscribeFn: func(s Subscription) { s.Request(Unbounded) },
		OnNextFn:      func(v int) { r.OnNext(v) },
		OnCompleteFn:  func() { r.OnComplete(); close(done) },
	})
	<-done

	assert.Equal(t, []int{5}, r.Values())
	assert.True(t, r.Completed())
}

func TestFromChannelForwardsError(t *testing.T) {
	values := make(chan int, 1)
	errs := make(chan error, 1)
	wantErr := errors.New("boom")
	errs <- wantErr

	r := &recorder[int]{}
	done := make(chan struct{})
	FromChannel[int](values, errs).SafeSubscribe(FuncSubscriber[int]{
		OnSubscribeFn: func(s Subscription) { s.Request(Unbounded) },
		OnErrorFn:     func(err error) { r.OnError(err); close(done) },
	})
	<-done

	assert.ErrorIs(t, r.Err(), wantErr)
}

func TestFromChannelClosedValuesWithNoValueCompletes(t *testing.T) {
	values := make(chan int)
	errs := make(chan error)
	close(values)

	r := &recorder[int]{}
	done := make(chan struct{})
	FromChannel[int](values, errs).SafeSubscribe(FuncSubscriber[int]{
		OnSubscribeFn: func(s Subscription) { s.Request(Unbounded) },
		OnCompleteFn:  func() { r.OnComplete(); close(done) },
	})
	<-done

	assert.True(t, r.Completed())
	assert.Empty(t, r.Values())
}

func TestRangeEmitsConsecutiveValues(t *testing.T) {
	r := &recorder[int32]{}
	unbounded(Range(10, 3), r)

	assert.Equal(t, []int32{10, 11, 12}, r.Values())
	assert.True(t, r.Completed())
}

func TestRangeZeroCountIsEmpty(t *testing.T) {
	r := &recorder[int32]{}
	unbounded(Range(0, 0), r)

	assert.Empty(t, r.Values())
	assert.True(t, r.Completed())
}

func TestRangeNegativeCountPanics(t *testing.T) {
	assert.Panics(t, func() {
		Range(0, -1)
	})
}

func TestRangeOverflowPanics(t *testing.T) {
	assert.Panics(t, func() {
		Range(2147483647, 2)
	})
}

func TestDeferMaterializesFreshFlowPerSubscription(t *testing.T) {
	calls := 0
	f := Defer(func() Flow[int] {
		calls++
		return Just(calls)
	})

	r1 := &recorder[int]{}
	unbounded(f, r1)
	r2 := &recorder[int]{}
	unbounded(f, r2)

	assert.Equal(t, []int{1}, r1.Values())
	assert.Equal(t, []int{2}, r2.Values())
}

func TestDeferSupplierPanicDeliversAsError(t *testing.T) {
	f := Defer(func() Flow[int] { panic("kaboom") })
	r := &recorder[int]{}
	unbounded(f, r)

	require.Error(t, r.Err())
}

func TestFromArrayEmitsElementsInOrder(t *testing.T) {
	r := &recorder[int]{}
	unbounded(FromArray([]int{1, 2, 3}), r)

	assert.Equal(t, []int{1, 2, 3}, r.Values())
	assert.True(t, r.Completed())
}

func TestFromArrayEmptySliceBehavesLikeEmpty(t *testing.T) {
	r := &recorder[int]{}
	unbounded(FromArray([]int{}), r)

	assert.Empty(t, r.Values())
	assert.True(t, r.Completed())
}
