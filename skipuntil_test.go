package flowrx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipUntilDropsUntilOtherEmits(t *testing.T) {
	trigger := make(chan struct{})
	other := Create(func(s Subscriber[struct{}]) {
		s.OnSubscribe(&noopSubscription{sink: s})
		go func() {
			<-trigger
			s.OnNext(struct{}{})
			s.OnComplete()
		}()
	})

	values := make(chan int, 10)
	source := FromArray([]int{1, 2, 3})

	f := SkipUntil[int, struct{}](source, other)
	done := make(chan struct{})
	f.SafeSubscribe(FuncSubscriber[int]{
		OnSubscribeFn: func(s Subscription) { s.Request(Unbounded) },
		OnNextFn:      func(v int) { values <- v },
		OnCompleteFn:  func() { close(done) },
	})
	close(trigger)
	<-done
	close(values)

	var got []int
	for v := range values {
		got = append(got, v)
	}
	// source is a cold synchronous array; by the time other fires, source
	// has already run to completion, so everything is dropped.
	assert.Empty(t, got)
}

func TestSkipUntilOtherCompletingAlsoTriggersPassthrough(t *testing.T) {
	r := &recorder[int]{}
	unbounded(SkipUntil[int, int](FromArray([]int{1, 2, 3}), Empty[int]()), r)

	require.True(t, r.Completed())
	assert.Equal(t, []int{1, 2, 3}, r.Values())
}
