package flowrx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapAppliesFunctionToEveryValue(t *testing.T) {
	r := &recorder[int]{}
	unbounded(Map(FromArray([]int{1, 2, 3}), func(v int) int { return v * 10 }), r)

	assert.Equal(t, []int{10, 20, 30}, r.Values())
	assert.True(t, r.Completed())
}

func TestMapPanicCancelsUpstreamAndDeliversError(t *testing.T) {
	cancelled := false
	src := Create(func(s Subscriber[int]) {
		s.OnSubscribe(&FuncSubscriberSubscription{onCancel: func() { cancelled = true }})
		s.OnNext(1)
	})
	r := &recorder[int]{}
	unbounded(Map(src, func(int) int { panic("boom") }), r)

	assert.True(t, cancelled)
	assert.Error(t, r.Err())
	assert.Empty(t, r.Values())
}

func TestMapNilFunctionPanics(t *testing.T) {
	assert.Panics(t, func() {
		Map[int, int](Just(1), nil)
	})
}

func TestMapIdentityLaw(t *testing.T) {
	src := FromArray([]int{1, 2, 3})
	mapped := Map(src, func(v int) int { return v })

	got := &recorder[int]{}
	unbounded(mapped, got)
	want := &recorder[int]{}
	unbounded(FromArray([]int{1, 2, 3}), want)

	assert.Equal(t, want.Values(), got.Values())
}

func TestMapCompositionLaw(t *testing.T) {
	double := func(v int) int { return v * 2 }
	incr := func(v int) int { return v + 1 }

	left := Map(Map(FromArray([]int{1, 2, 3}), double), incr)
	right := Map(FromArray([]int{1, 2, 3}), func(v int) int { return incr(double(v)) })

	l, rr := &recorder[int]{}, &recorder[int]{}
	unbounded(left, l)
	unbounded(right, rr)

	assert.Equal(t, rr.Values(), l.Values())
}

// FuncSubscriberSubscription is a minimal Subscription for tests that need
// to observe Cancel without pulling in a full fake source.
type FuncSubscriberSubscription struct {
	onCancel func()
}

func (s *FuncSubscriberSubscription) Request(uint64) {}
func (s *FuncSubscriberSubscription) Cancel() {
	if s.onCancel != nil {
		s.onCancel()
	}
}
