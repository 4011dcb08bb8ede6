package flowrx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoreElementsSuppressesAllValues(t *testing.T) {
	r := &recorder[int]{}
	unbounded(IgnoreElements(FromArray([]int{1, 2, 3})), r)

	assert.Empty(t, r.Values())
	assert.True(t, r.Completed())
}

func TestIgnoreElementsForwardsError(t *testing.T) {
	wantErr := errors.New("boom")
	r := &recorder[int]{}
	unbounded(IgnoreElements(Error[int](wantErr)), r)

	assert.ErrorIs(t, r.Err(), wantErr)
}

func TestIgnoreElementsZeroRequestIsConstraintError(t *testing.T) {
	r := &recorder[int]{}
	var sub Subscription
	IgnoreElements(Never[int]()).SafeSubscribe(FuncSubscriber[int]{
		OnSubscribeFn: func(s Subscription) { sub = s },
		OnErrorFn:     func(err error) { r.OnError(err) },
	})

	sub.Request(0)
	require.Error(t, r.Err())
}

func TestIgnoreElementsOnEmptyJustCompletes(t *testing.T) {
	r := &recorder[int]{}
	unbounded(IgnoreElements(Empty[int]()), r)

	assert.Empty(t, r.Values())
	assert.True(t, r.Completed())
}
