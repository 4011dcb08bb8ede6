package flowrx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkipDropsFirstN(t *testing.T) {
	r := &recorder[int]{}
	unbounded(Skip(FromArray([]int{1, 2, 3, 4, 5}), 2), r)

	assert.Equal(t, []int{3, 4, 5}, r.Values())
	assert.True(t, r.Completed())
}

func TestSkipZeroIsIdentity(t *testing.T) {
	r := &recorder[int]{}
	unbounded(Skip(FromArray([]int{1, 2, 3}), 0), r)

	assert.Equal(t, []int{1, 2, 3}, r.Values())
}

func TestSkipNegativePanics(t *testing.T) {
	assert.Panics(t, func() {
		Skip(FromArray([]int{1}), -1)
	})
}

func TestSkipMoreThanAvailableEmitsNothing(t *testing.T) {
	r := &recorder[int]{}
	unbounded(Skip(FromArray([]int{1, 2}), 5), r)

	assert.Empty(t, r.Values())
	assert.True(t, r.Completed())
}

func TestSkipWhileDropsUntilPredicateFails(t *testing.T) {
	r := &recorder[int]{}
	unbounded(SkipWhile(FromArray([]int{1, 2, 3, 1, 4}), func(v int) bool { return v < 3 }), r)

	assert.Equal(t, []int{3, 1, 4}, r.Values())
}

func TestSkipWhileNeverMatchesEmitsEverything(t *testing.T) {
	r := &recorder[int]{}
	unbounded(SkipWhile(FromArray([]int{1, 2, 3}), func(int) bool { return false }), r)

	assert.Equal(t, []int{1, 2, 3}, r.Values())
}

func TestSkipWhilePanicCancelsAndErrors(t *testing.T) {
	r := &recorder[int]{}
	unbounded(SkipWhile(FromArray([]int{1, 2, 3}), func(v int) bool {
		if v == 2 {
			panic("boom")
		}
		return true
	}), r)

	assert.Error(t, r.Err())
	assert.Empty(t, r.Values())
}
