package flowrx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraintErrorMessageNamesTheOperation(t *testing.T) {
	err := constraintf("Range", "count must be >= 0, got %d", -1)

	assert.Contains(t, err.Error(), "Range")
	assert.Contains(t, err.Error(), "count must be >= 0, got -1")
}

func TestCompositeErrorUnwrapsToOriginalErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")
	composite := newCompositeError([]error{err1, err2})

	assert.ErrorIs(t, composite, err1)
	assert.ErrorIs(t, composite, err2)
	assert.Equal(t, []error{err1, err2}, composite.Errors)
}

func TestCompositeErrorSupportsErrorsAs(t *testing.T) {
	var target *ConstraintError
	wrapped := constraintf("Op", "bad thing")
	composite := newCompositeError([]error{errors.New("unrelated"), wrapped})

	require.ErrorAs(t, composite, &target)
	assert.Same(t, wrapped, target)
}

func TestCompositeErrorCopiesInputSlice(t *testing.T) {
	errs := []error{errors.New("a"), errors.New("b")}
	composite := newCompositeError(errs)
	errs[0] = errors.New("mutated")

	assert.NotEqual(t, errs[0], composite.Errors[0])
}
