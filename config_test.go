package flowrx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferSizeHasASaneDefault(t *testing.T) {
	n := BufferSize()
	assert.GreaterOrEqual(t, n, minBufferSize)
}

func TestSetBufferSizeOverridesDefault(t *testing.T) {
	orig := BufferSize()
	defer SetBufferSize(orig)

	SetBufferSize(64)
	assert.Equal(t, 64, BufferSize())
}

func TestSetBufferSizeClampsBelowFloor(t *testing.T) {
	orig := BufferSize()
	defer SetBufferSize(orig)

	SetBufferSize(1)
	assert.Equal(t, minBufferSize, BufferSize())
}
