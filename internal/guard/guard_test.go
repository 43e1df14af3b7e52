package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermit(t *testing.T) {
	t.Parallel()

	g := New(424242)

	assert.True(t, g.Permit(424242))

	for _, id := range []int64{0, 1, -424242, 424241, 424243, 1 << 40} {
		assert.False(t, g.Permit(id), "id %d", id)
	}
}

func TestPermit_ZeroValueDeniesEveryone(t *testing.T) {
	t.Parallel()

	var g Guard
	assert.False(t, g.Permit(0))
	assert.False(t, g.Permit(1))
}
