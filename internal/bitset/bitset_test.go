package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaneHeap(t *testing.T) {
	p, err := New(1000)
	require.NoError(t, err)
	defer p.Close()

	assert.EqualValues(t, 1000, p.Len())
	assert.False(t, p.Test(0))
	p.Set(0)
	p.Set(63)
	p.Set(64)
	p.Set(999)
	assert.True(t, p.Test(0))
	assert.True(t, p.Test(63))
	assert.True(t, p.Test(64))
	assert.True(t, p.Test(999))
	assert.False(t, p.Test(1))
	assert.False(t, p.Test(998))
}

func TestPlaneMapped(t *testing.T) {
	p, err := New(1 << 24)
	require.NoError(t, err)
	defer p.Close()

	// Fresh pages are zeroed.
	for _, i := range []uint64{0, 1 << 12, 1<<24 - 1} {
		require.False(t, p.Test(i))
	}
	for _, i := range []uint64{0, 7, 1 << 20, 1<<24 - 1} {
		p.Set(i)
	}
	for _, i := range []uint64{0, 7, 1 << 20, 1<<24 - 1} {
		assert.True(t, p.Test(i))
	}
	assert.False(t, p.Test(8))

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
}
