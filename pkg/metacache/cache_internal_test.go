package metacache

import (
	"math"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestComputeBucketCountShrinksWithSmallBudget(t *testing.T) {
	big := computeBucketCount(defaultHeaderPageSize)
	small := computeBucketCount(int(unsafe.Sizeof(Cache{})) + 8*8)
	require.Less(t, small, big, "small-budget bucket count should be less than default")
	require.Positive(t, small, "bucket count must be at least 1")
}

func TestMintHandleWrapsToOneNotZero(t *testing.T) {
	c, err := New(4, 4096, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	c.mu.Lock()
	c.nextHandle = math.MaxUint64
	h := c.mintHandle()
	next := c.nextHandle
	c.mu.Unlock()

	require.Equal(t, Handle(1), h, "mintHandle() after max")
	require.Equal(t, uint64(1), next, "nextHandle after wraparound")
}

func TestAssertNoCollisionPanicsOnDuplicateHandle(t *testing.T) {
	c, err := New(4, 4096, time.Minute, WithDebugAssertions(true))
	require.NoError(t, err)
	defer c.Close()

	h := c.Add([]byte("first"))
	require.NotZero(t, h, "Add() unexpectedly rejected")

	defer func() {
		require.NotNil(t, recover(), "expected assertNoCollision to panic on a duplicate handle")
	}()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.assertNoCollision(Handle(h))
}
