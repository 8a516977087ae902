package testing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marmos91/metacache/pkg/metacache"
)

// RunBoundaryTests exercises B1-B4. Like RunScenarioTests and the I3
// invariant subtest, these subtests build their own Cache (rather than using s.NewCache)
// because they need precise control over capacity, maxEntrySize, and the
// clock that s.NewCache may not expose.
func (s *CacheTestSuite) RunBoundaryTests(t *testing.T) {
	t.Run("B1_FullCacheRejects", func(t *testing.T) {
		c, err := metacache.New(2, 4096, time.Minute, metacache.WithDebugAssertions(true))
		require.NoError(t, err)
		defer c.Close()

		require.NotZero(t, c.Add([]byte("a")), "first Add() should succeed")
		require.NotZero(t, c.Add([]byte("b")), "second Add() should succeed")
		require.Zero(t, c.Add([]byte("c")), "third Add() should be rejected at capacity")
	})

	t.Run("B2_OversizedEntryRejectedWithoutAllocation", func(t *testing.T) {
		alloc := &countingAllocator{}
		c, err := metacache.New(4, 4, time.Minute, metacache.WithAllocator(alloc))
		require.NoError(t, err)
		defer c.Close()

		before := alloc.calls
		require.Zero(t, c.Add([]byte("too big")), "oversized Add() should be rejected")
		require.Equal(t, before, alloc.calls, "oversized Add() should not allocate")
	})

	t.Run("B3_WraparoundMintsOneNotZero", func(t *testing.T) {
		c, err := metacache.New(4, 4096, time.Minute, metacache.WithDebugAssertions(true))
		require.NoError(t, err)
		defer c.Close()

		c.SeedNextHandle(math.MaxUint64)

		h := c.Add([]byte("wrapped"))
		require.Equal(t, metacache.Handle(1), h, "handle after wraparound")
	})

	t.Run("B4_BorrowSurvivesInvalidateAll", func(t *testing.T) {
		clock := metacache.NewManualClock()
		c, err := metacache.New(4, 4096, time.Minute, metacache.WithClock(clock))
		require.NoError(t, err)
		defer c.Close()

		h := c.Add([]byte("payload"))
		b := c.Borrow(h)
		require.NotNil(t, b, "Borrow() unexpectedly missed")

		c.InvalidateAll()

		require.Equal(t, "payload", string(b.Bytes()), "borrowed payload changed after InvalidateAll()")
		b.Return()

		b2 := c.Borrow(h)
		if b2 != nil {
			b2.Return()
		}
		require.Nil(t, b2, "handle should be unreachable after InvalidateAll()")
	})
}

// countingAllocator counts Alloc calls so tests can assert a rejected Add
// never reaches the allocator.
type countingAllocator struct {
	calls int
}

func (a *countingAllocator) Alloc(n int) ([]byte, error) {
	a.calls++
	return make([]byte, n), nil
}
