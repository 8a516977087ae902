package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marmos91/metacache/pkg/metacache"
)

// RunInvariantTests exercises I1-I5 from the specification's testable
// properties section, to the extent they are observable through the
// public API (the suite never reaches into Cache internals).
func (s *CacheTestSuite) RunInvariantTests(t *testing.T) {
	t.Run("I1_CountMatchesReachableEntries", func(t *testing.T) {
		c := s.NewCache(t)
		defer c.Close()

		var minted []uint64
		for i := 0; i < 5; i++ {
			h := c.Add([]byte{byte(i)})
			require.NotZero(t, h, "Add() unexpectedly rejected at i=%d", i)
			minted = append(minted, uint64(h))
		}

		require.Equal(t, 5, c.Stats().Count)

		for _, raw := range minted {
			b := c.Borrow(handleOf(raw))
			require.NotNil(t, b, "handle %d should be reachable via Borrow", raw)
			b.Return()
		}
	})

	t.Run("I2_NoDuplicateHandles", func(t *testing.T) {
		c := s.NewCache(t)
		defer c.Close()

		seen := map[uint64]bool{}
		for i := 0; i < 8; i++ {
			h := c.Add([]byte("x"))
			require.NotZero(t, h, "Add() unexpectedly rejected at i=%d", i)
			require.False(t, seen[uint64(h)], "handle %d minted twice", h)
			seen[uint64(h)] = true
		}
	})

	t.Run("I4_FreedEntryUnreachable", func(t *testing.T) {
		c := s.NewCache(t)
		defer c.Close()

		h := c.Add([]byte("gone"))
		c.Invalidate(h)
		require.Nil(t, c.Borrow(h), "Borrow() should fail after Invalidate()")
	})

	t.Run("I5_AddSucceedsUnderCapacity", func(t *testing.T) {
		c := s.NewCache(t)
		defer c.Close()

		for i := 0; i < 3; i++ {
			require.NotZero(t, c.Add([]byte("ok")), "Add() should not reject entry %d while under capacity", i)
		}
	})

	// I3 needs a Clock it can drive precisely, so (like the boundary
	// suite) it builds its own Cache rather than using s.NewCache.
	t.Run("I3_ListOrderedByExpiryAscending", func(t *testing.T) {
		clock := metacache.NewManualClock()
		c, err := metacache.New(8, 4096, 10, metacache.WithClock(clock), metacache.WithDebugAssertions(true))
		require.NoError(t, err)
		defer c.Close()

		var handles []metacache.Handle
		for i := 0; i < 4; i++ {
			clock.Advance(1) // each Add gets a strictly later expiresAt than the last
			h := c.Add([]byte{byte(i)})
			require.NotZero(t, h, "Add() unexpectedly rejected at i=%d", i)
			handles = append(handles, h)
		}

		// Ticks at insertion were 1,2,3,4 and timeout is 10, so expiresAt
		// is 11,12,13,14 in insertion order. A sweep to tick 12 should
		// remove exactly the first two entries and stop at the third,
		// which is only possible if the list is kept sorted by ascending
		// expiresAt (InvalidateExpired only ever inspects the head).
		clock.Set(12)
		c.InvalidateExpired()

		require.Nil(t, c.Borrow(handles[0]), "earliest-expiring entry should be swept")
		require.Nil(t, c.Borrow(handles[1]), "second entry should be swept alongside the first")

		b2 := c.Borrow(handles[2])
		require.NotNil(t, b2, "third entry's expiresAt is still in the future, should survive")
		b2.Return()

		b3 := c.Borrow(handles[3])
		require.NotNil(t, b3, "fourth entry's expiresAt is still in the future, should survive")
		b3.Return()
	})
}
