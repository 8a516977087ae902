package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marmos91/metacache/pkg/metacache"
)

// RunRoundTripTests exercises R1-R5.
func (s *CacheTestSuite) RunRoundTripTests(t *testing.T) {
	t.Run("R1_BorrowReturnsWhatWasAdded", func(t *testing.T) {
		c := s.NewCache(t)
		defer c.Close()

		want := []byte("directory listing blob")
		h := c.Add(want)
		require.NotZero(t, h, "Add() unexpectedly rejected")

		b := c.Borrow(h)
		require.NotNil(t, b, "Borrow() unexpectedly missed")
		defer b.Return()

		require.Equal(t, want, b.Bytes())
	})

	t.Run("R2_InvalidateThenBorrowMisses", func(t *testing.T) {
		c := s.NewCache(t)
		defer c.Close()

		h := c.Add([]byte("temp"))
		c.Invalidate(h)
		require.Nil(t, c.Borrow(h), "Borrow() should miss after Invalidate()")
	})

	t.Run("R3_InvalidateAllIdempotentOnEmpty", func(t *testing.T) {
		c := s.NewCache(t)
		defer c.Close()

		c.InvalidateAll()
		c.InvalidateAll() // must not panic or misbehave on an already-empty cache
	})

	t.Run("R4_BorrowReturnBalance", func(t *testing.T) {
		c := s.NewCache(t)
		defer c.Close()

		h := c.Add([]byte("shared"))
		var borrows []*metacache.Borrowed
		for i := 0; i < 4; i++ {
			b := c.Borrow(h)
			require.NotNil(t, b, "Borrow() unexpectedly missed")
			borrows = append(borrows, b)
		}
		for _, b := range borrows {
			b.Return()
		}

		// Entry is still live (cache residency reference untouched); a
		// fresh Borrow must still succeed.
		b := c.Borrow(h)
		require.NotNil(t, b, "entry should still be live after balanced Borrow/Return pairs")
		b.Return()
	})

	t.Run("R5_CtxVariantsRoundTripLikeTheirPlainCounterparts", func(t *testing.T) {
		c := s.NewCache(t)
		defer c.Close()

		ctx := testContext()

		h := c.AddCtx(ctx, []byte("traced"))
		require.NotZero(t, h, "AddCtx() unexpectedly rejected")

		b := c.BorrowCtx(ctx, h)
		require.NotNil(t, b, "BorrowCtx() unexpectedly missed")
		require.Equal(t, "traced", string(b.Bytes()))
		b.Return()

		// s.NewCache is expected to use a timeout long enough that h is
		// nowhere near expiry, so the sweep must leave it reachable.
		c.InvalidateExpiredCtx(ctx)
		b2 := c.Borrow(h)
		require.NotNil(t, b2, "Borrow() after InvalidateExpiredCtx() on a non-expired entry")
		b2.Return()
	})
}
