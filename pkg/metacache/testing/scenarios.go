package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marmos91/metacache/pkg/metacache"
)

// RunScenarioTests exercises the end-to-end scenarios S1-S6.
func (s *CacheTestSuite) RunScenarioTests(t *testing.T) {
	t.Run("S1_RejectThenInvalidateThenAddSucceeds", func(t *testing.T) {
		c, err := metacache.New(3, 4096, 100*time.Millisecond)
		require.NoError(t, err)
		defer c.Close()

		h1 := c.Add([]byte("aa"))
		h2 := c.Add([]byte("bb"))
		h3 := c.Add([]byte("cc"))
		require.Equal(t, []metacache.Handle{1, 2, 3}, []metacache.Handle{h1, h2, h3})

		require.Zero(t, c.Add([]byte("dd")), "Add() at capacity should return 0")

		c.Invalidate(h2)

		h4 := c.Add([]byte("dd"))
		require.Equal(t, metacache.Handle(4), h4, "Add() after Invalidate() should mint 4")

		b := c.Borrow(h4)
		require.NotNil(t, b)
		require.Equal(t, "dd", string(b.Bytes()))
		b.Return()
	})

	t.Run("S2_ExpiredEntriesBecomeUnreachable", func(t *testing.T) {
		clock := metacache.NewManualClock()
		c, err := metacache.New(2, 4096, 10, metacache.WithClock(clock))
		require.NoError(t, err)
		defer c.Close()

		h1 := c.Add([]byte("x"))
		h2 := c.Add([]byte("y"))

		clock.Set(11)
		c.InvalidateExpired()

		require.Nil(t, c.Borrow(h1), "Borrow(1) should miss after expiry sweep")
		require.Nil(t, c.Borrow(h2), "Borrow(2) should miss after expiry sweep")
	})

	t.Run("S3_BorrowOutlivesInvalidateAllThenFrees", func(t *testing.T) {
		c, err := metacache.New(4, 4096, time.Minute)
		require.NoError(t, err)
		defer c.Close()

		h := c.Add([]byte("z"))
		b := c.Borrow(h)
		require.NotNil(t, b, "Borrow() unexpectedly missed")

		c.InvalidateAll()

		require.Equal(t, "z", string(b.Bytes()), "payload changed while borrowed")
		b.Return() // drops the last reference; entry and buffer are now freed
	})

	t.Run("S4_ConcurrentProducersConsumersAndSweeper", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping concurrency scenario in -short mode")
		}

		clock := metacache.NewManualClock()
		c, err := metacache.New(256, 4096, 50, metacache.WithClock(clock), metacache.WithDebugAssertions(true))
		require.NoError(t, err)
		defer c.Close()

		const producers = 4
		const perProducer = 250

		handles := make(chan metacache.Handle, producers*perProducer)
		var wg sync.WaitGroup

		for p := 0; p < producers; p++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				for i := 0; i < perProducer; i++ {
					if h := c.Add([]byte{byte(id), byte(i)}); h != 0 {
						handles <- h
					}
				}
			}(p)
		}

		stopSweep := make(chan struct{})
		var sweepWg sync.WaitGroup
		sweepWg.Add(1)
		go func() {
			defer sweepWg.Done()
			for {
				select {
				case <-stopSweep:
					return
				default:
					clock.Advance(1)
					c.InvalidateExpired()
				}
			}
		}()

		consumerDone := make(chan struct{})
		var consumeWg sync.WaitGroup
		for i := 0; i < 4; i++ {
			consumeWg.Add(1)
			go func() {
				defer consumeWg.Done()
				for {
					select {
					case h, ok := <-handles:
						if !ok {
							return
						}
						if b := c.Borrow(h); b != nil {
							b.Return()
						}
					case <-consumerDone:
						return
					}
				}
			}()
		}

		wg.Wait()
		close(handles)
		consumeWg.Wait()
		close(stopSweep)
		sweepWg.Wait()

		c.InvalidateAll()
		require.Zero(t, c.Stats().Count, "Stats().Count after final drain")
	})

	t.Run("S5_WraparoundThenMintsOne", func(t *testing.T) {
		c, err := metacache.New(4, 4096, time.Minute)
		require.NoError(t, err)
		defer c.Close()

		c.SeedNextHandle(^uint64(0))

		h := c.Add([]byte("after-wrap"))
		require.Equal(t, metacache.Handle(1), h, "Add() after seeding max handle")

		b := c.Borrow(1)
		require.NotNil(t, b, "Borrow(1) should hit right after wraparound")
		b.Return()
	})

	t.Run("S6_ZeroLengthBlob", func(t *testing.T) {
		c, err := metacache.New(4, 4096, time.Minute)
		require.NoError(t, err)
		defer c.Close()

		h := c.Add(nil)
		require.NotZero(t, h, "Add(nil) should be accepted")

		b := c.Borrow(h)
		require.NotNil(t, b, "Borrow() should hit for a zero-length blob")
		require.Empty(t, b.Bytes())
		b.Return()
	})
}
