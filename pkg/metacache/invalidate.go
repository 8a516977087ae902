package metacache

import (
	"context"
	"math"
	"time"

	"github.com/marmos91/metacache/internal/logger"
)

// Invalidate removes the entry for handle h from the cache, if present.
// It is a no-op (not an error) if h does not name a live entry. The
// cache's own residency reference is released after the entry is
// unlinked; if no borrower holds a reference the entry is freed
// immediately, otherwise it survives until the last Return.
func (c *Cache) Invalidate(h Handle) {
	if h == 0 {
		return
	}

	c.mu.Lock()
	idx := c.bucketIndex(h)
	prev := &c.buckets[idx]
	var found *entry
	for cur := *prev; cur != nil; cur = cur.bucketNext {
		if cur.handle == h {
			*prev = cur.bucketNext
			found = cur
			break
		}
		prev = &cur.bucketNext
	}
	if found != nil {
		c.listUnlink(found)
		c.count--
	}
	count := c.count
	c.mu.Unlock()

	if found == nil {
		return
	}
	c.metrics.RecordEntryCount(count)
	c.metrics.ObserveInvalidate("targeted", 1)
	c.releaseResidency(found)
}

// InvalidateExpired removes every entry whose expiry has passed as of the
// current tick. Only one entry is removed per mutex acquisition, bounding
// tail latency and letting the sweep interleave with concurrent Add and
// Borrow calls on unrelated entries.
func (c *Cache) InvalidateExpired() {
	removed := c.invalidateUntil(c.clock.Ticks())
	if removed > 0 {
		c.metrics.ObserveInvalidate("expired", removed)
	}
}

// InvalidateAll removes every live entry, regardless of expiry. It is the
// same sweep as InvalidateExpired with the comparison threshold pinned to
// the maximum tick value, so every entry satisfies the predicate.
func (c *Cache) InvalidateAll() {
	removed := c.invalidateUntil(math.MaxUint64)
	if removed > 0 {
		c.metrics.ObserveInvalidate("drain", removed)
	}
}

// invalidateUntil repeatedly pops the head of the insertion-ordered list
// while its expiresAt is <= threshold, releasing each one's residency
// reference outside the lock. It stops when the head is not expired or
// the list is empty.
func (c *Cache) invalidateUntil(threshold uint64) int {
	removed := 0
	for {
		c.mu.Lock()
		head := c.listHead
		var victim *entry
		if head != nil && head.expiresAt <= threshold {
			victim = head
			c.listUnlink(victim)
			c.bucketRemove(victim)
			c.count--
		}
		count := c.count
		c.mu.Unlock()

		if victim == nil {
			break
		}
		c.metrics.RecordEntryCount(count)
		c.releaseResidency(victim)
		removed++
	}
	return removed
}

// releaseResidency drops the cache's own reference to e (the "+1 for cache
// residency" in the refcount), freeing e if no borrower still holds one.
func (c *Cache) releaseResidency(e *entry) {
	if e.refcount.Add(-1) == 0 {
		c.freeEntry(e)
	}
}

// RunSweeper periodically calls InvalidateExpired until ctx is cancelled.
// It is new ambient wiring, not present in the original design, which left
// "any driver wiring that periodically invokes expiry" as an external
// collaborator out of scope. It is meant to run in its own goroutine:
//
//	go cache.RunSweeper(ctx, time.Second)
//
// The period can be changed while the sweeper is running via
// SetSweepInterval, which metacachectl serve uses to honor a
// hot-reloaded sweep_interval without restarting the sweeper goroutine.
func (c *Cache) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	current := interval

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("metacache: sweeper stopping", logger.Err(ctx.Err()))
			return
		case <-ticker.C:
			if next := time.Duration(c.sweepIntervalOverride.Load()); next > 0 && next != current {
				ticker.Reset(next)
				current = next
			}
			c.InvalidateExpiredCtx(ctx)
		}
	}
}

// SetSweepInterval changes the period a running RunSweeper waits between
// InvalidateExpired calls. It takes effect on the sweeper's next tick; if
// RunSweeper is not running, the value is kept and a later RunSweeper
// switches to it on its first tick. It is safe to call concurrently with
// RunSweeper.
func (c *Cache) SetSweepInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	c.sweepIntervalOverride.Store(int64(d))
}
