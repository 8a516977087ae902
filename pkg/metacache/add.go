package metacache

import (
	"time"

	"github.com/marmos91/metacache/internal/logger"
)

// Add copies blob into cache-owned memory and returns a handle for later
// retrieval via Borrow. It returns 0 (never a valid handle) if:
//   - len(blob) exceeds the configured maxEntrySize,
//   - the allocator fails, or
//   - the cache is already at capacity.
//
// These three failure modes are deliberately indistinguishable at the
// call site (see §7): the cache is an opportunistic accelerator, and
// callers that care about the exact reason can check len(blob) against
// maxEntrySize themselves before calling.
//
// Allocation and the payload copy happen before any lock is taken, since
// the configured Allocator may be slow; the critical section itself only
// manipulates pointers.
func (c *Cache) Add(blob []byte) Handle {
	start := time.Now()
	h := c.add(blob)
	c.metrics.ObserveAdd(h != 0, len(blob), time.Since(start))
	return h
}

func (c *Cache) add(blob []byte) Handle {
	if uint32(len(blob)) > c.maxEntrySize {
		return 0
	}

	buf, err := c.alloc.Alloc(len(blob))
	if err != nil {
		c.logger.Warn("metacache: allocation failed for Add", logger.Size(len(blob)), logger.Err(err))
		return 0
	}
	copy(buf, blob)

	e := &entry{
		blob: buf,
	}
	e.refcount.Store(1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0
	}
	hasCapacity := c.count < c.capacity
	var handle Handle
	if hasCapacity {
		handle = c.mintHandle()
		e.handle = handle
		e.expiresAt = c.clock.Ticks() + c.timeoutTicks
		c.assertNoCollision(handle)
		c.listAppend(e)
		c.bucketInsert(e)
		c.count++
	}
	count := c.count
	nextHandle := c.nextHandle
	c.mu.Unlock()

	if !hasCapacity {
		c.logger.Debug("metacache: Add rejected, cache at capacity", logger.Capacity(c.capacity))
		return 0
	}

	c.metrics.RecordEntryCount(count)
	c.metrics.RecordNextHandle(nextHandle)
	return handle
}
