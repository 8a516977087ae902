package metacache

import "time"

// Borrow returns a temporary shared reference to the blob stored under h,
// or nil if no live entry carries that handle. A successful Borrow
// increments the entry's reference count; the caller must call Return on
// the result exactly once when done.
func (c *Cache) Borrow(h Handle) *Borrowed {
	start := time.Now()
	b := c.borrow(h)
	c.metrics.ObserveBorrow(b != nil, time.Since(start))
	return b
}

func (c *Cache) borrow(h Handle) *Borrowed {
	if h == 0 {
		return nil
	}

	c.mu.Lock()
	idx := c.bucketIndex(h)
	var found *entry
	for e := c.buckets[idx]; e != nil; e = e.bucketNext {
		if e.handle == h {
			found = e
			break
		}
	}
	if found != nil {
		found.refcount.Add(1)
	}
	c.mu.Unlock()

	if found == nil {
		return nil
	}

	return &Borrowed{
		handle:  h,
		payload: found.blob,
		owner:   found,
		cache:   c,
	}
}
