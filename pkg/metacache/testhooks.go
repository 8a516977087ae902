package metacache

// SeedNextHandle pins the handle allocator to a specific watermark. It
// exists so tests (in-package and in pkg/metacache/testing) can exercise
// the wraparound behavior described in §4.2 and scenario S5 without
// minting 2^64 handles first. It is not part of the cache's steady-state
// operational surface and should not be called outside tests.
func (c *Cache) SeedNextHandle(h uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextHandle = h
}
