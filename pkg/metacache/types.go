package metacache

import "sync/atomic"

// Handle identifies one live cache entry. Zero denotes absence; it is
// never minted for a real entry.
type Handle uint64

// entry is one cached blob plus its bookkeeping. Every field except
// refcount is guarded by the owning Cache's mutex; refcount is managed
// with atomic operations so Return never has to take the cache lock.
type entry struct {
	handle    Handle
	expiresAt uint64 // absolute tick; expired when clock.Ticks() >= expiresAt
	refcount  atomic.Int64
	blob      []byte

	// bucketNext chains entries within one hash bucket.
	bucketNext *entry

	// listPrev/listNext chain entries in insertion order across the whole
	// cache, used for O(1) append and lazy expiry sweep from the head.
	listPrev *entry
	listNext *entry
}

// Borrowed is a temporary shared reference to a cached blob, obtained from
// Cache.Borrow and released with Return. It is the Go-idiomatic stand-in
// for the original design's "pointer with a fixed negative offset": rather
// than recovering the owning entry via pointer arithmetic, Borrowed carries
// a direct reference to it, giving Return the same O(1) complexity without
// unsafe pointer math on the hot path.
//
// A Borrowed value must not be used after Return has been called on it.
type Borrowed struct {
	handle  Handle
	payload []byte
	owner   *entry
	cache   *Cache
}

// Handle returns the handle this borrow was obtained for.
func (b *Borrowed) Handle() Handle {
	return b.handle
}

// Bytes returns the borrowed payload. The returned slice is owned by the
// cache and must not be retained or mutated past the matching Return call.
func (b *Borrowed) Bytes() []byte {
	return b.payload
}

// Return releases this borrow, decrementing the owning entry's reference
// count. If the count reaches zero the entry and its backing buffer are
// freed. Return is lock-free with respect to the cache's structural mutex
// and is safe to call even after the owning Cache has been closed, provided
// the caller still holds this Borrowed value.
func (b *Borrowed) Return() {
	if b == nil || b.owner == nil {
		return
	}
	owner := b.owner
	b.owner = nil
	b.payload = nil
	if owner.refcount.Add(-1) == 0 {
		b.cache.freeEntry(owner)
	}
}
