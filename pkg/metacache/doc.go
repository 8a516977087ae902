// Package metacache implements a bounded, time-expiring, reference-counted
// cache for opaque binary blobs.
//
// It is designed for the access pattern of a filesystem metadata cache:
// a producer inserts a blob and gets back a handle, and any number of
// consumers can later borrow shared read access to that blob by handle.
// Entries expire lazily (no background timer is required to stay correct,
// though one can be wired up via RunSweeper) and the cache enforces a hard
// cap on entry count and a hard cap on individual entry size.
//
// Key design points:
//   - Bounded: Add rejects once the entry-count cap is reached rather than
//     evicting to make room. Callers that want a replacement policy invalidate
//     explicitly.
//   - Insertion-ordered expiry: entries expire in the order they were
//     inserted, not least-recently-used order. There is no promotion on read.
//   - Borrow/Return is reference-counted and lock-free on the hot path:
//     Return never blocks on the cache mutex and is safe to call even after
//     the cache has been closed, as long as the caller still holds a live
//     Borrowed value.
//   - Handles are monotonically minted uint64 values, never zero, and are
//     not reused except after a full 2^64 wraparound.
package metacache
