package metacache

import "errors"

var (
	// ErrInvalidCapacity is returned by New when capacity is not positive.
	ErrInvalidCapacity = errors.New("metacache: capacity must be positive")

	// ErrInvalidMaxEntrySize is returned by New when maxEntrySize is not positive.
	ErrInvalidMaxEntrySize = errors.New("metacache: max entry size must be positive")

	// ErrOutOfMemory is returned by New when the configured Allocator cannot
	// satisfy the header allocation.
	ErrOutOfMemory = errors.New("metacache: out of memory")

	// ErrCacheClosed names the closed state of a cache. No operation in this
	// package returns it: Close on an already-closed cache returns nil, and
	// Add on a closed cache returns the zero Handle.
	ErrCacheClosed = errors.New("metacache: cache is closed")
)
