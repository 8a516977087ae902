package metacache

// Allocator is the external memory allocator collaborator. The original
// design assumed two allocation domains (non-pageable for headers, general
// for payload bytes); a single-domain allocator is explicitly acceptable,
// and that is what this interface models — one Alloc call per buffer.
//
// Alloc returns an error (rather than a nil slice) so that tests can
// simulate allocation failure deterministically; the default
// implementation never fails.
type Allocator interface {
	// Alloc returns a zeroed byte slice of exactly n bytes, or an error if
	// the allocation cannot be satisfied.
	Alloc(n int) ([]byte, error)
}

// sliceAllocator is the default Allocator: a thin wrapper over make([]byte, n)
// that cannot fail under normal operation.
type sliceAllocator struct{}

func (sliceAllocator) Alloc(n int) ([]byte, error) {
	return make([]byte, n), nil
}
