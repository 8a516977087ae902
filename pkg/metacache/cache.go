package metacache

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"go.opentelemetry.io/otel/trace"
)

// Cache is a bounded, time-expiring, reference-counted cache of opaque
// byte-slice blobs keyed by a cache-assigned Handle.
//
// Cache is safe for concurrent use. All structural fields (the bucket
// table, the insertion-ordered list, count, and nextHandle) are guarded by
// mu; per-entry reference counts are managed atomically so Return never
// takes mu. Borrow takes mu only for its bucket lookup.
type Cache struct {
	mu sync.Mutex

	capacity     int
	maxEntrySize uint32
	timeoutTicks uint64

	buckets     []*entry
	bucketCount int

	listHead *entry
	listTail *entry
	count    int

	nextHandle uint64

	// sweepIntervalOverride, when nonzero, is the period RunSweeper should
	// switch to on its next tick. Set via SetSweepInterval; read outside
	// mu since RunSweeper's loop never touches the structural fields.
	sweepIntervalOverride atomic.Int64

	clock           Clock
	alloc           Allocator
	metrics         Metrics
	logger          *slog.Logger
	tracer          trace.Tracer
	debugAssertions bool

	closed bool
}

// New constructs a Cache with the given capacity (maximum live entry
// count), maxEntrySize (maximum payload bytes per entry), and timeout
// (added to the clock's current tick at insertion to compute an entry's
// expiry).
//
// bucketCount is derived once, here, from a fixed memory budget rather
// than from capacity: floor((headerPageSize - sizeof(Cache header)) /
// sizeof(bucket slot)), mirroring the original design's "entire Cache
// header plus bucket array fits in one page" rule. Tests that want a
// deliberately small bucket table (to exercise chain collisions) can
// override the budget with WithHeaderPageSize.
func New(capacity int, maxEntrySize uint32, timeout time.Duration, opts ...Option) (*Cache, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if maxEntrySize == 0 {
		return nil, ErrInvalidMaxEntrySize
	}

	cfg := defaultCacheConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	bucketCount := computeBucketCount(cfg.headerPageSize)
	if bucketCount <= 0 {
		bucketCount = 1
	}

	// Header allocation: in the original this is the single non-pageable
	// page holding the Cache struct and its bucket array. Go's GC heap has
	// no equivalent failure mode under normal operation, but the Allocator
	// seam is exercised here so a budget-limited test allocator can still
	// force ErrOutOfMemory deterministically.
	if _, err := cfg.alloc.Alloc(int(unsafe.Sizeof(Cache{})) + bucketCount*int(unsafe.Sizeof(uintptr(0)))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}

	c := &Cache{
		capacity:        capacity,
		maxEntrySize:    maxEntrySize,
		timeoutTicks:    ticksFromDuration(timeout),
		buckets:         make([]*entry, bucketCount),
		bucketCount:     bucketCount,
		clock:           cfg.clock,
		alloc:           cfg.alloc,
		metrics:         cfg.metrics,
		logger:          cfg.logger,
		tracer:          cfg.tracer,
		debugAssertions: cfg.debugAssertions,
	}
	return c, nil
}

// computeBucketCount implements the §6 bucket budget formula. unsafe.Sizeof
// is used deliberately: it is the only way to express "however large the
// Cache header struct actually is" without hand-maintaining a constant that
// drifts out of sync with the struct definition.
func computeBucketCount(headerPageSize int) int {
	headerSize := int(unsafe.Sizeof(Cache{}))
	slotSize := int(unsafe.Sizeof(uintptr(0)))
	if headerPageSize <= headerSize {
		return 1
	}
	return (headerPageSize - headerSize) / slotSize
}

// Close performs a full drain (InvalidateAll) and marks the cache closed.
// Callers must guarantee no concurrent Add/Borrow/Invalidate* calls remain
// in flight; outstanding Borrowed values may still be Return()ed safely
// after Close.
func (c *Cache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.InvalidateAll()
	return nil
}

// Stats is a point-in-time snapshot of cache occupancy, useful for
// metrics exporters and the occupancy table printed by `metacachectl demo`.
type Stats struct {
	Count       int
	Capacity    int
	BucketCount int
	NextHandle  uint64
}

// Stats returns a snapshot of the cache's current occupancy.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Count:       c.count,
		Capacity:    c.capacity,
		BucketCount: c.bucketCount,
		NextHandle:  c.nextHandle,
	}
}

// mintHandle allocates the next handle value per §4.2: nextHandle+1,
// except that wrapping past math.MaxUint64 mints 1 rather than 0, since
// zero is reserved to mean "no entry". Caller must hold mu.
func (c *Cache) mintHandle() Handle {
	var next uint64
	if c.nextHandle == math.MaxUint64 {
		next = 1
	} else {
		next = c.nextHandle + 1
	}
	c.nextHandle = next
	return Handle(next)
}

// bucketIndex returns the bucket slot for a handle. Caller must hold mu
// (or only read bucketCount, which is immutable after New).
func (c *Cache) bucketIndex(h Handle) int {
	return int(uint64(h) % uint64(c.bucketCount))
}

// assertNoCollision walks the target bucket chain and panics if another
// live entry already carries handle h. Only called when debugAssertions is
// enabled; mirrors the original's #if DBG assertion. Caller must hold mu.
func (c *Cache) assertNoCollision(h Handle) {
	if !c.debugAssertions {
		return
	}
	idx := c.bucketIndex(h)
	for e := c.buckets[idx]; e != nil; e = e.bucketNext {
		if e.handle == h {
			panic(fmt.Sprintf("metacache: handle collision on wraparound: %d", h))
		}
	}
}

// listAppend appends e to the tail of the insertion-ordered list. Caller
// must hold mu.
func (c *Cache) listAppend(e *entry) {
	e.listPrev = c.listTail
	e.listNext = nil
	if c.listTail != nil {
		c.listTail.listNext = e
	} else {
		c.listHead = e
	}
	c.listTail = e
}

// listUnlink removes e from the insertion-ordered list. Caller must hold mu.
func (c *Cache) listUnlink(e *entry) {
	if e.listPrev != nil {
		e.listPrev.listNext = e.listNext
	} else {
		c.listHead = e.listNext
	}
	if e.listNext != nil {
		e.listNext.listPrev = e.listPrev
	} else {
		c.listTail = e.listPrev
	}
	e.listPrev = nil
	e.listNext = nil
}

// bucketInsert prepends e to its hash bucket. Caller must hold mu.
func (c *Cache) bucketInsert(e *entry) {
	idx := c.bucketIndex(e.handle)
	e.bucketNext = c.buckets[idx]
	c.buckets[idx] = e
}

// bucketRemove unlinks e from its hash bucket. Caller must hold mu.
func (c *Cache) bucketRemove(e *entry) {
	idx := c.bucketIndex(e.handle)
	prev := &c.buckets[idx]
	for cur := *prev; cur != nil; cur = cur.bucketNext {
		if cur == e {
			*prev = cur.bucketNext
			return
		}
		prev = &cur.bucketNext
	}
}

// freeEntry is called once an entry's refcount has reached zero, whether
// that happens synchronously inside Invalidate (cache's own reference) or
// asynchronously from a borrower's Return. It never touches the cache
// mutex: by the time refcount hits zero the entry is guaranteed to already
// be unlinked from both the bucket table and the insertion list.
func (c *Cache) freeEntry(e *entry) {
	e.blob = nil
}
