package metacache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marmos91/metacache/pkg/metacache"
	cachetesting "github.com/marmos91/metacache/pkg/metacache/testing"
)

func newTestCache(t *testing.T) *metacache.Cache {
	t.Helper()
	c, err := metacache.New(16, 4096, time.Hour, metacache.WithDebugAssertions(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestConformance(t *testing.T) {
	(&cachetesting.CacheTestSuite{NewCache: newTestCache}).RunAll(t)
}

func TestNewRejectsInvalidCapacity(t *testing.T) {
	_, err := metacache.New(0, 4096, time.Minute)
	require.ErrorIs(t, err, metacache.ErrInvalidCapacity)

	_, err = metacache.New(-1, 4096, time.Minute)
	require.ErrorIs(t, err, metacache.ErrInvalidCapacity)
}

func TestNewRejectsInvalidMaxEntrySize(t *testing.T) {
	_, err := metacache.New(4, 0, time.Minute)
	require.ErrorIs(t, err, metacache.ErrInvalidMaxEntrySize)
}

type failingAllocator struct{}

func (failingAllocator) Alloc(n int) ([]byte, error) {
	return nil, errors.New("simulated allocator failure")
}

func TestNewPropagatesAllocatorFailure(t *testing.T) {
	_, err := metacache.New(4, 4096, time.Minute, metacache.WithAllocator(failingAllocator{}))
	require.ErrorIs(t, err, metacache.ErrOutOfMemory)
}

func TestAddFailsAfterAllocatorStartsFailing(t *testing.T) {
	alloc := &toggleAllocator{}
	c, err := metacache.New(4, 4096, time.Minute, metacache.WithAllocator(alloc))
	require.NoError(t, err)
	defer c.Close()

	alloc.fail = true
	require.Zero(t, c.Add([]byte("data")), "Add() should return 0 when the allocator fails")
}

type toggleAllocator struct {
	fail bool
}

func (a *toggleAllocator) Alloc(n int) ([]byte, error) {
	if a.fail {
		return nil, errors.New("simulated allocator failure")
	}
	return make([]byte, n), nil
}

func TestCloseDrainsAndIsIdempotent(t *testing.T) {
	c, err := metacache.New(4, 4096, time.Hour)
	require.NoError(t, err)

	h := c.Add([]byte("data"))
	require.NotZero(t, h, "Add() unexpectedly rejected")

	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "second Close() should also succeed")

	b := c.Borrow(h)
	if b != nil {
		b.Return()
	}
	require.Nil(t, b, "Borrow() should miss after Close()")
}

func TestAddRejectsAfterClose(t *testing.T) {
	c, err := metacache.New(4, 4096, time.Hour)
	require.NoError(t, err)
	_ = c.Close()

	require.Zero(t, c.Add([]byte("data")), "Add() after Close() should return 0")
}

func TestStatsReflectsOccupancy(t *testing.T) {
	c := newTestCache(t)

	require.Zero(t, c.Stats().Count, "Stats().Count on empty cache")

	h1 := c.Add([]byte("a"))
	h2 := c.Add([]byte("b"))
	require.NotZero(t, h1)
	require.NotZero(t, h2)

	stats := c.Stats()
	require.Equal(t, 2, stats.Count)
	require.Equal(t, 16, stats.Capacity)
	require.Positive(t, stats.BucketCount)
	require.Equal(t, uint64(2), stats.NextHandle)
}
