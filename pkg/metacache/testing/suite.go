// Package testing provides a reusable conformance suite for implementations
// of pkg/metacache's contract. It mirrors the structure of dittofs's own
// pkg/cache/testing package: a CacheTestSuite with one Run*Tests method per
// concern, meant to be invoked from an in-package _test.go file so failures
// report at the call site.
package testing

import (
	"context"
	"testing"
	"time"

	"github.com/marmos91/metacache/pkg/metacache"
)

// CacheTestSuite runs the invariants, round-trip properties, boundary
// behaviors, and end-to-end scenarios from the metacache specification
// against a Cache built by NewCache. Tests construct their own Cache (with
// whatever options they need, e.g. a ManualClock) rather than the suite
// owning construction, since several scenarios need control over the
// clock or a tiny capacity.
type CacheTestSuite struct {
	// NewCache builds a fresh Cache for one subtest. Implementations
	// should return a cache with debug assertions enabled.
	NewCache func(t *testing.T) *metacache.Cache
}

// testContext returns a context for the round-trip suite's *Ctx subtests
// (AddCtx/BorrowCtx/InvalidateExpiredCtx). The subtests are synchronous and
// complete well within the timeout, so the context is never explicitly
// cancelled; it exists only to give the tracer something to attach a span
// to.
func testContext() context.Context {
	ctx, _ := context.WithTimeout(context.Background(), 30*time.Second)
	return ctx
}

// RunAll runs every Run*Tests method. Call this from a single top-level
// test function, e.g.:
//
//	func TestConformance(t *testing.T) {
//	    (&testing.CacheTestSuite{NewCache: newTestCache}).RunAll(t)
//	}
func (s *CacheTestSuite) RunAll(t *testing.T) {
	t.Run("Invariants", s.RunInvariantTests)
	t.Run("RoundTrips", s.RunRoundTripTests)
	t.Run("Boundaries", s.RunBoundaryTests)
	t.Run("Scenarios", s.RunScenarioTests)
}
