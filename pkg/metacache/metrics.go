package metacache

import "time"

// Metrics is the observability sink for cache operations. Implementations
// can forward these to Prometheus, StatsD, or an in-memory counter for
// tests; a nil Metrics is never passed to user code — NoopMetrics is used
// when none is configured.
//
// See pkg/metrics/prometheus for a Prometheus-backed implementation.
type Metrics interface {
	// ObserveAdd records the outcome of an Add call.
	ObserveAdd(accepted bool, size int, duration time.Duration)

	// ObserveBorrow records the outcome of a Borrow call.
	ObserveBorrow(hit bool, duration time.Duration)

	// ObserveInvalidate records how many entries a targeted invalidation,
	// expiry sweep, or full drain removed. reason is one of "targeted",
	// "expired", or "drain".
	ObserveInvalidate(reason string, count int)

	// RecordEntryCount reports the current number of live entries.
	RecordEntryCount(n int)

	// RecordNextHandle reports the current handle-allocator watermark, so
	// operators can see wraparound approaching.
	RecordNextHandle(h uint64)
}

// NoopMetrics discards all observations. It is the default Metrics
// implementation.
type NoopMetrics struct{}

func (NoopMetrics) ObserveAdd(accepted bool, size int, duration time.Duration) {}
func (NoopMetrics) ObserveBorrow(hit bool, duration time.Duration)             {}
func (NoopMetrics) ObserveInvalidate(reason string, count int)                {}
func (NoopMetrics) RecordEntryCount(n int)                                    {}
func (NoopMetrics) RecordNextHandle(h uint64)                                 {}
