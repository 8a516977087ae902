// Package prometheus provides a Prometheus-backed implementation of
// pkg/metacache's Metrics interface, grounded on dittofs's own
// pkg/metrics/prometheus package (same promauto-registered Vec pattern,
// with metric names prefixed metacache_*).
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/metacache/pkg/metacache"
)

// metacacheMetrics is the Prometheus implementation of metacache.Metrics.
type metacacheMetrics struct {
	addTotal        *prometheus.CounterVec
	addDuration     *prometheus.HistogramVec
	addBytes        prometheus.Histogram
	borrowTotal     *prometheus.CounterVec
	borrowDuration  prometheus.Histogram
	invalidateTotal *prometheus.CounterVec
	entryCount      prometheus.Gauge
	nextHandle      prometheus.Gauge
}

// NewMetacacheMetrics registers and returns a Prometheus-backed
// metacache.Metrics implementation on reg. Pass prometheus.DefaultRegisterer
// to publish on the default /metrics endpoint, or a private
// prometheus.NewRegistry() in tests that construct multiple caches and
// would otherwise collide on metric names.
func NewMetacacheMetrics(reg prometheus.Registerer) metacache.Metrics {
	return &metacacheMetrics{
		addTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "metacache_add_total",
				Help: "Total number of Add calls by outcome",
			},
			[]string{"outcome"}, // "accepted", "rejected"
		),
		addDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "metacache_add_duration_seconds",
				Help:    "Duration of Add calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		addBytes: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "metacache_add_bytes",
				Help:    "Distribution of blob sizes passed to Add",
				Buckets: []float64{64, 256, 1024, 4096, 16384, 65536, 262144},
			},
		),
		borrowTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "metacache_borrow_total",
				Help: "Total number of Borrow calls by outcome",
			},
			[]string{"outcome"}, // "hit", "miss"
		),
		borrowDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "metacache_borrow_duration_seconds",
				Help:    "Duration of Borrow calls",
				Buckets: prometheus.DefBuckets,
			},
		),
		invalidateTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "metacache_invalidate_entries_total",
				Help: "Total number of entries removed, by reason",
			},
			[]string{"reason"}, // "targeted", "expired", "drain"
		),
		entryCount: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "metacache_entries",
				Help: "Current number of live entries",
			},
		),
		nextHandle: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "metacache_next_handle",
				Help: "Current handle-allocator watermark",
			},
		),
	}
}

func (m *metacacheMetrics) ObserveAdd(accepted bool, size int, duration time.Duration) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	m.addTotal.WithLabelValues(outcome).Inc()
	m.addDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if accepted {
		m.addBytes.Observe(float64(size))
	}
}

func (m *metacacheMetrics) ObserveBorrow(hit bool, duration time.Duration) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.borrowTotal.WithLabelValues(outcome).Inc()
	m.borrowDuration.Observe(duration.Seconds())
}

func (m *metacacheMetrics) ObserveInvalidate(reason string, count int) {
	m.invalidateTotal.WithLabelValues(reason).Add(float64(count))
}

func (m *metacacheMetrics) RecordEntryCount(n int) {
	m.entryCount.Set(float64(n))
}

func (m *metacacheMetrics) RecordNextHandle(h uint64) {
	m.nextHandle.Set(float64(h))
}
