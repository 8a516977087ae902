package metacache

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// defaultHeaderPageSize is the page size used to derive bucketCount when
// the caller does not override it via WithHeaderPageSize. 4096 is the
// common page size across the architectures Go targets.
const defaultHeaderPageSize = 4096

// Option configures a Cache at construction time.
type Option func(*cacheConfig)

type cacheConfig struct {
	clock           Clock
	alloc           Allocator
	metrics         Metrics
	logger          *slog.Logger
	tracer          trace.Tracer
	headerPageSize  int
	debugAssertions bool
}

func defaultCacheConfig() *cacheConfig {
	return &cacheConfig{
		clock:          newSystemClock(),
		alloc:          sliceAllocator{},
		metrics:        NoopMetrics{},
		logger:         slog.Default(),
		tracer:         noop.NewTracerProvider().Tracer("metacache"),
		headerPageSize: defaultHeaderPageSize,
	}
}

// WithClock overrides the cache's tick source. Used by tests that need
// deterministic expiry (see pkg/metacache/testing and ManualClock).
func WithClock(c Clock) Option {
	return func(cfg *cacheConfig) { cfg.clock = c }
}

// WithAllocator overrides the cache's memory allocator. Used by tests that
// simulate allocation failure.
func WithAllocator(a Allocator) Option {
	return func(cfg *cacheConfig) { cfg.alloc = a }
}

// WithMetrics wires an observability sink. Defaults to NoopMetrics.
func WithMetrics(m Metrics) Option {
	return func(cfg *cacheConfig) { cfg.metrics = m }
}

// WithLogger overrides the structured logger used for sweeper, capacity-
// rejection, and allocation-failure diagnostics (a failed collision
// assertion panics rather than logging). Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(cfg *cacheConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithTracer wires an OpenTelemetry tracer. Defaults to a no-op tracer.
// Only AddCtx, BorrowCtx and InvalidateExpiredCtx open spans; the plain
// Add/Borrow/Invalidate* methods never use the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(cfg *cacheConfig) {
		if t != nil {
			cfg.tracer = t
		}
	}
}

// WithHeaderPageSize overrides the page-size budget used to compute
// bucketCount (see New). Primarily useful in tests that want a small
// bucket table to exercise bucket-chain collisions.
func WithHeaderPageSize(bytes int) Option {
	return func(cfg *cacheConfig) { cfg.headerPageSize = bytes }
}

// WithDebugAssertions enables the handle-collision assertion described in
// §4.2: after minting a handle, the target bucket chain is walked to
// confirm no existing entry already carries it. Off by default because it
// turns an assumed-impossible event into a panic; the test harness turns
// it on.
func WithDebugAssertions(enabled bool) Option {
	return func(cfg *cacheConfig) { cfg.debugAssertions = enabled }
}
