package metacache

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// AddCtx behaves like Add but opens a span (when the cache was constructed
// with WithTracer) recording the payload size and whether the insertion
// was accepted. Add itself stays context-free, matching the original
// design's signature; AddCtx is the ambient-observability entry point a
// service built on top of Cache is expected to use.
func (c *Cache) AddCtx(ctx context.Context, blob []byte) Handle {
	ctx, span := c.tracer.Start(ctx, "metacache.Add", trace.WithAttributes(
		attribute.Int("metacache.size", len(blob)),
	))
	defer span.End()
	_ = ctx

	h := c.Add(blob)
	span.SetAttributes(attribute.Bool("metacache.accepted", h != 0))
	if h == 0 {
		span.SetStatus(codes.Error, "rejected")
	}
	return h
}

// BorrowCtx behaves like Borrow but opens a span recording the requested
// handle and whether it was a hit.
func (c *Cache) BorrowCtx(ctx context.Context, h Handle) *Borrowed {
	ctx, span := c.tracer.Start(ctx, "metacache.Borrow", trace.WithAttributes(
		attribute.Int64("metacache.handle", int64(h)),
	))
	defer span.End()
	_ = ctx

	b := c.Borrow(h)
	span.SetAttributes(attribute.Bool("metacache.hit", b != nil))
	if b == nil {
		span.SetStatus(codes.Error, "miss")
	}
	return b
}

// InvalidateExpiredCtx behaves like InvalidateExpired but opens a single
// span covering the whole sweep.
func (c *Cache) InvalidateExpiredCtx(ctx context.Context) {
	_, span := c.tracer.Start(ctx, "metacache.InvalidateExpired")
	defer span.End()
	c.InvalidateExpired()
}
