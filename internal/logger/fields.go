package logger

import "log/slog"

// Standard field keys, narrowed from the protocol-agnostic set down to
// what metacachectl and the cache's own logging sites actually emit.
const (
	KeyTraceID   = "trace_id"
	KeySpanID    = "span_id"
	KeyOperation = "operation" // Add, Borrow, Invalidate, InvalidateExpired, InvalidateAll

	KeyHandle   = "handle"
	KeySize     = "size"
	KeyCapacity = "capacity"
	KeyCount    = "count"
	KeyReason   = "reason" // targeted, expired, drain

	KeyDurationMs = "duration_ms"
	KeyError      = "error"
)

func Handle(h uint64) slog.Attr     { return slog.Uint64(KeyHandle, h) }
func Size(n int) slog.Attr          { return slog.Int(KeySize, n) }
func Capacity(n int) slog.Attr      { return slog.Int(KeyCapacity, n) }
func Count(n int) slog.Attr         { return slog.Int(KeyCount, n) }
func Reason(r string) slog.Attr     { return slog.String(KeyReason, r) }
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
