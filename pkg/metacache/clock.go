package metacache

import (
	"sync/atomic"
	"time"
)

// Clock is the external monotonic tick source the cache uses to compute
// and check entry expiration. Ticks must never decrease. The unit is
// implementation-defined; New converts its timeout to nanoseconds whatever
// Clock is in use, so a Clock with another unit needs a timeout whose
// nanosecond count equals the wanted number of ticks.
type Clock interface {
	// Ticks returns the current tick value. Must be safe for concurrent use.
	Ticks() uint64
}

// systemClock is the default Clock: nanoseconds elapsed since the clock
// was created, derived from the monotonic reading time.Now() carries.
type systemClock struct {
	start time.Time
}

func newSystemClock() *systemClock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Ticks() uint64 {
	d := time.Since(c.start)
	if d < 0 {
		return 0
	}
	return uint64(d.Nanoseconds())
}

// ticksFromDuration converts a time.Duration timeout into the tick unit
// used by the default systemClock (nanoseconds). Callers supplying a
// custom Clock with a different unit should use WithClock together with
// a pre-converted timeout.
func ticksFromDuration(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d.Nanoseconds())
}

// ManualClock is a Clock whose value advances only when Advance is called.
// It is exported for use by callers that want deterministic expiry in
// their own tests without depending on pkg/metacache/testing.
type ManualClock struct {
	ticks atomic.Uint64
}

// NewManualClock returns a ManualClock starting at tick 0.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Ticks implements Clock.
func (c *ManualClock) Ticks() uint64 {
	return c.ticks.Load()
}

// Advance moves the clock forward by delta ticks and returns the new value.
func (c *ManualClock) Advance(delta uint64) uint64 {
	return c.ticks.Add(delta)
}

// Set pins the clock to an absolute tick value. Used to move straight to
// a chosen expiry boundary and exercise "already expired" edge cases
// precisely.
func (c *ManualClock) Set(value uint64) {
	c.ticks.Store(value)
}
