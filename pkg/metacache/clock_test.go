package metacache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManualClockAdvanceAndSet(t *testing.T) {
	c := NewManualClock()
	require.Zero(t, c.Ticks(), "initial Ticks()")

	require.Equal(t, uint64(10), c.Advance(10))
	require.Equal(t, uint64(10), c.Ticks(), "Ticks() after Advance")

	c.Set(100)
	require.Equal(t, uint64(100), c.Ticks(), "Ticks() after Set(100)")
}

func TestTicksFromDuration(t *testing.T) {
	require.Zero(t, ticksFromDuration(0))
	require.Zero(t, ticksFromDuration(-1), "ticksFromDuration(negative)")
}
