package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemClock_TracksWallClock(t *testing.T) {
	c := NewSystemClock(time.UTC)

	diff := c.Now().Sub(time.Now())
	assert.Less(t, diff.Abs(), 100*time.Millisecond)
}

func TestAdjustableClock_KeepsRunningAfterSetAbsolute(t *testing.T) {
	c := NewAdjustableClock(time.UTC)
	target := time.Date(2030, time.June, 15, 9, 30, 0, 0, time.UTC)
	c.SetAbsolute(target)

	first := c.Now()
	time.Sleep(50 * time.Millisecond)
	second := c.Now()

	elapsed := second.Sub(first)
	require.True(t, second.After(first), "clock must keep advancing after SetAbsolute")
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
	assert.Less(t, elapsed, 1*time.Second)
}

func TestAdjustableClock_SetAbsoluteOffsetCorrectness(t *testing.T) {
	c := NewAdjustableClock(time.UTC)
	target := time.Date(2031, time.January, 2, 3, 4, 5, 0, time.UTC)
	c.SetAbsolute(target)

	drift := c.Now().Sub(target)
	assert.GreaterOrEqual(t, drift, time.Duration(0))
	assert.Less(t, drift, time.Second)
}

func TestAdjustableClock_SetDateAnchorsAtNoon(t *testing.T) {
	c := NewAdjustableClock(time.UTC)
	c.SetDate(time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC))

	today := c.Today()
	assert.Equal(t, 2027, today.Year())
	assert.Equal(t, time.March, today.Month())
	assert.Equal(t, 1, today.Day())
	assert.Equal(t, DateAnchorHour, c.Now().Hour())
}

func TestAdjustableClock_AdvanceIsRelative(t *testing.T) {
	c := NewAdjustableClock(time.UTC)
	before := c.Now()
	c.Advance(48 * time.Hour)

	diff := c.Now().Sub(before)
	assert.GreaterOrEqual(t, diff, 48*time.Hour)
	assert.Less(t, diff, 48*time.Hour+time.Second)

	// Negative deltas move logical time backwards.
	c.Advance(-24 * time.Hour)
	diff = c.Now().Sub(before)
	assert.GreaterOrEqual(t, diff, 24*time.Hour)
	assert.Less(t, diff, 24*time.Hour+time.Second)
}

func TestAdjustableClock_ResetSnapsBackToWallClock(t *testing.T) {
	c := NewAdjustableClock(time.UTC)
	c.Advance(1000 * time.Hour)
	c.Reset()

	assert.Equal(t, time.Duration(0), c.Offset())
	diff := c.Now().Sub(time.Now())
	assert.Less(t, diff.Abs(), 100*time.Millisecond)
}

func TestAdjustableClock_ConcurrentMutationAndReads(t *testing.T) {
	c := NewAdjustableClock(time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Advance(time.Hour)
				c.Advance(-time.Hour)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = c.Now()
				_ = c.Today()
			}
		}()
	}
	wg.Wait()

	// All advances cancel out.
	assert.Equal(t, time.Duration(0), c.Offset())
}
