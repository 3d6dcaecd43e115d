/**
 * @description
 * Virtual clock for the fixed-deposit service. All business logic reads time
 * through the Clock interface instead of calling time.Now() directly, so the
 * batch jobs (interest accrual, maturity processing, statement generation) can
 * be driven through months of logical time in seconds during testing.
 *
 * Two implementations share the interface:
 * - SystemClock mirrors wall-clock time exactly. Production.
 * - AdjustableClock adds a mutable offset to wall-clock time. The offset can be
 *   set, advanced (forwards or backwards) and reset through the admin surface.
 *
 * The adjustable clock RUNS. After SetAbsolute(T) it is not pinned to T; it
 * keeps advancing from T as real time passes. Callers must never assume two
 * consecutive Now() calls return the same value.
 */

package clock

import (
	"sync/atomic"
	"time"
)

// DateAnchorHour is the hour-of-day a bare calendar date is anchored to when
// set through SetDate. Noon keeps the logical date stable against small
// backward adjustments and timezone rounding at the day boundary.
const DateAnchorHour = 12

// Clock yields the service's logical time.
type Clock interface {
	// Now returns the current logical point in time.
	Now() time.Time
	// Today returns the current logical civil date, at midnight in the
	// clock's reference time zone.
	Today() time.Time
}

// SystemClock is the pass-through production clock: the offset is permanently zero.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock creates a SystemClock in the given reference zone (UTC if nil).
func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return &SystemClock{loc: loc}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *SystemClock) Today() time.Time {
	return truncateToDate(c.Now())
}

// AdjustableClock computes logical time as wall-clock time plus a signed
// offset. The offset is the only mutable state and is stored atomically: the
// scheduler tick and admin request handlers read and mutate it concurrently,
// and a reader must observe either the pre- or post-mutation offset, never a
// torn value.
//
// The offset is process-local. It is never persisted and resets to zero on
// restart.
type AdjustableClock struct {
	loc         *time.Location
	offsetNanos atomic.Int64
}

// NewAdjustableClock creates an AdjustableClock with zero offset in the given
// reference zone (UTC if nil).
func NewAdjustableClock(loc *time.Location) *AdjustableClock {
	if loc == nil {
		loc = time.UTC
	}
	return &AdjustableClock{loc: loc}
}

func (c *AdjustableClock) Now() time.Time {
	offset := time.Duration(c.offsetNanos.Load())
	return time.Now().Add(offset).In(c.loc)
}

func (c *AdjustableClock) Today() time.Time {
	return truncateToDate(c.Now())
}

// Offset returns the current logical offset from wall-clock time.
func (c *AdjustableClock) Offset() time.Duration {
	return time.Duration(c.offsetNanos.Load())
}

// SetAbsolute recomputes the offset so that logical time equals t at the
// moment of the call. Logical time continues to advance from t afterwards.
func (c *AdjustableClock) SetAbsolute(t time.Time) {
	c.offsetNanos.Store(int64(time.Until(t)))
}

// SetDate jumps logical time to the given calendar date, anchored at
// DateAnchorHour in the clock's reference zone. Only the year, month and day
// of d are used.
func (c *AdjustableClock) SetDate(d time.Time) {
	anchored := time.Date(d.Year(), d.Month(), d.Day(), DateAnchorHour, 0, 0, 0, c.loc)
	c.SetAbsolute(anchored)
}

// Advance shifts the offset by delta. Negative deltas move logical time
// backwards.
func (c *AdjustableClock) Advance(delta time.Duration) {
	c.offsetNanos.Add(int64(delta))
}

// Reset zeroes the offset; logical time snaps back to wall-clock time.
func (c *AdjustableClock) Reset() {
	c.offsetNanos.Store(0)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
