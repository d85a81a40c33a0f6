package timespec

import (
	"math"
	"time"
)

// Timeout is a duration expressed in whole milliseconds. It serializes as a
// plain integer.
type Timeout uint64

// DefaultTimeout is one minute.
const DefaultTimeout Timeout = 60_000

// NewTimeout builds a Timeout from milliseconds.
func NewTimeout(millis uint64) Timeout { return Timeout(millis) }

// Millis returns the timeout in milliseconds.
func (t Timeout) Millis() uint64 { return uint64(t) }

// Timeout converts the Period to milliseconds, saturating at the maximum
// representable value when the seconds component would overflow. The
// conversion is deliberately lossy but infallible: sub-millisecond precision
// is dropped, and a saturated value is effectively forever.
func (p Period) Timeout() Timeout {
	if p.secs >= math.MaxUint64/1_000 {
		return Timeout(math.MaxUint64)
	}
	return Timeout(p.secs*1_000 + uint64(p.nanos)/1_000_000)
}

// TimeoutFromDuration converts a time.Duration, clamping negatives to zero.
func TimeoutFromDuration(d time.Duration) Timeout {
	if d < 0 {
		return 0
	}
	return Timeout(uint64(d / time.Millisecond))
}

// Duration converts the Timeout to a time.Duration, saturating at the
// maximum representable duration.
func (t Timeout) Duration() time.Duration {
	if uint64(t) > uint64(math.MaxInt64/time.Millisecond) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(t) * time.Millisecond
}
