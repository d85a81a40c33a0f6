// Package timespec implements the Period and Instant value types: elapsed
// durations and fixed-offset points in time that convert between a wide
// human-friendly text grammar and one canonical spelling.
//
// Both types are immutable values. Parsing is the only fallible construction
// path; formatting never fails and is idempotent, so parse(format(v)) == v
// for every value a formatter can produce.
package timespec

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Unit weights in whole seconds. A year is fixed at 365.25 days: the true
// solar year is about 365.242196 days, but human-scale periods read better
// without the seemingly random remainders the exact figure would introduce.
const (
	yearSecs   uint64 = 31_557_600
	weekSecs   uint64 = 604_800
	daySecs    uint64 = 86_400
	hourSecs   uint64 = 3_600
	minuteSecs uint64 = 60

	nanosPerSecond uint64 = 1_000_000_000
)

// Period is an elapsed duration held as non-negative whole seconds plus a
// sub-second remainder in nanoseconds, always below one second.
type Period struct {
	secs  uint64
	nanos uint32
}

// NewPeriod builds a Period from whole seconds and nanoseconds. Nanoseconds
// beyond one second carry into the seconds component; if that carry would
// overflow, seconds saturate at the maximum representable value.
func NewPeriod(secs, nanos uint64) Period {
	carry := nanos / nanosPerSecond
	if secs > math.MaxUint64-carry {
		secs = math.MaxUint64
	} else {
		secs += carry
	}
	return Period{secs: secs, nanos: uint32(nanos % nanosPerSecond)}
}

// Seconds returns the whole-seconds component.
func (p Period) Seconds() uint64 { return p.secs }

// Nanoseconds returns the sub-second remainder, in [0, 1e9).
func (p Period) Nanoseconds() uint32 { return p.nanos }

// IsZero reports whether the Period is exactly zero.
func (p Period) IsZero() bool { return p.secs == 0 && p.nanos == 0 }

// Compare orders two Periods by elapsed time.
func (p Period) Compare(other Period) int {
	switch {
	case p.secs != other.secs:
		if p.secs < other.secs {
			return -1
		}
		return 1
	case p.nanos != other.nanos:
		if p.nanos < other.nanos {
			return -1
		}
		return 1
	}
	return 0
}

// PeriodFromDuration converts a time.Duration. Negative durations fail:
// a Period is never negative.
func PeriodFromDuration(d time.Duration) (Period, error) {
	if d < 0 {
		return Period{}, invalidSpec("negative duration %v cannot be a period", d)
	}
	return Period{secs: uint64(d / time.Second), nanos: uint32(d % time.Second)}, nil
}

// Duration converts the Period to a time.Duration. Periods beyond the int64
// nanosecond range fail rather than silently truncating.
func (p Period) Duration() (time.Duration, error) {
	const maxSecs = math.MaxInt64 / int64(nanosPerSecond)
	if p.secs > uint64(maxSecs) ||
		(p.secs == uint64(maxSecs) && int64(p.nanos) > math.MaxInt64-maxSecs*int64(nanosPerSecond)) {
		return 0, invalidSpec("period %s overflows a duration", p)
	}
	return time.Duration(p.secs)*time.Second + time.Duration(p.nanos), nil
}

// The period grammar: units in strictly descending magnitude, each optional,
// with singular/plural synonym suffixes, case-insensitive, arbitrary interior
// whitespace. Seconds come in exactly one of two forms: a decimal literal
// ("1.23s", "," also accepted), or an integer literal with optional explicit
// ms/us/ns terms. Mixing the two forms does not match.
const periodPattern = `(?i)^` +
	`(?:\s*(?P<y>\d+)\s*y(?:(?:ea)?rs?)?)?` +
	`(?:\s*(?P<w>\d+)\s*w(?:(?:ee)?ks?)?)?` +
	`(?:\s*(?P<d>\d+)\s*d(?:a?ys?)?)?` +
	`(?:\s*(?P<h>\d+)\s*h(?:(?:ou)?rs?)?)?` +
	`(?:\s*(?P<m>\d+)\s*m(?:in(?:ute)?s?)?)?` +
	`(?:` +
	`(?:\s*(?P<sman>\d+)?[.,](?P<sfra>\d+)\s*s(?:ec(?:ond)?s?)?)?` +
	`|` +
	`(?:\s*(?P<s>\d+)\s*s(?:ec(?:ond)?s?)?)?` +
	`(?:\s*(?P<ms>\d+)\s*(?:m|milli)s(?:ec(?:ond)?s?)?)?` +
	`(?:\s*(?P<us>\d+)\s*(?:u|μ|micro)s(?:ec(?:ond)?s?)?)?` +
	`(?:\s*(?P<ns>\d+)\s*(?:n|nano)s(?:ec(?:ond)?s?)?)?` +
	`)` +
	`\s*$`

var (
	periodOnce sync.Once
	periodRE   *regexp.Regexp
)

// periodMatcher compiles the period grammar once per process; the compiled
// matcher is read-only and safe for concurrent use.
func periodMatcher() *regexp.Regexp {
	periodOnce.Do(func() {
		periodRE = regexp.MustCompile(periodPattern)
	})
	return periodRE
}

// ParsePeriod parses a human-readable period specification such as
// "1y2w3d4h5m6.789s" or "600ms25us100ns". An input matching no unit at all
// is rejected, as is any overflow while summing the weighted units.
func ParsePeriod(s string) (Period, error) {
	re := periodMatcher()
	match := re.FindStringSubmatch(s)
	if match == nil {
		return Period{}, invalidSpec("failed to find period specification in %q", s)
	}

	field := func(name string) string {
		return match[re.SubexpIndex(name)]
	}

	present := false
	for _, name := range []string{"y", "w", "d", "h", "m", "sman", "sfra", "s", "ms", "us", "ns"} {
		if field(name) != "" {
			present = true
			break
		}
	}
	if !present {
		return Period{}, invalidSpec("failed to find period specification in %q", s)
	}

	var secs uint64
	for _, unit := range []struct {
		name   string
		label  string
		weight uint64
	}{
		{"y", "year(s)", yearSecs},
		{"w", "week(s)", weekSecs},
		{"d", "day(s)", daySecs},
		{"h", "hour(s)", hourSecs},
		{"m", "minute(s)", minuteSecs},
	} {
		raw := field(unit.name)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Period{}, invalidSpec("invalid %s in period %q: %v", unit.label, s, err)
		}
		weighted, ok := mulUint64(n, unit.weight)
		if !ok {
			return Period{}, invalidSpec("%s value in period %q overflows", unit.label, s)
		}
		secs, ok = addUint64(secs, weighted)
		if !ok {
			return Period{}, invalidSpec("%s value in period %q overflows", unit.label, s)
		}
	}

	secondsRaw := field("s")
	if secondsRaw == "" {
		secondsRaw = field("sman")
	}
	if secondsRaw != "" {
		n, err := strconv.ParseUint(secondsRaw, 10, 64)
		if err != nil {
			return Period{}, invalidSpec("invalid seconds in period %q: %v", s, err)
		}
		var ok bool
		secs, ok = addUint64(secs, n)
		if !ok {
			return Period{}, invalidSpec("seconds value in period %q overflows", s)
		}
	}

	var nanos uint64
	if frac := field("sfra"); frac != "" {
		// ".5" means 500ms: right-pad to 9 digits; anything finer than a
		// nanosecond is truncated, not rounded.
		if len(frac) > 9 {
			frac = frac[:9]
		} else {
			frac += strings.Repeat("0", 9-len(frac))
		}
		n, err := strconv.ParseUint(frac, 10, 64)
		if err != nil {
			return Period{}, invalidSpec("invalid fractional seconds in period %q: %v", s, err)
		}
		nanos = n
	}
	for _, sub := range []struct {
		name   string
		label  string
		weight uint64
	}{
		{"ms", "milliseconds", 1_000_000},
		{"us", "microseconds", 1_000},
		{"ns", "nanoseconds", 1},
	} {
		raw := field(sub.name)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Period{}, invalidSpec("invalid %s in period %q: %v", sub.label, s, err)
		}
		weighted, ok := mulUint64(n, sub.weight)
		if !ok {
			return Period{}, invalidSpec("%s value in period %q overflows", sub.label, s)
		}
		nanos, ok = addUint64(nanos, weighted)
		if !ok {
			return Period{}, invalidSpec("%s value in period %q overflows", sub.label, s)
		}
	}

	// Nanoseconds beyond one second carry into seconds, so a period may be
	// given purely in ms/us/ns that exceed a second.
	carry, ok := addUint64(secs, nanos/nanosPerSecond)
	if !ok {
		return Period{}, invalidSpec("sub-second value in period %q overflows", s)
	}
	return Period{secs: carry, nanos: uint32(nanos % nanosPerSecond)}, nil
}

// String renders the canonical form: descending non-zero units with
// single-letter suffixes, then either a fractional-seconds suffix (when whole
// seconds mix with millisecond-scale data, or ms and ns data are both
// present) or the finest single sub-second unit holding data. A zero Period
// is "0s".
func (p Period) String() string {
	var b strings.Builder
	rem := p.secs
	for _, unit := range []struct {
		suffix string
		weight uint64
	}{
		{"y", yearSecs},
		{"w", weekSecs},
		{"d", daySecs},
		{"h", hourSecs},
		{"m", minuteSecs},
	} {
		if n := rem / unit.weight; n > 0 {
			b.WriteString(strconv.FormatUint(n, 10))
			b.WriteString(unit.suffix)
		}
		rem %= unit.weight
	}

	nsecs := uint64(p.nanos)
	isNS := nsecs%1_000 > 0
	isUS := nsecs/1_000%1_000 > 0
	isMS := nsecs/1_000_000 > 0
	switch {
	case (rem > 0 && isMS) || (isMS && isNS):
		frac := strings.TrimRight(strconv.FormatUint(nanosPerSecond+nsecs, 10)[1:], "0")
		b.WriteString(strconv.FormatUint(rem, 10))
		b.WriteString(".")
		b.WriteString(frac)
		b.WriteString("s")
	case nsecs > 0 || rem > 0:
		if rem > 0 {
			b.WriteString(strconv.FormatUint(rem, 10))
			b.WriteString("s")
		}
		switch {
		case isNS:
			b.WriteString(strconv.FormatUint(nsecs, 10))
			b.WriteString("ns")
		case isUS:
			b.WriteString(strconv.FormatUint(nsecs/1_000, 10))
			b.WriteString("us")
		case isMS:
			b.WriteString(strconv.FormatUint(nsecs/1_000_000, 10))
			b.WriteString("ms")
		}
	default:
		if b.Len() == 0 {
			return "0s"
		}
	}
	return b.String()
}

func mulUint64(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return a * b, true
	}
	if a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

func addUint64(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}
