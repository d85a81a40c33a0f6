package timespec

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Instant is a point in time: a civil timestamp paired with a fixed UTC
// offset in whole minutes. Two Instants denote the same moment, and compare
// equal, when their absolute times agree, regardless of the offset used to
// express them. The second field may hold 60 to carry a leap second.
//
// There is deliberately no "now" constructor: instants are always supplied
// externally, so everything built on them stays deterministic.
type Instant struct {
	year   int
	month  int
	day    int
	hour   int
	minute int
	second int
	nanos  uint32
	offset int // minutes east of UTC
}

// The canonical text spells years with exactly four digits, so instants are
// bounded to the civil years 0000 through 9999.
const (
	minEpochSecs = -62_167_219_200 // 0000-01-01T00:00:00Z
	maxEpochSecs = 253_402_300_799 // 9999-12-31T23:59:59Z
)

// InstantFromUnix builds an Instant from whole seconds since the Unix epoch,
// at offset +00:00 with no sub-second fraction. This is the only infallible
// construction path; seconds outside the representable civil years clamp to
// the nearest bound.
func InstantFromUnix(secs int64) Instant {
	if secs < minEpochSecs {
		secs = minEpochSecs
	} else if secs > maxEpochSecs {
		secs = maxEpochSecs
	}
	t := time.Unix(secs, 0).UTC()
	return instantFromTimeAt(t, 0)
}

// InstantFromTime converts a time.Time, keeping its zone's fixed offset.
func InstantFromTime(t time.Time) Instant {
	_, off := t.Zone()
	return instantFromTimeAt(t, off/60)
}

func instantFromTimeAt(t time.Time, offsetMinutes int) Instant {
	return Instant{
		year:   t.Year(),
		month:  int(t.Month()),
		day:    t.Day(),
		hour:   t.Hour(),
		minute: t.Minute(),
		second: t.Second(),
		nanos:  uint32(t.Nanosecond()),
		offset: offsetMinutes,
	}
}

// Time converts the Instant to a time.Time in a fixed-offset zone. Go's time
// model has no second 60, so a leap second rolls into the following second;
// every other value converts exactly.
func (i Instant) Time() time.Time {
	zone := time.FixedZone("", i.offset*60)
	return time.Date(i.year, time.Month(i.month), i.day, i.hour, i.minute, i.second, int(i.nanos), zone)
}

// Unix returns whole seconds since the Unix epoch for the absolute moment.
// A leap second reports the same epoch second as the 59th second it extends.
func (i Instant) Unix() int64 {
	secs, _ := i.epochKey()
	return secs
}

// OffsetMinutes returns the fixed UTC offset the Instant was expressed in.
func (i Instant) OffsetMinutes() int { return i.offset }

// IsLeapSecond reports whether the Instant carries a second value of 60.
func (i Instant) IsLeapSecond() bool { return i.second == 60 }

// epochKey returns an order-preserving (seconds, nanoseconds) key for the
// absolute moment. A leap second is keyed within its 59th second with a
// nanosecond component >= 1e9, so it sorts after 23:59:59.999999999 and
// before the next minute.
func (i Instant) epochKey() (int64, int64) {
	sec := i.second
	extra := int64(i.nanos)
	if sec == 60 {
		sec = 59
		extra += int64(nanosPerSecond)
	}
	zone := time.FixedZone("", i.offset*60)
	t := time.Date(i.year, time.Month(i.month), i.day, i.hour, i.minute, sec, 0, zone)
	return t.Unix(), extra
}

// Equal reports whether both Instants denote the same absolute moment.
func (i Instant) Equal(other Instant) bool { return i.Compare(other) == 0 }

// Before reports whether i is strictly earlier than other.
func (i Instant) Before(other Instant) bool { return i.Compare(other) < 0 }

// After reports whether i is strictly later than other.
func (i Instant) After(other Instant) bool { return i.Compare(other) > 0 }

// Compare orders two Instants by absolute moment, independent of offset.
func (i Instant) Compare(other Instant) int {
	as, an := i.epochKey()
	bs, bn := other.epochKey()
	switch {
	case as != bs:
		if as < bs {
			return -1
		}
		return 1
	case an != bn:
		if an < bn {
			return -1
		}
		return 1
	}
	return 0
}

// String renders the canonical fixed-offset timestamp, e.g.
// "2018-10-11T03:23:38+00:00". A non-zero fraction prints with 3, 6 or 9
// digits, whichever smallest group covers the data.
func (i Instant) String() string {
	var b strings.Builder
	b.Grow(35)
	writePadded(&b, i.year, 4)
	b.WriteByte('-')
	writePadded(&b, i.month, 2)
	b.WriteByte('-')
	writePadded(&b, i.day, 2)
	b.WriteByte('T')
	writePadded(&b, i.hour, 2)
	b.WriteByte(':')
	writePadded(&b, i.minute, 2)
	b.WriteByte(':')
	writePadded(&b, i.second, 2)
	if i.nanos > 0 {
		b.WriteByte('.')
		switch {
		case i.nanos%1_000_000 == 0:
			writePadded(&b, int(i.nanos/1_000_000), 3)
		case i.nanos%1_000 == 0:
			writePadded(&b, int(i.nanos/1_000), 6)
		default:
			writePadded(&b, int(i.nanos), 9)
		}
	}
	off := i.offset
	if off < 0 {
		b.WriteByte('-')
		off = -off
	} else {
		b.WriteByte('+')
	}
	writePadded(&b, off/60, 2)
	b.WriteByte(':')
	writePadded(&b, off%60, 2)
	return b.String()
}

func writePadded(b *strings.Builder, n, width int) {
	s := strconv.Itoa(n)
	for pad := width - len(s); pad > 0; pad-- {
		b.WriteByte('0')
	}
	b.WriteString(s)
}

// The flexible instant grammar: mandatory 4-digit year; optional two-digit
// month and day with optional '-' separators; an optional time section
// introduced by T/t or whitespace with optional ':' separators and an
// optional ./, fraction; an optional zone of Z/z or a signed HH[[:]MM]
// offset accepting the Unicode minus alongside the ASCII hyphen. Omitted
// month and day default to 1, omitted time fields to 0, a missing zone to
// UTC.
const instantPattern = `^\s*` +
	`(?P<Y>\d{4})` +
	`(?:-?(?P<M>0[1-9]|1[012])?(?:-?(?P<D>0[1-9]|[12][0-9]|3[01])?)?)?` +
	`(?:(?:[Tt]|\s+)` +
	`(?P<h>[01][0-9]|2[0-3])` +
	`(?::?(?P<m>[0-5][0-9])` +
	`(?::?(?P<s>[0-5][0-9]|60)` +
	`(?:[.,](?P<ss>\d+))?` +
	`)?)?)?` +
	`\s*` +
	`(?P<Z>[Zz]|(?P<Zsgn>[+\-−])(?P<Zhrs>\d{2})(?::?(?P<Zmin>\d{2}))?)?` +
	`\s*$`

var (
	instantOnce sync.Once
	instantRE   *regexp.Regexp
)

func instantMatcher() *regexp.Regexp {
	instantOnce.Do(func() {
		instantRE = regexp.MustCompile(instantPattern)
	})
	return instantRE
}

// ParseInstant parses a timestamp. Well-formed canonical input takes the
// strict path directly; anything else is matched against the flexible
// grammar, re-rendered into strict form and handed to the same strict parser,
// so all range checking lives in one place.
func ParseInstant(s string) (Instant, error) {
	if i, err := parseStrictInstant(s); err == nil {
		return i, nil
	}

	re := instantMatcher()
	match := re.FindStringSubmatch(s)
	if match == nil {
		return Instant{}, invalidSpec("failed to find timestamp in %q", s)
	}
	field := func(name string) string {
		return match[re.SubexpIndex(name)]
	}
	or := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	var b strings.Builder
	b.WriteString(field("Y"))
	b.WriteByte('-')
	b.WriteString(pad2(or(field("M"), "1")))
	b.WriteByte('-')
	b.WriteString(pad2(or(field("D"), "1")))
	b.WriteByte('T')
	b.WriteString(pad2(or(field("h"), "0")))
	b.WriteByte(':')
	b.WriteString(pad2(or(field("m"), "0")))
	b.WriteByte(':')
	b.WriteString(pad2(or(field("s"), "0")))
	if frac := field("ss"); frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	switch zone := field("Z"); zone {
	case "", "Z", "z":
		b.WriteByte('Z')
	default:
		if field("Zsgn") == "+" {
			b.WriteByte('+')
		} else {
			b.WriteByte('-')
		}
		b.WriteString(field("Zhrs"))
		b.WriteByte(':')
		b.WriteString(or(field("Zmin"), "00"))
	}

	i, err := parseStrictInstant(b.String())
	if err != nil {
		return Instant{}, invalidSpec("failed to find timestamp in %q", s)
	}
	return i, nil
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// parseStrictInstant is the authoritative parser: exactly
// YYYY-MM-DDTHH:MM:SS[.fraction](Z|±HH:MM), with every field range-checked,
// day validity per month and leap year included, and second 60 admitted as a
// leap second.
func parseStrictInstant(s string) (Instant, error) {
	fail := func() (Instant, error) {
		return Instant{}, invalidSpec("failed to find timestamp in %q", s)
	}

	year, s, ok := takeDigits(s, 4)
	if !ok {
		return fail()
	}
	s, ok = takeByte(s, '-')
	if !ok {
		return fail()
	}
	month, s, ok := takeDigits(s, 2)
	if !ok || month < 1 || month > 12 {
		return fail()
	}
	s, ok = takeByte(s, '-')
	if !ok {
		return fail()
	}
	day, s, ok := takeDigits(s, 2)
	if !ok || day < 1 || day > daysInMonth(year, month) {
		return fail()
	}
	if len(s) == 0 || (s[0] != 'T' && s[0] != 't') {
		return fail()
	}
	s = s[1:]
	hour, s, ok := takeDigits(s, 2)
	if !ok || hour > 23 {
		return fail()
	}
	s, ok = takeByte(s, ':')
	if !ok {
		return fail()
	}
	minute, s, ok := takeDigits(s, 2)
	if !ok || minute > 59 {
		return fail()
	}
	s, ok = takeByte(s, ':')
	if !ok {
		return fail()
	}
	second, s, ok := takeDigits(s, 2)
	if !ok || second > 60 {
		return fail()
	}

	var nanos uint32
	if len(s) > 0 && s[0] == '.' {
		s = s[1:]
		n := 0
		for n < len(s) && s[n] >= '0' && s[n] <= '9' {
			n++
		}
		if n == 0 {
			return fail()
		}
		frac := s[:n]
		s = s[n:]
		// Right-pad to nanosecond width; digits beyond nanoseconds truncate.
		if len(frac) > 9 {
			frac = frac[:9]
		} else {
			frac += strings.Repeat("0", 9-len(frac))
		}
		v, err := strconv.ParseUint(frac, 10, 32)
		if err != nil {
			return fail()
		}
		nanos = uint32(v)
	}

	var offset int
	switch {
	case s == "Z" || s == "z":
		offset = 0
	case len(s) == 6 && (s[0] == '+' || s[0] == '-'):
		sign := 1
		if s[0] == '-' {
			sign = -1
		}
		rest := s[1:]
		oh, rest, ok := takeDigits(rest, 2)
		if !ok || oh > 23 {
			return fail()
		}
		rest, ok = takeByte(rest, ':')
		if !ok {
			return fail()
		}
		om, rest, ok := takeDigits(rest, 2)
		if !ok || om > 59 || rest != "" {
			return fail()
		}
		offset = sign * (oh*60 + om)
	default:
		return fail()
	}

	return Instant{
		year:   year,
		month:  month,
		day:    day,
		hour:   hour,
		minute: minute,
		second: second,
		nanos:  nanos,
		offset: offset,
	}, nil
}

func takeDigits(s string, n int) (int, string, bool) {
	if len(s) < n {
		return 0, s, false
	}
	v := 0
	for i := 0; i < n; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, s, false
		}
		v = v*10 + int(c-'0')
	}
	return v, s[n:], true
}

func takeByte(s string, c byte) (string, bool) {
	if len(s) == 0 || s[0] != c {
		return s, false
	}
	return s[1:], true
}

func daysInMonth(year, month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// SortInstants orders instants by absolute moment, ascending unless
// descending is set. The sort is stable so instants denoting the same moment
// under different offsets keep their relative order.
func SortInstants(instants []Instant, descending bool) {
	slices.SortStableFunc(instants, func(a, b Instant) int {
		if descending {
			return b.Compare(a)
		}
		return a.Compare(b)
	})
}
