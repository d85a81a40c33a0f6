package timespec

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstantParseZuluVariants(t *testing.T) {
	// A bare timestamp defaults to UTC.
	cases := []string{
		"2018-10-11T03:23:38 +00:00",
		"2018-10-11T03:23:38Z",
		"2018-10-11T03:23:38",
		"2018-10-11T03:23:38+00",
		"2018-10-11 03:23:38",
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			i, err := ParseInstant(in)
			require.NoError(t, err)
			assert.Equal(t, "2018-10-11T03:23:38+00:00", i.String())
		})
	}
}

func TestInstantParseFlexibleForms(t *testing.T) {
	// Omitted fields default: month/day to 1, time fields to 0; separators
	// are optional wherever the digit pattern stays unambiguous.
	cases := []string{
		"20180101 0323",
		"2018-01-01 0323",
		"2018 0323",
		"2018-- 0323",
		"2018-01-01 032300",
		"2018-01-01 03:23",
		"2018-01-01 03:23:00",
		"2018-01-01 03:23:00 Z",
		"2018-01-01 03:23:00 +00",
		"2018-01-01 03:23:00 +00:00",
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			i, err := ParseInstant(in)
			require.NoError(t, err)
			assert.Equal(t, "2018-01-01T03:23:00+00:00", i.String())
		})
	}
}

func TestInstantParseDateOnly(t *testing.T) {
	i, err := ParseInstant("2018")
	require.NoError(t, err)
	assert.Equal(t, "2018-01-01T00:00:00+00:00", i.String())

	i, err = ParseInstant("2018-10-11")
	require.NoError(t, err)
	assert.Equal(t, "2018-10-11T00:00:00+00:00", i.String())
}

func TestInstantLeapSecond(t *testing.T) {
	// Second 60 is an inserted leap second; both separators and the Unicode
	// minus are accepted on input, one canonical spelling comes back out.
	cases := []string{
		"2015-02-18T23:59:60.234567-05:00",
		"2015-02-18T23:59:60.234567−05:00",
		"2015-02-18 235960.234567 -05",
		"20150218 235960.234567 −05",
		"20150218 235960,234567 −05",
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			i, err := ParseInstant(in)
			require.NoError(t, err)
			assert.Equal(t, "2015-02-18T23:59:60.234567-05:00", i.String())
			assert.True(t, i.IsLeapSecond())

			reparsed, err := ParseInstant(i.String())
			require.NoError(t, err)
			assert.Equal(t, i, reparsed)
		})
	}
}

func TestInstantParseFailures(t *testing.T) {
	cases := []string{
		"boo",
		"2015-02-18T23:59:60.234567-5",
		"2015-02-18 3:59:60-05",
		"2015-2-18 03:59:60-05",
		"2015-2-18 03:59:60+25",
		"2018-02-30",
		"2018-10-11T24:00:00",
		"2018-10-11T03:61:00",
		"2018-10-11T03:23:61",
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			_, err := ParseInstant(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSpecification)
			assert.Contains(t, err.Error(), in)
		})
	}
}

func TestInstantEquality(t *testing.T) {
	mustParse := func(s string) Instant {
		i, err := ParseInstant(s)
		require.NoError(t, err)
		return i
	}

	assert.True(t, mustParse("2018-10-11T03:23:38+00:00").Equal(mustParse("2018-10-11T03:23:38Z")))
	assert.True(t, mustParse("2018-10-11T03:23:38").Equal(mustParse("2018-10-11T03:23:38Z")))
	assert.True(t, mustParse(" 20181011  0323  Z ").Equal(mustParse("2018-10-11T03:23:00Z")))

	// Fixed-offset instants compare against UTC by absolute moment.
	assert.True(t, mustParse("2018-10-11T03:23:38-08:00").Equal(mustParse("2018-10-11T11:23:38Z")))
	assert.True(t, mustParse("2018-10-11T03:23:39-08:00").After(mustParse("2018-10-11T11:23:38Z")))
	assert.True(t, mustParse("2018-10-11T03:23:37-08:00").Before(mustParse("2018-10-11T11:23:38Z")))

	// A leap second sits between :59.999999999 and the next minute.
	assert.True(t, mustParse("2015-02-18T23:59:60.5Z").After(mustParse("2015-02-18T23:59:59.999999999Z")))
	assert.True(t, mustParse("2015-02-18T23:59:60.5Z").Before(mustParse("2015-02-19T00:00:00Z")))
}

func TestInstantSorting(t *testing.T) {
	inputs := []string{
		"2018-10-11T03:23:39-08:00",
		"2018-10-11T03:23:39-07:00",
		"2018-10-11 03:23:39+03:00",
		"2018-10-11T03:23:39-06:00",
		"20181011 032339 +04:00",
		"2018-10-11T03:23:39−09:00",
		"2018-10-11T03:23:39+11:00",
		"2018-10-11 03:23:39Z",
		"2018-10-11 03:23:40",
	}
	instants := make([]Instant, 0, len(inputs))
	for _, in := range inputs {
		i, err := ParseInstant(in)
		require.NoError(t, err)
		instants = append(instants, i)
	}

	joined := func(v []Instant) string {
		parts := make([]string, len(v))
		for n, i := range v {
			parts[n] = i.String()
		}
		return strings.Join(parts, ", ")
	}

	SortInstants(instants, false)
	assert.Equal(t, strings.Join([]string{
		"2018-10-11T03:23:39+11:00",
		"2018-10-11T03:23:39+04:00",
		"2018-10-11T03:23:39+03:00",
		"2018-10-11T03:23:39+00:00",
		"2018-10-11T03:23:40+00:00",
		"2018-10-11T03:23:39-06:00",
		"2018-10-11T03:23:39-07:00",
		"2018-10-11T03:23:39-08:00",
		"2018-10-11T03:23:39-09:00",
	}, ", "), joined(instants))

	SortInstants(instants, true)
	assert.Equal(t, strings.Join([]string{
		"2018-10-11T03:23:39-09:00",
		"2018-10-11T03:23:39-08:00",
		"2018-10-11T03:23:39-07:00",
		"2018-10-11T03:23:39-06:00",
		"2018-10-11T03:23:40+00:00",
		"2018-10-11T03:23:39+00:00",
		"2018-10-11T03:23:39+03:00",
		"2018-10-11T03:23:39+04:00",
		"2018-10-11T03:23:39+11:00",
	}, ", "), joined(instants))
}

func TestInstantFromUnix(t *testing.T) {
	i := InstantFromUnix(1539228218)
	assert.Equal(t, "2018-10-11T03:23:38+00:00", i.String())
	assert.Equal(t, int64(1539228218), i.Unix())
	assert.Equal(t, 0, i.OffsetMinutes())
}

func TestInstantFromUnixClampsToCivilRange(t *testing.T) {
	// Years outside 0000-9999 have no four-digit spelling; the constructor
	// clamps so every value it produces round-trips through its text.
	low := InstantFromUnix(-62_262_144_000)
	assert.Equal(t, "0000-01-01T00:00:00+00:00", low.String())

	high := InstantFromUnix(995_912_193_600)
	assert.Equal(t, "9999-12-31T23:59:59+00:00", high.String())

	for _, i := range []Instant{low, high} {
		reparsed, err := ParseInstant(i.String())
		require.NoError(t, err)
		assert.Equal(t, i, reparsed)
	}
}

func TestInstantTimeConversions(t *testing.T) {
	i, err := ParseInstant("2018-10-11T03:23:38-08:00")
	require.NoError(t, err)
	assert.Equal(t, -8*60, i.OffsetMinutes())

	tm := i.Time()
	assert.Equal(t, int64(1539228218+8*3600), tm.Unix())
	assert.Equal(t, i, InstantFromTime(tm))

	// A leap second has no time.Time representation; it normalizes into the
	// following second.
	leap, err := ParseInstant("2015-02-18T23:59:60.25-05:00")
	require.NoError(t, err)
	assert.Equal(t, "2015-02-19T00:00:00.250-05:00", InstantFromTime(leap.Time()).String())
}

func TestInstantFractionWidths(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2018-10-11T03:23:38.1Z", "2018-10-11T03:23:38.100+00:00"},
		{"2018-10-11T03:23:38.123Z", "2018-10-11T03:23:38.123+00:00"},
		{"2018-10-11T03:23:38.1234Z", "2018-10-11T03:23:38.123400+00:00"},
		{"2018-10-11T03:23:38.123456Z", "2018-10-11T03:23:38.123456+00:00"},
		{"2018-10-11T03:23:38.1234567Z", "2018-10-11T03:23:38.123456700+00:00"},
		{"2018-10-11T03:23:38.123456789Z", "2018-10-11T03:23:38.123456789+00:00"},
		// Digits beyond nanoseconds truncate.
		{"2018-10-11T03:23:38.1234567891111Z", "2018-10-11T03:23:38.123456789+00:00"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			i, err := ParseInstant(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, i.String())

			reparsed, err := ParseInstant(i.String())
			require.NoError(t, err)
			assert.Equal(t, i, reparsed)
		})
	}
}

func TestInstantJSON(t *testing.T) {
	i, err := ParseInstant("2018-10-11 03:23:38")
	require.NoError(t, err)

	encoded, err := json.Marshal(i)
	require.NoError(t, err)
	assert.Equal(t, `"2018-10-11T03:23:38+00:00"`, string(encoded))

	var decoded Instant
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, i, decoded)

	err = json.Unmarshal([]byte(`"boo"`), &decoded)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSpecification)
}

func TestGrammarMatchersAreConcurrencySafe(t *testing.T) {
	done := make(chan struct{})
	for n := 0; n < 8; n++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for k := 0; k < 50; k++ {
				_, err := ParsePeriod("1w2d3h")
				assert.NoError(t, err)
				_, err = ParseInstant("2018-10-11 03:23:38")
				assert.NoError(t, err)
			}
		}()
	}
	for n := 0; n < 8; n++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for concurrent parsers")
		}
	}
}
