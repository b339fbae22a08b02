package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, h, min, s int) time.Time {
	return time.Date(y, m, d, h, min, s, 0, time.Local)
}

func TestParseInterval_FullDates(t *testing.T) {
	iv, err := ParseInterval("2020-02-02..2020-02-20")
	require.NoError(t, err)

	assert.True(t, iv.Contains(date(2020, 2, 10, 0, 0, 0)))
	assert.False(t, iv.Contains(date(2020, 3, 1, 0, 0, 0)))

	// Bounds are inclusive over the whole day.
	assert.True(t, iv.Contains(date(2020, 2, 2, 0, 0, 0)))
	assert.True(t, iv.Contains(date(2020, 2, 20, 23, 59, 59)))
	assert.False(t, iv.Contains(date(2020, 2, 1, 23, 59, 59)))
	assert.False(t, iv.Contains(date(2020, 2, 21, 0, 0, 0)))
}

func TestParseInterval_YearEnd(t *testing.T) {
	iv, err := ParseInterval("..2020")
	require.NoError(t, err)

	assert.Nil(t, iv.Start)
	assert.True(t, iv.Contains(date(1999, 1, 1, 0, 0, 0)))
	assert.True(t, iv.Contains(date(2020, 12, 31, 23, 59, 59)))
	assert.False(t, iv.Contains(date(2021, 1, 1, 0, 0, 0)))
}

func TestParseInterval_MonthStart(t *testing.T) {
	iv, err := ParseInterval("2020-02..")
	require.NoError(t, err)

	assert.Nil(t, iv.End)
	assert.False(t, iv.Contains(date(2020, 1, 31, 23, 59, 59)))
	assert.True(t, iv.Contains(date(2020, 2, 1, 0, 0, 0)))
	assert.True(t, iv.Contains(date(2030, 1, 1, 0, 0, 0)))
}

func TestParseInterval_MonthEndHandlesLeapYear(t *testing.T) {
	iv, err := ParseInterval("2020-02..2020-02")
	require.NoError(t, err)

	assert.True(t, iv.Contains(date(2020, 2, 29, 12, 0, 0)))
	assert.False(t, iv.Contains(date(2020, 3, 1, 0, 0, 0)))
}

func TestParseInterval_Unbounded(t *testing.T) {
	iv, err := ParseInterval("..")
	require.NoError(t, err)

	assert.Nil(t, iv.Start)
	assert.Nil(t, iv.End)
	for _, ts := range []time.Time{{}, time.Unix(0, 0), date(2020, 2, 10, 0, 0, 0), date(9999, 12, 31, 0, 0, 0)} {
		assert.True(t, iv.Contains(ts))
	}
}

func TestParseInterval_InvertedMatchesNothing(t *testing.T) {
	iv, err := ParseInterval("2021..2020")
	require.NoError(t, err)

	assert.False(t, iv.Contains(date(2020, 6, 1, 0, 0, 0)))
	assert.False(t, iv.Contains(date(2021, 6, 1, 0, 0, 0)))
}

func TestParseInterval_Errors(t *testing.T) {
	bad := []string{
		"",
		"2020",
		"2020-02-02",
		"a..b..c",
		"2020..2021..2022",
		"2020...2021",
		"2020-13..",
		"..2020-02-30",
		"20..",
		"yesterday..",
		"2020/02/02..",
	}
	for _, text := range bad {
		_, err := ParseInterval(text)
		assert.ErrorIs(t, err, ErrBadInterval, "input %q", text)
	}
}

func TestParseIntervalIn_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	iv, err := ParseIntervalIn("2020-02-02..", loc)
	require.NoError(t, err)

	assert.True(t, iv.Start.Equal(time.Date(2020, 2, 1, 19, 0, 0, 0, time.UTC)))
}

func TestIntervalString(t *testing.T) {
	iv, err := ParseIntervalIn("2020..2020-02-02", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "2020-01-01 00:00:00..2020-02-02 23:59:59", iv.String())
}
