package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// IntervalSeparator splits the two bounds of a date range.
const IntervalSeparator = ".."

// ErrBadInterval is returned for date ranges that cannot be parsed.
var ErrBadInterval = errors.New("invalid date range")

// Interval is an inclusive time range. A nil bound is unbounded.
type Interval struct {
	Start *time.Time
	End   *time.Time
}

// dateLayouts maps each accepted precision to its period length.
var dateLayouts = []struct {
	layout string
	next   func(time.Time) time.Time
}{
	{"2006-01-02", func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }},
	{"2006-01", func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }},
	{"2006", func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }},
}

// ParseInterval parses "A..B" where A and B are optional dates of the form
// YYYY, YYYY-MM or YYYY-MM-DD, in local time. A starts at the first instant
// of its period and B ends at the last instant of its period.
func ParseInterval(text string) (*Interval, error) {
	return ParseIntervalIn(text, time.Local)
}

// ParseIntervalIn is ParseInterval with dates interpreted in loc.
func ParseIntervalIn(text string, loc *time.Location) (*Interval, error) {
	parts := strings.Split(strings.TrimSpace(text), IntervalSeparator)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w %q: expected START..END", ErrBadInterval, text)
	}

	iv := &Interval{}

	if start := strings.TrimSpace(parts[0]); start != "" {
		first, _, err := parsePeriod(start, loc)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrBadInterval, text, err)
		}
		iv.Start = &first
	}

	if end := strings.TrimSpace(parts[1]); end != "" {
		_, last, err := parsePeriod(end, loc)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrBadInterval, text, err)
		}
		iv.End = &last
	}

	return iv, nil
}

// parsePeriod returns the first and last instant of the period s names.
func parsePeriod(s string, loc *time.Location) (first, last time.Time, err error) {
	for _, l := range dateLayouts {
		if len(s) != len(l.layout) {
			continue
		}
		t, err := time.ParseInLocation(l.layout, s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return t, l.next(t).Add(-time.Nanosecond), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("date %q must be YYYY, YYYY-MM or YYYY-MM-DD", s)
}

// Contains reports whether t lies inside the interval, bounds included.
func (iv *Interval) Contains(t time.Time) bool {
	if iv.Start != nil && t.Before(*iv.Start) {
		return false
	}
	if iv.End != nil && t.After(*iv.End) {
		return false
	}
	return true
}

func (iv *Interval) String() string {
	var start, end string
	if iv.Start != nil {
		start = iv.Start.Format(time.DateTime)
	}
	if iv.End != nil {
		end = iv.End.Format(time.DateTime)
	}
	return start + IntervalSeparator + end
}
