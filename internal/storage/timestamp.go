package storage

import "time"

// DisplayLayout is how timestamps appear in reports.
const DisplayLayout = "2006-01-02 15:04:05"

// FromPRTime converts a places timestamp (microseconds since the Unix epoch)
// to a time.Time.
func FromPRTime(us int64) time.Time {
	return time.UnixMicro(us)
}

// FormatTimestamp renders t in local time for display.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(DisplayLayout)
}
