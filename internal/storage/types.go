package storage

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"
)

// ProfileDatabase is a places database belonging to one browser profile.
type ProfileDatabase struct {
	Path  string
	Label string
}

// NewProfileDatabase labels a bare database path with its parent directory name.
func NewProfileDatabase(path string) ProfileDatabase {
	return ProfileDatabase{
		Path:  path,
		Label: filepath.Base(filepath.Dir(path)),
	}
}

func (p ProfileDatabase) String() string {
	return fmt.Sprintf("%s (%s)", p.Label, p.Path)
}

// Column positions of the rows produced by the embedded queries.
const (
	ColURL = iota
	ColTitle
	ColTimestamp
	ColFolder // bookmarks only
)

// Row is one result row. Values are only valid during iteration.
type Row struct {
	values []any
}

// NewRow builds a Row from raw column values.
func NewRow(values ...any) Row {
	return Row{values: values}
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.values)
}

// Text returns column i as a string. NULL and missing columns are "".
func (r Row) Text(i int) string {
	if i < 0 || i >= len(r.values) {
		return ""
	}
	switch v := r.values[i].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns column i as an integer. ok is false for NULL, missing or
// non-numeric values.
func (r Row) Int(i int) (n int64, ok bool) {
	if i < 0 || i >= len(r.values) {
		return 0, false
	}
	switch v := r.values[i].(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
