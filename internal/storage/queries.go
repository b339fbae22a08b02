package storage

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed sql/history.sql
var historySQL string

//go:embed sql/bookmarks.sql
var bookmarksSQL string

// historyOrder is appended after any permanent exclude clauses.
const historyOrder = "ORDER BY last_visit_date DESC"

// DefaultHistoryQuery returns the embedded history query template. It has no
// ORDER BY so that extra clauses can be appended.
func DefaultHistoryQuery() string {
	return historySQL
}

// DefaultBookmarksQuery returns the embedded, complete bookmarks query.
func DefaultBookmarksQuery() string {
	return bookmarksSQL
}

// LoadQuery returns the SQL in path, or fallback when path is empty.
// A configured file that cannot be read is an error.
func LoadQuery(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read query file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("query file %s is empty", path)
	}
	return string(data), nil
}

// HistoryQuery folds each permanent exclude into base as an
// "AND url NOT LIKE" clause and appends the ordering.
func HistoryQuery(base string, excludes []string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(strings.TrimSpace(base), ";"))
	for _, token := range excludes {
		pattern := likePattern(token)
		if pattern == "" {
			continue
		}
		sb.WriteString("\n  AND url NOT LIKE '")
		sb.WriteString(strings.ReplaceAll(pattern, "'", "''"))
		sb.WriteString("'")
	}
	sb.WriteString("\n")
	sb.WriteString(historyOrder)
	return sb.String()
}

// likePattern wraps token in % unless it already carries its own.
func likePattern(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if strings.Contains(token, "%") {
		return token
	}
	return "%" + token + "%"
}
