// Package filter decides which history and bookmark rows make it into a
// report: glob queries over link and title, and date intervals.
package filter

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// GroupSeparator splits a query into alternatives.
const GroupSeparator = "OR"

const globMeta = "*?["

// termEscaper keeps alternation and escape syntax literal in wildcard tokens.
var termEscaper = strings.NewReplacer(`\`, `\\`, "{", `\{`, "}", `\}`)

// Query is a parsed query: it matches when every token of at least one
// group matches.
type Query struct {
	groups [][]token
}

type token struct {
	pattern string
	g       glob.Glob
}

// Parse compiles a query such as "golang doc* OR rust". Tokens are
// whitespace separated and lower-cased; a token without wildcards matches
// anywhere in the text. A query with no tokens has no groups and matches
// nothing.
func Parse(text string) (*Query, error) {
	q := &Query{}
	var group []token

	for _, field := range strings.Fields(text) {
		if field == GroupSeparator {
			if len(group) > 0 {
				q.groups = append(q.groups, group)
			}
			group = nil
			continue
		}

		pattern := strings.ToLower(field)
		if strings.ContainsAny(pattern, globMeta) {
			pattern = termEscaper.Replace(pattern)
		} else {
			pattern = "*" + glob.QuoteMeta(pattern) + "*"
		}

		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", field, err)
		}
		group = append(group, token{pattern: pattern, g: g})
	}
	if len(group) > 0 {
		q.groups = append(q.groups, group)
	}

	return q, nil
}

// Groups returns the compiled patterns, one slice per alternative.
func (q *Query) Groups() [][]string {
	out := make([][]string, len(q.groups))
	for i, group := range q.groups {
		for _, t := range group {
			out[i] = append(out[i], t.pattern)
		}
	}
	return out
}

// Match reports whether text satisfies q, ignoring case.
func (q *Query) Match(text string) bool {
	text = strings.ToLower(text)
	for _, group := range q.groups {
		passed := true
		for _, t := range group {
			if !t.g.Match(text) {
				passed = false
				break
			}
		}
		if passed {
			return true
		}
	}
	return false
}

// MatchAny reports whether link or title satisfies q.
func (q *Query) MatchAny(link, title string) bool {
	return q.Match(link) || q.Match(title)
}
