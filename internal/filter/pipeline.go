package filter

import (
	"strings"
	"time"
)

// Reason says which stage dropped a row.
type Reason string

const (
	Kept      Reason = ""
	NoMatch   Reason = "query"
	Excluded  Reason = "filter"
	OutOfDate Reason = "date"
)

// Pipeline applies the configured stages to a row in order. A nil stage is
// not configured and passes every row.
type Pipeline struct {
	Include  *Query
	Exclude  *Query
	Interval *Interval
}

// Keep decides whether a row survives. Callers pass "" for NULL text.
func (p *Pipeline) Keep(title, link string, ts time.Time) (bool, Reason) {
	if p.Include != nil && !p.Include.MatchAny(link, title) {
		return false, NoMatch
	}
	if p.Exclude != nil && p.Exclude.MatchAny(link, title) {
		return false, Excluded
	}
	if p.Interval != nil && !p.Interval.Contains(ts) {
		return false, OutOfDate
	}
	return true, Kept
}

// NewPipeline builds a Pipeline from the raw option strings. Blank strings
// leave the stage unconfigured.
func NewPipeline(query, exclude, dates string) (*Pipeline, error) {
	p := &Pipeline{}
	var err error

	if strings.TrimSpace(query) != "" {
		if p.Include, err = Parse(query); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(exclude) != "" {
		if p.Exclude, err = Parse(exclude); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(dates) != "" {
		if p.Interval, err = ParseInterval(dates); err != nil {
			return nil, err
		}
	}

	return p, nil
}
