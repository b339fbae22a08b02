// Package report renders history and bookmark rows from places databases
// into a single HTML document.
package report

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/runnerr0/foxmark/internal/filter"
	"github.com/runnerr0/foxmark/internal/storage"
)

// Mode selects which records a report holds.
type Mode string

const (
	History   Mode = "history"
	Bookmarks Mode = "bookmarks"
)

// RowSource yields the rows of query run against the database at path.
type RowSource interface {
	Query(ctx context.Context, path, query string) iter.Seq2[storage.Row, error]
}

// Viewer displays a finished report.
type Viewer func(path string) error

// Options configures one report.
type Options struct {
	Mode     Mode
	SQL      string
	Template string
	Pipeline *filter.Pipeline

	// Output is the report path. Empty means DefaultOutput(OutputDir, Mode).
	Output    string
	OutputDir string

	MaxTitle int
	MaxLink  int

	// MaxDiagnostics caps the per-row log lines for one report.
	MaxDiagnostics int
	// Strict turns unusable rows into errors.
	Strict bool
	// Location for displayed timestamps. Nil means time.Local.
	Location *time.Location
}

// Summary describes a written report.
type Summary struct {
	Path      string
	Mode      Mode
	Databases int
	Scanned   int
	Written   int
	Dropped   int
	Skipped   int
	Bytes     int64
}

// Renderer pulls rows from a RowSource, filters them and writes the report.
type Renderer struct {
	source RowSource
	viewer Viewer
	logger zerolog.Logger
}

// NewRenderer creates a Renderer reading from source.
func NewRenderer(source RowSource, logger zerolog.Logger) *Renderer {
	return &Renderer{source: source, logger: logger}
}

// SetViewer sets the function called with the report path once it is
// written. A nil viewer leaves the report unopened.
func (r *Renderer) SetViewer(v Viewer) {
	r.viewer = v
}

// DefaultOutput is the report path used when none is given.
func DefaultOutput(dir string, mode Mode) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "foxmark-"+string(mode)+".html")
}

// ExistingReports lists the default report files present in dir.
func ExistingReports(dir string) []string {
	var out []string
	for _, mode := range []Mode{History, Bookmarks} {
		path := DefaultOutput(dir, mode)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			out = append(out, path)
		}
	}
	return out
}

// Render drains every database in order and writes the report once.
func (r *Renderer) Render(ctx context.Context, opts Options, dbs []storage.ProfileDatabase) (*Summary, error) {
	if opts.Mode != History && opts.Mode != Bookmarks {
		return nil, fmt.Errorf("unknown report mode %q", opts.Mode)
	}
	if opts.Pipeline == nil {
		opts.Pipeline = &filter.Pipeline{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	path := opts.Output
	if path == "" {
		path = DefaultOutput(opts.OutputDir, opts.Mode)
	}

	sum := &Summary{Path: path, Mode: opts.Mode, Databases: len(dbs)}
	d := &diagnostics{logger: r.logger, max: opts.MaxDiagnostics}

	var buf bytes.Buffer
	buf.WriteString(opts.Template)

	for _, db := range dbs {
		r.logger.Info().Str("profile", db.Label).Str("path", db.Path).Str("mode", string(opts.Mode)).Msg("reading profile")
		if err := r.renderDatabase(ctx, &buf, opts, db, sum, d); err != nil {
			return nil, err
		}
	}

	buf.WriteString(Footer)

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	sum.Bytes = int64(buf.Len())

	r.logger.Info().
		Str("path", path).
		Int("written", sum.Written).
		Int("dropped", sum.Dropped).
		Int("skipped", sum.Skipped).
		Msg("report written")

	if r.viewer != nil {
		if err := r.viewer(path); err != nil {
			r.logger.Warn().Err(err).Str("path", path).Msg("could not open report")
		}
	}

	return sum, nil
}

func (r *Renderer) renderDatabase(ctx context.Context, buf *bytes.Buffer, opts Options, db storage.ProfileDatabase, sum *Summary, d *diagnostics) error {
	for row, err := range r.source.Query(ctx, db.Path, opts.SQL) {
		if err != nil {
			return fmt.Errorf("profile %s: %w", db.Label, err)
		}
		sum.Scanned++

		link := row.Text(storage.ColURL)
		title := row.Text(storage.ColTitle)

		us, ok := row.Int(storage.ColTimestamp)
		if !ok {
			if opts.Strict {
				return fmt.Errorf("profile %s: row %s has no timestamp", db.Label, link)
			}
			sum.Skipped++
			d.note("row skipped: no timestamp", link, "")
			continue
		}
		ts := storage.FromPRTime(us)

		if keep, reason := opts.Pipeline.Keep(title, link, ts); !keep {
			sum.Dropped++
			d.note("row dropped", link, reason)
			continue
		}

		stamp := ts.In(opts.Location).Format(storage.DisplayLayout)
		switch opts.Mode {
		case History:
			writeHistoryRow(buf, link, truncate(title, opts.MaxTitle), stamp, truncate(link, opts.MaxLink), db.Label)
		case Bookmarks:
			writeBookmarkRow(buf, link, title, stamp, row.Text(storage.ColFolder), truncate(link, opts.MaxLink), db.Label)
		}
		sum.Written++
	}
	return nil
}

func writeHistoryRow(buf *bytes.Buffer, link, title, stamp, showLink, profile string) {
	fmt.Fprintf(buf, "<tr><td><a href=\"%s\">%s</a></td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
		html.EscapeString(link), html.EscapeString(title), stamp,
		html.EscapeString(showLink), html.EscapeString(profile))
}

func writeBookmarkRow(buf *bytes.Buffer, link, title, stamp, folder, showLink, profile string) {
	fmt.Fprintf(buf, "<tr><td><a href=\"%s\">%s</a></td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
		html.EscapeString(link), html.EscapeString(title), stamp, html.EscapeString(folder),
		html.EscapeString(showLink), html.EscapeString(profile))
}

// truncate cuts s to at most n runes. n <= 0 leaves s alone.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// diagnostics logs per-row decisions until max lines have been written.
type diagnostics struct {
	logger zerolog.Logger
	max    int
	count  int
}

func (d *diagnostics) note(msg, link string, reason filter.Reason) {
	if d.count > d.max {
		return
	}
	d.count++
	if d.count > d.max {
		d.logger.Debug().Int("limit", d.max).Msg("further row diagnostics suppressed")
		return
	}
	ev := d.logger.Debug().Str("url", link)
	if reason != filter.Kept {
		ev = ev.Str("reason", string(reason))
	}
	ev.Msg(msg)
}
