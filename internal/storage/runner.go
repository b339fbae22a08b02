package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// ErrConsumed is yielded when a row sequence is ranged over a second time.
var ErrConsumed = errors.New("row sequence already consumed")

// Runner executes read-only queries against places databases. When the
// database is locked by a running browser it reads from a snapshot copy.
type Runner struct {
	// TempDir holds snapshot copies. Empty means os.TempDir().
	TempDir string
	// BusyTimeout is how long SQLite waits on a lock before giving up.
	BusyTimeout time.Duration
	// Strict makes unreadable rows end the sequence instead of being skipped.
	Strict bool

	logger zerolog.Logger
}

// NewRunner creates a Runner that logs through logger.
func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{logger: logger}
}

// IsLocked reports whether err is SQLite's busy or locked condition.
func IsLocked(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return true
	}
	primary := sqlite3.ErrNo(sqliteErr.ExtendedCode & 0xff)
	return primary == sqlite3.ErrBusy || primary == sqlite3.ErrLocked
}

// Query runs query against the database at path and returns its rows as a
// lazy sequence. The sequence can be ranged over once; the database and any
// snapshot copy are released when the loop ends, including on break. An
// error ends the sequence.
func (r *Runner) Query(ctx context.Context, path, query string) iter.Seq2[Row, error] {
	consumed := false
	return func(yield func(Row, error) bool) {
		if consumed {
			yield(Row{}, ErrConsumed)
			return
		}
		consumed = true

		rows, release, err := r.open(ctx, path, query)
		if err != nil {
			yield(Row{}, err)
			return
		}
		defer release()

		cols, err := rows.Columns()
		if err != nil {
			yield(Row{}, fmt.Errorf("read columns of %s: %w", path, err))
			return
		}

		for rows.Next() {
			values := make([]any, len(cols))
			dest := make([]any, len(cols))
			for i := range values {
				dest[i] = &values[i]
			}
			if err := rows.Scan(dest...); err != nil {
				if r.Strict {
					yield(Row{}, fmt.Errorf("scan row from %s: %w", path, err))
					return
				}
				r.logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable row")
				continue
			}
			if !yield(Row{values: values}, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(Row{}, fmt.Errorf("read rows from %s: %w", path, err))
		}
	}
}

// open executes query directly, falling back to a snapshot copy when the
// database is locked. release closes everything open returned.
func (r *Runner) open(ctx context.Context, path, query string) (*sql.Rows, func(), error) {
	rows, release, err := r.execute(ctx, readOnlyDSN(path, r.BusyTimeout), query)
	if err == nil {
		return rows, release, nil
	}
	if !IsLocked(err) {
		return nil, nil, fmt.Errorf("query %s: %w", path, err)
	}

	r.logger.Info().Str("path", path).Msg("database is locked, reading from a snapshot copy")

	snap, err := takeSnapshot(path, r.TempDir)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	r.logger.Debug().Str("path", path).Str("snapshot", snap.Path).Msg("snapshot taken")

	rows, closeDB, err := r.execute(ctx, snapshotDSN(snap.Path), query)
	if err != nil {
		r.removeSnapshot(snap)
		return nil, nil, fmt.Errorf("query snapshot of %s: %w", path, err)
	}

	return rows, func() {
		closeDB()
		r.removeSnapshot(snap)
	}, nil
}

func (r *Runner) execute(ctx context.Context, dsn, query string) (*sql.Rows, func(), error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return rows, func() {
		rows.Close()
		db.Close()
	}, nil
}

func (r *Runner) removeSnapshot(snap *snapshot) {
	if err := snap.Remove(); err != nil {
		r.logger.Warn().Err(err).Str("snapshot", snap.Path).Msg("failed to remove snapshot")
		return
	}
	r.logger.Debug().Str("snapshot", snap.Path).Msg("snapshot removed")
}

var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

func readOnlyDSN(path string, busy time.Duration) string {
	return fmt.Sprintf("file:%s?mode=ro&_busy_timeout=%d", uriEscaper.Replace(path), busy.Milliseconds())
}

// snapshotDSN opens the copy read-write so SQLite can replay a copied WAL.
func snapshotDSN(path string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=0", uriEscaper.Replace(path))
}
