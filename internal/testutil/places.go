// Package testutil builds Firefox places databases for tests.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// Places is a places.sqlite fixture on disk.
type Places struct {
	Path string
	db   *sql.DB
}

// Bookmark folder ids seeded into every fixture.
const (
	RootFolder    = 1
	MenuFolder    = 2
	ToolbarFolder = 3
	UnfiledFolder = 5
)

// NewPlaces creates dir/places.sqlite with the subset of the Firefox schema
// the report queries read. The database is closed when the test ends.
func NewPlaces(t testing.TB, dir string) *Places {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))

	path := filepath.Join(dir, "places.sqlite")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("PRAGMA journal_mode = DELETE")
	require.NoError(t, err)

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback() //nolint:errcheck

	require.NoError(t, createSchema(tx))
	require.NoError(t, seedFolders(tx))
	require.NoError(t, tx.Commit())

	return &Places{Path: path, db: db}
}

func createSchema(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE moz_places (
			id              INTEGER PRIMARY KEY,
			url             LONGVARCHAR,
			title           LONGVARCHAR,
			rev_host        LONGVARCHAR,
			visit_count     INTEGER DEFAULT 0,
			hidden          INTEGER DEFAULT 0 NOT NULL,
			typed           INTEGER DEFAULT 0 NOT NULL,
			frecency        INTEGER DEFAULT -1 NOT NULL,
			last_visit_date INTEGER,
			guid            TEXT
		)`,

		`CREATE TABLE moz_historyvisits (
			id         INTEGER PRIMARY KEY,
			from_visit INTEGER,
			place_id   INTEGER,
			visit_date INTEGER,
			visit_type INTEGER,
			session    INTEGER
		)`,

		`CREATE TABLE moz_bookmarks (
			id           INTEGER PRIMARY KEY,
			type         INTEGER,
			fk           INTEGER DEFAULT NULL,
			parent       INTEGER,
			position     INTEGER,
			title        LONGVARCHAR,
			keyword_id   INTEGER,
			folder_type  TEXT,
			dateAdded    INTEGER,
			lastModified INTEGER,
			guid         TEXT
		)`,

		`CREATE INDEX moz_places_lastvisitdateindex ON moz_places(last_visit_date)`,
		`CREATE INDEX moz_bookmarks_itemindex       ON moz_bookmarks(fk, type)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func seedFolders(tx *sql.Tx) error {
	folders := []struct {
		id     int
		parent int
		title  string
	}{
		{RootFolder, 0, ""},
		{MenuFolder, RootFolder, "menu"},
		{ToolbarFolder, RootFolder, "toolbar"},
		{UnfiledFolder, RootFolder, "unfiled"},
	}

	const insertSQL = `INSERT INTO moz_bookmarks (id, type, parent, position, title, dateAdded) VALUES (?, 2, ?, 0, ?, 0)`

	for _, f := range folders {
		if _, err := tx.Exec(insertSQL, f.id, f.parent, f.title); err != nil {
			return err
		}
	}
	return nil
}

// AddVisit records a visited page and returns its place id.
func (p *Places) AddVisit(t testing.TB, url, title string, visited time.Time) int64 {
	t.Helper()
	return p.insertPlace(t, url, title, visited.UnixMicro())
}

// AddUntitledVisit records a visited page whose title is NULL.
func (p *Places) AddUntitledVisit(t testing.TB, url string, visited time.Time) int64 {
	t.Helper()
	return p.insertPlace(t, url, nil, visited.UnixMicro())
}

// AddUnvisited records a page with no last visit date, as Firefox does for
// bookmarks that were never opened.
func (p *Places) AddUnvisited(t testing.TB, url, title string) int64 {
	t.Helper()
	return p.insertPlace(t, url, title, nil)
}

func (p *Places) insertPlace(t testing.TB, url string, title, lastVisit any) int64 {
	t.Helper()
	res, err := p.db.Exec(
		`INSERT INTO moz_places (url, title, visit_count, last_visit_date) VALUES (?, ?, 1, ?)`,
		url, title, lastVisit,
	)
	require.NoError(t, err)

	id, err := res.LastInsertId()
	require.NoError(t, err)

	if lastVisit != nil {
		_, err = p.db.Exec(
			`INSERT INTO moz_historyvisits (place_id, visit_date, visit_type) VALUES (?, ?, 1)`,
			id, lastVisit,
		)
		require.NoError(t, err)
	}
	return id
}

// AddFolder creates a bookmark folder under parent and returns its id.
func (p *Places) AddFolder(t testing.TB, parent int64, title string) int64 {
	t.Helper()
	res, err := p.db.Exec(
		`INSERT INTO moz_bookmarks (type, parent, position, title, dateAdded) VALUES (2, ?, 0, ?, 0)`,
		parent, title,
	)
	require.NoError(t, err)

	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// AddBookmark bookmarks placeID in folder.
func (p *Places) AddBookmark(t testing.TB, placeID, folder int64, title string, added time.Time) {
	t.Helper()
	_, err := p.db.Exec(
		`INSERT INTO moz_bookmarks (type, fk, parent, position, title, dateAdded, lastModified) VALUES (1, ?, ?, 0, ?, ?, ?)`,
		placeID, folder, title, added.UnixMicro(), added.UnixMicro(),
	)
	require.NoError(t, err)
}

// Lock takes an exclusive lock on the database, as a running Firefox does.
// Readers get SQLITE_BUSY until the returned function is called.
func (p *Places) Lock(t testing.TB) (unlock func()) {
	t.Helper()
	ctx := context.Background()

	conn, err := p.db.Conn(ctx)
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx, "BEGIN EXCLUSIVE")
	require.NoError(t, err)

	released := false
	unlock = func() {
		if released {
			return
		}
		released = true
		conn.ExecContext(ctx, "ROLLBACK") //nolint:errcheck
		conn.Close()
	}
	t.Cleanup(unlock)
	return unlock
}
