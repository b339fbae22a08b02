package cli

import (
	"io"

	"github.com/runnerr0/foxmark/internal/report"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config     string   `long:"config" description:"Path to config file" default:""`
	JSON       bool     `long:"json" description:"Output in JSON format"`
	Verbose    bool     `short:"v" long:"verbose" description:"Enable debug logging"`
	Strict     bool     `long:"strict" description:"Fail on rows that would otherwise be skipped"`
	Version    bool     `long:"version" description:"Show version and exit"`
	FirefoxDir string   `long:"firefox-dir" description:"Firefox data directory (default: platform location)"`
	Profile    []string `short:"p" long:"profile" description:"Only read the named profile (repeatable)"`
	DB         []string `long:"db" description:"Read this places.sqlite instead of discovering profiles (repeatable)"`
}

// ReportFlags are shared by the history and bookmarks commands.
type ReportFlags struct {
	Query  string `short:"q" long:"query" description:"Keep rows whose link or title match, e.g. \"golang doc* OR rust\""`
	Filter string `short:"f" long:"filter" description:"Drop rows whose link or title match"`
	Date   string `short:"d" long:"date" description:"Date range START..END, each YYYY, YYYY-MM or YYYY-MM-DD and optional"`
	Output string `short:"o" long:"output" description:"Report path (default: foxmark-<mode>.html in the temp dir)"`
	NoOpen bool   `long:"no-open" description:"Do not open the report in a browser"`
}

// HistoryCommand renders browsing history to HTML.
type HistoryCommand struct {
	ReportFlags

	globals *GlobalFlags
	version string
	env     *env
}

// BookmarksCommand renders bookmarks to HTML.
type BookmarksCommand struct {
	ReportFlags

	globals *GlobalFlags
	version string
	env     *env
}

// ProfilesCommand lists the profile databases that would be read.
type ProfilesCommand struct {
	globals *GlobalFlags
	version string
	env     *env
}

// CleanCommand removes leftover snapshots and, optionally, old reports.
type CleanCommand struct {
	Reports bool `long:"reports" description:"Also remove reports in the output directory"`
	DryRun  bool `long:"dry-run" description:"Show what would be removed without deleting"`
	Force   bool `long:"force" description:"Skip the confirmation prompt"`

	globals *GlobalFlags
	version string
	env     *env
}

// env holds the process hooks commands use; tests replace them.
type env struct {
	stdin  io.Reader
	stderr io.Writer
	viewer report.Viewer
}
