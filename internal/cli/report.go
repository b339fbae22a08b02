package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/foxmark/internal/config"
	"github.com/runnerr0/foxmark/internal/filter"
	"github.com/runnerr0/foxmark/internal/report"
	"github.com/runnerr0/foxmark/internal/storage"
)

// Execute implements the go-flags Commander interface for HistoryCommand.
func (c *HistoryCommand) Execute(args []string) error {
	return runReport(report.History, c.ReportFlags, c.globals, c.env, args)
}

// Execute implements the go-flags Commander interface for BookmarksCommand.
func (c *BookmarksCommand) Execute(args []string) error {
	return runReport(report.Bookmarks, c.ReportFlags, c.globals, c.env, args)
}

func runReport(mode report.Mode, flags ReportFlags, globals *GlobalFlags, e *env, args []string) error {
	query := flags.Query
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}

	cfg, logger, err := setup(globals, e)
	if err != nil {
		return err
	}

	pipeline, err := filter.NewPipeline(query, flags.Filter, flags.Date)
	if err != nil {
		return err
	}

	sql, err := reportSQL(mode, cfg)
	if err != nil {
		return err
	}

	templatePath, err := config.ExpandPath(templateFile(mode, cfg))
	if err != nil {
		return err
	}
	tmpl, err := report.Template(mode, templatePath)
	if err != nil {
		return err
	}

	output, err := config.ExpandPath(flags.Output)
	if err != nil {
		return err
	}
	outputDir, err := config.ExpandPath(cfg.Report.OutputDir)
	if err != nil {
		return err
	}

	dbs, err := resolveDatabases(globals, cfg, logger)
	if err != nil {
		return err
	}

	runner := storage.NewRunner(logger)
	runner.TempDir = cfg.Snapshot.TempDir
	runner.BusyTimeout = time.Duration(cfg.Snapshot.BusyTimeoutMS) * time.Millisecond
	runner.Strict = cfg.Strict

	renderer := report.NewRenderer(runner, logger)
	if cfg.Report.OpenBrowser && !flags.NoOpen {
		renderer.SetViewer(e.viewer)
	}

	sum, err := renderer.Render(context.Background(), report.Options{
		Mode:           mode,
		SQL:            sql,
		Template:       tmpl,
		Pipeline:       pipeline,
		Output:         output,
		OutputDir:      outputDir,
		MaxTitle:       cfg.Display.MaxTitle,
		MaxLink:        cfg.Display.MaxLink,
		MaxDiagnostics: cfg.Logging.MaxDiagnostics,
		Strict:         cfg.Strict,
	}, dbs)
	if err != nil {
		return err
	}

	if globals.JSON {
		return printSummaryJSON(sum)
	}
	printSummaryHuman(sum)
	return nil
}

// reportSQL loads the query for mode. History queries get the permanent
// excludes folded in.
func reportSQL(mode report.Mode, cfg *config.Config) (string, error) {
	switch mode {
	case report.History:
		path, err := config.ExpandPath(cfg.Queries.HistoryFile)
		if err != nil {
			return "", err
		}
		base, err := storage.LoadQuery(path, storage.DefaultHistoryQuery())
		if err != nil {
			return "", err
		}
		return storage.HistoryQuery(base, cfg.History.PermanentExcludes), nil
	case report.Bookmarks:
		path, err := config.ExpandPath(cfg.Queries.BookmarksFile)
		if err != nil {
			return "", err
		}
		return storage.LoadQuery(path, storage.DefaultBookmarksQuery())
	default:
		return "", fmt.Errorf("unknown report mode %q", mode)
	}
}

func templateFile(mode report.Mode, cfg *config.Config) string {
	if mode == report.Bookmarks {
		return cfg.Templates.BookmarksFile
	}
	return cfg.Templates.HistoryFile
}

func printSummaryHuman(sum *report.Summary) {
	fmt.Printf("Wrote %s %s (%s) from %d %s to %s\n",
		humanize.Comma(int64(sum.Written)), plural(sum.Written, "row", "rows"),
		humanize.Bytes(uint64(sum.Bytes)),
		sum.Databases, plural(sum.Databases, "profile", "profiles"),
		sum.Path)
	if sum.Dropped > 0 || sum.Skipped > 0 {
		fmt.Printf("Filtered out %s, skipped %s\n",
			humanize.Comma(int64(sum.Dropped)), humanize.Comma(int64(sum.Skipped)))
	}
}

type jsonSummary struct {
	Mode      string `json:"mode"`
	Path      string `json:"path"`
	Databases int    `json:"databases"`
	Scanned   int    `json:"scanned"`
	Written   int    `json:"written"`
	Dropped   int    `json:"dropped"`
	Skipped   int    `json:"skipped"`
	Bytes     int64  `json:"bytes"`
}

func printSummaryJSON(sum *report.Summary) error {
	out := jsonSummary{
		Mode:      string(sum.Mode),
		Path:      sum.Path,
		Databases: sum.Databases,
		Scanned:   sum.Scanned,
		Written:   sum.Written,
		Dropped:   sum.Dropped,
		Skipped:   sum.Skipped,
		Bytes:     sum.Bytes,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
