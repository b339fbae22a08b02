package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/foxmark/internal/config"
	"github.com/runnerr0/foxmark/internal/report"
	"github.com/runnerr0/foxmark/internal/storage"
)

// Execute implements the go-flags Commander interface for CleanCommand.
func (c *CleanCommand) Execute(args []string) error {
	cfg, logger, err := setup(c.globals, c.env)
	if err != nil {
		return err
	}

	tempDir, err := config.ExpandPath(cfg.Snapshot.TempDir)
	if err != nil {
		return err
	}
	targets, err := storage.StaleSnapshots(tempDir)
	if err != nil {
		return fmt.Errorf("find snapshots: %w", err)
	}

	if c.Reports {
		outputDir, err := config.ExpandPath(cfg.Report.OutputDir)
		if err != nil {
			return err
		}
		targets = append(targets, report.ExistingReports(outputDir)...)
	}

	if len(targets) == 0 || c.DryRun {
		return c.print(targets, false)
	}

	// The prompt goes to stderr so stdout carries only the result.
	if !c.Force {
		for _, t := range targets {
			fmt.Fprintln(c.env.stderr, "  "+t)
		}
		fmt.Fprintf(c.env.stderr, "Remove %d %s? Proceed? [y/N] ", len(targets), plural(len(targets), "item", "items"))

		scanner := bufio.NewScanner(c.env.stdin)
		answer := ""
		if scanner.Scan() {
			answer = strings.ToLower(strings.TrimSpace(scanner.Text()))
		}
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(c.env.stderr, "Aborted.")
			return nil
		}
	}

	for _, t := range targets {
		if err := os.RemoveAll(t); err != nil {
			return fmt.Errorf("remove %s: %w", t, err)
		}
		logger.Debug().Str("path", t).Msg("removed")
	}
	return c.print(targets, true)
}

func (c *CleanCommand) print(targets []string, removed bool) error {
	if c.globals.JSON {
		out := map[string]interface{}{
			"paths":   targets,
			"removed": removed,
		}
		if targets == nil {
			out["paths"] = []string{}
		}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}

	switch {
	case len(targets) == 0:
		fmt.Println("Nothing to clean.")
	case removed:
		fmt.Printf("Removed %d %s.\n", len(targets), plural(len(targets), "item", "items"))
	default:
		fmt.Println("Would remove:")
		for _, t := range targets {
			fmt.Println("  " + t)
		}
	}
	return nil
}
