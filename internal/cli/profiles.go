package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
)

type profileJSON struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

// Execute implements the go-flags Commander interface for ProfilesCommand.
func (c *ProfilesCommand) Execute(args []string) error {
	cfg, logger, err := setup(c.globals, c.env)
	if err != nil {
		return err
	}

	dbs, err := resolveDatabases(c.globals, cfg, logger)
	if err != nil {
		return err
	}

	out := make([]profileJSON, len(dbs))
	for i, db := range dbs {
		out[i] = profileJSON{Label: db.Label, Path: db.Path}
		if info, err := os.Stat(db.Path); err == nil {
			out[i].Bytes = info.Size()
		}
	}

	if c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, p := range out {
		fmt.Printf("%-20s %8s  %s\n", p.Label, humanize.Bytes(uint64(p.Bytes)), p.Path)
	}
	return nil
}
