package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/runnerr0/foxmark/internal/config"
	"github.com/runnerr0/foxmark/internal/profile"
	"github.com/runnerr0/foxmark/internal/storage"
)

// setup resolves the configuration and builds the logger for a run.
// Priority: --config flag > default config file > built-in defaults.
// An explicit --config that cannot be loaded is fatal; an unusable default
// file falls back to built-in defaults with a warning.
func setup(globals *GlobalFlags, e *env) (*config.Config, zerolog.Logger, error) {
	var cfg *config.Config
	var fallback error

	if globals.Config != "" {
		path, err := config.ExpandPath(globals.Config)
		if err != nil {
			return nil, zerolog.Nop(), err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return nil, zerolog.Nop(), fmt.Errorf("load config %s: %w", path, err)
		}
	} else {
		var err error
		cfg, err = config.LoadOrCreate()
		if err != nil {
			fallback = err
			cfg = config.DefaultConfig()
		}
	}

	if globals.Strict {
		cfg.Strict = true
	}

	logger, err := newLogger(e.stderr, cfg.Logging.Level, globals.Verbose)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if fallback != nil {
		logger.Warn().Err(fallback).Str("path", config.DefaultConfigPath).Msg("ignoring config file, using built-in defaults")
	}
	return cfg, logger, nil
}

// newLogger builds the console logger used for diagnostics.
func newLogger(w io.Writer, level string, verbose bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// resolveDatabases picks the profile databases to read.
// Priority: --db paths > discovery under --firefox-dir > config dir > platform default.
func resolveDatabases(globals *GlobalFlags, cfg *config.Config, logger zerolog.Logger) ([]storage.ProfileDatabase, error) {
	if len(globals.DB) > 0 {
		paths := make([]string, 0, len(globals.DB))
		for _, p := range globals.DB {
			expanded, err := config.ExpandPath(p)
			if err != nil {
				return nil, err
			}
			paths = append(paths, expanded)
		}
		return profile.FromPaths(paths)
	}

	root := globals.FirefoxDir
	if root == "" {
		root = cfg.Firefox.Dir
	}
	if root == "" {
		var err error
		root, err = profile.DefaultRoot()
		if err != nil {
			return nil, err
		}
	}
	root, err := config.ExpandPath(root)
	if err != nil {
		return nil, err
	}

	return profile.Discover(root, globals.Profile, logger)
}

// plural picks the singular or plural noun for n.
func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
