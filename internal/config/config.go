package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/foxmark/config.yaml"

// Config holds all foxmark configuration.
type Config struct {
	History   HistoryConfig   `yaml:"history"`
	Display   DisplayConfig   `yaml:"display"`
	Report    ReportConfig    `yaml:"report"`
	Templates TemplatesConfig `yaml:"templates"`
	Queries   QueriesConfig   `yaml:"queries"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Logging   LoggingConfig   `yaml:"logging"`
	Firefox   FirefoxConfig   `yaml:"firefox"`

	// Strict turns unusable rows into fatal errors.
	Strict bool `yaml:"strict"`
}

type HistoryConfig struct {
	// PermanentExcludes are folded into the history SQL as NOT LIKE clauses.
	PermanentExcludes []string `yaml:"permanent_excludes"`
}

type DisplayConfig struct {
	MaxTitle int `yaml:"max_title"`
	MaxLink  int `yaml:"max_link"`
}

type ReportConfig struct {
	OutputDir   string `yaml:"output_dir"`
	OpenBrowser bool   `yaml:"open_browser"`
}

// TemplatesConfig overrides the embedded HTML templates. Empty means embedded.
type TemplatesConfig struct {
	HistoryFile   string `yaml:"history_file"`
	BookmarksFile string `yaml:"bookmarks_file"`
}

// QueriesConfig overrides the embedded SQL. Empty means embedded.
type QueriesConfig struct {
	HistoryFile   string `yaml:"history_file"`
	BookmarksFile string `yaml:"bookmarks_file"`
}

type SnapshotConfig struct {
	TempDir       string `yaml:"temp_dir"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms"`
}

type LoggingConfig struct {
	Level          string `yaml:"level"`
	MaxDiagnostics int    `yaml:"max_diagnostics"`
}

type FirefoxConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the renderer and runner cannot work with.
func (c *Config) Validate() error {
	if c.Display.MaxTitle <= 0 {
		return fmt.Errorf("display.max_title must be positive, got %d", c.Display.MaxTitle)
	}
	if c.Display.MaxLink <= 0 {
		return fmt.Errorf("display.max_link must be positive, got %d", c.Display.MaxLink)
	}
	if c.Snapshot.BusyTimeoutMS < 0 {
		return fmt.Errorf("snapshot.busy_timeout_ms must not be negative, got %d", c.Snapshot.BusyTimeoutMS)
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
