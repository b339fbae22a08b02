package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100, cfg.Display.MaxTitle)
	assert.Equal(t, 100, cfg.Display.MaxLink)
	assert.True(t, cfg.Report.OpenBrowser)
	assert.Empty(t, cfg.Report.OutputDir)
	assert.Empty(t, cfg.Templates.HistoryFile)
	assert.Empty(t, cfg.Queries.BookmarksFile)
	assert.Equal(t, 0, cfg.Snapshot.BusyTimeoutMS)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Logging.MaxDiagnostics)
	assert.False(t, cfg.Strict)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultHistoryExcludesIsPopulated(t *testing.T) {
	excludes := DefaultHistoryExcludes()
	assert.NotEmpty(t, excludes)

	assert.Contains(t, excludes, "google.com")
	assert.Contains(t, excludes, "127.0.0.1")
	assert.Equal(t, excludes, DefaultConfig().History.PermanentExcludes)
}

func TestLoadValidYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
display:
  max_title: 40
report:
  open_browser: false
  output_dir: "/tmp/reports"
snapshot:
  busy_timeout_ms: 250
logging:
  level: "debug"
strict: true
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, 40, cfg.Display.MaxTitle)
	assert.False(t, cfg.Report.OpenBrowser)
	assert.Equal(t, "/tmp/reports", cfg.Report.OutputDir)
	assert.Equal(t, 250, cfg.Snapshot.BusyTimeoutMS)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Strict)

	// Non-overridden values remain defaults
	assert.Equal(t, 100, cfg.Display.MaxLink)
	assert.Equal(t, 10, cfg.Logging.MaxDiagnostics)
	assert.Equal(t, DefaultHistoryExcludes(), cfg.History.PermanentExcludes)
}

func TestLoadReplacesPermanentExcludes(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
history:
  permanent_excludes:
    - "example.com"
    - "%/ads/%"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(yamlContent), 0644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "%/ads/%"}, cfg.History.PermanentExcludes)
}

func TestLoadEmptyPermanentExcludes(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	require.NoError(t, os.WriteFile(cfgPath, []byte("history:\n  permanent_excludes: []\n"), 0644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.History.PermanentExcludes)
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	err := os.WriteFile(cfgPath, []byte(":::not valid yaml{{{"), 0644)
	require.NoError(t, err)

	_, err = Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveWidths(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	require.NoError(t, os.WriteFile(cfgPath, []byte("display:\n  max_link: 0\n"), 0644))

	_, err := Load(cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_link")
}

func TestLoadNonExistentFileReturnsError(t *testing.T) {
	_, err := Load("/tmp/nonexistent_path_12345/config.yaml")
	assert.Error(t, err)
}

func TestLoadOrCreateCreatesDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "deep", "config.yaml")

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)

	// Should return defaults
	assert.Equal(t, 100, cfg.Display.MaxTitle)
	assert.Equal(t, "info", cfg.Logging.Level)

	// File should now exist on disk
	_, statErr := os.Stat(cfgPath)
	assert.NoError(t, statErr)

	// File should be valid YAML loadable again
	cfg2, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.History.PermanentExcludes, cfg2.History.PermanentExcludes)
	assert.Equal(t, cfg.Report.OpenBrowser, cfg2.Report.OpenBrowser)
}

func TestLoadOrCreateLoadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
display:
  max_title: 7
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Display.MaxTitle)
	// Other fields remain defaults
	assert.Equal(t, 100, cfg.Display.MaxLink)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/foo/bar")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "foo", "bar"), got)

	got, err = ExpandPath("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}
