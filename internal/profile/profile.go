// Package profile finds the places databases of local Firefox profiles.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/ini.v1"

	"github.com/runnerr0/foxmark/internal/storage"
)

// DatabaseName is the file holding history and bookmarks in a profile.
const DatabaseName = "places.sqlite"

// ErrNoProfiles is returned when discovery finds no usable profile.
var ErrNoProfiles = errors.New("no firefox profiles found")

// DefaultRoot returns the Firefox data directory for the current platform.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Firefox"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Mozilla", "Firefox"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "Mozilla", "Firefox"), nil
	default:
		return filepath.Join(home, ".mozilla", "firefox"), nil
	}
}

// Discover lists the profile databases under root. Profiles come from
// root/profiles.ini when it exists, otherwise from profile directories
// directly under root or root/Profiles. When names is not empty only
// profiles whose label or directory name is listed are returned.
func Discover(root string, names []string, logger zerolog.Logger) ([]storage.ProfileDatabase, error) {
	var (
		dbs []storage.ProfileDatabase
		err error
	)

	iniPath := filepath.Join(root, "profiles.ini")
	if _, statErr := os.Stat(iniPath); statErr == nil {
		dbs, err = fromINI(root, iniPath, logger)
	} else {
		logger.Debug().Str("root", root).Msg("no profiles.ini, scanning directories")
		dbs, err = scan(root)
	}
	if err != nil {
		return nil, err
	}

	dbs = selectNamed(dbs, names)
	if len(dbs) == 0 {
		if len(names) > 0 {
			return nil, fmt.Errorf("%w under %s matching %s", ErrNoProfiles, root, strings.Join(names, ", "))
		}
		return nil, fmt.Errorf("%w under %s", ErrNoProfiles, root)
	}
	return dbs, nil
}

func fromINI(root, iniPath string, logger zerolog.Logger) ([]storage.ProfileDatabase, error) {
	cfg, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", iniPath, err)
	}

	var dbs []storage.ProfileDatabase
	for _, sec := range cfg.Sections() {
		if !strings.HasPrefix(sec.Name(), "Profile") || !sec.HasKey("Path") {
			continue
		}

		dir := filepath.FromSlash(sec.Key("Path").String())
		if sec.Key("IsRelative").MustBool(true) && !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}

		path := filepath.Join(dir, DatabaseName)
		if _, err := os.Stat(path); err != nil {
			logger.Debug().Str("profile", sec.Name()).Str("path", path).Msg("skipping profile without places database")
			continue
		}

		label := sec.Key("Name").String()
		if label == "" {
			label = filepath.Base(dir)
		}
		dbs = append(dbs, storage.ProfileDatabase{Path: path, Label: label})
	}
	return dbs, nil
}

func scan(root string) ([]storage.ProfileDatabase, error) {
	var paths []string
	for _, pattern := range []string{
		filepath.Join(root, "*", DatabaseName),
		filepath.Join(root, "Profiles", "*", DatabaseName),
	} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	dbs := make([]storage.ProfileDatabase, 0, len(paths))
	for _, path := range paths {
		dbs = append(dbs, storage.NewProfileDatabase(path))
	}
	return dbs, nil
}

func selectNamed(dbs []storage.ProfileDatabase, names []string) []storage.ProfileDatabase {
	if len(names) == 0 {
		return dbs
	}
	var out []storage.ProfileDatabase
	for _, db := range dbs {
		dirName := filepath.Base(filepath.Dir(db.Path))
		for _, name := range names {
			if name == db.Label || name == dirName {
				out = append(out, db)
				break
			}
		}
	}
	return out
}

// FromPaths wraps explicit database paths, bypassing discovery.
func FromPaths(paths []string) ([]storage.ProfileDatabase, error) {
	dbs := make([]storage.ProfileDatabase, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("database %s: %w", path, err)
		}
		dbs = append(dbs, storage.NewProfileDatabase(path))
	}
	return dbs, nil
}
