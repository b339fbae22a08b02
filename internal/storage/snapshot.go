package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SnapshotPrefix starts the name of every snapshot directory.
const SnapshotPrefix = "foxmark-snapshot-"

// snapshot is a private point-in-time copy of a places database.
type snapshot struct {
	dir  string
	Path string
}

// takeSnapshot copies the database at src, plus its -wal sidecar when one
// exists, into a fresh directory under tempDir ("" means os.TempDir()).
func takeSnapshot(src, tempDir string) (*snapshot, error) {
	dir, err := os.MkdirTemp(tempDir, SnapshotPrefix)
	if err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	snap := &snapshot{dir: dir, Path: filepath.Join(dir, filepath.Base(src))}

	if err := copyFile(src, snap.Path); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	wal := src + "-wal"
	if _, err := os.Stat(wal); err == nil {
		if err := copyFile(wal, snap.Path+"-wal"); err != nil {
			os.RemoveAll(dir)
			return nil, err
		}
	}

	return snap, nil
}

// Remove deletes the snapshot directory and everything in it.
func (s *snapshot) Remove() error {
	return os.RemoveAll(s.dir)
}

// StaleSnapshots lists snapshot directories under tempDir ("" means
// os.TempDir()). Only a run that died mid-report leaves them behind.
func StaleSnapshots(tempDir string) ([]string, error) {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	matches, err := filepath.Glob(filepath.Join(tempDir, SnapshotPrefix+"*"))
	if err != nil {
		return nil, err
	}

	dirs := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			dirs = append(dirs, m)
		}
	}
	return dirs, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}
