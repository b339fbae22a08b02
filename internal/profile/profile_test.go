package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// touchDB creates an empty places database file under dir.
func touchDB(t *testing.T, dir string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, DatabaseName)
	require.NoError(t, os.WriteFile(path, nil, 0644))
	return path
}

func TestDiscover_ProfilesINI(t *testing.T) {
	root := t.TempDir()
	elsewhere := t.TempDir()

	relDB := touchDB(t, filepath.Join(root, "abcd.default-release"))
	absDB := touchDB(t, filepath.Join(elsewhere, "work"))

	ini := `[General]
StartWithLastProfile=1

[Profile0]
Name=default-release
IsRelative=1
Path=abcd.default-release
Default=1

[Profile1]
Name=work
IsRelative=0
Path=` + filepath.ToSlash(filepath.Join(elsewhere, "work")) + `

[Profile2]
Name=empty
IsRelative=1
Path=efgh.empty

[Install4F96D1932A9F858E]
Default=abcd.default-release
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "profiles.ini"), []byte(ini), 0644))

	dbs, err := Discover(root, nil, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, dbs, 2)

	assert.Equal(t, "default-release", dbs[0].Label)
	assert.Equal(t, relDB, dbs[0].Path)
	assert.Equal(t, "work", dbs[1].Label)
	assert.Equal(t, absDB, dbs[1].Path)
}

func TestDiscover_SelectByName(t *testing.T) {
	root := t.TempDir()
	touchDB(t, filepath.Join(root, "abcd.default"))
	touchDB(t, filepath.Join(root, "wxyz.work"))

	ini := `[Profile0]
Name=home
Path=abcd.default

[Profile1]
Name=work
Path=wxyz.work
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "profiles.ini"), []byte(ini), 0644))

	dbs, err := Discover(root, []string{"work"}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, dbs, 1)
	assert.Equal(t, "work", dbs[0].Label)

	// Directory names select too.
	dbs, err = Discover(root, []string{"abcd.default"}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, dbs, 1)
	assert.Equal(t, "home", dbs[0].Label)

	_, err = Discover(root, []string{"nobody"}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoProfiles)
}

func TestDiscover_ScanWithoutINI(t *testing.T) {
	root := t.TempDir()
	b := touchDB(t, filepath.Join(root, "bbbb.default"))
	a := touchDB(t, filepath.Join(root, "Profiles", "aaaa.default-release"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Crash Reports"), 0755))

	dbs, err := Discover(root, nil, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, dbs, 2)

	paths := []string{dbs[0].Path, dbs[1].Path}
	assert.ElementsMatch(t, []string{a, b}, paths)
	for _, db := range dbs {
		assert.Equal(t, filepath.Base(filepath.Dir(db.Path)), db.Label)
	}
}

func TestDiscover_NothingFound(t *testing.T) {
	_, err := Discover(t.TempDir(), nil, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoProfiles)
}

func TestFromPaths(t *testing.T) {
	path := touchDB(t, filepath.Join(t.TempDir(), "copy"))

	dbs, err := FromPaths([]string{path})
	require.NoError(t, err)
	require.Len(t, dbs, 1)
	assert.Equal(t, "copy", dbs[0].Label)

	_, err = FromPaths([]string{filepath.Join(t.TempDir(), "missing.sqlite")})
	assert.Error(t, err)
}

func TestDefaultRoot(t *testing.T) {
	root, err := DefaultRoot()
	require.NoError(t, err)
	assert.Contains(t, root, "irefox")
}
