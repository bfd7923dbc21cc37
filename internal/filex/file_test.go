package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_RelativeResolvesAgainstCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir(".nutriledger")
	require.NoError(t, err)

	// TempDir may sit behind a symlink (macOS), so compare resolved paths.
	wantDir, err := filepath.EvalSymlinks(tmp)
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(filepath.Dir(got))
	require.NoError(t, err)
	assert.Equal(t, wantDir, gotDir)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o700), fi.Mode().Perm())
	}
}

func TestEnsureDir_AbsoluteAndIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	first, err := EnsureDir(dir)
	require.NoError(t, err)
	second, err := EnsureDir(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, first)
	assert.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := EnsureDir(path)
	assert.Error(t, err)
}

func TestReadLimited(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o600))

	b, err := ReadLimited(path, 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(b))

	_, err = ReadLimited(path, 4)
	assert.ErrorContains(t, err, "limit is 4")

	_, err = ReadLimited(dir, 100)
	assert.ErrorContains(t, err, "is a directory")

	_, err = ReadLimited(filepath.Join(dir, "missing"), 100)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
