package platform

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRoot(t *testing.T) (*os.Root, string) {
	t.Helper()
	dir := t.TempDir()
	root, err := os.OpenRoot(dir)
	require.NoError(t, err)
	t.Cleanup(func() { root.Close() })
	return root, dir
}

func TestOpenSource_RegularFile(t *testing.T) {
	t.Parallel()

	root, dir := openRoot(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o600))

	f, err := OpenSource(root, "a.txt")
	require.NoError(t, err)
	defer f.Close()

	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestOpenSource_Directory(t *testing.T) {
	t.Parallel()

	root, dir := openRoot(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o750))

	_, err := OpenSource(root, "sub")
	require.ErrorIs(t, err, ErrNotRegular)
}

func TestOpenSource_Symlink(t *testing.T) {
	t.Parallel()

	root, dir := openRoot(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "target"), []byte("x"), 0o600))
	if err := os.Symlink("target", filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := OpenSource(root, "link")
	require.ErrorIs(t, err, ErrSymlink)
}

func TestOpenSource_Missing(t *testing.T) {
	t.Parallel()

	root, _ := openRoot(t)
	_, err := OpenSource(root, "missing")
	require.ErrorIs(t, err, os.ErrNotExist)
}
