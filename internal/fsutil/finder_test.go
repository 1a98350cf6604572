package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b", "uart.hcl"))
	writeFile(t, filepath.Join(root, "a.hcl"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, ".git", "hidden.hcl"))

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "b", "uart.hcl"),
	}, files)
}

func TestFindFilesByExtensionPanicsOnEmptyExtension(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir(), "") })
}

func TestRelFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "x.v"))
	writeFile(t, filepath.Join(root, "sub", "y.vh"))

	files, err := RelFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/y.vh", "x.v"}, files)

	files, err = RelFiles(filepath.Join(root, "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)

	assert.True(t, IsDir(root))
	assert.False(t, IsDir(filepath.Join(root, "x.v")))
}

func TestRelFilesIncludesLinkedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "x.v"))
	require.NoError(t, os.Symlink(filepath.Join(root, "x.v"), filepath.Join(root, "link.v")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.v"), filepath.Join(root, "dangling.v")))

	files, err := RelFiles(root)

	require.NoError(t, err)
	assert.Equal(t, []string{"link.v", "x.v"}, files)
}
