package fileutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Join(dir, "missing.txt")))
	assert.False(t, FileExists(dir), "directories are not files")
}

func TestDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, DirectoryExists(dir))
	assert.False(t, DirectoryExists(filepath.Join(dir, "missing")))
}

func TestEnsureDirectoryExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, EnsureDirectoryExists(dir))
	assert.True(t, DirectoryExists(dir))

	// Idempotent.
	require.NoError(t, EnsureDirectoryExists(dir))
}

func TestWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	require.NoError(t, WriteFile(path, []byte(`{"ok":true}`), 0600))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
