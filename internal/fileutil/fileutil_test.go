package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesParents(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "a", "b", "c")

	require.NoError(t, EnsureDir(path))
	assert.True(t, IsDir(path))

	// Second call on an existing tree is not an error
	assert.NoError(t, EnsureDir(path))
}

func TestWriteFileAtomic(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "ADD.step")

	require.NoError(t, WriteFileAtomic(path, []byte("first")))
	require.NoError(t, WriteFileAtomic(path, []byte("second\nline")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\nline", string(content))

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ADD.step", entries[0].Name())
	assert.True(t, IsFile(path))
}

func TestSubDirs(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"zeta", "alpha", ".hidden"} {
		require.NoError(t, os.Mkdir(filepath.Join(tmpDir, name), 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "file.txt"), []byte("x"), 0644))

	names, err := SubDirs(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)

	missing, err := SubDirs(filepath.Join(tmpDir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.False(t, Exists(filepath.Join(tmpDir, "missing")))
}
