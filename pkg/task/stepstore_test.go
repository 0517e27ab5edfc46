package task

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBackend(t *testing.T, b Backend) (StepStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "task")
	require.NoError(t, os.Mkdir(dir, 0755))

	ss, err := b.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })
	return ss, dir
}

func TestBackends_Conformance(t *testing.T) {
	for _, name := range BackendNames() {
		b, err := LookupBackend(name)
		require.NoError(t, err)

		t.Run(name, func(t *testing.T) {
			ss, dir := openBackend(t, b)

			labels, err := ss.Labels()
			require.NoError(t, err)
			assert.Empty(t, labels)

			_, err = ss.Read(LabelAdd)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, ss.Write(LabelAdd, "draft outline"))
			require.NoError(t, ss.Write("1", "line one\nline two"))
			require.NoError(t, ss.Write(LabelSolve, ""))

			labels, err = ss.Labels()
			require.NoError(t, err)
			assert.ElementsMatch(t, []Label{LabelAdd, "1", LabelSolve}, labels)

			desc, err := ss.Read("1")
			require.NoError(t, err)
			assert.Equal(t, "line one\nline two", desc)

			desc, err = ss.Read(LabelSolve)
			require.NoError(t, err)
			assert.Equal(t, "", desc)

			// Overwrite replaces the description
			require.NoError(t, ss.Write(LabelAdd, "final outline"))
			desc, err = ss.Read(LabelAdd)
			require.NoError(t, err)
			assert.Equal(t, "final outline", desc)

			assert.True(t, b.Detect(dir))
		})
	}
}

func TestBackends_PersistAcrossOpen(t *testing.T) {
	for _, name := range BackendNames() {
		b, _ := LookupBackend(name)

		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "task")
			require.NoError(t, os.Mkdir(dir, 0755))

			ss, err := b.Open(dir)
			require.NoError(t, err)
			require.NoError(t, ss.Write(LabelAdd, "kept"))
			require.NoError(t, ss.Close())

			reopened, err := b.Open(dir)
			require.NoError(t, err)
			defer reopened.Close()

			desc, err := reopened.Read(LabelAdd)
			require.NoError(t, err)
			assert.Equal(t, "kept", desc)
		})
	}
}

func TestDirBackend_FileLayout(t *testing.T) {
	ss, dir := openBackend(t, DirBackend{})

	require.NoError(t, ss.Write(LabelAdd, "raw text"))
	require.NoError(t, ss.Write("1", "next"))

	content, err := os.ReadFile(filepath.Join(dir, "ADD.step"))
	require.NoError(t, err)
	assert.Equal(t, "raw text", string(content))
	assert.FileExists(t, filepath.Join(dir, "1.step"))
}

func TestDirBackend_IgnoresForeignFiles(t *testing.T) {
	ss, dir := openBackend(t, DirBackend{})
	require.NoError(t, ss.Write(LabelAdd, "a"))

	for _, name := range []string{"notes.txt", "x.step", ".1.step.tmp-123", "0.step"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("junk"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "2.step"), 0755))

	labels, err := ss.Labels()
	require.NoError(t, err)
	assert.Equal(t, []Label{LabelAdd}, labels)
}

func TestLookupBackend_Unknown(t *testing.T) {
	_, err := LookupBackend("mongo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
	assert.Equal(t, []string{"bolt", "dir", "sqlite", "toml"}, BackendNames())
}
