package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, "dir", cfg.Storage.Backend)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, []string{"file"}, cfg.Logging.Output)
}

func TestLoad_SettingsFile(t *testing.T) {
	root := t.TempDir()
	t.Setenv("TASK_TEST_LEVEL", "debug")

	settings := `
storage:
  backend: bolt
logging:
  level: ${TASK_TEST_LEVEL}
  output: [console]
`
	path := filepath.Join(root, "config", "settings.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(settings), 0644))

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "bolt", cfg.Storage.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"console"}, cfg.Logging.Output)
	// Unset keys keep their defaults
	assert.Equal(t, "15:04:05.000", cfg.Logging.TimeFormat)
}

func TestLoad_Malformed(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "config", "settings.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("storage: [oops"), 0644))

	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestSaveAndReload(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig(root)
	cfg.Storage.Backend = "toml"

	require.NoError(t, cfg.Save())
	assert.FileExists(t, cfg.SettingsPath())

	loaded, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "toml", loaded.Storage.Backend)
}

func TestPaths(t *testing.T) {
	cfg := DefaultConfig("/data")

	assert.Equal(t, filepath.Join("/data", "config", "context.yaml"), cfg.CurrentContextPath())
	assert.Equal(t, filepath.Join("/data", "contexts"), cfg.ContextsDir())
	assert.Equal(t, filepath.Join("/data", "logs", "task.log"), cfg.LogPath())
}

func TestDefaultRoot(t *testing.T) {
	t.Setenv(RootEnv, "/custom/root")
	assert.Equal(t, "/custom/root", DefaultRoot())

	t.Setenv(RootEnv, "")
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".task"), DefaultRoot())
}

func TestEnsureDirectories(t *testing.T) {
	cfg := DefaultConfig(filepath.Join(t.TempDir(), "root"))

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.ConfigDir())
	assert.DirExists(t, cfg.ContextsDir())
}
