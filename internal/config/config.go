// Package config provides configuration management for task.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ternarybob/task/internal/fileutil"
)

// RootEnv overrides the default root directory.
const RootEnv = "TASK_ROOT"

// Config represents the tool configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`

	// Root is the directory everything lives under. Not persisted.
	Root string `yaml:"-"`
}

// StorageConfig selects how task steps are encoded.
type StorageConfig struct {
	Backend string `yaml:"backend"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `yaml:"level"`
	Output     []string `yaml:"output"`
	Format     string   `yaml:"format"`
	TimeFormat string   `yaml:"time_format"`
	MaxSizeMB  int      `yaml:"max_size_mb"`
	MaxBackups int      `yaml:"max_backups"`
}

// DefaultConfig returns the default configuration rooted at root.
func DefaultConfig(root string) *Config {
	return &Config{
		Root: root,
		Storage: StorageConfig{
			Backend: "dir",
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Output:     []string{"file"},
			Format:     "text",
			TimeFormat: "15:04:05.000",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// DefaultRoot returns $TASK_ROOT, or ~/.task.
func DefaultRoot() string {
	if root := os.Getenv(RootEnv); root != "" {
		return expandHome(root)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".task")
}

// Load loads the settings file under root. A missing file yields defaults.
func Load(root string) (*Config, error) {
	root = expandHome(root)
	cfg := DefaultConfig(root)

	data, err := os.ReadFile(cfg.SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables in the config
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	cfg.Root = root

	return cfg, nil
}

// Save saves the settings file.
func (c *Config) Save() error {
	path := c.SettingsPath()
	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// ConfigDir returns the configuration area under the root.
func (c *Config) ConfigDir() string {
	return filepath.Join(c.Root, "config")
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.ConfigDir(), "settings.yaml")
}

// CurrentContextPath returns the path to the current-context pointer file.
func (c *Config) CurrentContextPath() string {
	return filepath.Join(c.ConfigDir(), "context.yaml")
}

// ContextsDir returns the directory holding one subdirectory per context.
func (c *Config) ContextsDir() string {
	return filepath.Join(c.Root, "contexts")
}

// LogPath returns the path to the log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Root, "logs", "task.log")
}

// EnsureDirectories creates all necessary directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.ConfigDir(),
		c.ContextsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
