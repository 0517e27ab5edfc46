package contexts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ternarybob/task/internal/fileutil"
	"github.com/ternarybob/task/pkg/task"
)

// Current is the pointer to the selected context. It is loaded once when a
// command starts, handed to the operations that need it, and saved once at
// the end.
type Current struct {
	name  string
	dirty bool
}

// currentFile is the persisted form: plain "key: value" lines.
type currentFile struct {
	Name string `yaml:"name,omitempty"`
}

// LoadCurrent reads the pointer from path. A missing file is an unset pointer.
func LoadCurrent(path string) (*Current, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Current{}, nil
		}
		return nil, &task.IOError{Op: "read current context", Path: path, Err: err}
	}

	var f currentFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse current context file %s: %w", path, err)
	}
	return &Current{name: f.Name}, nil
}

// Name returns the selected context name, if any.
func (c *Current) Name() (string, bool) {
	return c.name, c.name != ""
}

// Set points at name.
func (c *Current) Set(name string) {
	if c.name != name {
		c.name = name
		c.dirty = true
	}
}

// Dirty reports whether the pointer changed since it was loaded or saved.
func (c *Current) Dirty() bool {
	return c.dirty
}

// Save writes the pointer to path if it changed.
func (c *Current) Save(path string) error {
	if !c.dirty {
		return nil
	}

	data, err := yaml.Marshal(currentFile{Name: c.name})
	if err != nil {
		return fmt.Errorf("marshal current context: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return &task.IOError{Op: "write current context", Path: path, Err: err}
	}

	c.dirty = false
	return nil
}
