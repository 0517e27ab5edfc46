// Package contexts manages the named contexts tasks live in and the
// persisted pointer to the current one.
package contexts

import (
	"os"
	"path/filepath"

	"github.com/ternarybob/task/internal/fileutil"
	"github.com/ternarybob/task/pkg/task"
)

// Store manages contexts as subdirectories of a contexts root.
type Store struct {
	root string
}

// NewStore creates a context store rooted at root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Path returns the directory of the named context.
func (s *Store) Path(name string) string {
	return filepath.Join(s.root, name)
}

// Exists reports whether the named context exists.
func (s *Store) Exists(name string) bool {
	if task.ValidateName(name) != nil {
		return false
	}
	return fileutil.IsDir(s.Path(name))
}

// Create creates a context, along with any missing parent directories.
// Creating an existing context fails with task.ErrAlreadyExists.
func (s *Store) Create(name string) error {
	if err := task.ValidateName(name); err != nil {
		return err
	}
	if err := fileutil.EnsureDir(s.root); err != nil {
		return &task.IOError{Op: "create contexts root", Path: s.root, Err: err}
	}

	path := s.Path(name)
	if err := os.Mkdir(path, 0755); err != nil {
		if os.IsExist(err) {
			return task.ContextError(name, task.ErrAlreadyExists)
		}
		return &task.IOError{Op: "create context", Path: path, Err: err}
	}
	return nil
}

// List returns the names of all contexts, sorted alphabetically.
func (s *Store) List() ([]string, error) {
	names, err := fileutil.SubDirs(s.root)
	if err != nil {
		return nil, &task.IOError{Op: "list contexts", Path: s.root, Err: err}
	}
	return names, nil
}

// Select points cur at the named context. A context that does not exist
// yields task.ErrNotFound and leaves cur unchanged.
func (s *Store) Select(cur *Current, name string) error {
	if err := task.ValidateName(name); err != nil {
		return err
	}
	if !s.Exists(name) {
		return task.ContextError(name, task.ErrNotFound)
	}
	cur.Set(name)
	return nil
}

// Resolve returns the current context name. An unset pointer yields
// task.ErrNoContext; a pointer to a context that no longer exists yields
// task.ErrNotFound.
func (s *Store) Resolve(cur *Current) (string, error) {
	name, ok := cur.Name()
	if !ok {
		return "", task.ErrNoContext
	}
	if !s.Exists(name) {
		return "", task.ContextError(name, task.ErrNotFound)
	}
	return name, nil
}
