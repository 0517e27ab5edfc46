package task

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Expected, user-facing conditions. Callers match them with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrAlreadySolved = errors.New("already marked as solved")
	ErrNoContext     = errors.New("no context selected")
	ErrInvalidName   = errors.New("invalid name")
)

// Subject kinds carried by SubjectError.
const (
	KindContext = "context"
	KindTask    = "task"
)

// SubjectError attaches the context or task an expected condition is about.
type SubjectError struct {
	Kind string
	Name string
	Err  error
}

func (e *SubjectError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *SubjectError) Unwrap() error {
	return e.Err
}

// ContextError wraps err as a condition about context name.
func ContextError(name string, err error) error {
	return &SubjectError{Kind: KindContext, Name: name, Err: err}
}

func taskError(name string, err error) error {
	return &SubjectError{Kind: KindTask, Name: name, Err: err}
}

// IOError reports a low-level filesystem or storage failure.
// It is fatal for the running command and carries the underlying cause.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func ioErr(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

// ValidateName rejects names that cannot be stored as a single visible
// directory entry. Dot-prefixed entries are hidden and never listed.
func ValidateName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") ||
		strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}
