package task

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/task/internal/fileutil"
)

// StepExt is the extension of step files written by the dir backend.
const StepExt = ".step"

// DirBackend stores one file per step: ADD.step, 1.step, ..., SOLVE.step.
// File content is the raw description.
type DirBackend struct{}

// Name returns "dir".
func (DirBackend) Name() string { return "dir" }

// Detect reports whether the ADD step file exists.
func (DirBackend) Detect(taskDir string) bool {
	return fileutil.IsFile(filepath.Join(taskDir, string(LabelAdd)+StepExt))
}

// Open returns a store over taskDir.
func (DirBackend) Open(taskDir string) (StepStore, error) {
	return &dirStore{dir: taskDir}, nil
}

type dirStore struct {
	dir string
}

func (s *dirStore) path(label Label) string {
	return filepath.Join(s.dir, string(label)+StepExt)
}

func (s *dirStore) Labels() ([]Label, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, ioErr("read task directory", s.dir, err)
	}

	var labels []Label
	for _, entry := range entries {
		name := entry.Name()
		// Hidden entries include in-flight temp files from atomic writes
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != StepExt {
			continue
		}
		if l, ok := ParseLabel(strings.TrimSuffix(name, StepExt)); ok {
			labels = append(labels, l)
		}
	}
	return labels, nil
}

func (s *dirStore) Read(label Label) (string, error) {
	data, err := os.ReadFile(s.path(label))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("step %s: %w", label, ErrNotFound)
		}
		return "", ioErr("read step", s.path(label), err)
	}
	return string(data), nil
}

func (s *dirStore) Write(label Label, description string) error {
	if err := fileutil.WriteFileAtomic(s.path(label), []byte(description)); err != nil {
		return ioErr("write step", s.path(label), err)
	}
	return nil
}

func (s *dirStore) Close() error {
	return nil
}
