package task

import (
	"fmt"
	"sort"
)

// StepStore holds the steps of a single task.
type StepStore interface {
	// Labels returns the labels present, in no particular order.
	Labels() ([]Label, error)

	// Read returns the description stored under label.
	// A missing label is reported as ErrNotFound.
	Read(label Label) (string, error)

	// Write stores description under label, replacing any previous value.
	Write(label Label, description string) error

	// Close releases resources held by the store.
	Close() error
}

// Backend encodes a task's steps inside its task directory.
type Backend interface {
	// Name identifies the backend in configuration.
	Name() string

	// Detect reports whether taskDir already holds steps in this encoding.
	Detect(taskDir string) bool

	// Open returns the step store for taskDir. The directory must exist.
	Open(taskDir string) (StepStore, error)
}

var backends = map[string]Backend{}

// Register makes a backend available by name.
func Register(b Backend) {
	backends[b.Name()] = b
}

// LookupBackend returns the registered backend with the given name.
func LookupBackend(name string) (Backend, error) {
	b, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown storage backend %q (available: %v)", name, BackendNames())
	}
	return b, nil
}

// BackendNames returns the registered backend names, sorted.
func BackendNames() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(DirBackend{})
	Register(TOMLBackend{})
	Register(BoltBackend{})
	Register(SQLiteBackend{})
}

// readSteps loads the steps for labels, in display order.
func readSteps(ss StepStore, labels []Label) ([]Step, error) {
	sorted := append([]Label(nil), labels...)
	SortLabels(sorted)

	steps := make([]Step, 0, len(sorted))
	for _, l := range sorted {
		desc, err := ss.Read(l)
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{Label: l, Description: desc})
	}
	return steps, nil
}
