package task

import (
	"os"
	"path/filepath"

	"github.com/ternarybob/task/internal/fileutil"
)

// Filter selects which tasks List returns.
type Filter int

const (
	// FilterUnsolved lists tasks without a SOLVE step.
	FilterUnsolved Filter = iota
	// FilterSolved lists tasks with a SOLVE step.
	FilterSolved
	// FilterAll lists every task.
	FilterAll
)

// Match reports whether a task with the given solved state passes the filter.
func (f Filter) Match(solved bool) bool {
	switch f {
	case FilterAll:
		return true
	case FilterSolved:
		return solved
	default:
		return !solved
	}
}

// Summary is the abbreviated view of a task used by List:
// the ADD step followed by SOLVE, or by the latest progress step.
type Summary struct {
	Name   string
	Solved bool
	Steps  []Step
}

// Store manages the tasks of every context under a contexts root.
//
// Operations take the context name explicitly. Callers are responsible for
// resolving the current context first; a missing context directory is
// reported as ErrNotFound.
type Store struct {
	root    string
	backend Backend
}

// NewStore creates a task store rooted at contextsRoot.
// New tasks are encoded with backend; existing tasks keep the encoding they
// were created with.
func NewStore(contextsRoot string, backend Backend) *Store {
	if backend == nil {
		backend = DirBackend{}
	}
	return &Store{root: contextsRoot, backend: backend}
}

// Backend returns the backend used for new tasks.
func (s *Store) Backend() Backend {
	return s.backend
}

// TaskDir returns the directory of a task.
func (s *Store) TaskDir(context, name string) string {
	return filepath.Join(s.root, context, name)
}

// Exists reports whether the task exists in context.
func (s *Store) Exists(context, name string) bool {
	if ValidateName(context) != nil || ValidateName(name) != nil {
		return false
	}
	return fileutil.IsDir(s.TaskDir(context, name))
}

// Create creates a task and writes its ADD step.
func (s *Store) Create(context, name, description string) error {
	if err := s.checkContext(context); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}

	dir := s.TaskDir(context, name)
	if fileutil.Exists(dir) {
		return taskError(name, ErrAlreadyExists)
	}
	if err := os.Mkdir(dir, 0755); err != nil {
		if os.IsExist(err) {
			return taskError(name, ErrAlreadyExists)
		}
		return ioErr("create task directory", dir, err)
	}

	ss, err := s.backend.Open(dir)
	if err != nil {
		os.RemoveAll(dir)
		return err
	}

	if err := ss.Write(LabelAdd, description); err != nil {
		// A task directory without its ADD step is not a task
		ss.Close()
		os.RemoveAll(dir)
		return err
	}
	return ss.Close()
}

// Append adds a progress step and returns its label.
// The label is one more than the highest existing progress number.
// Solved tasks are terminal: appending to one fails with ErrAlreadySolved.
func (s *Store) Append(context, name, description string) (Label, error) {
	ss, err := s.openTask(context, name)
	if err != nil {
		return "", err
	}
	defer ss.Close()

	labels, err := ss.Labels()
	if err != nil {
		return "", err
	}
	if hasLabel(labels, LabelSolve) {
		return "", taskError(name, ErrAlreadySolved)
	}

	next := NextProgress(labels)
	if err := ss.Write(next, description); err != nil {
		return "", err
	}
	return next, nil
}

// Solve writes the SOLVE step. A task is solved at most once; solving it
// again fails with ErrAlreadySolved and leaves the stored step untouched.
func (s *Store) Solve(context, name, description string) error {
	ss, err := s.openTask(context, name)
	if err != nil {
		return err
	}
	defer ss.Close()

	labels, err := ss.Labels()
	if err != nil {
		return err
	}
	if hasLabel(labels, LabelSolve) {
		return taskError(name, ErrAlreadySolved)
	}
	return ss.Write(LabelSolve, description)
}

// Solved reports whether the task has a SOLVE step.
func (s *Store) Solved(context, name string) (bool, error) {
	ss, err := s.openTask(context, name)
	if err != nil {
		return false, err
	}
	defer ss.Close()

	labels, err := ss.Labels()
	if err != nil {
		return false, err
	}
	return hasLabel(labels, LabelSolve), nil
}

// History returns every step of the task in display order:
// ADD, progress steps ascending, then SOLVE.
func (s *Store) History(context, name string) ([]Step, error) {
	ss, err := s.openTask(context, name)
	if err != nil {
		return nil, err
	}
	defer ss.Close()

	labels, err := ss.Labels()
	if err != nil {
		return nil, err
	}
	return readSteps(ss, labels)
}

// List returns the summaries of the tasks in context passing filter,
// sorted by task name.
func (s *Store) List(context string, filter Filter) ([]Summary, error) {
	if err := s.checkContext(context); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, context)
	names, err := fileutil.SubDirs(dir)
	if err != nil {
		return nil, ioErr("read context directory", dir, err)
	}

	summaries := make([]Summary, 0, len(names))
	for _, name := range names {
		summary, err := s.summarize(context, name)
		if err != nil {
			return nil, err
		}
		if filter.Match(summary.Solved) {
			summaries = append(summaries, summary)
		}
	}
	return summaries, nil
}

func (s *Store) summarize(context, name string) (Summary, error) {
	ss, err := s.open(s.TaskDir(context, name))
	if err != nil {
		return Summary{}, err
	}
	defer ss.Close()

	labels, err := ss.Labels()
	if err != nil {
		return Summary{}, err
	}

	shown := make([]Label, 0, 2)
	if hasLabel(labels, LabelAdd) {
		shown = append(shown, LabelAdd)
	}
	solved := hasLabel(labels, LabelSolve)
	if solved {
		shown = append(shown, LabelSolve)
	} else if latest, ok := LatestProgress(labels); ok {
		shown = append(shown, latest)
	}

	steps, err := readSteps(ss, shown)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Name: name, Solved: solved, Steps: steps}, nil
}

func (s *Store) checkContext(context string) error {
	if err := ValidateName(context); err != nil {
		return err
	}
	if !fileutil.IsDir(filepath.Join(s.root, context)) {
		return ContextError(context, ErrNotFound)
	}
	return nil
}

func (s *Store) openTask(context, name string) (StepStore, error) {
	if err := s.checkContext(context); err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	dir := s.TaskDir(context, name)
	if !fileutil.IsDir(dir) {
		return nil, taskError(name, ErrNotFound)
	}
	return s.open(dir)
}

// open picks the backend that already encodes taskDir, preferring the
// configured one. A directory no backend recognizes is read as plain step
// files, so listing never creates database files in it.
func (s *Store) open(taskDir string) (StepStore, error) {
	if s.backend.Detect(taskDir) {
		return s.backend.Open(taskDir)
	}
	for _, name := range BackendNames() {
		b := backends[name]
		if b.Name() != s.backend.Name() && b.Detect(taskDir) {
			return b.Open(taskDir)
		}
	}
	return DirBackend{}.Open(taskDir)
}
