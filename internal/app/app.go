// Package app wires configuration, logging and the stores together and
// exposes one operation per command. Front-ends (the CLI, the MCP server)
// parse their input and call these operations with plain arguments.
package app

import (
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/task/internal/config"
	"github.com/ternarybob/task/internal/logger"
	"github.com/ternarybob/task/pkg/contexts"
	"github.com/ternarybob/task/pkg/task"
)

// App holds the state of one command invocation.
type App struct {
	Config   *config.Config
	Log      arbor.ILogger
	Contexts *contexts.Store
	Tasks    *task.Store

	current *contexts.Current
}

// Options tune how the app is opened.
type Options struct {
	// ConsoleLogging allows the console log writer when the settings ask for it.
	ConsoleLogging bool
}

// Open loads the settings and the current-context pointer under root.
func Open(root string, opts Options) (*App, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	backend, err := task.LookupBackend(cfg.Storage.Backend)
	if err != nil {
		return nil, err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, &task.IOError{Op: "prepare root", Path: cfg.Root, Err: err}
	}

	log := logger.SetupLogger(cfg, opts.ConsoleLogging)

	current, err := contexts.LoadCurrent(cfg.CurrentContextPath())
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Log:      log,
		Contexts: contexts.NewStore(cfg.ContextsDir()),
		Tasks:    task.NewStore(cfg.ContextsDir(), backend),
		current:  current,
	}

	name, _ := current.Name()
	log.Debug().
		Str("root", cfg.Root).
		Str("backend", backend.Name()).
		Str("context", name).
		Msg("App opened")

	return a, nil
}

// Save persists the current-context pointer if it changed.
func (a *App) Save() error {
	if !a.current.Dirty() {
		return nil
	}
	if err := a.current.Save(a.Config.CurrentContextPath()); err != nil {
		a.Log.Error().Err(err).Msg("Failed to save current context")
		return err
	}
	return nil
}

// Close ends the invocation, persisting the pointer. The process-wide
// logger is left running; the entry point stops it before exiting.
func (a *App) Close() error {
	if err := a.Save(); err != nil {
		return err
	}
	a.Log.Debug().Msg("App closed")
	return nil
}

// CurrentContext returns the selected context name.
func (a *App) CurrentContext() (string, error) {
	name, ok := a.current.Name()
	if !ok {
		return "", task.ErrNoContext
	}
	return name, nil
}

// AddContext creates a context.
func (a *App) AddContext(name string) error {
	if err := a.Contexts.Create(name); err != nil {
		return a.report(err, "Create context failed", "context", name)
	}
	a.Log.Info().Str("context", name).Msg("Context created")
	return nil
}

// ListContexts returns all context names, sorted.
func (a *App) ListContexts() ([]string, error) {
	names, err := a.Contexts.List()
	if err != nil {
		return nil, a.report(err, "List contexts failed")
	}
	return names, nil
}

// SetContext selects the current context.
func (a *App) SetContext(name string) error {
	if err := a.Contexts.Select(a.current, name); err != nil {
		return a.report(err, "Select context failed", "context", name)
	}
	a.Log.Info().Str("context", name).Msg("Context selected")
	return nil
}

// AddTask creates a task in the current context.
func (a *App) AddTask(name, description string) error {
	ctx, err := a.active()
	if err != nil {
		return err
	}
	if err := a.Tasks.Create(ctx, name, description); err != nil {
		return a.report(err, "Create task failed", "context", ctx, "task", name)
	}
	a.Log.Info().Str("context", ctx).Str("task", name).Msg("Task created")
	return nil
}

// AppendStep adds a progress step to a task in the current context.
func (a *App) AppendStep(name, description string) (task.Label, error) {
	ctx, err := a.active()
	if err != nil {
		return "", err
	}
	label, err := a.Tasks.Append(ctx, name, description)
	if err != nil {
		return "", a.report(err, "Append step failed", "context", ctx, "task", name)
	}
	a.Log.Info().Str("context", ctx).Str("task", name).Str("step", label.String()).Msg("Step appended")
	return label, nil
}

// SolveTask writes the SOLVE step of a task in the current context.
func (a *App) SolveTask(name, description string) error {
	ctx, err := a.active()
	if err != nil {
		return err
	}
	if err := a.Tasks.Solve(ctx, name, description); err != nil {
		return a.report(err, "Solve task failed", "context", ctx, "task", name)
	}
	a.Log.Info().Str("context", ctx).Str("task", name).Msg("Task solved")
	return nil
}

// ShowTask returns the full history of a task in the current context.
func (a *App) ShowTask(name string) ([]task.Step, error) {
	ctx, err := a.active()
	if err != nil {
		return nil, err
	}
	steps, err := a.Tasks.History(ctx, name)
	if err != nil {
		return nil, a.report(err, "Show task failed", "context", ctx, "task", name)
	}
	return steps, nil
}

// ListTasks returns the summaries of the tasks in the current context.
func (a *App) ListTasks(filter task.Filter) ([]task.Summary, error) {
	ctx, err := a.active()
	if err != nil {
		return nil, err
	}
	summaries, err := a.Tasks.List(ctx, filter)
	if err != nil {
		return nil, a.report(err, "List tasks failed", "context", ctx)
	}
	return summaries, nil
}

// ActiveContext resolves the current context, checking that it still exists.
func (a *App) ActiveContext() (string, error) {
	return a.active()
}

// active resolves the current context. This is the precondition every task
// operation depends on; the task store itself does not know about the pointer.
func (a *App) active() (string, error) {
	name, err := a.Contexts.Resolve(a.current)
	if err != nil {
		return "", a.report(err, "No usable context")
	}
	return name, nil
}

// report logs err at a level matching its category and returns it unchanged.
// kv holds alternating field names and values.
func (a *App) report(err error, msg string, kv ...string) error {
	event := a.Log.Info()
	if !IsExpected(err) {
		event = a.Log.Error()
	}
	for i := 0; i+1 < len(kv); i += 2 {
		event = event.Str(kv[i], kv[i+1])
	}
	event.Err(err).Msg(msg)
	return err
}

// IsExpected reports whether err is a user-facing condition rather than a failure.
func IsExpected(err error) bool {
	for _, target := range []error{
		task.ErrNotFound,
		task.ErrAlreadyExists,
		task.ErrAlreadySolved,
		task.ErrNoContext,
		task.ErrInvalidName,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Describe turns an expected condition into a message naming the command
// that remedies it. Other errors are returned as "error: <cause>".
func Describe(err error) string {
	var subject *task.SubjectError
	hasSubject := errors.As(err, &subject)

	switch {
	case errors.Is(err, task.ErrNoContext):
		return "no context selected, select one with: task context set <name>"
	case hasSubject && errors.Is(err, task.ErrNotFound) && subject.Kind == task.KindContext:
		return fmt.Sprintf("context %q not found, create it first with: task context add %s", subject.Name, subject.Name)
	case hasSubject && errors.Is(err, task.ErrNotFound):
		return fmt.Sprintf("task %q does not exist, create it with: task add %s <description>", subject.Name, subject.Name)
	case hasSubject && errors.Is(err, task.ErrAlreadyExists):
		return fmt.Sprintf("%s %q already exists", subject.Kind, subject.Name)
	case hasSubject && errors.Is(err, task.ErrAlreadySolved):
		return fmt.Sprintf("task %q is already marked as solved", subject.Name)
	case errors.Is(err, task.ErrInvalidName):
		return err.Error()
	}
	return fmt.Sprintf("error: %v", err)
}
