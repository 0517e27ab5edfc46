package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/task/pkg/task"
)

func openTestApp(t *testing.T, root string) *App {
	t.Helper()
	a, err := Open(root, Options{})
	require.NoError(t, err)
	return a
}

func TestApp_ContextLifecycle(t *testing.T) {
	root := t.TempDir()
	a := openTestApp(t, root)

	_, err := a.CurrentContext()
	assert.ErrorIs(t, err, task.ErrNoContext)

	require.NoError(t, a.AddContext("work"))
	assert.ErrorIs(t, a.AddContext("work"), task.ErrAlreadyExists)

	err = a.SetContext("ghost")
	assert.ErrorIs(t, err, task.ErrNotFound)
	_, err = a.CurrentContext()
	assert.ErrorIs(t, err, task.ErrNoContext)

	require.NoError(t, a.SetContext("work"))
	require.NoError(t, a.Save())

	// Next invocation sees the persisted pointer
	b := openTestApp(t, root)
	name, err := b.CurrentContext()
	require.NoError(t, err)
	assert.Equal(t, "work", name)

	names, err := b.ListContexts()
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, names)
}

func TestApp_TaskOperationsNeedContext(t *testing.T) {
	a := openTestApp(t, t.TempDir())

	assert.ErrorIs(t, a.AddTask("report", "x"), task.ErrNoContext)
	_, err := a.AppendStep("report", "x")
	assert.ErrorIs(t, err, task.ErrNoContext)
	assert.ErrorIs(t, a.SolveTask("report", "x"), task.ErrNoContext)
	_, err = a.ShowTask("report")
	assert.ErrorIs(t, err, task.ErrNoContext)
	_, err = a.ListTasks(task.FilterAll)
	assert.ErrorIs(t, err, task.ErrNoContext)
}

func TestApp_TaskLifecycle(t *testing.T) {
	a := openTestApp(t, t.TempDir())
	require.NoError(t, a.AddContext("work"))
	require.NoError(t, a.SetContext("work"))

	require.NoError(t, a.AddTask("report", "draft outline"))
	label, err := a.AppendStep("report", "write intro")
	require.NoError(t, err)
	assert.Equal(t, task.Label("1"), label)
	require.NoError(t, a.SolveTask("report", "sent"))

	steps, err := a.ShowTask("report")
	require.NoError(t, err)
	assert.Len(t, steps, 3)

	unsolved, err := a.ListTasks(task.FilterUnsolved)
	require.NoError(t, err)
	assert.Empty(t, unsolved)

	solved, err := a.ListTasks(task.FilterSolved)
	require.NoError(t, err)
	require.Len(t, solved, 1)
	assert.Equal(t, "report", solved[0].Name)
}

func TestApp_StalePointer(t *testing.T) {
	root := t.TempDir()
	a := openTestApp(t, root)
	require.NoError(t, a.AddContext("work"))
	require.NoError(t, a.SetContext("work"))
	require.NoError(t, a.Save())

	require.NoError(t, os.RemoveAll(filepath.Join(root, "contexts", "work")))

	b := openTestApp(t, root)
	err := b.AddTask("report", "x")
	require.ErrorIs(t, err, task.ErrNotFound)
	assert.Contains(t, Describe(err), "task context add work")
}

func TestApp_ConfiguredBackend(t *testing.T) {
	root := t.TempDir()
	settings := filepath.Join(root, "config", "settings.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(settings), 0755))
	require.NoError(t, os.WriteFile(settings, []byte("storage:\n  backend: sqlite\n"), 0644))

	a := openTestApp(t, root)
	assert.Equal(t, "sqlite", a.Tasks.Backend().Name())

	require.NoError(t, a.AddContext("work"))
	require.NoError(t, a.SetContext("work"))
	require.NoError(t, a.AddTask("report", "x"))
	assert.FileExists(t, filepath.Join(root, "contexts", "work", "report", task.SQLiteFile))
}

func TestApp_UnknownBackend(t *testing.T) {
	root := t.TempDir()
	settings := filepath.Join(root, "config", "settings.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(settings), 0755))
	require.NoError(t, os.WriteFile(settings, []byte("storage:\n  backend: cassandra\n"), 0644))

	_, err := Open(root, Options{})
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no context", task.ErrNoContext, "no context selected, select one with: task context set <name>"},
		{"context missing", task.ContextError("work", task.ErrNotFound), `context "work" not found, create it first with: task context add work`},
		{"context exists", task.ContextError("work", task.ErrAlreadyExists), `context "work" already exists`},
		{"io", &task.IOError{Op: "write step", Path: "/x", Err: errors.New("disk full")}, "error: write step /x: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.err))
		})
	}

	a := openTestApp(t, t.TempDir())
	require.NoError(t, a.AddContext("work"))
	require.NoError(t, a.SetContext("work"))

	err := a.SolveTask("ghost", "x")
	assert.Equal(t, `task "ghost" does not exist, create it with: task add ghost <description>`, Describe(err))

	require.NoError(t, a.AddTask("report", "x"))
	assert.Equal(t, `task "report" already exists`, Describe(a.AddTask("report", "y")))

	require.NoError(t, a.SolveTask("report", "done"))
	assert.Equal(t, `task "report" is already marked as solved`, Describe(a.SolveTask("report", "again")))

	assert.True(t, IsExpected(err))
	assert.False(t, IsExpected(errors.New("boom")))
}

func TestApp_ClosePersistsPointer(t *testing.T) {
	root := t.TempDir()
	a := openTestApp(t, root)
	require.NoError(t, a.AddContext("work"))
	require.NoError(t, a.SetContext("work"))
	require.NoError(t, a.Close())

	b := openTestApp(t, root)
	name, err := b.CurrentContext()
	require.NoError(t, err)
	assert.Equal(t, "work", name)
}
