package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/task/internal/config"
	"github.com/ternarybob/task/internal/logger"
	"github.com/ternarybob/task/pkg/task"
)

// startWatcher runs a watcher over dir; onChange runs before each notification.
func startWatcher(t *testing.T, dir string, debounce time.Duration, onChange func()) <-chan struct{} {
	t.Helper()
	logger.SetupLogger(config.DefaultConfig(t.TempDir()), false)

	w, err := New(dir, debounce)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, func() {
			if onChange != nil {
				onChange()
			}
			changes <- struct{}{}
		})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return changes
}

func waitForChange(t *testing.T, changes <-chan struct{}) {
	t.Helper()
	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func expectQuiet(t *testing.T, changes <-chan struct{}, d time.Duration) {
	t.Helper()
	select {
	case <-changes:
		t.Fatal("unexpected change notification")
	case <-time.After(d):
	}
}

func TestWatcher_StepWrite(t *testing.T) {
	dir := t.TempDir()
	taskDir := filepath.Join(dir, "report")
	require.NoError(t, os.Mkdir(taskDir, 0755))

	changes := startWatcher(t, dir, 20*time.Millisecond, nil)

	require.NoError(t, os.WriteFile(filepath.Join(taskDir, "1.step"), []byte("x"), 0644))
	waitForChange(t, changes)
}

func TestWatcher_NewTaskDirectory(t *testing.T) {
	dir := t.TempDir()
	changes := startWatcher(t, dir, 20*time.Millisecond, nil)

	taskDir := filepath.Join(dir, "fresh")
	require.NoError(t, os.Mkdir(taskDir, 0755))
	waitForChange(t, changes)

	// The new directory is followed as well
	require.NoError(t, os.WriteFile(filepath.Join(taskDir, "ADD.step"), []byte("x"), 0644))
	waitForChange(t, changes)
}

// Re-rendering the listing on a change must not itself look like a change.
func TestWatcher_ListingDoesNotRetrigger(t *testing.T) {
	for _, name := range task.BackendNames() {
		t.Run(name, func(t *testing.T) {
			backend, err := task.LookupBackend(name)
			require.NoError(t, err)

			root := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(root, "work"), 0755))
			store := task.NewStore(root, backend)
			require.NoError(t, store.Create("work", "report", "draft outline"))

			changes := startWatcher(t, filepath.Join(root, "work"), 100*time.Millisecond, func() {
				_, err := store.List("work", task.FilterAll)
				assert.NoError(t, err)
			})

			_, err = store.Append("work", "report", "write intro")
			require.NoError(t, err)

			waitForChange(t, changes)
			expectQuiet(t, changes, 500*time.Millisecond)
		})
	}
}
