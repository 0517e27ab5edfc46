// Package watch reports changes to the tasks of a context.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/task/internal/fileutil"
	"github.com/ternarybob/task/internal/logger"
)

// DefaultDebounce is how long the tree must stay quiet before a change is reported.
const DefaultDebounce = 200 * time.Millisecond

// Watcher monitors a context directory and its task directories.
type Watcher struct {
	dir      string
	debounce time.Duration
	log      arbor.ILogger
	watcher  *fsnotify.Watcher

	// Debouncing state
	pendingSince time.Time
	pendingMu    sync.Mutex
}

// New creates a watcher over dir and every task directory already in it.
// It logs through the global logger.
func New(dir string, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		dir:      dir,
		debounce: debounce,
		log:      logger.GetLogger(),
		watcher:  fsWatcher,
	}

	if err := w.addDirectories(); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("add directories: %w", err)
	}
	return w, nil
}

// addDirectories adds the context directory and its task directories.
func (w *Watcher) addDirectories() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}

	tasks, err := fileutil.SubDirs(w.dir)
	if err != nil {
		return err
	}
	for _, name := range tasks {
		path := filepath.Join(w.dir, name)
		if err := w.watcher.Add(path); err != nil {
			// Log but don't fail - the task may have been removed meanwhile
			w.log.Warn().Err(err).Str("path", path).Msg("Cannot watch task directory")
		}
	}
	return nil
}

// Run delivers debounced change notifications to onChange until ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.watcher.Close()

	ticker := time.NewTicker(w.debounce / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("Watcher error")

		case <-ticker.C:
			if w.settled() {
				onChange()
			}
		}
	}
}

// handleEvent records a change and follows newly created task directories.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Hidden entries are in-flight temp files of atomic writes
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	if event.Op&fsnotify.Create != 0 && filepath.Dir(event.Name) == w.dir {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				w.log.Warn().Err(err).Str("path", event.Name).Msg("Cannot watch task directory")
			}
		}
	}

	w.pendingMu.Lock()
	w.pendingSince = time.Now()
	w.pendingMu.Unlock()
}

// settled reports, once, that a pending change has been quiet for the debounce period.
func (w *Watcher) settled() bool {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if w.pendingSince.IsZero() || time.Since(w.pendingSince) < w.debounce {
		return false
	}
	w.pendingSince = time.Time{}
	return true
}
