// Package watch reports changes to a storage file.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches the burst of events a single save produces.
const DefaultDebounce = 150 * time.Millisecond

// Watcher calls a function after a file settles following a change.
// Files sharing the watched file's name as a prefix count too, so SQLite
// -wal/-shm side files trigger it.
type Watcher struct {
	path     string
	debounce time.Duration
	log      *zap.Logger
}

// New returns a Watcher for path.
func New(path string, debounce time.Duration, log *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{path: path, debounce: debounce, log: log}
}

// Run blocks until ctx is done, calling onChange (on the Run goroutine)
// once per settled burst of changes.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.log.Debug("watching", zap.String("path", w.path))

	base := filepath.Base(w.path)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(ev.Name), base) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("change", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			onChange()
		}
	}
}
