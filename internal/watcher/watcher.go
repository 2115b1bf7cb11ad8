package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period used when none is given.
const DefaultDebounce = 250 * time.Millisecond

// FileWatcher collects rapid file changes and reports them once things
// settle.
//
// Used by: main (catalog reload)
type FileWatcher struct {
	debounceDelay time.Duration
	ignorePaths   []string
	log           *zap.Logger

	timer        *time.Timer
	timerMu      sync.Mutex
	pendingPaths map[string]struct{}
	stopped      bool

	onChange func([]string)
}

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithLogger logs watch errors and batches.
func WithLogger(log *zap.Logger) Option {
	return func(w *FileWatcher) {
		if log != nil {
			w.log = log
		}
	}
}

// WithIgnorePaths replaces the ignored path fragments.
func WithIgnorePaths(paths []string) Option {
	return func(w *FileWatcher) { w.ignorePaths = paths }
}

// NewWatcher creates a file watcher with the specified debounce delay.
// The onChange callback is called with the sorted changed paths after
// debouncing, on a timer goroutine.
//
// Example:
//
//	w := NewWatcher(250*time.Millisecond, func(paths []string) {
//	    program.Send(catalogChangedMsg{paths})
//	})
//	go w.Watch(ctx, "catalog.yaml")
func NewWatcher(debounceDelay time.Duration, onChange func([]string), opts ...Option) *FileWatcher {
	if debounceDelay <= 0 {
		debounceDelay = DefaultDebounce
	}
	w := &FileWatcher{
		debounceDelay: debounceDelay,
		ignorePaths:   defaultIgnorePaths(),
		log:           zap.NewNop(),
		pendingPaths:  make(map[string]struct{}),
		onChange:      onChange,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// FileChanged notifies the watcher of a file change.
// Multiple rapid calls are debounced into a single onChange callback.
func (w *FileWatcher) FileChanged(path string) {
	w.FilesChanged([]string{path})
}

// FilesChanged notifies the watcher of multiple file changes. Editor swap
// files and project noise are filtered out.
func (w *FileWatcher) FilesChanged(paths []string) {
	w.queue(paths, true)
}

func (w *FileWatcher) queue(paths []string, filter bool) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.stopped {
		return
	}

	added := false
	for _, path := range paths {
		if !filter || !w.shouldIgnore(path) {
			w.pendingPaths[path] = struct{}{}
			added = true
		}
	}
	if !added {
		return
	}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceDelay, w.processPending)
}

// Stop drops pending changes. Later changes are ignored.
func (w *FileWatcher) Stop() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pendingPaths = make(map[string]struct{})
}

// Watch feeds fsnotify events for files into the debouncer until ctx is
// done. Parent directories are watched so editors that save by renaming
// are still seen. The ignore list does not apply to files.
func (w *FileWatcher) Watch(ctx context.Context, files ...string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer fsw.Close()

	targets := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Files named in the call are wanted whatever the ignore list says.
			w.queue([]string{event.Name}, false)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watcher error", zap.Error(err))
		}
	}
}

// processPending is called after debounce delay.
func (w *FileWatcher) processPending() {
	w.timerMu.Lock()
	paths := make([]string, 0, len(w.pendingPaths))
	for path := range w.pendingPaths {
		paths = append(paths, path)
	}
	w.pendingPaths = make(map[string]struct{})
	w.timer = nil
	w.timerMu.Unlock()

	sort.Strings(paths)
	if len(paths) > 0 && w.onChange != nil {
		w.log.Debug("files changed", zap.Strings("paths", paths))
		w.onChange(paths)
	}
}

// shouldIgnore filters editor swap files and build output.
func (w *FileWatcher) shouldIgnore(path string) bool {
	for _, ignore := range w.ignorePaths {
		if strings.Contains(path, ignore) {
			return true
		}
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return true
	}

	switch filepath.Ext(base) {
	case ".log", ".tmp", ".swp", ".swo", ".db", ".db-journal":
		return true
	}
	return false
}

func defaultIgnorePaths() []string {
	return []string{
		".git",
		"node_modules",
		"vendor",
	}
}
