// Package watch re-runs a callback when source files under a set of roots change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/shrek82/tagcheck/logger"
)

// DefaultDebounce is how long a path must be quiet before it is reported.
const DefaultDebounce = 300 * time.Millisecond

// ChangeFunc receives the settled paths of one batch, sorted.
type ChangeFunc func(ctx context.Context, paths []string)

// Watcher watches roots recursively for changes to files with matching extensions.
type Watcher struct {
	roots      []string
	extensions []string
	onChange   ChangeFunc
	logger     logger.Logger

	// Debounce must be set before Start.
	Debounce time.Duration

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]time.Time
	stopCh  chan struct{}
	doneCh  chan struct{}
	stop    sync.Once
}

// New creates a watcher. A nil logger discards output.
func New(roots, extensions []string, onChange ChangeFunc, l logger.Logger) *Watcher {
	if l == nil {
		l = logger.Discard()
	}
	return &Watcher{
		roots:      roots,
		extensions: extensions,
		onChange:   onChange,
		logger:     l,
		Debounce:   DefaultDebounce,
		pending:    make(map[string]time.Time),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start adds every directory under the roots and begins the event loop.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	w.watcher = watcher

	for _, root := range w.roots {
		if err := w.addTree(root); err != nil {
			watcher.Close()
			w.watcher = nil
			return fmt.Errorf("watch %s: %w", root, err)
		}
	}

	go w.run(ctx)
	w.logger.Info("watching %v for changes", w.roots)
	return nil
}

// minTick bounds how often pending paths are polled.
const minTick = time.Millisecond

// tick is the polling interval for pending paths. A non-positive Debounce
// reports paths on the next tick.
func (w *Watcher) tick() time.Duration {
	return max(w.Debounce/3, minTick)
}

// Stop ends the event loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.stop.Do(func() {
		close(w.stopCh)
		if w.watcher == nil {
			return
		}
		<-w.doneCh
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("closing watcher: %v", err)
		}
	})
}

// Done is closed once the event loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		w.logger.Debug("watching directory %s", path)
		return w.watcher.Add(path)
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.tick())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error: %v", err)

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	// new directories are watched as they appear
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("watch new directory %s: %v", event.Name, err)
			}
			return
		}
	}

	if !w.matches(event.Name) {
		return
	}
	w.logger.Debug("%s event for %s", event.Op, event.Name)

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) matches(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	return slices.Contains(w.extensions, filepath.Ext(path))
}

// flush reports paths that have been quiet for the debounce window.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.Debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(settled) == 0 {
		return
	}
	sort.Strings(settled)
	w.onChange(ctx, settled)
}
