package wirebox

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RebuildFunc runs one full container rebuild. The watcher never attempts
// incremental re-scans; every change burst triggers a complete build.
type RebuildFunc func(ctx context.Context) error

// Watcher watches a configuration tree and triggers full rebuilds when
// files under it change. Change bursts are debounced so one save that
// touches several files produces a single rebuild.
type Watcher struct {
	root     string
	rebuild  RebuildFunc
	debounce time.Duration
	logger   Logger

	fsw    *fsnotify.Watcher
	cancel context.CancelFunc
	done   chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period after the last change before a rebuild
// fires. The default is 250ms.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(logger Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher creates a watcher for the tree rooted at root.
func NewWatcher(root string, rebuild RebuildFunc, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		root:     root,
		rebuild:  rebuild,
		debounce: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = NewSlogLogger(nil)
	}
	return w
}

// Start begins watching. It watches every directory under the root except
// node_modules, picks up directories created later, and returns once the
// watch loop is running.
func (w *Watcher) Start(ctx context.Context) error {
	if w.fsw != nil {
		return ErrWatcherAlreadyStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	err = filepath.WalkDir(w.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if entry.Name() == nodeModulesDir {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
	if err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.loop(ctx)
	w.logger.Info("Watching configuration tree", "root", w.root, "debounce", w.debounce)
	return nil
}

// Stop shuts the watcher down and waits for the watch loop to exit.
func (w *Watcher) Stop() {
	if w.fsw == nil {
		return
	}
	w.cancel()
	w.fsw.Close()
	<-w.done
	w.fsw = nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.logger.Debug("Filesystem event", "path", event.Name, "op", event.Op.String())

			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && filepath.Base(event.Name) != nodeModulesDir {
					if err = w.fsw.Add(event.Name); err != nil {
						w.logger.Warn("Failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			if pending {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Filesystem watcher error", "error", err)

		case <-timer.C:
			pending = false
			w.logger.Info("Configuration changed, rebuilding container", "root", w.root)
			if err := w.rebuild(ctx); err != nil {
				w.logger.Error("Container rebuild failed", "root", w.root, "error", err)
			}
		}
	}
}
