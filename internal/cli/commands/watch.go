package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long the watcher waits for writes to settle.
const watchDebounce = 100 * time.Millisecond

// sourceWatcher reports changed source files under a set of paths.
type sourceWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	files    map[string]bool // files named explicitly; empty means any source file
	debounce time.Duration
}

// newSourceWatcher starts watching the directories of paths. Directories
// are watched recursively, skipping hidden ones; for files the containing
// directory is watched and events are filtered to the file.
func newSourceWatcher(paths []string, logger *slog.Logger) (*sourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &sourceWatcher{
		watcher:  watcher,
		logger:   logger,
		files:    make(map[string]bool),
		debounce: watchDebounce,
	}

	for _, p := range paths {
		if p == stdinPath {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", p, err)
		}
		if info.IsDir() {
			err = w.watchDir(p)
		} else {
			w.files[filepath.Clean(p)] = true
			err = watcher.Add(filepath.Dir(p))
		}
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}
	return w, nil
}

// watchDir recursively adds a directory to the watcher.
func (w *sourceWatcher) watchDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHiddenDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *sourceWatcher) relevant(name string) bool {
	if len(w.files) > 0 {
		return w.files[filepath.Clean(name)]
	}
	return isSourceFile(name)
}

// Run delivers batches of changed files to onChange until ctx is done.
// onChange runs on the calling goroutine.
func (w *sourceWatcher) Run(ctx context.Context, onChange func(changed []string)) error {
	pending := make(map[string]bool)
	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			// Only handle write/create events for relevant files
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 && len(w.files) == 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHiddenDir(info.Name()) {
					if err := w.watchDir(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !w.relevant(event.Name) {
				continue
			}
			pending[event.Name] = true
			settle = time.After(w.debounce)

		case <-settle:
			settle = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			clear(pending)
			slices.Sort(changed)
			w.logger.Debug("change detected", "files", changed)
			onChange(changed)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// Close stops watching.
func (w *sourceWatcher) Close() error {
	return w.watcher.Close()
}
