// Package watch reports debounced changes to definition files below a set
// of directories.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change batch is delivered.
const DefaultDebounce = 100 * time.Millisecond

// Options configures Run.
type Options struct {
	// Extension filters events by file suffix. Empty matches every file.
	Extension string
	Debounce  time.Duration
	Logger    *slog.Logger
}

// Run watches roots recursively and calls onChange with the sorted, de-duplicated
// paths that changed once events stop arriving for the debounce period.
// onChange never runs concurrently with itself. Run returns when ctx is
// cancelled.
func Run(ctx context.Context, roots []string, opts Options, onChange func(ctx context.Context, paths []string)) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for _, root := range roots {
		if err := addRecursive(watcher, root); err != nil {
			logger.Error("failed to watch directory", "dir", root, "error", err)
		}
	}

	var (
		mu      sync.Mutex
		pending = map[string]bool{}
		timer   *time.Timer
		running sync.Mutex
	)
	flush := func() {
		running.Lock()
		defer running.Unlock()

		mu.Lock()
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		pending = map[string]bool{}
		mu.Unlock()

		if len(paths) == 0 || ctx.Err() != nil {
			return
		}
		sort.Strings(paths)
		logger.Debug("files changed", "paths", paths)
		onChange(ctx, paths)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addRecursive(watcher, event.Name)
					continue
				}
			}
			if opts.Extension != "" && !strings.HasSuffix(event.Name, opts.Extension) {
				continue
			}
			if event.Op == fsnotify.Chmod {
				continue
			}

			mu.Lock()
			pending[event.Name] = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, flush)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

// addRecursive adds a directory and all non-hidden subdirectories to the watcher.
func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
