// Package watch rebuilds a project whenever one of its source files changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
)

// DefaultDebounce is the quiet period after the last change before a
// rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc performs one full build.
type BuildFunc func(ctx context.Context) error

// Watcher triggers a build after changes under a set of directories.
type Watcher struct {
	paths    []string
	ignore   []string
	debounce time.Duration
	build    BuildFunc
	ready    chan struct{}
}

// New creates a Watcher over paths. Changes below any of the ignore
// directories, typically the build directory itself, are not reported.
func New(paths, ignore []string, debounce time.Duration, build BuildFunc) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		paths:    absAll(paths),
		ignore:   absAll(ignore),
		debounce: debounce,
		build:    build,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once every directory is being watched.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run watches until ctx is cancelled. A failed build is logged and the
// watch goes on.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	watched := 0
	for _, p := range w.paths {
		n, err := w.addTree(fw, p)
		if err != nil {
			return err
		}
		watched += n
	}
	logger.Info("Watching for changes.", "directories", watched)
	close(w.ready)

	changes := make(chan string, 1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev, ok := <-fw.Events:
				if !ok {
					return nil
				}
				if !w.relevant(ev) {
					continue
				}
				if ev.Has(fsnotify.Create) {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						if _, err := w.addTree(fw, ev.Name); err != nil {
							logger.Warn("Failed to watch new directory.", "path", ev.Name, "error", err)
						}
					}
				}
				select {
				case changes <- ev.Name:
				default:
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return nil
				}
				logger.Warn("File watcher error.", "error", err)
			}
		}
	})

	g.Go(func() error {
		timer := time.NewTimer(w.debounce)
		timer.Stop()
		defer timer.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case name := <-changes:
				logger.Debug("Change detected.", "path", name)
				timer.Reset(w.debounce)
			case <-timer.C:
				logger.Info("Rebuilding.")
				if err := w.build(gctx); err != nil {
					if gctx.Err() != nil {
						return nil
					}
					logger.Error("Rebuild failed.", "error", err)
					continue
				}
				logger.Info("Rebuild finished.")
			}
		}
	})

	return g.Wait()
}

// addTree watches root and every non-hidden directory below it. A missing
// root is skipped.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) (int, error) {
	n := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if (path != root && strings.HasPrefix(d.Name(), ".")) || w.ignored(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		n++
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return n, nil
	}
	return n, err
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return !w.ignored(ev.Name)
}

func (w *Watcher) ignored(path string) bool {
	for _, dir := range w.ignore {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func absAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		out = append(out, filepath.Clean(p))
	}
	return out
}
