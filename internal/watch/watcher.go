// Package watch triggers regeneration when site sources or configuration change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vrm-addon-for-blender/docsite/internal/logfields"
)

// DefaultDebounce coalesces bursts such as an editor's save sequence.
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc handles one debounced batch of changed paths, sorted.
type ChangeFunc func(ctx context.Context, changed []string)

// Options configure a Watcher.
type Options struct {
	// Roots are directories watched recursively (content and public dirs).
	Roots []string
	// Files are watched individually through their parent directory (the config file).
	Files []string
	// Ignore lists files whose changes never trigger, such as generated artifacts.
	Ignore []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
}

// Watcher monitors site sources and invokes a ChangeFunc after each quiet period.
type Watcher struct {
	roots    []string
	files    map[string]bool
	ignore   map[string]bool
	debounce time.Duration
	onChange ChangeFunc
	watcher  *fsnotify.Watcher
	trigger  chan struct{}
}

// New creates a watcher. Call Run to start it.
func New(opts Options, onChange ChangeFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		files:    map[string]bool{},
		ignore:   map[string]bool{},
		debounce: opts.Debounce,
		onChange: onChange,
		watcher:  fw,
		trigger:  make(chan struct{}, 1),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	for _, r := range opts.Roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to resolve watch root %s: %w", r, err)
		}
		w.roots = append(w.roots, abs)
	}
	for _, f := range opts.Files {
		if abs, err := filepath.Abs(f); err == nil {
			w.files[abs] = true
		}
	}
	for _, f := range opts.Ignore {
		if abs, err := filepath.Abs(f); err == nil {
			w.ignore[abs] = true
		}
	}
	return w, nil
}

// Trigger requests a ChangeFunc call with no changed paths, for example from a
// scheduled resync. Requests made while one is pending are coalesced.
func (w *Watcher) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Run watches until ctx is cancelled. The ChangeFunc runs on Run's goroutine,
// so batches never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	for _, root := range w.roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			slog.Warn("Watch root does not exist", logfields.Path(root))
			continue
		}
		if err := w.addTree(root); err != nil {
			return err
		}
	}
	for file := range w.files {
		dir := filepath.Dir(file)
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}
	slog.Info("Watching for changes", slog.Any("roots", w.roots), slog.Duration("debounce", w.debounce))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("Stopping watcher")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			slog.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			pending[event.Name] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", logfields.Error(err))

		case <-w.trigger:
			w.onChange(ctx, nil)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			slices.Sort(changed)
			clear(pending)
			w.onChange(ctx, changed)
		}
	}
}

// addTree watches dir and every non-hidden directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", p, err)
		}
		return nil
	})
}

// relevant reports whether a change to path should trigger regeneration.
func (w *Watcher) relevant(path string) bool {
	if w.ignore[path] {
		return false
	}
	if w.files[path] {
		return true
	}
	if isHidden(filepath.Base(path)) || isScratch(filepath.Base(path)) {
		return false
	}
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// isScratch matches editor backup and swap files.
func isScratch(name string) bool {
	return strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") ||
		strings.HasSuffix(name, ".swx") ||
		name == "4913"
}
