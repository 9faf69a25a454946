// Package watcher adapts fsnotify's per-directory event stream into the
// recursive, filtered change notifications the engine needs: every
// configured save directory is watched (including subdirectories added at
// startup and any created later), every configured save file is watched
// non-recursively, and access-only events are discarded.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/arkveil/stool/internal/filter"
)

// SaveDir is a watched directory, keyed by its configured logical name, with
// its own include/ignore matchers.
type SaveDir struct {
	Name    string
	Path    string
	Include *filter.Matcher
	Ignore  *filter.Matcher
}

// SaveFile is a single watched file, matched unconditionally when its exact
// path is touched.
type SaveFile struct {
	Path string
}

// Watcher recursively subscribes to every SaveDir and every SaveFile and
// calls OnChange whenever an accepted event arrives. Start/Stop/Done follow
// the same lifecycle shape used elsewhere in this codebase: Start spawns
// the event-reading goroutine, Stop (or context cancellation) ends it,
// Done reports completion.
type Watcher struct {
	SaveDirs  []SaveDir
	SaveFiles []SaveFile
	OnChange  func()
	Log       zerolog.Logger

	fsw    *fsnotify.Watcher
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once
}

// Start walks every configured save directory, adding a watch per
// subdirectory, then begins consuming events in a background goroutine.
// Start returns once the initial watch set is established; it does not
// block for the lifetime of the watcher.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: create: %w", err)
	}
	w.fsw = fsw

	for _, sd := range w.SaveDirs {
		if err := w.addDirRecursive(sd.Path); err != nil {
			fsw.Close()
			return fmt.Errorf("watcher: watch %s: %w", sd.Path, err)
		}
	}
	for _, sf := range w.SaveFiles {
		if err := fsw.Add(filepath.Dir(sf.Path)); err != nil {
			fsw.Close()
			return fmt.Errorf("watcher: watch %s: %w", sf.Path, err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(runCtx)
	return nil
}

// addDirRecursive walks root, adding an fsnotify watch on root and every
// subdirectory beneath it. fsnotify itself is not recursive.
func (w *Watcher) addDirRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, de fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if de.IsDir() {
			return w.fsw.Add(p)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.Log.GetLevel() != zerolog.Disabled {
				w.Log.Warn().Err(err).Msg("watcher event stream error")
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return // access-only event, discard
	}

	// If a new directory appeared under a watched save dir, start watching
	// it too so later writes inside it are seen.
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.addDirRecursive(ev.Name)
		}
	}

	if w.accepts(ev.Name) {
		if w.OnChange != nil {
			w.OnChange()
		}
	}
}

// accepts reports whether a changed path belongs to a watched save dir or
// save file: a save-file path always accepts; otherwise the event must
// fall under some save dir and pass that dir's include/ignore filters.
func (w *Watcher) accepts(path string) bool {
	for _, sf := range w.SaveFiles {
		if samePath(sf.Path, path) {
			return true
		}
	}
	for _, sd := range w.SaveDirs {
		rel, ok := relativeUnder(sd.Path, path)
		if !ok {
			continue
		}
		if sd.Ignore.Match(rel) {
			continue
		}
		if sd.Include != nil && !sd.Include.Match(rel) {
			continue
		}
		return true
	}
	return false
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func relativeUnder(root, path string) (string, bool) {
	root = filepath.Clean(root)
	path = filepath.Clean(path)
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Stop cancels the watcher's background goroutine. It is safe to call more
// than once.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		if w.cancel != nil {
			w.cancel()
		}
	})
}

// Done reports when the watcher's background goroutine has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}
