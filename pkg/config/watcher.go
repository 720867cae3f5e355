package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/amstokely/xml-stream-parser/pkg/logger"
)

// Watcher reports changes to a set of files and to the matching files of
// directory trees. It watches parent directories so files replaced by
// rename, as most editors do, keep being tracked.
type Watcher struct {
	watcher   *fsnotify.Watcher
	callbacks []func(path string)
	mu        sync.RWMutex
	files     map[string]struct{}
	dirs      map[string]struct{}
	trees     []tree
	log       logger.Logger
	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
}

func NewWatcher(ctx context.Context) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		watcher: fsWatcher,
		files:   make(map[string]struct{}),
		dirs:    make(map[string]struct{}),
		log:     logger.FromContext(ctx),
		done:    make(chan struct{}),
	}, nil
}

// tree is a watched directory hierarchy. match receives slash separated
// paths relative to root.
type tree struct {
	root  string
	match func(rel string) bool
}

// Watch adds path to the watched set.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := w.addDir(filepath.Dir(absPath)); err != nil {
		return err
	}
	w.mu.Lock()
	w.files[absPath] = struct{}{}
	w.mu.Unlock()
	w.start()
	return nil
}

// WatchTree watches root and every directory below it, including directories
// created later. Changes to files for which match returns true are reported
// like changes to watched files, so files that did not exist when watching
// started are picked up too.
func (w *Watcher) WatchTree(root string, match func(rel string) bool) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if _, err := w.addTree(absRoot); err != nil {
		return err
	}
	w.mu.Lock()
	w.trees = append(w.trees, tree{root: absRoot, match: match})
	w.mu.Unlock()
	w.start()
	return nil
}

func (w *Watcher) start() {
	w.startOnce.Do(func() {
		go w.handleEvents()
	})
}

func (w *Watcher) addDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.dirs[dir] = struct{}{}
	return nil
}

// addTree watches dir and its subdirectories and returns the files found in
// them. Each directory is watched before it is listed.
func (w *Watcher) addTree(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			files = append(files, path)
			return nil
		}
		return w.addDir(path)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return files, nil
}

// matches reports whether path is a tracked file or a matching tree file.
func (w *Watcher) matches(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if _, ok := w.files[path]; ok {
		return true
	}
	for _, t := range w.trees {
		if rel, ok := within(t.root, path); ok && rel != "." && t.match(rel) {
			return true
		}
	}
	return false
}

func (w *Watcher) inTree(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, t := range w.trees {
		if _, ok := within(t.root, path); ok {
			return true
		}
	}
	return false
}

// within returns path relative to root in slash form when path lies inside root.
func within(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// OnChange registers a callback invoked with the absolute path of a changed
// file.
func (w *Watcher) OnChange(callback func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Done is closed once the event loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) handleEvents() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("File watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		// fsnotify drops the watch of a removed directory; forget it so a
		// directory created again under the same name is watched again.
		w.mu.Lock()
		delete(w.dirs, path)
		w.mu.Unlock()
	}
	if event.Has(fsnotify.Create) && w.inTree(path) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			files, err := w.addTree(path)
			if err != nil {
				w.log.Warn("Failed to watch new directory", "dir", path, "error", err)
			}
			for _, file := range files {
				if w.matches(file) {
					w.notify(file)
				}
			}
			return
		}
	}
	if w.matches(path) {
		w.notify(path)
	}
}

func (w *Watcher) notify(path string) {
	w.mu.RLock()
	callbacks := make([]func(string), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()
	for _, callback := range callbacks {
		if callback != nil {
			callback(path)
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var closeErr error
	w.closeOnce.Do(func() {
		if err := w.watcher.Close(); err != nil && !errors.Is(err, fsnotify.ErrClosed) {
			closeErr = fmt.Errorf("failed to close watcher: %w", err)
		}
	})
	return closeErr
}
