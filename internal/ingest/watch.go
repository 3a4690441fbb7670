package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned by Watcher.Wait once the watcher is closed.
var ErrWatcherClosed = errors.New("watcher closed")

const changeOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watcher reports changes to a set of data files. It watches their
// directories, so a file replaced by rename is still seen.
type Watcher struct {
	fs    *fsnotify.Watcher
	files map[string]struct{}
}

// NewWatcher starts watching paths.
func NewWatcher(paths []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{fs: fw, files: make(map[string]struct{}, len(paths))}
	dirs := make(map[string]struct{})
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("resolving %s: %w", path, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return w, nil
}

// Wait blocks until one of the files changes. It returns ErrWatcherClosed
// after Close and the context's error when ctx ends first.
func (w *Watcher) Wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if w.relevant(ev) {
				return nil
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			return fmt.Errorf("watching data files: %w", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&changeOps == 0 {
		return false
	}
	_, ok := w.files[filepath.Clean(ev.Name)]
	return ok
}
