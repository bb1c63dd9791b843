package ui

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher delivers a notification whenever the status file changes, so the
// panel re-renders without polling. The containing directory is watched
// because the daemon replaces the file with truncate-and-write.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan struct{}
}

// NewWatcher watches the status file at path.
func NewWatcher(path string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(filepath.Dir(path)); err != nil {
		fs.Close()
		return nil, err
	}

	w := &Watcher{fs: fs, events: make(chan struct{}, 1)}
	name := filepath.Base(path)
	go func() {
		defer close(w.events)
		for {
			select {
			case ev, ok := <-fs.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				select {
				case w.events <- struct{}{}:
				default: // notification already pending
				}
			case _, ok := <-fs.Errors:
				if !ok {
					return
				}
				// Watch errors are non-fatal; the panel's tick still
				// re-reads the file. The channel must be drained either
				// way or fsnotify stalls event delivery.
			}
		}
	}()
	return w, nil
}

// Events returns the change-notification channel.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Close stops watching.
func (w *Watcher) Close() error { return w.fs.Close() }
