package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/laixer/glonax/logging"
)

// Watcher reloads a Config whenever its file changes, surfacing the
// reload on Changes() rather than mutating anything in place: spec
// EXPANSION's configuration section forbids silently swapping a
// running pipeline's configuration, so the caller decides what, if
// anything, to do with a reload. A parse failure after an edit is
// logged and otherwise ignored; the last good Config keeps running.
//
// fsnotify watches the containing directory rather than the file
// itself, since editors commonly replace a file's inode on save
// (rename-over-write), which would silently stop a file-level watch.
type Watcher struct {
	path    string
	logger  logging.Logger
	fsw     *fsnotify.Watcher
	changes chan *Config
	done    chan struct{}
}

// NewWatcher starts watching path's containing directory for changes
// and decodes a new Config on every write/create/rename touching path.
func NewWatcher(path string, logger logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "config: new watcher")
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "config: watch %s", dir)
	}

	w := &Watcher{
		path:    path,
		logger:  logger,
		fsw:     fsw,
		changes: make(chan *Config, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.changes)
	target := filepath.Clean(w.path)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				w.logger.Warnf("config: reload %s failed: %v", w.path, err)
				continue
			}
			select {
			case w.changes <- cfg:
			case <-w.done:
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("config: watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Changes returns the channel of successfully reloaded configs.
func (w *Watcher) Changes() <-chan *Config {
	return w.changes
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
