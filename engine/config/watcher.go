package config

import (
	"path/filepath"
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file whenever it is written and publishes the result.
// The parent directory is watched so editors that replace the file by rename are seen.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	updates chan Config
	errors  chan error
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewWatcher starts watching path.
//
// Parameters:
//   - path: the TOML file to watch
//
// Returns:
//   - *Watcher: the running watcher; call Close to stop it
//   - error: if the underlying fsnotify watcher cannot be created
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		fs:      fsWatch,
		updates: make(chan Config, 1),
		errors:  make(chan error, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Updates delivers each successfully reloaded config. Only the latest pending value is kept.
func (w *Watcher) Updates() <-chan Config {
	return w.updates
}

// Errors delivers reload and watch errors. Only the latest pending error is kept.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and closes both channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
		close(w.updates)
		close(w.errors)
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	log := logging.With("config")

	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				log.Warn("config reload failed", "path", w.path, "err", err)
				publish(w.errors, err)
				continue
			}
			log.Debug("config reloaded", "path", w.path)
			publish(w.updates, cfg)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			publish(w.errors, err)

		case <-w.done:
			return
		}
	}
}

// publish replaces any unread value so the reader always sees the newest one.
func publish[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
