package assets

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/depthsort/engine/core"
)

/**
 * @brief Watches a configuration file and posts every successfully reloaded
 * configuration. The watcher goroutine never touches renderer state: the
 * frame driver polls for new configurations between frames.
 */
type ConfigWatcher struct {
	path string

	mutex    sync.Mutex
	wg       sync.WaitGroup
	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool

	configs chan RendererConfig
	errors  chan error
}

/**
 * @brief Starts watching path. The parent directory is watched so that
 * editors replacing the file through a rename are noticed too.
 */
func NewConfigWatcher(path string) (*ConfigWatcher, error) {
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

	w := &ConfigWatcher{
		path:     abs,
		done:     make(chan struct{}),
		fsnotify: fsWatch,
		configs:  make(chan RendererConfig, 1),
		errors:   make(chan error, 1),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *ConfigWatcher) Path() string {
	return w.path
}

// Configs delivers reloaded configurations. Only the latest one is kept.
func (w *ConfigWatcher) Configs() <-chan RendererConfig {
	return w.configs
}

// Errors delivers reload failures. Only the latest one is kept.
func (w *ConfigWatcher) Errors() <-chan error {
	return w.errors
}

// Poll returns a reloaded configuration if one is waiting.
func (w *ConfigWatcher) Poll() (RendererConfig, bool) {
	select {
	case c := <-w.configs:
		return c, true
	default:
		return RendererConfig{}, false
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *ConfigWatcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return errors.New("config watcher already closed")
	}
	w.isClosed = true
	w.mutex.Unlock()

	close(w.done)
	w.wg.Wait()
	return nil
}

func (w *ConfigWatcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			config, err := LoadConfig(w.path)
			if err != nil {
				core.LogWarn("config reload failed: %s", err)
				replace(w.errors, err)
				continue
			}
			core.LogDebug("config reloaded from %s", w.path)
			replace(w.configs, config)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())
			replace(w.errors, err)

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

// replace posts v on a buffered channel of size one, discarding a value
// nobody has read yet.
func replace[T any](ch chan T, v T) {
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
