package config

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ReloadCallback is called with the freshly loaded configuration.
type ReloadCallback func(cfg *Config)

// ErrorCallback is called when a changed file fails to load or validate.
type ErrorCallback func(err error)

// Watcher watches the config file and reloads it when it changes.
// Callbacks run on the watcher goroutine.
type Watcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	logger   *slog.Logger
	done     chan struct{}

	mu       sync.Mutex
	running  bool
	onReload ReloadCallback
	onError  ErrorCallback
}

// NewWatcher creates a watcher for the config file at path (the default path if empty).
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if path == "" {
		path = Path()
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  watcher,
		filePath: path,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// SetReloadCallback sets the callback for successful reloads.
func (w *Watcher) SetReloadCallback(cb ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = cb
}

// SetErrorCallback sets the callback for failed reloads.
func (w *Watcher) SetErrorCallback(cb ErrorCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = cb
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.filePath
}

// Start begins watching the file for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory containing the file; editors replace files on save.
	if err := w.watcher.Add(filepath.Dir(w.filePath)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	go w.watch()
	return nil
}

func (w *Watcher) watch() {
	filename := filepath.Base(w.filePath)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.filePath)

	w.mu.Lock()
	onReload, onError := w.onReload, w.onError
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("failed to reload config", "file", w.filePath, "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}

	w.logger.Debug("config reloaded", "file", w.filePath)
	if onReload != nil {
		onReload(cfg)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return w.watcher.Close()
	}

	w.running = false
	close(w.done)
	return w.watcher.Close()
}
