package audio

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates cached sounds when their files change on disk.
type Watcher struct {
	mu     sync.Mutex
	logger *slog.Logger
	player *Player
	fs     *fsnotify.Watcher

	paths map[string]bool // cleaned absolute sound paths
	dirs  map[string]bool

	running bool
	done    chan struct{}
	stopped chan struct{}
}

// NewWatcher creates a sound file watcher. If fsnotify is unavailable the
// watcher logs once and does nothing.
func NewWatcher(player *Player, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("sound watcher unavailable", "error", err)
	}
	return &Watcher{
		logger: logger,
		player: player,
		fs:     fsw,
		paths:  make(map[string]bool),
		dirs:   make(map[string]bool),
	}
}

// Watch adds a sound file. Its directory is watched so that editors that
// replace files on save are seen.
func (w *Watcher) Watch(path string) error {
	if path == "" || w.fs == nil {
		return nil
	}
	path = filepath.Clean(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.paths[path] = true
	dir := filepath.Dir(path)
	if w.dirs[dir] {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = true
	return nil
}

// Watching reports whether path is being watched.
func (w *Watcher) Watching(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paths[filepath.Clean(path)]
}

// Clear forgets every watched file.
func (w *Watcher) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fs != nil {
		for dir := range w.dirs {
			_ = w.fs.Remove(dir)
		}
	}
	clear(w.dirs)
	clear(w.paths)
}

// Start begins delivering change events.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.fs == nil {
		return nil
	}
	w.running = true
	w.done = make(chan struct{})
	w.stopped = make(chan struct{})
	go w.watch(ctx)
	w.logger.Debug("sound watcher started", "dirs", len(w.dirs))
	return nil
}

// Stop stops the watcher and releases the fsnotify handle. It is safe to
// call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.fs == nil {
		w.mu.Unlock()
		return
	}
	running := w.running
	if running {
		w.running = false
		close(w.done)
	}
	fsw := w.fs
	w.fs = nil
	w.mu.Unlock()

	_ = fsw.Close()
	if running {
		<-w.stopped
	}
	w.logger.Debug("sound watcher stopped")
}

// IsRunning returns whether the watcher is delivering events.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stopped)

	w.mu.Lock()
	fsw, done := w.fs, w.done
	w.mu.Unlock()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			path := filepath.Clean(event.Name)
			if !w.Watching(path) {
				continue
			}
			w.logger.Debug("sound file changed, invalidating cache", "path", path)
			if w.player != nil {
				w.player.Invalidate(path)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("sound watcher error", "error", err)

		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}
