package theme

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"
)

// DefaultPollInterval is how often a user theme file is checked.
const DefaultPollInterval = time.Second

// Watcher polls the active user theme file and hands a freshly parsed Theme
// to its callback whenever the file's modification time moves forward.
// Bundled themes have no file and are never polled.
type Watcher struct {
	mu       sync.Mutex
	logger   *slog.Logger
	current  *Theme
	interval time.Duration
	onChange func(t *Theme)

	// set while polling
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher for t. Nothing is polled until Start.
func NewWatcher(t *Theme, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{logger: logger, current: t, interval: DefaultPollInterval}
}

// SetPollInterval changes the poll interval used by the next Start.
func (w *Watcher) SetPollInterval(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.interval = d
}

// SetChangeCallback registers fn. It runs on the polling goroutine.
func (w *Watcher) SetChangeCallback(fn func(t *Theme)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// UpdateTheme makes t the theme being watched, e.g. after the configured
// theme name changed.
func (w *Watcher) UpdateTheme(t *Theme) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = t
}

// Start polls until ctx is done or Stop is called. Starting a running
// watcher, or one whose theme is bundled, does nothing.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return nil
	}
	if w.current == nil || w.current.Path == "" {
		w.logger.Debug("bundled theme, not polling")
		return nil
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.poll(ctx, w.interval, w.done)

	w.logger.Debug("polling theme file", "path", w.current.Path, "interval", w.interval)
	return nil
}

// Stop ends polling and waits for the goroutine to exit. It is safe to call
// more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// IsRunning reports whether the watcher is polling.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancel != nil
}

func (w *Watcher) poll(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.reloadIfNewer()
		}
	}
}

// reloadIfNewer parses the theme again when its file is newer than the loaded
// copy. The previous Theme is left as it was.
func (w *Watcher) reloadIfNewer() {
	w.mu.Lock()
	cur, fn := w.current, w.onChange
	w.mu.Unlock()

	if cur == nil || cur.Path == "" {
		return
	}

	info, err := os.Stat(cur.Path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		w.logger.Debug("theme file removed", "path", cur.Path)
		return
	case err != nil:
		w.logger.Warn("cannot stat theme file", "path", cur.Path, "error", err)
		return
	case !info.ModTime().After(cur.ModTime):
		return
	}

	fresh, err := NewTheme(cur.Name, cur.Path)
	if err != nil {
		w.logger.Warn("failed to reload theme", "path", cur.Path, "error", err)
		return
	}

	w.mu.Lock()
	// a theme swapped in meanwhile wins
	if w.current == cur {
		w.current = fresh
	}
	w.mu.Unlock()

	w.logger.Info("theme reloaded", "path", cur.Path)
	if fn != nil {
		fn(fresh)
	}
}
