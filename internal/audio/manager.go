package audio

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Manager plays the configured sound for each toast kind. It implements
// toast.Observer.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	player  *Player
	watcher *Watcher
	enabled bool
	sounds  map[model.Kind]string
}

var _ toast.Observer = (*Manager)(nil)

// NewManager creates an audio manager on the system speaker.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	return NewManagerWithPlayer(cfg, NewPlayer(logger), logger)
}

// NewManagerWithPlayer creates an audio manager around an existing player.
func NewManagerWithPlayer(cfg *config.Config, player *Player, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		logger:  logger,
		player:  player,
		watcher: NewWatcher(player, logger),
		sounds:  make(map[model.Kind]string),
	}
	m.loadSoundConfig(cfg)
	return m
}

// loadSoundConfig resolves the per-kind sound files. Missing files are
// logged and skipped.
func (m *Manager) loadSoundConfig(cfg *config.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.sounds)
	m.enabled = cfg != nil && cfg.Audio.Enabled
	if cfg == nil {
		return
	}

	m.player.SetVolume(float64(cfg.Audio.Volume) / 100.0)

	for _, k := range model.Kinds() {
		path := cfg.SoundFor(k)
		if path == "" {
			continue
		}
		path = filepath.Clean(path)
		if _, err := os.Stat(path); err != nil {
			m.logger.Warn("sound file not found", "kind", k, "path", path)
			continue
		}
		m.sounds[k] = path
		m.logger.Debug("loaded sound", "kind", k, "path", path)
	}
}

func (m *Manager) snapshot() map[model.Kind]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.sounds)
}

// Start preloads the sounds and starts watching them for changes.
func (m *Manager) Start(ctx context.Context) error {
	sounds := m.snapshot()
	for _, path := range sounds {
		m.preload(path)
	}
	if err := m.watcher.Start(ctx); err != nil {
		return err
	}
	m.logger.Info("audio manager started", "sounds", len(sounds))
	return nil
}

func (m *Manager) preload(path string) {
	if err := m.player.Preload(path); err != nil {
		m.logger.Warn("failed to preload sound", "path", path, "error", err)
	}
	if err := m.watcher.Watch(path); err != nil {
		m.logger.Warn("failed to watch sound", "path", path, "error", err)
	}
}

// Stop shuts down the audio manager.
func (m *Manager) Stop() {
	m.watcher.Stop()
	m.player.Close()
	m.logger.Debug("audio manager stopped")
}

// SoundFor returns the sound file used for a kind, or "".
func (m *Manager) SoundFor(k model.Kind) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sounds[model.ParseKind(string(k))]
}

// PlayForKind plays the sound configured for k. It is a no-op when audio is
// disabled or the kind has no sound.
func (m *Manager) PlayForKind(k model.Kind) error {
	m.mu.RLock()
	enabled := m.enabled
	path, ok := m.sounds[model.ParseKind(string(k))]
	m.mu.RUnlock()

	if !enabled {
		return nil
	}
	if !ok {
		m.logger.Debug("no sound configured for kind", "kind", k)
		return nil
	}
	return m.player.Play(path)
}

// ToastShown plays the cue for the toast's kind. Failures are logged.
func (m *Manager) ToastShown(t *toast.Toast) {
	if err := m.PlayForKind(t.Kind()); err != nil {
		m.logger.Warn("failed to play sound", "toast_id", t.ID(), "kind", t.Kind(), "error", err)
	}
}

// ToastRemoved implements toast.Observer.
func (m *Manager) ToastRemoved(*toast.Toast, toast.CloseReason) {}

// UpdateConfig applies a reloaded configuration.
func (m *Manager) UpdateConfig(cfg *config.Config) {
	m.player.ClearCache()
	m.watcher.Clear()
	m.loadSoundConfig(cfg)
	for _, path := range m.snapshot() {
		m.preload(path)
	}
	m.logger.Debug("audio manager config updated")
}
