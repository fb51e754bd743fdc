// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/toastui/internal/model"
)

// Default configuration values.
const (
	DefaultAutoDismiss   = 5 * time.Second
	DefaultResumeGrace   = 2 * time.Second
	DefaultExitAnimation = 300 * time.Millisecond
	DefaultWidth         = 42
	DefaultLayout        = "default"
	DefaultTheme         = "default"
	DefaultDecorCount    = 12
	DefaultAppName       = "toastui"
)

// Config represents the toastui configuration.
// Loaded from ~/.config/toastui/config.toml
type Config struct {
	Toast   ToastConfig                   `toml:"toast"`
	Kinds   map[string]model.Presentation `toml:"kinds" validate:"dive,keys,kind,endkeys"`
	Audio   AudioConfig                   `toml:"audio"`
	Desktop DesktopConfig                 `toml:"desktop"`
	Theme   ThemeConfig                   `toml:"theme"`
	Decor   DecorConfig                   `toml:"decor"`
}

// ToastConfig contains toast timing and placement settings.
// Durations can be specified as "5s", "300ms", etc. or as integer milliseconds.
type ToastConfig struct {
	AutoDismiss   Duration `toml:"auto_dismiss" validate:"gt=0"`
	ResumeGrace   Duration `toml:"resume_grace" validate:"gt=0"`
	ExitAnimation Duration `toml:"exit_animation" validate:"gte=0"`
	Position      string   `toml:"position" validate:"position"`
	Width         int      `toml:"width" validate:"min=20,max=120"` // Terminal cells
	Layout        string   `toml:"layout" validate:"required"`      // Template name without .xml extension
	ReduceMotion  bool     `toml:"reduce_motion"`                   // Skip the exit animation
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool              `toml:"enabled"`
	Volume  int               `toml:"volume" validate:"min=0,max=100"`
	Sounds  map[string]string `toml:"sounds" validate:"dive,keys,kind,endkeys"` // Sound file per kind
}

// DesktopConfig controls mirroring toasts to the desktop notification daemon.
type DesktopConfig struct {
	Mirror  bool   `toml:"mirror"`
	AppName string `toml:"app_name" validate:"required"`
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name string `toml:"name" validate:"required"` // Theme name without .yaml extension
}

// DecorConfig controls the floating background shapes.
type DecorConfig struct {
	Enabled bool `toml:"enabled"`
	Count   int  `toml:"count" validate:"min=0,max=64"`
}

// Position represents the corner toasts stack in.
type Position string

const (
	PositionTopLeft     Position = "top-left"
	PositionTopRight    Position = "top-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionBottomRight Position = "bottom-right"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionTopLeft,
		PositionTopRight,
		PositionBottomLeft,
		PositionBottomRight,
	}
}

// Top reports whether the position is along the top edge.
func (p Position) Top() bool {
	return strings.HasPrefix(string(p), "top-")
}

// Left reports whether the position is along the left edge.
func (p Position) Left() bool {
	return strings.HasSuffix(string(p), "-left")
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Toast: ToastConfig{
			AutoDismiss:   Duration(DefaultAutoDismiss),
			ResumeGrace:   Duration(DefaultResumeGrace),
			ExitAnimation: Duration(DefaultExitAnimation),
			Position:      string(PositionTopRight),
			Width:         DefaultWidth,
			Layout:        DefaultLayout,
		},
		Kinds: make(map[string]model.Presentation),
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
			Sounds:  make(map[string]string),
		},
		Desktop: DesktopConfig{
			Mirror:  false,
			AppName: DefaultAppName,
		},
		Theme: ThemeConfig{
			Name: DefaultTheme,
		},
		Decor: DecorConfig{
			Enabled: true,
			Count:   DefaultDecorCount,
		},
	}
}

// Dir returns the toastui configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "toastui")
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// ThemesDir returns the directory searched for user themes.
func ThemesDir() string {
	return filepath.Join(Dir(), "themes")
}

// LayoutsDir returns the directory searched for user toast layouts.
func LayoutsDir() string {
	return filepath.Join(Dir(), "layouts")
}

// StateDir returns the state directory used for logs.
// Uses XDG_STATE_HOME if set, otherwise ~/.local/state.
func StateDir() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "toastui")
}

// LogPath returns the default log file path for the terminal page.
func LogPath() string {
	return filepath.Join(StateDir(), "toastui.log")
}

// Load loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns the default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Marshal renders the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// PositionValue returns the configured position as a Position.
func (c *Config) PositionValue() Position {
	return Position(c.Toast.Position)
}

// Presentation returns the presentation for a kind with configured overrides applied.
func (c *Config) Presentation(k model.Kind) model.Presentation {
	k = model.ParseKind(string(k))
	return c.Kinds[string(k)].Merge(model.DefaultPresentation(k))
}

// Presentations returns the effective presentation of every kind.
func (c *Config) Presentations() map[model.Kind]model.Presentation {
	out := make(map[model.Kind]model.Presentation, len(model.Kinds()))
	for _, k := range model.Kinds() {
		out[k] = c.Presentation(k)
	}
	return out
}

// SoundFor returns the sound file path for a kind, with ~ expanded.
// Returns "" when no sound is configured.
func (c *Config) SoundFor(k model.Kind) string {
	return expandPath(c.Audio.Sounds[string(model.ParseKind(string(k)))])
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
