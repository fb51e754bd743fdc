package theme

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Loader resolves theme names to palettes.
type Loader struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	themesDir string
	theme     *Theme
}

// NewLoader creates a new theme loader reading user themes from themesDir.
func NewLoader(themesDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		themesDir: themesDir,
	}
}

// ThemesDir returns the user themes directory.
func (l *Loader) ThemesDir() string {
	return l.themesDir
}

// Load loads a theme by name and makes it current.
// Theme resolution order:
//  1. User themes directory
//  2. Embedded/bundled themes
//  3. The default theme, with a warning
//
// It never fails; a broken user theme falls through to the next source.
func (l *Loader) Load(name string) *Theme {
	l.mu.Lock()
	defer l.mu.Unlock()

	if name == "" {
		name = DefaultThemeName
	}

	if l.themesDir != "" {
		path := filepath.Join(l.themesDir, name+".yaml")
		if _, err := os.Stat(path); err == nil {
			t, err := NewTheme(name, path)
			if err != nil {
				l.logger.Warn("failed to load user theme, trying bundled", "theme", name, "error", err)
			} else {
				l.theme = t
				l.logger.Info("loaded user theme", "name", name, "path", path)
				return t
			}
		}
	}

	if data, found := GetEmbeddedTheme(name); found {
		t, err := Parse(name, data, "")
		if err == nil {
			t.IsDefault = name == DefaultThemeName
			l.theme = t
			l.logger.Debug("loaded bundled theme", "name", name)
			return t
		}
		l.logger.Warn("bundled theme is invalid", "theme", name, "error", err)
	}

	l.logger.Warn("theme not found, using default", "theme", name)
	l.theme = NewDefaultTheme()
	return l.theme
}

// Theme returns the currently loaded theme, loading the default if none was.
func (l *Loader) Theme() *Theme {
	l.mu.RLock()
	t := l.theme
	l.mu.RUnlock()
	if t == nil {
		return l.Load(DefaultThemeName)
	}
	return t
}

// List returns all themes the loader can resolve.
func (l *Loader) List() ([]ThemeInfo, error) {
	return ListAvailableThemes(l.themesDir)
}
