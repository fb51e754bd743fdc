package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastui/internal/model"
)

// Colour roles a theme can set.
const (
	ColorBackground = "background"
	ColorForeground = "foreground"
	ColorMuted      = "muted"
	ColorAccent     = "accent"
	ColorBorder     = "border"
)

var colorRoles = []string{ColorBackground, ColorForeground, ColorMuted, ColorAccent, ColorBorder}

// Theme represents a loaded palette.
type Theme struct {
	Name      string
	Path      string // empty for bundled themes
	ModTime   time.Time
	IsDefault bool

	Colors map[string]string
	Kinds  map[model.Kind]string
	Decor  []string
}

// themeFile is the on-disk form. A nil Decor inherits from the parent theme;
// an explicit empty list clears it.
type themeFile struct {
	Name    string            `yaml:"name"`
	Extends string            `yaml:"extends"`
	Colors  map[string]string `yaml:"colors"`
	Kinds   map[string]string `yaml:"kinds"`
	Decor   []string          `yaml:"decor"`
}

// ParseError reports a theme file that could not be decoded.
type ParseError struct {
	Name string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("theme %q: %v", e.Name, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewTheme loads a theme from a file. An extends key is resolved against the
// file's directory first and the bundled themes second.
func NewTheme(name, path string) (*Theme, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	t, err := Parse(name, data, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	t.Path = path
	t.ModTime = info.ModTime()
	return t, nil
}

// Parse decodes a theme. baseDir may be empty, in which case only bundled
// themes can be extended.
func Parse(name string, data []byte, baseDir string) (*Theme, error) {
	t := &Theme{
		Name:   name,
		Colors: make(map[string]string),
		Kinds:  make(map[model.Kind]string),
	}
	if err := t.apply(name, data, baseDir, map[string]bool{name: true}); err != nil {
		return nil, err
	}
	return t, nil
}

// apply overlays data onto t after applying its parent chain. seen guards
// against extends cycles; a cycle stops the chain instead of failing.
func (t *Theme) apply(name string, data []byte, baseDir string, seen map[string]bool) error {
	var f themeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return &ParseError{Name: name, Err: err}
	}

	if parent := strings.TrimSpace(f.Extends); parent != "" && !seen[parent] {
		seen[parent] = true
		pdata, pdir, ok := resolve(parent, baseDir)
		if !ok {
			return &ParseError{Name: name, Err: fmt.Errorf("extends unknown theme %q", parent)}
		}
		if err := t.apply(parent, pdata, pdir, seen); err != nil {
			return err
		}
	}

	for role, c := range f.Colors {
		if !slices.Contains(colorRoles, role) {
			return &ParseError{Name: name, Err: fmt.Errorf("unknown colour role %q", role)}
		}
		t.Colors[role] = c
	}
	for k, c := range f.Kinds {
		kind := model.Kind(k)
		if !kind.Valid() {
			return &ParseError{Name: name, Err: fmt.Errorf("unknown kind %q", k)}
		}
		t.Kinds[kind] = c
	}
	if f.Decor != nil {
		t.Decor = slices.Clone(f.Decor)
	}
	return nil
}

func resolve(name, baseDir string) ([]byte, string, bool) {
	if baseDir != "" {
		if data, err := os.ReadFile(filepath.Join(baseDir, name+".yaml")); err == nil {
			return data, baseDir, true
		}
	}
	if data, ok := GetEmbeddedTheme(name); ok {
		return data, "", true
	}
	return nil, "", false
}

// NewDefaultTheme creates a theme from the bundled default.
func NewDefaultTheme() *Theme {
	data, _ := GetEmbeddedTheme(DefaultThemeName)
	t, err := Parse(DefaultThemeName, data, "")
	if err != nil {
		// The bundled default is covered by tests; this only guards a broken build.
		return &Theme{Name: DefaultThemeName, Colors: map[string]string{}, Kinds: map[model.Kind]string{}, IsDefault: true}
	}
	t.IsDefault = true
	return t
}

// Color returns the colour for a role, or "" when the theme leaves it unset.
func (t *Theme) Color(role string) string {
	return t.Colors[role]
}

// KindColor returns the accent colour for a kind, falling back to the theme
// accent.
func (t *Theme) KindColor(k model.Kind) string {
	if c, ok := t.Kinds[model.ParseKind(string(k))]; ok && c != "" {
		return c
	}
	return t.Colors[ColorAccent]
}

// ThemeInfo contains information about an available theme.
type ThemeInfo struct {
	Name     string
	Path     string
	Embedded bool
}

// ListAvailableThemes returns the user themes in themesDir followed by the
// bundled themes they do not shadow.
func ListAvailableThemes(themesDir string) ([]ThemeInfo, error) {
	var themes []ThemeInfo
	seen := make(map[string]bool)

	if themesDir != "" {
		entries, err := os.ReadDir(themesDir)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".yaml")
			themes = append(themes, ThemeInfo{Name: name, Path: filepath.Join(themesDir, entry.Name())})
			seen[name] = true
		}
	}

	for _, name := range ListEmbeddedThemes() {
		if !seen[name] {
			themes = append(themes, ThemeInfo{Name: name, Embedded: true})
		}
	}
	return themes, nil
}

// CreateThemesDir creates themesDir if it doesn't exist.
func CreateThemesDir(themesDir string) error {
	return os.MkdirAll(themesDir, 0o755)
}
