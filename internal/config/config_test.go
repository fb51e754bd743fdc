package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/model"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5*time.Second, cfg.Toast.AutoDismiss.Duration())
	assert.Equal(t, 2*time.Second, cfg.Toast.ResumeGrace.Duration())
	assert.Equal(t, 300*time.Millisecond, cfg.Toast.ExitAnimation.Duration())
	assert.Equal(t, "top-right", cfg.Toast.Position)
	assert.Equal(t, 42, cfg.Toast.Width)
	assert.Equal(t, "default", cfg.Toast.Layout)
	assert.False(t, cfg.Toast.ReduceMotion)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, 80, cfg.Audio.Volume)
	assert.False(t, cfg.Desktop.Mirror)
	assert.Equal(t, "toastui", cfg.Desktop.AppName)
	assert.Equal(t, "default", cfg.Theme.Name)
	assert.True(t, cfg.Decor.Enabled)
	assert.Equal(t, 12, cfg.Decor.Count)

	require.NoError(t, cfg.Validate())
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[toast]
auto_dismiss = "8s"
resume_grace = "1500"
exit_animation = "0s"
position = "bottom-left"
width = 50
layout = "compact"
reduce_motion = true

[kinds.success]
title = "Éxito"

[kinds.error]
title = "Error"
glyph = "x"

[audio]
enabled = true
volume = 40

[audio.sounds]
error = "/usr/share/sounds/error.ogg"

[desktop]
mirror = true
app_name = "my-app"

[theme]
name = "catppuccin"

[decor]
enabled = false
count = 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8*time.Second, cfg.Toast.AutoDismiss.Duration())
	assert.Equal(t, 1500*time.Millisecond, cfg.Toast.ResumeGrace.Duration())
	assert.Zero(t, cfg.Toast.ExitAnimation.Duration())
	assert.Equal(t, PositionBottomLeft, cfg.PositionValue())
	assert.Equal(t, 50, cfg.Toast.Width)
	assert.Equal(t, "compact", cfg.Toast.Layout)
	assert.True(t, cfg.Toast.ReduceMotion)
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, 40, cfg.Audio.Volume)
	assert.Equal(t, "/usr/share/sounds/error.ogg", cfg.SoundFor(model.KindError))
	assert.Empty(t, cfg.SoundFor(model.KindSuccess))
	assert.True(t, cfg.Desktop.Mirror)
	assert.Equal(t, "my-app", cfg.Desktop.AppName)
	assert.Equal(t, "catppuccin", cfg.Theme.Name)
	assert.False(t, cfg.Decor.Enabled)
	assert.Equal(t, 4, cfg.Decor.Count)

	success := cfg.Presentation(model.KindSuccess)
	assert.Equal(t, "Éxito", success.Title)
	assert.Equal(t, "check-circle", success.Icon)
	assert.Equal(t, "x", cfg.Presentation(model.KindError).Glyph)
	assert.Equal(t, "Information", cfg.Presentation(model.Kind("bogus")).Title)
	assert.Len(t, cfg.Presentations(), 4)
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[toast]
position = "top-left"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "top-left", cfg.Toast.Position)
	assert.Equal(t, 5*time.Second, cfg.Toast.AutoDismiss.Duration())
	assert.Equal(t, 12, cfg.Decor.Count)
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[toast]\nauto_dismiss = \"soon\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
		wantMsg   string
	}{
		{
			name:      "bad position",
			mutate:    func(c *Config) { c.Toast.Position = "middle" },
			wantField: "toast.position",
			wantMsg:   "invalid position",
		},
		{
			name:      "zero auto dismiss",
			mutate:    func(c *Config) { c.Toast.AutoDismiss = 0 },
			wantField: "toast.auto_dismiss",
			wantMsg:   "greater than",
		},
		{
			name:      "negative exit animation",
			mutate:    func(c *Config) { c.Toast.ExitAnimation = Duration(-time.Second) },
			wantField: "toast.exit_animation",
		},
		{
			name:      "narrow",
			mutate:    func(c *Config) { c.Toast.Width = 5 },
			wantField: "toast.width",
			wantMsg:   "at least 20",
		},
		{
			name:      "loud",
			mutate:    func(c *Config) { c.Audio.Volume = 150 },
			wantField: "audio.volume",
			wantMsg:   "at most 100",
		},
		{
			name:      "unknown kind section",
			mutate:    func(c *Config) { c.Kinds["danger"] = model.Presentation{Title: "Danger"} },
			wantField: "kinds[danger]",
			wantMsg:   "unknown kind",
		},
		{
			name:      "unknown sound kind",
			mutate:    func(c *Config) { c.Audio.Sounds["debug"] = "/tmp/x.wav" },
			wantField: "audio.sounds[debug]",
		},
		{
			name:      "missing theme",
			mutate:    func(c *Config) { c.Theme.Name = "" },
			wantField: "theme.name",
			wantMsg:   "is required",
		},
		{
			name:      "too many shapes",
			mutate:    func(c *Config) { c.Decor.Count = 500 },
			wantField: "decor.count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantField, fe.Field)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidate_ReportsAllFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Toast.Position = "middle"
	cfg.Audio.Volume = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toast.position")
	assert.Contains(t, err.Error(), "audio.volume")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[toast]\nwidth = 500\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Toast.AutoDismiss = Duration(7 * time.Second)
	cfg.Kinds["warning"] = model.Presentation{Title: "Heads up"}

	require.NoError(t, cfg.Save(path))

	_, err := os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, loaded.Toast.AutoDismiss.Duration())
	assert.Equal(t, "Heads up", loaded.Presentation(model.KindWarning).Title)
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"5s", 5 * time.Second, false},
		{"300ms", 300 * time.Millisecond, false},
		{"1m30s", 90 * time.Second, false},
		{"2000", 2 * time.Second, false},
		{"0", 0, false},
		{"later", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration())
		})
	}

	text, err := Duration(1500 * time.Millisecond).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(text))
}

func TestPosition(t *testing.T) {
	assert.True(t, PositionTopLeft.Top())
	assert.True(t, PositionTopLeft.Left())
	assert.False(t, PositionBottomRight.Top())
	assert.False(t, PositionBottomRight.Left())
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_STATE_HOME", "/custom/state")

	assert.Equal(t, "/custom/config/toastui/config.toml", Path())
	assert.Equal(t, "/custom/config/toastui/themes", ThemesDir())
	assert.Equal(t, "/custom/config/toastui/layouts", LayoutsDir())
	assert.Equal(t, "/custom/state/toastui/toastui.log", LogPath())
}

func TestPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Contains(t, Path(), filepath.Join(".config", "toastui", "config.toml"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "sounds/a.ogg"), expandPath("~/sounds/a.ogg"))
	assert.Equal(t, "/abs/a.ogg", expandPath("/abs/a.ogg"))
}
