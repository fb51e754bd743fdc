package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[toast]\nwidth = 42\n"), 0o644))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, w.Path())

	reloaded := make(chan *Config, 16)
	w.SetReloadCallback(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	require.NoError(t, w.Start())
	require.NoError(t, w.Start(), "second start is a no-op")
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(path, []byte("[toast]\nwidth = 60\n"), 0o644))

	// A truncating write may be observed before the new content lands.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloaded:
			if cfg.Toast.Width == 60 {
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestWatcher_ReportsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	failed := make(chan error, 16)
	w.SetErrorCallback(func(err error) {
		select {
		case failed <- err:
		default:
		}
	})
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	// Writes to other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("nope ["), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("[toast]\nposition = \"center\"\n"), 0o644))

	select {
	case err := <-failed:
		assert.Contains(t, err.Error(), "invalid position")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload error")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.toml"), nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
