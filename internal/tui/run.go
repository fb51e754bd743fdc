package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmylchreest/toastui/internal/audio"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/desktop"
	"github.com/jmylchreest/toastui/internal/form"
	"github.com/jmylchreest/toastui/internal/layout"
	"github.com/jmylchreest/toastui/internal/theme"
)

// RunOptions configures the page.
type RunOptions struct {
	Config *config.Config
	// ConfigPath is watched for changes when the file exists.
	ConfigPath string
	Demo       bool
	Logger     *slog.Logger
}

// Run starts the page and blocks until it exits.
func Run(ctx context.Context, opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	dir, err := form.NewDemoDirectory(bcrypt.DefaultCost, logger)
	if err != nil {
		return fmt.Errorf("failed to seed accounts: %w", err)
	}

	sched := NewScheduler()
	themes := theme.NewLoader(config.ThemesDir(), logger)

	am := audio.NewManager(cfg, logger)
	if err := am.Start(ctx); err != nil {
		logger.Warn("audio watcher unavailable", "error", err)
	}
	defer am.Stop()

	themeWatcher := theme.NewWatcher(themes.Load(cfg.Theme.Name), logger)

	m := New(Options{
		Config:       cfg,
		Scheduler:    sched,
		Directory:    dir,
		Themes:       themes,
		Layouts:      layout.NewLoader(config.LayoutsDir(), logger),
		Logger:       logger,
		Audio:        am,
		ThemeWatcher: themeWatcher,
		Demo:         opts.Demo,
	})
	m.Toasts().AddObserver(am)

	var mirror *desktop.Mirror
	if cfg.Desktop.Mirror {
		bus, err := desktop.ConnectSession()
		if err != nil {
			logger.Warn("desktop mirroring disabled", "error", err)
		} else {
			defer func() { _ = bus.Close() }()
			mirror = desktop.NewMirror(bus, sched, m.Toasts(), cfg.Desktop.AppName, cfg.Toast.AutoDismiss.Duration(), logger)
			mirror.Start(ctx)
			m.mirror = mirror
			m.Toasts().AddObserver(mirror)
		}
	}

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	sched.Attach(p.Send)

	themeWatcher.SetChangeCallback(func(t *theme.Theme) {
		p.Send(themeReloadMsg{theme: t})
	})
	if err := themeWatcher.Start(ctx); err != nil {
		logger.Warn("theme watcher unavailable", "error", err)
	}
	defer themeWatcher.Stop()

	if path := opts.ConfigPath; path != "" {
		if _, err := os.Stat(path); err == nil {
			w, err := config.NewWatcher(path, logger)
			if err != nil {
				logger.Warn("config watcher unavailable", "error", err)
			} else {
				w.SetReloadCallback(func(c *config.Config) { p.Send(configReloadMsg{cfg: c}) })
				w.SetErrorCallback(func(err error) { p.Send(configErrorMsg{err: err}) })
				if err := w.Start(); err != nil {
					logger.Warn("config watcher unavailable", "error", err)
				}
				defer func() { _ = w.Stop() }()
			}
		}
	}

	_, err = p.Run()
	if mirror != nil {
		waitMirror(mirror, logger)
	}
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// mirrorDrainTimeout bounds how long shutdown waits for queued desktop calls.
const mirrorDrainTimeout = 2 * time.Second

func waitMirror(m *desktop.Mirror, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorDrainTimeout)
	defer cancel()
	if err := m.Wait(ctx); err != nil {
		logger.Warn("desktop notifications still pending at exit", "error", err)
	}
}
