package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/tui"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Launch the toast page",
	Long: `Launch the terminal page with the sign-in and registration form.

Key bindings:
  tab, ↓ / shift+tab, ↑   Move between fields
  ctrl+t                  Switch between sign in and register
  ctrl+p                  Show or hide the password
  ←/→                     Change the role
  enter                   Submit
  esc                     Dismiss the newest toast
  ctrl+x                  Dismiss all toasts
  f1                      Show help
  ctrl+c                  Quit

The mouse works too: hovering a toast pauses it and its ✕ closes it.
Logs are written to --log-file while the page is running.`,
	RunE: runPage,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Launch the toast page with one toast of each kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		return startPage(cmd, true)
	},
}

func init() {
	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(demoCmd)
}

func runPage(cmd *cobra.Command, args []string) error {
	return startPage(cmd, false)
}

func startPage(cmd *cobra.Command, demo bool) error {
	logPath := globalOpts.logFile
	if logPath == "" {
		logPath = config.LogPath()
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	// The page owns the terminal; stderr would corrupt the screen.
	setupLogger(f)

	return tui.Run(cmd.Context(), tui.RunOptions{
		Config:     cfg,
		ConfigPath: configPath(),
		Demo:       demo,
		Logger:     logger,
	})
}
