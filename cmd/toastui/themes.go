package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/layout"
	"github.com/jmylchreest/toastui/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes and layouts",
	Long: `List the themes and toast layouts toastui can load.

User themes live in ~/.config/toastui/themes/*.yaml and layouts in
~/.config/toastui/layouts/*.xml; both shadow bundled entries of the same name.
The active entries are marked with *.`,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	themes, err := theme.ListAvailableThemes(config.ThemesDir())
	if err != nil {
		return fmt.Errorf("failed to list themes: %w", err)
	}
	fmt.Fprintln(out, "Themes:")
	for _, t := range themes {
		source := "bundled"
		if !t.Embedded {
			source = t.Path
		}
		fmt.Fprintf(out, "  %s %-20s %s\n", marker(t.Name == cfg.Theme.Name), t.Name, source)
	}

	fmt.Fprintln(out, "Layouts:")
	seen := make(map[string]bool)
	userLayouts, _ := filepath.Glob(filepath.Join(config.LayoutsDir(), "*.xml"))
	for _, path := range userLayouts {
		name := strings.TrimSuffix(filepath.Base(path), ".xml")
		seen[name] = true
		fmt.Fprintf(out, "  %s %-20s %s\n", marker(name == cfg.Toast.Layout), name, path)
	}
	for _, name := range layout.ListEmbeddedTemplates() {
		if seen[name] {
			continue
		}
		fmt.Fprintf(out, "  %s %-20s bundled\n", marker(name == cfg.Toast.Layout), name)
	}
	return nil
}

func marker(active bool) string {
	if active {
		return "*"
	}
	return " "
}
