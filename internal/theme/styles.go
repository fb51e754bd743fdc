package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/toastui/internal/model"
)

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Toast     lipgloss.Style
	Title     lipgloss.Style
	Message   lipgloss.Style
	Muted     lipgloss.Style
	Close     lipgloss.Style
	Progress  lipgloss.Style
	Track     lipgloss.Style
	Accent    lipgloss.Style
	Error     lipgloss.Style
	Decor     []lipgloss.Style
	kindColor map[model.Kind]lipgloss.TerminalColor
}

// Styles builds the lipgloss styles for t. Unset colours leave the terminal
// default in place.
func (t *Theme) Styles() Styles {
	fg := color(t.Color(ColorForeground))
	muted := color(t.Color(ColorMuted))

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color(t.Color(ColorBorder))).
		Foreground(fg).
		Padding(0, 1)
	if bg := t.Color(ColorBackground); bg != "" {
		toast = toast.Background(lipgloss.Color(bg))
	}

	s := Styles{
		Toast:     toast,
		Title:     lipgloss.NewStyle().Bold(true).Foreground(fg),
		Message:   lipgloss.NewStyle().Foreground(fg),
		Muted:     lipgloss.NewStyle().Foreground(muted),
		Close:     lipgloss.NewStyle().Foreground(muted),
		Progress:  lipgloss.NewStyle().Foreground(color(t.Color(ColorAccent))),
		Track:     lipgloss.NewStyle().Foreground(color(t.Color(ColorBorder))),
		Accent:    lipgloss.NewStyle().Foreground(color(t.Color(ColorAccent))).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(color(t.KindColor(model.KindError))),
		kindColor: make(map[model.Kind]lipgloss.TerminalColor),
	}
	for _, k := range model.Kinds() {
		s.kindColor[k] = color(t.KindColor(k))
	}
	for _, c := range t.Decor {
		s.Decor = append(s.Decor, lipgloss.NewStyle().Foreground(lipgloss.Color(c)))
	}
	return s
}

// Kind returns a style coloured for the kind.
func (s Styles) Kind(k model.Kind) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.kindColor[model.ParseKind(string(k))])
}

// KindBorder returns the toast box with its border in the kind colour.
func (s Styles) KindBorder(k model.Kind) lipgloss.Style {
	return s.Toast.BorderForeground(s.kindColor[model.ParseKind(string(k))])
}

func color(c string) lipgloss.TerminalColor {
	if c == "" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(c)
}
