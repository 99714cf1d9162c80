package interp

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type styles struct {
	enabled bool
	errTag  lipgloss.Style
	errText lipgloss.Style
	prompt  lipgloss.Style
}

func newStyles(w io.Writer, enabled bool) styles {
	r := lipgloss.NewRenderer(w)
	if enabled {
		// The caller already decided colour is wanted; don't let a piped
		// writer downgrade the profile.
		r.SetColorProfile(termenv.ANSI256)
	}

	return styles{
		enabled: enabled,
		errTag:  r.NewStyle().Foreground(lipgloss.Color("#f7768e")).Bold(true),
		errText: r.NewStyle().Foreground(lipgloss.Color("#c0caf5")),
		prompt:  r.NewStyle().Foreground(lipgloss.Color("#7aa2f7")),
	}
}

func (s styles) errorLine(msg string) string {
	if !s.enabled {
		return "ERROR: " + msg
	}
	return s.errTag.Render("ERROR:") + " " + s.errText.Render(msg)
}

func (s styles) promptText(p string) string {
	if !s.enabled {
		return p
	}
	return s.prompt.Render(p)
}
