package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const labelWidth = 26

// Styles holds the terminal styles used by every command
type Styles struct {
	Header lipgloss.Style
	Label  lipgloss.Style
	Muted  lipgloss.Style
	Good   lipgloss.Style
	Warn   lipgloss.Style
	Bad    lipgloss.Style
	Code   lipgloss.Style
	Box    lipgloss.Style

	enabled bool
}

// NewStyles creates styles; when enabled is false every style renders text unchanged
func NewStyles(enabled bool) *Styles {
	if !enabled {
		plain := lipgloss.NewStyle()
		return &Styles{
			Header: plain, Label: plain.Width(labelWidth), Muted: plain,
			Good: plain, Warn: plain, Bad: plain, Code: plain, Box: plain,
		}
	}

	return &Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Width(labelWidth),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Good:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Bad:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Code:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Box:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),

		enabled: true,
	}
}

// Frame draws a border around block on terminals and returns it unchanged otherwise
func (s *Styles) Frame(block string) string {
	if !s.enabled {
		return block
	}
	return s.Box.Render(block)
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
