package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette for terminal output.
var (
	colourPrimary   = lipgloss.Color("#7C3AED")
	colourSecondary = lipgloss.Color("#06B6D4")
	colourMuted     = lipgloss.Color("#6C7086")
	colourSuccess   = lipgloss.Color("#A6E3A1")
	colourError     = lipgloss.Color("#F38BA8")
)

// outputStyles renders command output. The zero value prints plain text.
type outputStyles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Path    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

// plainStyles leaves text untouched, for pipes and files.
func plainStyles() outputStyles {
	s := lipgloss.NewStyle()
	return outputStyles{Title: s, Label: s, Path: s, Muted: s, Success: s, Error: s}
}

// terminalStyles colours output for an interactive terminal.
func terminalStyles() outputStyles {
	return outputStyles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(colourPrimary),
		Label:   lipgloss.NewStyle().Foreground(colourSecondary),
		Path:    lipgloss.NewStyle().Underline(true),
		Muted:   lipgloss.NewStyle().Foreground(colourMuted),
		Success: lipgloss.NewStyle().Foreground(colourSuccess),
		Error:   lipgloss.NewStyle().Foreground(colourError),
	}
}

// stylesFor picks terminal styles when w is a TTY.
func stylesFor(w io.Writer) outputStyles {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return terminalStyles()
	}
	return plainStyles()
}
