package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ColorError is red, used for the error prefix on terminals.
const ColorError = lipgloss.Color("#EF4444")

// errorPrefix returns "error:", styled bold red when w is a terminal.
func errorPrefix(w io.Writer) string {
	const prefix = "error:"
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return prefix
	}
	style := lipgloss.NewRenderer(f).NewStyle().
		Bold(true).
		Foreground(ColorError)
	return style.Render(prefix)
}
