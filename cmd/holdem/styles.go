package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles colour CLI output. Colours are dropped when w is not a terminal.
type styles struct {
	header lipgloss.Style
	hand   lipgloss.Style
	win    lipgloss.Style
	tie    lipgloss.Style
	loss   lipgloss.Style
	dim    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		hand:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		win:    r.NewStyle().Foreground(lipgloss.Color("10")),
		tie:    r.NewStyle().Foreground(lipgloss.Color("11")),
		loss:   r.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// result styles a signed amount as a win or a loss.
func (s styles) result(v float64, text string) string {
	switch {
	case v > 0:
		return s.win.Render(text)
	case v < 0:
		return s.loss.Render(text)
	}
	return text
}
