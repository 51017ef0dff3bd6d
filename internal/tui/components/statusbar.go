package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/presu/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// the latest flash message on the right. isErr colors the flash red.
func RenderStatusBar(width int, hints, flash string, isErr bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	flashStyle := lipgloss.NewStyle().Foreground(t.Success)
	if isErr {
		flashStyle = flashStyle.Foreground(t.Danger)
	}

	left := " " + hints
	right := ""
	if flash != "" {
		right = flashStyle.Render(flash) + " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
