// Package components holds the bordered cards, tab bar and status bar the
// presu TUI is assembled from.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/presu/internal/tui/theme"
)

// minCardContent keeps cards legible on very narrow terminals.
const minCardContent = 10

// Tone colors a metric's value.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneGood
	ToneWarn
)

// Metric is one dashboard figure. Note is an optional dim line under the value.
type Metric struct {
	Label string
	Value string
	Note  string
	Tone  Tone
}

// LayoutRow splits totalWidth into n widths summing to totalWidth; the
// leftmost cells take the remainder.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = totalWidth / n
		if i < totalWidth%n {
			widths[i]++
		}
	}
	return widths
}

// frame is the rounded, padded box shared by every card. outerWidth includes
// the border.
func frame(outerWidth int) lipgloss.Style {
	w := outerWidth - 2
	if w < minCardContent {
		w = minCardContent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Active.Border).
		Width(w).
		Padding(0, 1)
}

func (tn Tone) color(t theme.Theme) lipgloss.Color {
	switch tn {
	case ToneGood:
		return t.Success
	case ToneWarn:
		return t.Warning
	default:
		return t.TextPrimary
	}
}

// MetricCard renders label, value and optional note stacked in a card.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active
	lines := []string{
		lipgloss.NewStyle().Foreground(t.TextMuted).Render(m.Label),
		lipgloss.NewStyle().Foreground(m.Tone.color(t)).Bold(true).Render(m.Value),
	}
	if m.Note != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.TextDim).Render(m.Note))
	}
	return frame(outerWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// MetricCardRow lays metrics side by side across exactly totalWidth. Cards
// in a row share the height of the tallest one.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}
	hasNote := false
	for _, m := range metrics {
		if m.Note != "" {
			hasNote = true
		}
	}
	widths := LayoutRow(totalWidth, len(metrics))
	cards := make([]string, len(metrics))
	for i, m := range metrics {
		if hasNote && m.Note == "" {
			m.Note = " "
		}
		cards[i] = MetricCard(m, widths[i])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// ContentCard renders body under an optional bold title.
func ContentCard(title, body string, outerWidth int) string {
	if title != "" {
		heading := lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Bold(true).Render(title)
		body = heading + "\n" + body
	}
	return frame(outerWidth).Render(body)
}

// CardInnerWidth is the text width left inside a ContentCard after border
// and padding.
func CardInnerWidth(outerWidth int) int {
	return max(outerWidth-4, minCardContent)
}
