package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/presu/internal/cli"
	"github.com/theirongolddev/presu/internal/tui/components"
	"github.com/theirongolddev/presu/internal/tui/theme"
)

const maxPendingRows = 8

func (a App) viewDashboard() string {
	t := theme.Active
	w := a.contentWidth()
	s := a.stats

	pending := components.Metric{Label: "Pending", Value: fmt.Sprintf("%d", s.Pending)}
	if s.OverduePending > 0 {
		pending.Note = fmt.Sprintf("%d overdue", s.OverduePending)
		pending.Tone = components.ToneWarn
	}
	cards := components.MetricCardRow([]components.Metric{
		{Label: "Accepted revenue", Value: a.format.Money(s.AcceptedRevenue), Note: fmt.Sprintf("%d accepted", s.Accepted), Tone: components.ToneGood},
		pending,
		{Label: "Rejected", Value: fmt.Sprintf("%d", s.Rejected)},
		{Label: "Budgets", Value: fmt.Sprintf("%d", s.Total)},
		{Label: "Catalog", Value: fmt.Sprintf("%d", s.CatalogSize), Note: "entries"},
	}, w)

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warning)
	nameW := components.CardInnerWidth(w) - 48
	if nameW < 10 {
		nameW = 10
	}
	now := a.svc.Now()

	var body strings.Builder
	if len(s.PendingBudgets) == 0 {
		body.WriteString(mutedStyle.Render("Nothing waiting on a client."))
	}
	for i, b := range s.PendingBudgets {
		if i == maxPendingRows {
			body.WriteString(mutedStyle.Render(fmt.Sprintf("... and %d more", len(s.PendingBudgets)-maxPendingRows)))
			break
		}
		validity := cli.FormatValidity(b.ValidUntil, now)
		if b.Expired(now) {
			validity = warnStyle.Render(validity)
		}
		name := cli.Truncate(b.Client.Name, nameW)
		fmt.Fprintf(&body, "%-11s  %s  %14s  %s\n",
			b.ID, padRight(name, nameW), a.format.Money(b.Total), validity)
	}

	return cards + "\n" + components.ContentCard("Pending budgets", strings.TrimRight(body.String(), "\n"), w)
}

func padRight(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
