package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/presu/internal/app"
	"github.com/theirongolddev/presu/internal/budget"
	"github.com/theirongolddev/presu/internal/cli"
	"github.com/theirongolddev/presu/internal/export"
	"github.com/theirongolddev/presu/internal/model"
	"github.com/theirongolddev/presu/internal/tui/theme"
)

// flexWidth is what remains of total for one stretchy column after the fixed
// ones and the table's one-cell padding on each side of every column.
func flexWidth(total int, fixed []int) int {
	w := total - 2*(len(fixed)+1)
	for _, f := range fixed {
		w -= f
	}
	if w < 12 {
		w = 12
	}
	return w
}

func budgetColumns(width int) []table.Column {
	fixed := []int{11, 10, 15, 14, 9, 15}
	return []table.Column{
		{Title: "ID", Width: fixed[0]},
		{Title: "Date", Width: fixed[1]},
		{Title: "Client", Width: flexWidth(width, fixed)},
		{Title: "Phone", Width: fixed[2]},
		{Title: "Total", Width: fixed[3]},
		{Title: "Status", Width: fixed[4]},
		{Title: "Validity", Width: fixed[5]},
	}
}

// refreshRows reapplies search and filter to both tables and keeps the
// cursors in range.
func (a *App) refreshRows() {
	a.refreshBudgetRows()
	a.refreshCatalogRows()
}

func (a *App) refreshBudgetRows() {
	a.visibleBudgets = budget.Filter{Query: a.budgetQuery, Status: a.statusFilter}.Apply(a.budgets)
	now := a.svc.Now()
	rows := make([]table.Row, 0, len(a.visibleBudgets))
	for _, b := range a.visibleBudgets {
		rows = append(rows, table.Row{
			b.ID,
			a.format.Date(b.CreatedAt),
			b.Client.Name,
			b.Client.Phone,
			a.format.Money(b.Total),
			b.Status.Label(),
			validityLabel(b, now),
		})
	}
	a.budgetTable.SetRows(rows)
	clampCursor(&a.budgetTable, len(rows))
}

// validityLabel only flags expiry for pending budgets; a decided budget's
// validity no longer matters.
func validityLabel(b model.Budget, now time.Time) string {
	if b.Status != model.StatusPending {
		return "-"
	}
	return cli.FormatValidity(b.ValidUntil, now)
}

func clampCursor(t *table.Model, n int) {
	switch {
	case n == 0:
		t.SetCursor(0)
	case t.Cursor() >= n:
		t.SetCursor(n - 1)
	case t.Cursor() < 0:
		t.SetCursor(0)
	}
}

func (a App) selectedBudget() (model.Budget, bool) {
	i := a.budgetTable.Cursor()
	if i < 0 || i >= len(a.visibleBudgets) {
		return model.Budget{}, false
	}
	return a.visibleBudgets[i], true
}

// nextStatusFilter cycles all -> pending -> accepted -> rejected -> all.
func nextStatusFilter(s model.Status) model.Status {
	if s == "" {
		return model.Statuses[0]
	}
	for i, st := range model.Statuses {
		if st == s && i+1 < len(model.Statuses) {
			return model.Statuses[i+1]
		}
	}
	return ""
}

func (a App) updateBudgets(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		return a.startSearch(a.budgetQuery)
	case "esc":
		a.budgetQuery = ""
		a.statusFilter = ""
		a.refreshRows()
		return a, nil
	case "f":
		a.statusFilter = nextStatusFilter(a.statusFilter)
		a.refreshRows()
		return a, nil
	case "a":
		return a.setStatus(model.StatusAccepted)
	case "r":
		return a.setStatus(model.StatusRejected)
	case "p":
		return a.setStatus(model.StatusPending)
	case "e":
		b, ok := a.selectedBudget()
		if !ok {
			return a, nil
		}
		return a, exportPDFCmd(a.ctx, a.svc, b.ID)
	case "w":
		b, ok := a.selectedBudget()
		if !ok {
			return a, nil
		}
		a.setFlash(export.WhatsAppLink(b, a.profile, a.format), false)
		return a, nil
	case "d":
		b, ok := a.selectedBudget()
		if !ok {
			return a, nil
		}
		a.confirm = &pendingConfirm{
			prompt: fmt.Sprintf("Delete budget %s for %s?", b.ID, b.Client.Name),
			run:    deleteBudgetCmd(a.ctx, a.svc, b.ID),
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.budgetTable, cmd = a.budgetTable.Update(msg)
	return a, cmd
}

func (a App) setStatus(st model.Status) (tea.Model, tea.Cmd) {
	b, ok := a.selectedBudget()
	if !ok || b.Status == st {
		return a, nil
	}
	svc, ctx, id := a.svc, a.ctx, b.ID
	return a, func() tea.Msg {
		if _, err := svc.UpdateStatus(ctx, id, st); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{flash: fmt.Sprintf("%s marked %s", id, st.Label())}
	}
}

func deleteBudgetCmd(ctx context.Context, svc *app.App, id string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.DeleteBudget(ctx, id); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{flash: "deleted " + id}
	}
}

func exportPDFCmd(ctx context.Context, svc *app.App, id string) tea.Cmd {
	return func() tea.Msg {
		art, err := svc.ExportPDF(ctx, id)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		path, err := export.WriteArtifact(svc.Export.OutputDir, art)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{flash: "wrote " + path}
	}
}

func (a App) viewBudgets() string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(a.searchLine(a.budgetQuery))
	filter := mutedStyle.Render("all")
	if a.statusFilter != "" {
		label := a.statusFilter.Label()
		filter = lipgloss.NewStyle().Foreground(t.StatusColor(label)).Bold(true).Render(label)
	}
	b.WriteString(mutedStyle.Render("   status: ") + filter +
		mutedStyle.Render(fmt.Sprintf("   %d of %d", len(a.visibleBudgets), len(a.budgets))))
	b.WriteString("\n")
	if len(a.visibleBudgets) == 0 {
		b.WriteString("\n  " + mutedStyle.Render("No budgets match."))
		return b.String()
	}
	b.WriteString(a.budgetTable.View())
	return b.String()
}

// searchLine shows the live input while searching, else the applied query.
func (a App) searchLine(query string) string {
	if a.searching {
		return " " + a.search.View()
	}
	if query == "" {
		return lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render(" / to search")
	}
	return lipgloss.NewStyle().Foreground(theme.Active.Accent).Render(" / " + query)
}
