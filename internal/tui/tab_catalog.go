package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/presu/internal/app"
	"github.com/theirongolddev/presu/internal/catalog"
	"github.com/theirongolddev/presu/internal/model"
	"github.com/theirongolddev/presu/internal/tui/theme"
)

func catalogColumns(width int) []table.Column {
	fixed := []int{16, 8, 14}
	return []table.Column{
		{Title: "Name", Width: flexWidth(width, fixed)},
		{Title: "Category", Width: fixed[0]},
		{Title: "Unit", Width: fixed[1]},
		{Title: "Price", Width: fixed[2]},
	}
}

func (a *App) refreshCatalogRows() {
	a.visibleCatalog = catalog.Filter(a.catalog, a.catalogQuery)
	rows := make([]table.Row, 0, len(a.visibleCatalog))
	for _, e := range a.visibleCatalog {
		rows = append(rows, table.Row{
			e.Name,
			e.Category,
			string(e.Unit),
			a.format.Money(e.UnitPrice),
		})
	}
	a.catalogTable.SetRows(rows)
	clampCursor(&a.catalogTable, len(rows))
}

func (a App) selectedEntry() (model.CatalogEntry, bool) {
	i := a.catalogTable.Cursor()
	if i < 0 || i >= len(a.visibleCatalog) {
		return model.CatalogEntry{}, false
	}
	return a.visibleCatalog[i], true
}

func (a App) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		return a.startSearch(a.catalogQuery)
	case "esc":
		a.catalogQuery = ""
		a.refreshRows()
		return a, nil
	case "d":
		e, ok := a.selectedEntry()
		if !ok {
			return a, nil
		}
		a.confirm = &pendingConfirm{
			prompt: fmt.Sprintf("Delete %q from the catalog?", e.Name),
			run:    deleteEntryCmd(a.ctx, a.svc, e.ID, e.Name),
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.catalogTable, cmd = a.catalogTable.Update(msg)
	return a, cmd
}

func deleteEntryCmd(ctx context.Context, svc *app.App, id, name string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.DeleteCatalogEntry(ctx, id); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{flash: fmt.Sprintf("removed %q", name)}
	}
}

func (a App) viewCatalog() string {
	mutedStyle := lipgloss.NewStyle().Foreground(theme.Active.TextMuted)

	var b strings.Builder
	b.WriteString(a.searchLine(a.catalogQuery))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("   %d of %d entries, %d categories",
		len(a.visibleCatalog), len(a.catalog), len(catalog.Categories(a.catalog)))))
	b.WriteString("\n")
	if len(a.visibleCatalog) == 0 {
		b.WriteString("\n  " + mutedStyle.Render("No catalog entries match."))
		return b.String()
	}
	b.WriteString(a.catalogTable.View())
	return b.String()
}
