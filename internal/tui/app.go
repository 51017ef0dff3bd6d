// Package tui provides the interactive Bubble Tea dashboard for presu.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/presu/internal/app"
	"github.com/theirongolddev/presu/internal/export"
	"github.com/theirongolddev/presu/internal/model"
	"github.com/theirongolddev/presu/internal/tui/components"
	"github.com/theirongolddev/presu/internal/tui/theme"
)

const (
	tabDashboard = iota
	tabBudgets
	tabCatalog
	tabSettings
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 160

	// tab bar + blank + search/filter line + status bar + table header/border
	tableOverhead  = 8
	minTableHeight = 3
)

// DataLoadedMsg carries a fresh read of every store.
type DataLoadedMsg struct {
	Budgets []model.Budget
	Catalog []model.CatalogEntry
	Profile model.BusinessProfile
	Format  export.Format
	Stats   app.Stats
	Err     error
}

// actionDoneMsg reports the outcome of a mutation; the model reloads after it.
type actionDoneMsg struct {
	flash string
	err   error
}

// pendingConfirm is a destructive action waiting for y/n.
type pendingConfirm struct {
	prompt string
	run    tea.Cmd
}

// App is the root Bubble Tea model.
type App struct {
	svc *app.App
	ctx context.Context

	// Data
	budgets []model.Budget
	catalog []model.CatalogEntry
	profile model.BusinessProfile
	format  export.Format
	stats   app.Stats
	loaded  bool
	loadErr error

	// Rows currently shown, after search and status filter
	visibleBudgets []model.Budget
	visibleCatalog []model.CatalogEntry

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model

	budgetTable  table.Model
	catalogTable table.Model

	search       textinput.Model
	searching    bool
	budgetQuery  string
	catalogQuery string
	statusFilter model.Status

	confirm  *pendingConfirm
	flash    string
	flashErr bool
}

// NewApp creates the dashboard over svc. Deletes are only issued after the
// model's own y/n prompt, so svc's confirmer is set to approve.
func NewApp(ctx context.Context, svc *app.App) App {
	svc.Confirm = app.AlwaysConfirm

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		svc:          svc,
		ctx:          ctx,
		spinner:      sp,
		search:       newSearchInput(),
		budgetTable:  newTable(budgetColumns(minTerminalWidth)),
		catalogTable: newTable(catalogColumns(minTerminalWidth)),
	}
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search"
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func newTable(cols []table.Column) table.Model {
	t := theme.Active
	tbl := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(t.TextPrimary).
		Background(t.Selected).
		Bold(false)
	tbl.SetStyles(s)
	return tbl
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(loadDataCmd(a.ctx, a.svc), a.spinner.Tick)
}

func loadDataCmd(ctx context.Context, svc *app.App) tea.Cmd {
	return func() tea.Msg {
		budgets, err := svc.Budgets.List(ctx)
		if err != nil {
			return DataLoadedMsg{Err: err}
		}
		entries, err := svc.Catalog.List(ctx)
		if err != nil {
			return DataLoadedMsg{Err: err}
		}
		f, p, err := svc.Format(ctx)
		if err != nil {
			return DataLoadedMsg{Err: err}
		}
		return DataLoadedMsg{
			Budgets: budgets,
			Catalog: entries,
			Profile: p,
			Format:  f,
			Stats:   app.ComputeStats(budgets, len(entries), svc.Now()),
		}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case DataLoadedMsg:
		if msg.Err != nil {
			a.loadErr = msg.Err
			a.loaded = true
			return a, nil
		}
		a.loadErr = nil
		a.budgets = msg.Budgets
		a.catalog = msg.Catalog
		a.profile = msg.Profile
		a.format = msg.Format
		a.stats = msg.Stats
		a.loaded = true
		a.refreshRows()
		return a, nil

	case actionDoneMsg:
		if msg.err != nil {
			a.setFlash(msg.err.Error(), true)
			return a, nil
		}
		a.setFlash(msg.flash, false)
		return a, loadDataCmd(a.ctx, a.svc)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)
	}

	if a.searching {
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global: quit
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		return a, nil
	}

	// A pending confirmation swallows every other key.
	if a.confirm != nil {
		pc := a.confirm
		a.confirm = nil
		if key == "y" || key == "Y" {
			return a, pc.run
		}
		a.setFlash("cancelled", false)
		return a, nil
	}

	if a.searching {
		return a.updateSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "ctrl+r":
		return a, loadDataCmd(a.ctx, a.svc)
	case "tab", "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab", "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	}
	if idx := components.TabIdxByKey(key); idx >= 0 {
		a.activeTab = idx
		return a, nil
	}

	switch a.activeTab {
	case tabBudgets:
		return a.updateBudgets(msg)
	case tabCatalog:
		return a.updateCatalog(msg)
	}
	return a, nil
}

// startSearch focuses the search box, pre-filled with the current tab's query.
func (a App) startSearch(query string) (tea.Model, tea.Cmd) {
	a.searching = true
	a.search.SetValue(query)
	a.search.CursorEnd()
	return a, a.search.Focus()
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.searching = false
		a.search.Blur()
		return a, nil
	case "esc":
		a.searching = false
		a.search.Blur()
		a.search.SetValue("")
		a.setQuery("")
		return a, nil
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	a.setQuery(a.search.Value())
	return a, cmd
}

func (a *App) setQuery(q string) {
	if a.activeTab == tabCatalog {
		a.catalogQuery = q
	} else {
		a.budgetQuery = q
	}
	a.refreshRows()
}

func (a *App) setFlash(s string, isErr bool) {
	a.flash = s
	a.flashErr = isErr
}

func (a *App) resize() {
	h := a.height - tableOverhead
	if h < minTableHeight {
		h = minTableHeight
	}
	w := a.contentWidth()
	a.budgetTable.SetColumns(budgetColumns(w))
	a.budgetTable.SetHeight(h)
	a.budgetTable.SetWidth(w)
	a.catalogTable.SetColumns(catalogColumns(w))
	a.catalogTable.SetHeight(h)
	a.catalogTable.SetWidth(w)
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	if cw < minTerminalWidth {
		cw = minTerminalWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  presu needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if !a.loaded {
		return "\n  " + a.spinner.View() + " Loading budgets..."
	}
	if a.loadErr != nil {
		return fmt.Sprintf("\n  Could not load data: %v\n\n  Press q to quit.\n", a.loadErr)
	}
	if a.showHelp {
		return a.viewHelp()
	}

	var body string
	switch a.activeTab {
	case tabDashboard:
		body = a.viewDashboard()
	case tabBudgets:
		body = a.viewBudgets()
	case tabCatalog:
		body = a.viewCatalog()
	case tabSettings:
		body = a.viewSettings()
	}

	var b strings.Builder
	b.WriteString(components.RenderTabBar(a.activeTab))
	b.WriteString("\n\n")
	b.WriteString(body)

	content := b.String()
	lines := strings.Count(content, "\n") + 1
	for i := lines; i < a.height-1; i++ {
		content += "\n"
	}
	return content + "\n" + a.statusBar()
}

func (a App) statusBar() string {
	if a.confirm != nil {
		return components.RenderStatusBar(a.contentWidth(), a.confirm.prompt+" [y/N]", "", false)
	}
	hints := "[?]help  [q]uit"
	switch a.activeTab {
	case tabBudgets:
		hints = "[/]search [f]ilter [a]ccept [r]eject [p]ending [e]xport [w]hatsapp [d]elete"
	case tabCatalog:
		hints = "[/]search [d]elete  [q]uit"
	}
	return components.RenderStatusBar(a.contentWidth(), hints, a.flash, a.flashErr)
}

func (a App) viewHelp() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	rows := [][2]string{
		{"1-4 / tab", "switch tab"},
		{"j/k", "move selection"},
		{"/", "search the current list"},
		{"f", "cycle status filter (budgets)"},
		{"a / r / p", "mark accepted, rejected or pending"},
		{"e", "export the selected budget to PDF"},
		{"w", "show the WhatsApp link"},
		{"d", "delete the selection (asks y/n)"},
		{"ctrl+r", "reload from storage"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", r[0])), descStyle.Render(r[1]))
	}
	b.WriteString("\n  " + descStyle.Render("press any key to close"))
	return components.ContentCard("Keys", b.String(), a.contentWidth())
}
