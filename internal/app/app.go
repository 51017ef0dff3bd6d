// Package app is the application-state container shared by the CLI, the TUI
// and the HTTP API. Every mutation a front-end can trigger goes through it.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/presu/internal/budget"
	"github.com/theirongolddev/presu/internal/catalog"
	"github.com/theirongolddev/presu/internal/config"
	"github.com/theirongolddev/presu/internal/export"
	"github.com/theirongolddev/presu/internal/model"
	"github.com/theirongolddev/presu/internal/pricing"
	"github.com/theirongolddev/presu/internal/settings"
	"github.com/theirongolddev/presu/internal/store"
)

// ErrNotConfirmed is returned when the user declines a destructive action.
var ErrNotConfirmed = errors.New("action not confirmed")

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt; used with --yes and by the API once
// the request carries confirm=true.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// App wires the domain stores over one key-value backend.
type App struct {
	Catalog  *catalog.Store
	Budgets  *budget.Repository
	Settings *settings.Store

	Confirm Confirmer
	Now     func() time.Time
	NewID   func() string

	ValidityDays int
	Export       config.ExportConfig

	kv store.KV
}

// New builds the container. confirm may be nil, in which case destructive
// actions are always declined.
func New(kv store.KV, cfg config.Config, confirm Confirmer) *App {
	if confirm == nil {
		confirm = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
	}
	return &App{
		Catalog:      catalog.NewStore(kv, cfg.General.ProductsKey()),
		Budgets:      budget.NewRepository(kv, cfg.General.BudgetsKey()),
		Settings:     settings.NewStore(kv, cfg.General.SettingsKey()),
		Confirm:      confirm,
		Now:          time.Now,
		NewID:        NewBudgetID,
		ValidityDays: cfg.General.DefaultValidityDays,
		Export:       cfg.Export,
		kv:           kv,
	}
}

// Close releases the backend.
func (a *App) Close() error {
	return a.kv.Close()
}

// NewBudgetID returns "EXP-" followed by six uppercase hex characters.
func NewBudgetID() string {
	return "EXP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

// NewEditor starts a blank budget seeded from the saved profile.
func (a *App) NewEditor(ctx context.Context) (*pricing.Editor, error) {
	p, err := a.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.NewEditor(p, a.ValidityDays), nil
}

// EditBudget loads a stored budget into an editor.
func (a *App) EditBudget(ctx context.Context, id string) (*pricing.Editor, error) {
	b, err := a.Budgets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return pricing.EditBudget(b), nil
}

// SaveBudget builds e and persists it. New budgets get an id distinct from
// every stored one. Nothing is written when the save gate rejects e.
func (a *App) SaveBudget(ctx context.Context, e *pricing.Editor) (model.Budget, error) {
	if err := e.Validate(); err != nil {
		return model.Budget{}, err
	}

	id := e.OriginalID()
	if !e.Editing() {
		existing, err := a.Budgets.List(ctx)
		if err != nil {
			return model.Budget{}, err
		}
		id = a.uniqueID(existing)
	}

	b, err := e.Build(id, a.Now())
	if err != nil {
		return model.Budget{}, err
	}
	if err := a.Budgets.Save(ctx, b); err != nil {
		return model.Budget{}, fmt.Errorf("saving budget: %w", err)
	}
	return b, nil
}

func (a *App) uniqueID(existing []model.Budget) string {
	taken := make(map[string]bool, len(existing))
	for _, b := range existing {
		taken[b.ID] = true
	}
	for {
		id := a.NewID()
		if !taken[id] {
			return id
		}
		log.Debug().Str("id", id).Msg("budget id collision, retrying")
	}
}

// DeleteBudget removes a budget after confirmation.
func (a *App) DeleteBudget(ctx context.Context, id string) error {
	b, err := a.Budgets.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := a.confirm(ctx, fmt.Sprintf("Delete budget %s for %s?", b.ID, b.Client.Name)); err != nil {
		return err
	}
	return a.Budgets.Delete(ctx, id)
}

// DeleteCatalogEntry removes a catalog entry after confirmation. Budgets
// keep their snapshots.
func (a *App) DeleteCatalogEntry(ctx context.Context, id string) error {
	e, err := a.Catalog.Find(ctx, id)
	if err != nil {
		return err
	}
	if err := a.confirm(ctx, fmt.Sprintf("Delete %q from the catalog?", e.Name)); err != nil {
		return err
	}
	return a.Catalog.Remove(ctx, id)
}

func (a *App) confirm(ctx context.Context, prompt string) error {
	ok, err := a.Confirm.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("confirming: %w", err)
	}
	if !ok {
		return ErrNotConfirmed
	}
	return nil
}

// UpdateStatus moves a budget through its lifecycle.
func (a *App) UpdateStatus(ctx context.Context, id string, status model.Status) (model.Budget, error) {
	return a.Budgets.UpdateStatus(ctx, id, status)
}

// Format returns the display format for the current profile.
func (a *App) Format(ctx context.Context) (export.Format, model.BusinessProfile, error) {
	p, err := a.Settings.Get(ctx)
	if err != nil {
		return export.Format{}, model.BusinessProfile{}, err
	}
	return export.NewFormat(p, a.Export), p, nil
}

// ExportPDF renders the quote for id.
func (a *App) ExportPDF(ctx context.Context, id string) (export.Artifact, error) {
	b, err := a.Budgets.Get(ctx, id)
	if err != nil {
		return export.Artifact{}, err
	}
	f, p, err := a.Format(ctx)
	if err != nil {
		return export.Artifact{}, err
	}
	return export.PDF(b, p, f)
}

// Message returns the messaging text and its wa.me deep link for id.
func (a *App) Message(ctx context.Context, id string) (text, link string, err error) {
	b, err := a.Budgets.Get(ctx, id)
	if err != nil {
		return "", "", err
	}
	f, p, err := a.Format(ctx)
	if err != nil {
		return "", "", err
	}
	return export.MessageText(b, p, f), export.WhatsAppLink(b, p, f), nil
}

// ExportHistory builds the spreadsheet report for the budgets matching filter.
func (a *App) ExportHistory(ctx context.Context, filter budget.Filter) (export.Artifact, error) {
	all, err := a.Budgets.List(ctx)
	if err != nil {
		return export.Artifact{}, err
	}
	f, _, err := a.Format(ctx)
	if err != nil {
		return export.Artifact{}, err
	}
	return export.HistoryXLSX(filter.Apply(all), f, a.Now())
}
