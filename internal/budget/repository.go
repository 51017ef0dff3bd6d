// Package budget persists issued quotes and owns their status lifecycle.
package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/presu/internal/model"
	"github.com/theirongolddev/presu/internal/store"
)

// ErrBudgetNotFound is returned when an id matches no stored budget.
var ErrBudgetNotFound = errors.New("budget not found")

// Repository keeps all budgets as one JSON array, most recent first.
type Repository struct {
	kv  store.KV
	key string
}

// NewRepository returns a repository reading and writing key.
func NewRepository(kv store.KV, key string) *Repository {
	return &Repository{kv: kv, key: key}
}

// List returns budgets most recent first.
func (r *Repository) List(ctx context.Context) ([]model.Budget, error) {
	var budgets []model.Budget
	if _, err := store.LoadJSON(ctx, r.kv, r.key, &budgets); err != nil {
		return nil, err
	}
	if budgets == nil {
		budgets = []model.Budget{}
	}
	return budgets, nil
}

// Get returns the budget with id.
func (r *Repository) Get(ctx context.Context, id string) (model.Budget, error) {
	budgets, err := r.List(ctx)
	if err != nil {
		return model.Budget{}, err
	}
	if i := indexOf(budgets, id); i >= 0 {
		return budgets[i], nil
	}
	return model.Budget{}, fmt.Errorf("%w: %s", ErrBudgetNotFound, id)
}

// Save replaces the budget with the same id in place, or prepends it.
func (r *Repository) Save(ctx context.Context, b model.Budget) error {
	budgets, err := r.List(ctx)
	if err != nil {
		return err
	}
	if i := indexOf(budgets, b.ID); i >= 0 {
		budgets[i] = b
		log.Info().Str("id", b.ID).Msg("budget updated")
	} else {
		budgets = append([]model.Budget{b}, budgets...)
		log.Info().Str("id", b.ID).Str("client", b.Client.Name).Msg("budget created")
	}
	return store.SaveJSON(ctx, r.kv, r.key, budgets)
}

// Delete removes the budget with id, keeping the order of the rest. Absent
// ids are a no-op.
func (r *Repository) Delete(ctx context.Context, id string) error {
	budgets, err := r.List(ctx)
	if err != nil {
		return err
	}
	i := indexOf(budgets, id)
	if i < 0 {
		return nil
	}
	budgets = append(budgets[:i], budgets[i+1:]...)
	log.Info().Str("id", id).Msg("budget deleted")
	return store.SaveJSON(ctx, r.kv, r.key, budgets)
}

// UpdateStatus changes only the status field of one budget.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status model.Status) (model.Budget, error) {
	if !status.Valid() {
		return model.Budget{}, fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}
	budgets, err := r.List(ctx)
	if err != nil {
		return model.Budget{}, err
	}
	i := indexOf(budgets, id)
	if i < 0 {
		return model.Budget{}, fmt.Errorf("%w: %s", ErrBudgetNotFound, id)
	}
	if budgets[i].Status.Valid() && !model.CanTransition(budgets[i].Status, status) {
		return model.Budget{}, fmt.Errorf("%w: %s -> %s", model.ErrInvalidStatus, budgets[i].Status, status)
	}
	budgets[i].Status = status
	if err := store.SaveJSON(ctx, r.kv, r.key, budgets); err != nil {
		return model.Budget{}, err
	}
	log.Info().Str("id", id).Str("status", string(status)).Msg("budget status changed")
	return budgets[i], nil
}

// ReplaceAll overwrites the whole collection; used by import.
func (r *Repository) ReplaceAll(ctx context.Context, budgets []model.Budget) error {
	if budgets == nil {
		budgets = []model.Budget{}
	}
	return store.SaveJSON(ctx, r.kv, r.key, budgets)
}

func indexOf(budgets []model.Budget, id string) int {
	for i, b := range budgets {
		if b.ID == id {
			return i
		}
	}
	return -1
}
