package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/presu/internal/model"
)

// Stats is the dashboard summary.
type Stats struct {
	AcceptedRevenue decimal.Decimal `json:"acceptedRevenue"`
	Pending         int             `json:"pending"`
	Accepted        int             `json:"accepted"`
	Rejected        int             `json:"rejected"`
	Total           int             `json:"total"`
	OverduePending  int             `json:"overduePending"`
	CatalogSize     int             `json:"catalogSize"`
	PendingBudgets  []model.Budget  `json:"pendingBudgets"`
}

// Stats summarises budgets and catalog. Overdue counts pending budgets whose
// validity has passed; it never changes their status.
func (a *App) Stats(ctx context.Context) (Stats, error) {
	budgets, err := a.Budgets.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	entries, err := a.Catalog.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(budgets, len(entries), a.Now()), nil
}

// ComputeStats is the pure form of Stats.
func ComputeStats(budgets []model.Budget, catalogSize int, now time.Time) Stats {
	s := Stats{
		AcceptedRevenue: decimal.Zero,
		Total:           len(budgets),
		CatalogSize:     catalogSize,
		PendingBudgets:  []model.Budget{},
	}
	for _, b := range budgets {
		switch b.Status {
		case model.StatusAccepted:
			s.Accepted++
			s.AcceptedRevenue = s.AcceptedRevenue.Add(b.Total)
		case model.StatusRejected:
			s.Rejected++
		case model.StatusPending:
			s.Pending++
			s.PendingBudgets = append(s.PendingBudgets, b)
			if b.Expired(now) {
				s.OverduePending++
			}
		}
	}
	return s
}
