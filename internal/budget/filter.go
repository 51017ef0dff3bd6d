package budget

import (
	"strings"

	"github.com/theirongolddev/presu/internal/model"
)

// Filter narrows a budget list for display. Zero value matches everything.
type Filter struct {
	Query  string
	Status model.Status
}

// Apply returns the budgets whose client name, id or phone contains Query
// (case-insensitive) and whose status matches Status when set. Order is kept.
func (f Filter) Apply(budgets []model.Budget) []model.Budget {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := []model.Budget{}
	for _, b := range budgets {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(b.Client.Name), q) &&
			!strings.Contains(strings.ToLower(b.ID), q) &&
			!strings.Contains(strings.ToLower(b.Client.Phone), q) {
			continue
		}
		out = append(out, b)
	}
	return out
}
