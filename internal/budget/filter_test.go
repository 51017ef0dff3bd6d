package budget

import (
	"testing"

	"github.com/theirongolddev/presu/internal/model"
)

func TestFilter_Apply(t *testing.T) {
	budgets := []model.Budget{
		{ID: "EXP-AAA111", Client: model.ClientInfo{Name: "Ana Gómez", Phone: "+54 11 4444"}, Status: model.StatusPending},
		{ID: "EXP-BBB222", Client: model.ClientInfo{Name: "Bruno", Phone: "555-0101"}, Status: model.StatusAccepted},
		{ID: "EXP-CCC333", Client: model.ClientInfo{Name: "Carla", Phone: ""}, Status: model.StatusPending},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero value matches all", Filter{}, []string{"EXP-AAA111", "EXP-BBB222", "EXP-CCC333"}},
		{"client name case-insensitive", Filter{Query: "ANA"}, []string{"EXP-AAA111"}},
		{"id substring", Filter{Query: "bbb"}, []string{"EXP-BBB222"}},
		{"phone substring", Filter{Query: "0101"}, []string{"EXP-BBB222"}},
		{"status only", Filter{Status: model.StatusPending}, []string{"EXP-AAA111", "EXP-CCC333"}},
		{"query and status", Filter{Query: "exp", Status: model.StatusAccepted}, []string{"EXP-BBB222"}},
		{"no match", Filter{Query: "zzz"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(budgets)
			if len(got) != len(tt.want) {
				t.Fatalf("Apply() returned %d budgets, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("Apply()[%d] = %s, want %s", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}
