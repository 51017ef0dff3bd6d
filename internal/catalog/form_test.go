package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/presu/internal/model"
)

func TestForm_Entry(t *testing.T) {
	tests := []struct {
		name    string
		form    Form
		wantErr error
		unit    model.Unit
	}{
		{"valid", Form{Name: "Cement", Price: "1000", Unit: "unit"}, nil, model.UnitUnit},
		{"decimal price", Form{Name: "Sand", Price: "12.50", Unit: "m2"}, nil, model.UnitM2},
		{"default unit", Form{Name: "Labor", Price: "5"}, nil, model.UnitUnit},
		{"wire unit", Form{Name: "Tile", Price: "5", Unit: "día"}, nil, model.UnitDay},
		{"non-numeric price", Form{Name: "Cement", Price: "abc"}, ErrInvalidPrice, ""},
		{"blank price", Form{Name: "Cement", Price: " "}, ErrInvalidPrice, ""},
		{"blank name", Form{Name: " ", Price: "1"}, ErrNameRequired, ""},
		{"bad unit", Form{Name: "Cement", Price: "1", Unit: "parsec"}, ErrInvalidUnit, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.form.Entry()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.unit, got.Unit)
		})
	}
}

func TestFormFrom_RoundTrip(t *testing.T) {
	e := model.CatalogEntry{ID: "x", Name: "Paint", UnitPrice: decimal.RequireFromString("12.5"), Unit: model.UnitHour, Category: "Labor"}
	got, err := FormFrom(e).Entry()
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, e.Unit, got.Unit)
	assert.True(t, e.UnitPrice.Equal(got.UnitPrice))
}
