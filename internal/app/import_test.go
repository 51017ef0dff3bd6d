package app

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/presu/internal/model"
)

const browserDump = `{
  "presuapp_v3_products": "[{\"id\":\"p1\",\"name\":\"CEMENT BAG\",\"price\":1000,\"unit\":\"unidad\",\"category\":\"\"}]",
  "presuapp_v3_budgets": [{
    "id": "EXP-123456",
    "date": "2025-11-02T13:45:00.000Z",
    "validUntil": "2025-11-17T13:45:00.000Z",
    "client": {"name": "Ana", "phone": "11 5555", "observations": ""},
    "items": [{"productId": "p1", "name": "CEMENT BAG", "price": 1000, "unit": "unidad", "quantity": 3, "subtotal": 3000}],
    "requiredMaterials": [],
    "taxRate": 21,
    "discount": 10,
    "subtotal": 3000,
    "total": 3267,
    "status": "aceptado"
  }],
  "presuapp_v3_settings": "{\"name\":\"Acme\",\"currency\":\"US$\",\"defaultTax\":21}",
  "unrelated": 1
}`

func TestImport_BrowserDump(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, nil)

	res, err := a.Import(ctx, strings.NewReader(browserDump))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Products: 1, Budgets: 1, Settings: true}, res)

	entries, err := a.Catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.DefaultCategory, entries[0].Category)
	assert.Equal(t, model.UnitUnit, entries[0].Unit)

	b, err := a.Budgets.Get(ctx, "EXP-123456")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, b.Status)
	assert.True(t, b.Total.Equal(decimal.NewFromInt(3267)))
	assert.True(t, b.ManualAdjustment.IsZero())
	assert.Equal(t, 2025, b.CreatedAt.Year())

	p, err := a.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.BusinessName)
	assert.Equal(t, "US$", p.CurrencySymbol)
	assert.Equal(t, "Ing. Profesional", p.OwnerName)

	e, err := a.EditBudget(ctx, "EXP-123456")
	require.NoError(t, err)
	assert.Equal(t, 15, e.ValidityDays)
}

func TestImport_Errors(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, nil)

	_, err := a.Import(ctx, strings.NewReader(`{"other": 1}`))
	assert.ErrorIs(t, err, ErrEmptyImport)

	_, err = a.Import(ctx, strings.NewReader(`not json`))
	assert.Error(t, err)

	_, err = a.Import(ctx, strings.NewReader(`{"presuapp_v3_products": "[{bad"}`))
	assert.Error(t, err)

	entries, _ := a.Catalog.List(ctx)
	assert.Empty(t, entries)
}
