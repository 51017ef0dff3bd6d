package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/presu/internal/model"
)

var cementCatalog = []model.CatalogEntry{
	{ID: "p1", Name: "CEMENT BAG", UnitPrice: decimal.NewFromInt(1000), Unit: model.UnitUnit},
}

func cementEditor(t *testing.T) *Editor {
	t.Helper()
	e := NewEditor(model.DefaultProfile(), 15)
	require.True(t, e.AddLineItem(cementCatalog, "p1", decimal.NewFromInt(3)))
	e.SetClient(model.ClientInfo{Name: "Ana", Phone: "+54 11 5555-0000"})
	e.SetDiscount(decimal.NewFromInt(10))
	e.SetTax(decimal.NewFromInt(21))
	return e
}

func TestEditor_CementBagScenario(t *testing.T) {
	e := cementEditor(t)
	require.Len(t, e.LineItems, 1)
	assert.True(t, e.LineItems[0].LineTotal.Equal(d("3000")))
	assert.True(t, e.Totals().Total.Equal(d("3267")))

	e.SetManualAdjustment(decimal.NewFromInt(200))
	assert.True(t, e.Totals().Total.Equal(d("3067")))
}

func TestNewEditor_SeedsFromProfile(t *testing.T) {
	p := model.DefaultProfile()
	p.DefaultTaxPercent = d("21")
	e := NewEditor(p, 0)
	assert.True(t, e.TaxPercent.Equal(d("21")))
	assert.True(t, e.DiscountPercent.IsZero())
	assert.Equal(t, DefaultValidityDays, e.ValidityDays)
	assert.False(t, e.Editing())
}

func TestEditor_AddLineItemNoOps(t *testing.T) {
	e := NewEditor(model.DefaultProfile(), 15)
	assert.False(t, e.AddLineItem(cementCatalog, "missing", decimal.NewFromInt(1)))
	assert.False(t, e.AddLineItem(cementCatalog, "p1", decimal.Zero))
	assert.False(t, e.AddLineItem(cementCatalog, "p1", d("-2")))
	assert.Empty(t, e.LineItems)
}

func TestEditor_AddLineItemSnapshotsEntry(t *testing.T) {
	catalog := append([]model.CatalogEntry(nil), cementCatalog...)
	e := NewEditor(model.DefaultProfile(), 15)
	require.True(t, e.AddLineItem(catalog, "p1", decimal.NewFromInt(1)))

	catalog[0].UnitPrice = decimal.NewFromInt(5)
	catalog[0].Name = "renamed"
	assert.Equal(t, "CEMENT BAG", e.LineItems[0].Name)
	assert.True(t, e.LineItems[0].UnitPrice.Equal(d("1000")))
}

func TestEditor_UpdateLineItem(t *testing.T) {
	e := cementEditor(t)

	require.NoError(t, e.UpdateLineItem(0, FieldQuantity, "2,5"))
	assert.True(t, e.LineItems[0].LineTotal.Equal(d("2500")))

	require.NoError(t, e.UpdateLineItem(0, FieldPrice, "12.345"))
	first := e.LineItems[0].LineTotal
	assert.True(t, first.Equal(d("30.86")), "got %s", first)

	require.NoError(t, e.UpdateLineItem(0, FieldPrice, "12.345"))
	assert.True(t, e.LineItems[0].LineTotal.Equal(first), "update is idempotent")

	require.NoError(t, e.UpdateLineItem(0, FieldQuantity, "abc"))
	assert.True(t, e.LineItems[0].Quantity.IsZero())
	assert.True(t, e.LineItems[0].LineTotal.IsZero())

	err := e.UpdateLineItem(3, FieldPrice, "1")
	assert.ErrorIs(t, err, ErrLineIndex)
	assert.Error(t, e.UpdateLineItem(0, Field("name"), "x"))
}

func TestEditor_RemoveLineItemAndMaterials(t *testing.T) {
	e := cementEditor(t)
	require.True(t, e.AddLineItem(cementCatalog, "p1", decimal.NewFromInt(1)))
	require.NoError(t, e.RemoveLineItem(0))
	require.Len(t, e.LineItems, 1)
	assert.True(t, e.LineItems[0].Quantity.Equal(d("1")))
	assert.ErrorIs(t, e.RemoveLineItem(5), ErrLineIndex)

	assert.False(t, e.AddMaterial(" ", "2"))
	assert.False(t, e.AddMaterial("Sand", ""))
	assert.True(t, e.AddMaterial("Sand", "2 m3"))
	assert.True(t, e.AddMaterial("Gravel", "1 m3"))
	require.NoError(t, e.RemoveMaterial(0))
	assert.Equal(t, []model.RequiredMaterial{{Name: "Gravel", Quantity: "1 m3"}}, e.Materials)
	assert.ErrorIs(t, e.RemoveMaterial(1), ErrMaterialIndex)
}

func TestEditor_SetValidityDaysClamps(t *testing.T) {
	e := NewEditor(model.DefaultProfile(), 15)
	e.SetValidityDays(-3)
	assert.Equal(t, 0, e.ValidityDays)
}

func TestEditor_BuildGate(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("empty client name", func(t *testing.T) {
		e := NewEditor(model.DefaultProfile(), 15)
		require.True(t, e.AddLineItem(cementCatalog, "p1", decimal.NewFromInt(1)))
		e.SetClient(model.ClientInfo{Name: "   "})
		_, err := e.Build("EXP-1", now)
		assert.ErrorIs(t, err, ErrClientNameRequired)
		assert.False(t, errors.Is(err, ErrNoLineItems))
	})

	t.Run("no line items", func(t *testing.T) {
		e := NewEditor(model.DefaultProfile(), 15)
		e.SetClient(model.ClientInfo{Name: "Ana"})
		_, err := e.Build("EXP-1", now)
		assert.ErrorIs(t, err, ErrNoLineItems)
	})

	t.Run("both", func(t *testing.T) {
		e := NewEditor(model.DefaultProfile(), 15)
		_, err := e.Build("EXP-1", now)
		assert.ErrorIs(t, err, ErrNoLineItems)
		assert.ErrorIs(t, err, ErrClientNameRequired)
	})
}

func TestEditor_BuildNew(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := cementEditor(t)

	b, err := e.Build("EXP-ABC123", now)
	require.NoError(t, err)
	assert.Equal(t, "EXP-ABC123", b.ID)
	assert.Equal(t, model.StatusPending, b.Status)
	assert.Equal(t, now, b.CreatedAt)
	assert.Equal(t, now.AddDate(0, 0, 15), b.ValidUntil)
	assert.True(t, b.Subtotal.Equal(d("3000")))
	assert.True(t, b.Total.Equal(d("3267")))
	assert.NotNil(t, b.Materials)
}

func TestEditBudget_RoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	orig, err := cementEditor(t).Build("EXP-ABC123", created)
	require.NoError(t, err)
	orig.Status = model.StatusAccepted

	later := created.Add(48 * time.Hour)
	e := EditBudget(orig)
	assert.True(t, e.Editing())
	assert.Equal(t, "EXP-ABC123", e.OriginalID())
	assert.Equal(t, 15, e.ValidityDays)

	again, err := e.Build("EXP-IGNORED", later)
	require.NoError(t, err)
	assert.Equal(t, orig.ID, again.ID)
	assert.Equal(t, orig.CreatedAt, again.CreatedAt)
	assert.Equal(t, orig.Status, again.Status)
	assert.True(t, orig.Total.Equal(again.Total))
	assert.True(t, orig.Subtotal.Equal(again.Subtotal))
	assert.Equal(t, later.AddDate(0, 0, 15), again.ValidUntil)
}

func TestEditBudget_ValidityFallback(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		until time.Time
		want  int
	}{
		{"same instant falls back", now, DefaultValidityDays},
		{"partial day rounds up", now.Add(30 * time.Hour), 2},
		{"thirty days", now.AddDate(0, 0, 30), 30},
		{"until before date", now.AddDate(0, 0, -7), 7},
		{"missing", time.Time{}, DefaultValidityDays},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := EditBudget(model.Budget{CreatedAt: now, ValidUntil: tt.until})
			assert.Equal(t, tt.want, e.ValidityDays)
		})
	}
}

func TestEditBudget_DoesNotAliasOriginal(t *testing.T) {
	orig, err := cementEditor(t).Build("EXP-1", time.Now())
	require.NoError(t, err)
	e := EditBudget(orig)
	require.NoError(t, e.UpdateLineItem(0, FieldQuantity, "9"))
	assert.True(t, orig.LineItems[0].Quantity.Equal(d("3")))
}
