// Package pricing computes budget totals and holds the editable working set
// a budget is built from.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/presu/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Totals is the derived money breakdown of a budget.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// ParseDecimalOrZero is the single leniency policy for numeric text coming
// from forms: blank or unparseable input is zero. A lone comma is accepted as
// the decimal separator.
func ParseDecimalOrZero(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// LineTotal is price*qty rounded to cents.
func LineTotal(price, qty decimal.Decimal) decimal.Decimal {
	return price.Mul(qty).Round(2)
}

// NewLineItem snapshots a catalog entry at the given quantity.
func NewLineItem(e model.CatalogEntry, qty decimal.Decimal) model.LineItem {
	return model.LineItem{
		CatalogRef: e.ID,
		Name:       e.Name,
		UnitPrice:  e.UnitPrice,
		Unit:       e.Unit,
		Quantity:   qty,
		LineTotal:  LineTotal(e.UnitPrice, qty),
	}
}

// ComputeTotals applies discount, then tax on the discounted base, then
// subtracts the manual adjustment. Percentages are whole-number percents.
func ComputeTotals(items []model.LineItem, discountPct, taxPct, adjustment decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal)
	}
	return breakdown(subtotal, discountPct, taxPct, adjustment)
}

func breakdown(subtotal, discountPct, taxPct, adjustment decimal.Decimal) Totals {
	discount := subtotal.Mul(discountPct).Div(hundred)
	base := subtotal.Sub(discount)
	tax := base.Mul(taxPct).Div(hundred)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		Total:          base.Add(tax).Sub(adjustment),
	}
}

// BudgetTotals breaks a stored budget down from its persisted subtotal.
// Subtotal and Total are taken as stored so every export quotes the same
// figures, even for imported records whose items no longer add up.
func BudgetTotals(b model.Budget) Totals {
	t := breakdown(b.Subtotal, b.DiscountPercent, b.TaxPercent, b.ManualAdjustment)
	t.Total = b.Total
	return t
}

// SearchCatalog returns entries whose name contains query, case-insensitively.
// An empty query returns all entries.
func SearchCatalog(entries []model.CatalogEntry, query string) []model.CatalogEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}
	var out []model.CatalogEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}
