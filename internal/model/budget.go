package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Stored documents stay readable by the browser app, which expects
	// amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// LineItem is a snapshot of a catalog entry plus a quantity. LineTotal is
// stored, and must equal round(UnitPrice*Quantity, 2) whenever it is read.
type LineItem struct {
	CatalogRef string          `json:"productId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"price"`
	Unit       Unit            `json:"unit"`
	Quantity   decimal.Decimal `json:"quantity"`
	LineTotal  decimal.Decimal `json:"subtotal"`
}

// RequiredMaterial is a free-text material note shown on the quote.
type RequiredMaterial struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// ClientInfo identifies who the budget is addressed to.
type ClientInfo struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Observations string `json:"observations"`
}

// Budget is an issued quote. It is only ever replaced whole on save, except
// for status updates.
type Budget struct {
	ID               string             `json:"id"`
	CreatedAt        time.Time          `json:"date"`
	ValidUntil       time.Time          `json:"validUntil"`
	Client           ClientInfo         `json:"client"`
	LineItems        []LineItem         `json:"items"`
	Materials        []RequiredMaterial `json:"requiredMaterials"`
	DiscountPercent  decimal.Decimal    `json:"discount"`
	TaxPercent       decimal.Decimal    `json:"taxRate"`
	ManualAdjustment decimal.Decimal    `json:"manualAdjustment"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	Total            decimal.Decimal    `json:"total"`
	Status           Status             `json:"status"`
}

// Expired reports whether the validity window has passed. Expiry never
// changes the status; it is only used for display.
func (b Budget) Expired(now time.Time) bool {
	return !b.ValidUntil.IsZero() && now.After(b.ValidUntil)
}
