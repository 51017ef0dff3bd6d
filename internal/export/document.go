package export

import (
	"strings"

	"github.com/theirongolddev/presu/internal/model"
	"github.com/theirongolddev/presu/internal/pricing"
)

// Document is the layout-independent description of a quote. The PDF
// renderer only reads it, so its content can be tested without parsing PDFs.
type Document struct {
	Letterhead   Letterhead
	BudgetID     string
	Client       ClientBlock
	Items        []ItemRow
	Materials    []MaterialRow
	Totals       []TotalLine
	Observations string
}

// Letterhead is the business block printed at the top.
type Letterhead struct {
	BusinessName string
	OwnerName    string
	Email        string
	Phone        string
	Address      string
	Logo         []byte
	LogoExt      string
}

// ClientBlock is the addressee block.
type ClientBlock struct {
	Name       string
	Phone      string
	Email      string
	IssueDate  string
	ValidUntil string
}

// ItemRow is one priced line, already formatted.
type ItemRow struct {
	Description string
	Unit        string
	Quantity    string
	UnitPrice   string
	LineTotal   string
}

// MaterialRow is one free-text material note.
type MaterialRow struct {
	Name     string
	Quantity string
}

// TotalLine is one row of the totals block. Grand marks the bold total.
type TotalLine struct {
	Label  string
	Amount string
	Grand  bool
}

// BuildDocument lays out a stored budget. Discount, tax and manual
// adjustment lines only appear when they affect the total.
func BuildDocument(b model.Budget, p model.BusinessProfile, f Format) Document {
	doc := Document{
		Letterhead: Letterhead{
			BusinessName: p.BusinessName,
			OwnerName:    p.OwnerName,
			Email:        p.Email,
			Phone:        p.Phone,
			Address:      p.Address,
		},
		BudgetID: b.ID,
		Client: ClientBlock{
			Name:       b.Client.Name,
			Phone:      b.Client.Phone,
			Email:      b.Client.Email,
			IssueDate:  f.Date(b.CreatedAt),
			ValidUntil: f.Date(b.ValidUntil),
		},
		Observations: strings.TrimSpace(b.Client.Observations),
	}

	if logo, ext, ok := decodeDataURI(p.LogoDataURI); ok {
		doc.Letterhead.Logo = logo
		doc.Letterhead.LogoExt = ext
	}

	for _, it := range b.LineItems {
		doc.Items = append(doc.Items, ItemRow{
			Description: it.Name,
			Unit:        unitLabel(it.Unit),
			Quantity:    f.Quantity(it.Quantity),
			UnitPrice:   f.Money(it.UnitPrice),
			LineTotal:   f.Money(it.LineTotal),
		})
	}
	for _, m := range b.Materials {
		doc.Materials = append(doc.Materials, MaterialRow{Name: m.Name, Quantity: m.Quantity})
	}

	t := pricing.BudgetTotals(b)
	doc.Totals = append(doc.Totals, TotalLine{Label: "Subtotal", Amount: f.Money(t.Subtotal)})
	if b.DiscountPercent.IsPositive() {
		doc.Totals = append(doc.Totals, TotalLine{
			Label:  "Discount (" + f.Percent(b.DiscountPercent) + ")",
			Amount: "-" + f.Money(t.DiscountAmount),
		})
	}
	if b.TaxPercent.IsPositive() {
		doc.Totals = append(doc.Totals, TotalLine{
			Label:  "Tax (" + f.Percent(b.TaxPercent) + ")",
			Amount: f.Money(t.TaxAmount),
		})
	}
	if !b.ManualAdjustment.IsZero() {
		doc.Totals = append(doc.Totals, TotalLine{
			Label:  "Adjustment",
			Amount: f.Money(b.ManualAdjustment.Neg()),
		})
	}
	doc.Totals = append(doc.Totals, TotalLine{Label: "TOTAL", Amount: f.Money(t.Total), Grand: true})

	return doc
}
