package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/presu/internal/model"
)

// DefaultValidityDays is used when no validity is configured or derivable.
const DefaultValidityDays = 15

var (
	ErrLineIndex          = errors.New("line item index out of range")
	ErrMaterialIndex      = errors.New("material index out of range")
	ErrClientNameRequired = errors.New("client name is required")
	ErrNoLineItems        = errors.New("budget needs at least one line item")
)

// Field selects which editable column of a line item UpdateLineItem changes.
type Field string

const (
	FieldPrice    Field = "price"
	FieldQuantity Field = "quantity"
)

var validate = validator.New()

// buildGate mirrors the two save requirements so validator can check them in
// one pass.
type buildGate struct {
	ClientName string           `validate:"required"`
	LineItems  []model.LineItem `validate:"min=1"`
}

// Editor is the mutable working set behind the budget form. It holds no
// persistence; Build turns it into a Budget.
type Editor struct {
	original *model.Budget

	Client           model.ClientInfo
	LineItems        []model.LineItem
	Materials        []model.RequiredMaterial
	DiscountPercent  decimal.Decimal
	TaxPercent       decimal.Decimal
	ManualAdjustment decimal.Decimal
	ValidityDays     int
}

// NewEditor starts a blank budget. Tax is seeded from the profile.
func NewEditor(profile model.BusinessProfile, validityDays int) *Editor {
	if validityDays <= 0 {
		validityDays = DefaultValidityDays
	}
	return &Editor{
		DiscountPercent:  decimal.Zero,
		TaxPercent:       profile.DefaultTaxPercent,
		ManualAdjustment: decimal.Zero,
		ValidityDays:     validityDays,
	}
}

// EditBudget seeds an editor from a stored budget. The validity window is
// derived back from the stored dates.
func EditBudget(b model.Budget) *Editor {
	orig := b
	return &Editor{
		original:         &orig,
		Client:           b.Client,
		LineItems:        append([]model.LineItem(nil), b.LineItems...),
		Materials:        append([]model.RequiredMaterial(nil), b.Materials...),
		DiscountPercent:  b.DiscountPercent,
		TaxPercent:       b.TaxPercent,
		ManualAdjustment: b.ManualAdjustment,
		ValidityDays:     validityFromDates(b.CreatedAt, b.ValidUntil),
	}
}

func validityFromDates(created, until time.Time) int {
	if created.IsZero() || until.IsZero() {
		return DefaultValidityDays
	}
	days := int(math.Ceil(math.Abs(until.Sub(created).Hours()) / 24))
	if days == 0 {
		return DefaultValidityDays
	}
	return days
}

// Editing reports whether the editor was seeded from a stored budget.
func (e *Editor) Editing() bool { return e.original != nil }

// OriginalID returns the id of the budget being edited, or "".
func (e *Editor) OriginalID() string {
	if e.original == nil {
		return ""
	}
	return e.original.ID
}

// AddLineItem snapshots the catalog entry with the given id. It silently does
// nothing and returns false when the entry is missing or qty is not positive.
func (e *Editor) AddLineItem(catalog []model.CatalogEntry, id string, qty decimal.Decimal) bool {
	if !qty.IsPositive() {
		return false
	}
	for _, entry := range catalog {
		if entry.ID == id {
			e.LineItems = append(e.LineItems, NewLineItem(entry, qty))
			return true
		}
	}
	return false
}

// UpdateLineItem replaces price or quantity and recomputes the line total.
func (e *Editor) UpdateLineItem(index int, field Field, value string) error {
	if index < 0 || index >= len(e.LineItems) {
		return fmt.Errorf("%w: %d", ErrLineIndex, index)
	}
	it := &e.LineItems[index]
	v := ParseDecimalOrZero(value)
	switch field {
	case FieldPrice:
		it.UnitPrice = v
	case FieldQuantity:
		it.Quantity = v
	default:
		return fmt.Errorf("unknown line item field %q", field)
	}
	it.LineTotal = LineTotal(it.UnitPrice, it.Quantity)
	return nil
}

// RemoveLineItem drops the line at index, preserving order.
func (e *Editor) RemoveLineItem(index int) error {
	if index < 0 || index >= len(e.LineItems) {
		return fmt.Errorf("%w: %d", ErrLineIndex, index)
	}
	e.LineItems = append(e.LineItems[:index], e.LineItems[index+1:]...)
	return nil
}

// AddMaterial appends a material note. Blank name or quantity is a no-op.
func (e *Editor) AddMaterial(name, qty string) bool {
	name, qty = strings.TrimSpace(name), strings.TrimSpace(qty)
	if name == "" || qty == "" {
		return false
	}
	e.Materials = append(e.Materials, model.RequiredMaterial{Name: name, Quantity: qty})
	return true
}

// RemoveMaterial drops the material at index.
func (e *Editor) RemoveMaterial(index int) error {
	if index < 0 || index >= len(e.Materials) {
		return fmt.Errorf("%w: %d", ErrMaterialIndex, index)
	}
	e.Materials = append(e.Materials[:index], e.Materials[index+1:]...)
	return nil
}

func (e *Editor) SetClient(c model.ClientInfo) { e.Client = c }

func (e *Editor) SetDiscount(pct decimal.Decimal) { e.DiscountPercent = pct }

func (e *Editor) SetTax(pct decimal.Decimal) { e.TaxPercent = pct }

// SetManualAdjustment sets the flat amount subtracted after tax.
func (e *Editor) SetManualAdjustment(amount decimal.Decimal) { e.ManualAdjustment = amount }

// SetValidityDays sets the validity window; negatives clamp to zero.
func (e *Editor) SetValidityDays(days int) {
	if days < 0 {
		days = 0
	}
	e.ValidityDays = days
}

// Totals computes the live breakdown of the working set.
func (e *Editor) Totals() Totals {
	return ComputeTotals(e.LineItems, e.DiscountPercent, e.TaxPercent, e.ManualAdjustment)
}

// Validate checks the save gate without building.
func (e *Editor) Validate() error {
	err := validate.Struct(buildGate{
		ClientName: strings.TrimSpace(e.Client.Name),
		LineItems:  e.LineItems,
	})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var errs []error
	for _, fe := range verrs {
		switch fe.Field() {
		case "ClientName":
			errs = append(errs, ErrClientNameRequired)
		case "LineItems":
			errs = append(errs, ErrNoLineItems)
		}
	}
	return errors.Join(errs...)
}

// Build applies the save gate and produces the budget to persist. A new
// budget takes id, now and the pending status; an edit keeps the original
// id, creation date and status. ValidUntil is always now + ValidityDays.
func (e *Editor) Build(id string, now time.Time) (model.Budget, error) {
	if err := e.Validate(); err != nil {
		return model.Budget{}, err
	}

	t := e.Totals()
	b := model.Budget{
		ID:               id,
		CreatedAt:        now,
		ValidUntil:       now.AddDate(0, 0, e.ValidityDays),
		Client:           e.Client,
		LineItems:        append([]model.LineItem(nil), e.LineItems...),
		Materials:        append([]model.RequiredMaterial(nil), e.Materials...),
		DiscountPercent:  e.DiscountPercent,
		TaxPercent:       e.TaxPercent,
		ManualAdjustment: e.ManualAdjustment,
		Subtotal:         t.Subtotal,
		Total:            t.Total,
		Status:           model.StatusPending,
	}
	b.Client.Name = strings.TrimSpace(b.Client.Name)
	if b.Materials == nil {
		b.Materials = []model.RequiredMaterial{}
	}

	if e.original != nil {
		b.ID = e.original.ID
		b.CreatedAt = e.original.CreatedAt
		b.Status = e.original.Status
		if !b.Status.Valid() {
			b.Status = model.StatusPending
		}
	}
	return b, nil
}
