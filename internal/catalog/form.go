package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/presu/internal/model"
)

var validate = validator.New()

// Form is the raw text a user typed when adding or editing an entry.
// Unlike line-item edits, a non-numeric price is rejected here.
type Form struct {
	ID       string
	Name     string `validate:"required"`
	Price    string `validate:"required,numeric"`
	Unit     string
	Category string
}

// FormFrom pre-fills a form for editing an existing entry.
func FormFrom(e model.CatalogEntry) Form {
	return Form{
		ID:       e.ID,
		Name:     e.Name,
		Price:    e.UnitPrice.String(),
		Unit:     string(e.Unit),
		Category: e.Category,
	}
}

// Entry validates the form and converts it to a catalog entry.
func (f Form) Entry() (model.CatalogEntry, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Price = strings.TrimSpace(f.Price)

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return model.CatalogEntry{}, err
		}
		var errs []error
		for _, fe := range verrs {
			switch fe.Field() {
			case "Name":
				errs = append(errs, ErrNameRequired)
			case "Price":
				errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPrice, f.Price))
			}
		}
		return model.CatalogEntry{}, errors.Join(errs...)
	}

	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return model.CatalogEntry{}, fmt.Errorf("%w: %q", ErrInvalidPrice, f.Price)
	}
	unit, ok := model.ParseUnit(f.Unit)
	if !ok {
		return model.CatalogEntry{}, fmt.Errorf("%w: %q", ErrInvalidUnit, f.Unit)
	}

	return model.CatalogEntry{
		ID:        f.ID,
		Name:      f.Name,
		UnitPrice: price,
		Unit:      unit,
		Category:  strings.TrimSpace(f.Category),
	}, nil
}
