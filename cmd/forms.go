package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/presu/internal/app"
	"github.com/theirongolddev/presu/internal/catalog"
	"github.com/theirongolddev/presu/internal/model"
	"github.com/theirongolddev/presu/internal/pricing"
)

func confirmer() app.Confirmer {
	if flagYes {
		return app.AlwaysConfirm
	}
	return app.ConfirmFunc(huhConfirm)
}

func huhConfirm(_ context.Context, prompt string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(prompt).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func decimalInput(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := decimal.NewFromString(strings.TrimSpace(s)); err != nil {
		return errors.New("enter a number, e.g. 1250.50")
	}
	return nil
}

func intInput(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errors.New("enter a whole number")
	}
	return nil
}

func unitOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(model.Units))
	for _, u := range model.Units {
		opts = append(opts, huh.NewOption(string(u), string(u)))
	}
	return opts
}

func catalogForm(f *catalog.Form) error {
	if f.Unit == "" {
		f.Unit = string(model.UnitUnit)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.Name).Validate(required("name")),
			huh.NewInput().Title("Unit price").Value(&f.Price).Validate(func(s string) error {
				if err := required("price")(s); err != nil {
					return err
				}
				return decimalInput(s)
			}),
			huh.NewSelect[string]().Title("Unit").Options(unitOptions()...).Value(&f.Unit),
			huh.NewInput().Title("Category").Placeholder(model.DefaultCategory).Value(&f.Category),
		),
	).Run()
}

func clientForm(c *model.ClientInfo) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Client name").Value(&c.Name).Validate(required("client name")),
			huh.NewInput().Title("Phone").Value(&c.Phone),
			huh.NewInput().Title("Email").Value(&c.Email),
			huh.NewText().Title("Observations").Value(&c.Observations),
		),
	).Run()
}

// pickItems lets the user search the catalog by name and add lines until they
// choose Done.
func pickItems(e *pricing.Editor, entries []model.CatalogEntry) error {
	for {
		var query string
		if err := huh.NewInput().
			Title("Search catalog").
			Description("Blank lists everything; leave the picker on Done to finish.").
			Value(&query).
			Run(); err != nil {
			return err
		}

		opts := []huh.Option[string]{huh.NewOption("Done", "")}
		for _, en := range pricing.SearchCatalog(entries, query) {
			label := fmt.Sprintf("%s  (%s / %s)", en.Name, en.UnitPrice.StringFixed(2), en.Unit)
			opts = append(opts, huh.NewOption(label, en.ID))
		}

		var id string
		qty := "1"
		if err := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().Title("Add item").Options(opts...).Value(&id),
			),
			huh.NewGroup(
				huh.NewInput().Title("Quantity").Value(&qty).Validate(decimalInput),
			).WithHideFunc(func() bool { return id == "" }),
		).Run(); err != nil {
			return err
		}
		if id == "" {
			return nil
		}
		if !e.AddLineItem(entries, id, pricing.ParseDecimalOrZero(qty)) {
			fmt.Println("  Skipped: quantity must be positive.")
		}
	}
}

// adjustmentsForm edits discount, tax, adjustment and validity as text.
func adjustmentsForm(e *pricing.Editor) error {
	discount := e.DiscountPercent.String()
	tax := e.TaxPercent.String()
	adjust := e.ManualAdjustment.String()
	validity := strconv.Itoa(e.ValidityDays)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Discount %").Value(&discount).Validate(decimalInput),
			huh.NewInput().Title("Tax %").Value(&tax).Validate(decimalInput),
			huh.NewInput().Title("Manual adjustment").Description("Subtracted after tax.").Value(&adjust).Validate(decimalInput),
			huh.NewInput().Title("Valid for (days)").Value(&validity).Validate(intInput),
		),
	).Run()
	if err != nil {
		return err
	}

	e.SetDiscount(pricing.ParseDecimalOrZero(discount))
	e.SetTax(pricing.ParseDecimalOrZero(tax))
	e.SetManualAdjustment(pricing.ParseDecimalOrZero(adjust))
	days, _ := strconv.Atoi(strings.TrimSpace(validity))
	e.SetValidityDays(days)
	return nil
}

func profileForm(p *model.BusinessProfile) error {
	tax := p.DefaultTaxPercent.String()
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Business name").Value(&p.BusinessName).Validate(required("business name")),
			huh.NewInput().Title("Owner").Value(&p.OwnerName),
			huh.NewInput().Title("Email").Value(&p.Email),
			huh.NewInput().Title("Phone").Value(&p.Phone),
			huh.NewInput().Title("Address").Value(&p.Address),
		),
		huh.NewGroup(
			huh.NewInput().Title("Currency symbol").Value(&p.CurrencySymbol).Validate(required("currency symbol")),
			huh.NewInput().Title("Default tax %").Value(&tax).Validate(decimalInput),
		),
	).Run()
	if err != nil {
		return err
	}
	p.DefaultTaxPercent = pricing.ParseDecimalOrZero(tax)
	return nil
}
