package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/presu/internal/app"
	"github.com/theirongolddev/presu/internal/budget"
	"github.com/theirongolddev/presu/internal/cli"
	"github.com/theirongolddev/presu/internal/export"
	"github.com/theirongolddev/presu/internal/model"
	"github.com/theirongolddev/presu/internal/pricing"
)

var errBadItemFlag = errors.New("item must look like <catalog-id>=<qty>[@<price>]")

var (
	flagClient    string
	flagPhone     string
	flagEmail     string
	flagNotes     string
	flagItems     []string
	flagMaterials []string
	flagDiscount  string
	flagTax       string
	flagAdjust    string
	flagValidity  int

	flagQuery  string
	flagStatus string
)

var budgetCmd = &cobra.Command{
	Use:     "budget",
	Aliases: []string{"b"},
	Short:   "Create, edit and track budgets",
}

var budgetNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a budget (interactive without --client)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			e, err := a.NewEditor(ctx)
			if err != nil {
				return err
			}
			return editAndSave(ctx, cmd, a, e)
		})
	},
}

var budgetEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a budget; items given with --item replace the existing ones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			e, err := a.EditBudget(ctx, args[0])
			if err != nil {
				return err
			}
			return editAndSave(ctx, cmd, a, e)
		})
	},
}

var budgetListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List budgets, newest first",
	Args:    cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		filter, err := budgetFilter()
		if err != nil {
			return err
		}
		return withApp(func(ctx context.Context, a *app.App) error {
			all, err := a.Budgets.List(ctx)
			if err != nil {
				return err
			}
			f, _, err := a.Format(ctx)
			if err != nil {
				return err
			}
			return printBudgets(a, f, filter.Apply(all), len(all))
		})
	},
}

var budgetShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a budget with its totals breakdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			b, err := a.Budgets.Get(ctx, args[0])
			if err != nil {
				return err
			}
			f, p, err := a.Format(ctx)
			if err != nil {
				return err
			}
			printBudget(a, b, p, f)
			return nil
		})
	},
}

var budgetStatusCmd = &cobra.Command{
	Use:   "status <id> <pending|accepted|rejected>",
	Short: "Change a budget's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		st, err := model.ParseStatus(args[1])
		if err != nil {
			return err
		}
		return withApp(func(ctx context.Context, a *app.App) error {
			b, err := a.UpdateStatus(ctx, args[0], st)
			if err != nil {
				return err
			}
			fmt.Printf("  %s is now %s\n", b.ID, cli.StatusBadge(b.Status.Label()))
			return nil
		})
	},
}

var budgetRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a budget",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			if err := a.DeleteBudget(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("  Deleted %s\n", args[0])
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{budgetNewCmd, budgetEditCmd} {
		c.Flags().StringVar(&flagClient, "client", "", "Client name")
		c.Flags().StringVar(&flagPhone, "phone", "", "Client phone")
		c.Flags().StringVar(&flagEmail, "email", "", "Client email")
		c.Flags().StringVar(&flagNotes, "notes", "", "Observations printed on the quote")
		c.Flags().StringArrayVar(&flagItems, "item", nil, "Line item <catalog-id>=<qty>[@<price>] (repeatable)")
		c.Flags().StringArrayVar(&flagMaterials, "material", nil, "Required material <name>=<qty> (repeatable)")
		c.Flags().StringVar(&flagDiscount, "discount", "", "Discount percent")
		c.Flags().StringVar(&flagTax, "tax", "", "Tax percent (default from settings)")
		c.Flags().StringVar(&flagAdjust, "adjust", "", "Manual adjustment subtracted after tax")
		c.Flags().IntVar(&flagValidity, "validity", 0, "Days the quote stays valid")
	}
	for _, c := range []*cobra.Command{budgetListCmd, exportXLSXCmd} {
		c.Flags().StringVarP(&flagQuery, "query", "q", "", "Match client name, id or phone")
		c.Flags().StringVar(&flagStatus, "status", "", "Only this status")
	}

	budgetCmd.AddCommand(budgetNewCmd, budgetEditCmd, budgetListCmd, budgetShowCmd, budgetStatusCmd, budgetRmCmd)
	rootCmd.AddCommand(budgetCmd)
}

func budgetFilter() (budget.Filter, error) {
	f := budget.Filter{Query: flagQuery}
	if flagStatus != "" {
		st, err := model.ParseStatus(flagStatus)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	return f, nil
}

type itemFlag struct {
	id    string
	qty   decimal.Decimal
	price decimal.NullDecimal
}

func parseItemFlag(s string) (itemFlag, error) {
	id, rest, ok := strings.Cut(s, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return itemFlag{}, fmt.Errorf("%w: %q", errBadItemFlag, s)
	}
	qtyStr, priceStr, hasPrice := strings.Cut(rest, "@")
	qty, err := decimal.NewFromString(strings.TrimSpace(qtyStr))
	if err != nil {
		return itemFlag{}, fmt.Errorf("%w: %q", errBadItemFlag, s)
	}
	it := itemFlag{id: id, qty: qty}
	if hasPrice {
		price, err := decimal.NewFromString(strings.TrimSpace(priceStr))
		if err != nil {
			return itemFlag{}, fmt.Errorf("%w: %q", errBadItemFlag, s)
		}
		it.price = decimal.NewNullDecimal(price)
	}
	return it, nil
}

func parseMaterialFlag(s string) (name, qty string) {
	name, qty, _ = strings.Cut(s, "=")
	return strings.TrimSpace(name), strings.TrimSpace(qty)
}

// applyBudgetFlags copies set flags into e. It reports whether the caller
// gave enough on the command line to skip the interactive form.
func applyBudgetFlags(cmd *cobra.Command, e *pricing.Editor, entries []model.CatalogEntry) (bool, error) {
	fl := cmd.Flags()
	if fl.Changed("client") {
		e.Client.Name = flagClient
	}
	if fl.Changed("phone") {
		e.Client.Phone = flagPhone
	}
	if fl.Changed("email") {
		e.Client.Email = flagEmail
	}
	if fl.Changed("notes") {
		e.Client.Observations = flagNotes
	}

	if fl.Changed("item") {
		// Earlier lines stay resolvable so an edit can keep items whose
		// catalog entry was removed.
		lookup := snapshotEntries(e.LineItems)
		lookup = append(lookup, entries...)
		e.LineItems = nil
		for _, raw := range flagItems {
			it, err := parseItemFlag(raw)
			if err != nil {
				return false, err
			}
			if !e.AddLineItem(lookup, it.id, it.qty) {
				return false, fmt.Errorf("item %q: unknown catalog id or non-positive quantity", raw)
			}
			if it.price.Valid {
				if err := e.UpdateLineItem(len(e.LineItems)-1, pricing.FieldPrice, it.price.Decimal.String()); err != nil {
					return false, err
				}
			}
		}
	}
	if fl.Changed("material") {
		e.Materials = nil
		for _, raw := range flagMaterials {
			e.AddMaterial(parseMaterialFlag(raw))
		}
	}

	if fl.Changed("discount") {
		e.SetDiscount(pricing.ParseDecimalOrZero(flagDiscount))
	}
	if fl.Changed("tax") {
		e.SetTax(pricing.ParseDecimalOrZero(flagTax))
	}
	if fl.Changed("adjust") {
		e.SetManualAdjustment(pricing.ParseDecimalOrZero(flagAdjust))
	}
	if fl.Changed("validity") {
		e.SetValidityDays(flagValidity)
	}

	if e.Editing() {
		return anyChanged(cmd, budgetFlagNames...), nil
	}
	return fl.Changed("client"), nil
}

var budgetFlagNames = []string{
	"client", "phone", "email", "notes", "item", "material",
	"discount", "tax", "adjust", "validity",
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}

func snapshotEntries(items []model.LineItem) []model.CatalogEntry {
	out := make([]model.CatalogEntry, 0, len(items))
	for _, it := range items {
		out = append(out, model.CatalogEntry{ID: it.CatalogRef, Name: it.Name, UnitPrice: it.UnitPrice, Unit: it.Unit})
	}
	return out
}

func editAndSave(ctx context.Context, cmd *cobra.Command, a *app.App, e *pricing.Editor) error {
	entries, err := a.Catalog.List(ctx)
	if err != nil {
		return err
	}
	scripted, err := applyBudgetFlags(cmd, e, entries)
	if err != nil {
		return err
	}
	if !scripted {
		if err := clientForm(&e.Client); err != nil {
			return err
		}
		if err := pickItems(e, entries); err != nil {
			return err
		}
		if err := adjustmentsForm(e); err != nil {
			return err
		}
	}

	b, err := a.SaveBudget(ctx, e)
	if err != nil {
		return err
	}
	f, p, err := a.Format(ctx)
	if err != nil {
		return err
	}
	printBudget(a, b, p, f)
	return nil
}

func printBudgets(a *app.App, f export.Format, budgets []model.Budget, total int) error {
	if len(budgets) == 0 {
		fmt.Println("\n  No budgets found.")
		return nil
	}
	now := a.Now()
	rows := make([][]string, 0, len(budgets))
	for _, b := range budgets {
		validity := "-"
		if b.Status == model.StatusPending {
			validity = cli.FormatValidity(b.ValidUntil, now)
		}
		rows = append(rows, []string{
			b.ID,
			f.Date(b.CreatedAt),
			cli.Truncate(b.Client.Name, 28),
			f.Money(b.Total),
			b.Status.Label(),
			validity,
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGETS"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"ID", "Date", "Client", "Total", "Status", "Validity"},
		Rows:     rows,
		LeftCols: []int{1, 2, 4, 5},
	}))
	fmt.Println(cli.Muted(fmt.Sprintf("  %d of %d budgets", len(budgets), total)))
	return nil
}

func printBudget(a *app.App, b model.Budget, p model.BusinessProfile, f export.Format) {
	doc := export.BuildDocument(b, p, f)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BUDGET  %s", b.ID)))
	fmt.Println()

	validity := f.Date(b.ValidUntil)
	if b.Expired(a.Now()) {
		validity += "  " + cli.Warn("(expired)")
	}
	fmt.Print(cli.RenderKV("", [][2]string{
		{"Client", b.Client.Name},
		{"Phone", orDash(b.Client.Phone)},
		{"Date", f.Date(b.CreatedAt)},
		{"Valid until", validity},
		{"Status", cli.StatusBadge(b.Status.Label())},
	}))
	fmt.Println()

	rows := make([][]string, 0, len(doc.Items))
	for _, it := range doc.Items {
		rows = append(rows, []string{it.Description, it.Quantity + " " + it.Unit, it.UnitPrice, it.LineTotal})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Item", "Qty", "Unit price", "Total"},
		Rows:    rows,
	}))

	if len(doc.Materials) > 0 {
		pairs := make([][2]string, 0, len(doc.Materials))
		for _, m := range doc.Materials {
			pairs = append(pairs, [2]string{m.Name, m.Quantity})
		}
		fmt.Println()
		fmt.Print(cli.RenderKV("Required materials", pairs))
	}

	pairs := make([][2]string, 0, len(doc.Totals))
	for _, t := range doc.Totals {
		v := t.Amount
		if t.Grand {
			v = cli.Money(v)
		}
		pairs = append(pairs, [2]string{t.Label, v})
	}
	fmt.Println()
	fmt.Print(cli.RenderKV("", pairs))

	if b.Client.Observations != "" {
		fmt.Println()
		fmt.Print(cli.RenderKV("Observations", [][2]string{{"", b.Client.Observations}}))
	}
	fmt.Println()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
