package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/presu/internal/app"
	"github.com/theirongolddev/presu/internal/catalog"
	"github.com/theirongolddev/presu/internal/cli"
	"github.com/theirongolddev/presu/internal/model"
)

var (
	flagEntryName     string
	flagEntryPrice    string
	flagEntryUnit     string
	flagEntryCategory string
	flagListCategory  string
)

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"cat"},
	Short:   "Manage the priced catalog of products and services",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			entries, err := a.Catalog.List(ctx)
			if err != nil {
				return err
			}
			if flagListCategory != "" {
				entries = byCategory(entries, flagListCategory)
			}
			return printCatalog(ctx, a, "CATALOG", entries)
		})
	},
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search entries by name or category",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			entries, err := a.Catalog.Search(ctx, args[0])
			if err != nil {
				return err
			}
			return printCatalog(ctx, a, fmt.Sprintf("CATALOG  %q", args[0]), entries)
		})
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a catalog entry (interactive without --name)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f := catalog.Form{}
		applyEntryFlags(cmd, &f)
		if f.Name == "" {
			if err := catalogForm(&f); err != nil {
				return err
			}
		}
		return saveEntry(f)
	},
}

var catalogEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a catalog entry (interactive without flags)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var f catalog.Form
		err := withApp(func(ctx context.Context, a *app.App) error {
			e, err := a.Catalog.Find(ctx, args[0])
			if err != nil {
				return err
			}
			f = catalog.FormFrom(e)
			return nil
		})
		if err != nil {
			return err
		}
		if !applyEntryFlags(cmd, &f) {
			if err := catalogForm(&f); err != nil {
				return err
			}
		}
		return saveEntry(f)
	},
}

var catalogRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Remove a catalog entry; budgets keep their copies",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			if err := a.DeleteCatalogEntry(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("  Removed %s\n", args[0])
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{catalogAddCmd, catalogEditCmd} {
		c.Flags().StringVar(&flagEntryName, "name", "", "Entry name")
		c.Flags().StringVar(&flagEntryPrice, "price", "", "Unit price")
		c.Flags().StringVar(&flagEntryUnit, "unit", "", "Unit (m2, unit, package, hour, day, meter, kg)")
		c.Flags().StringVar(&flagEntryCategory, "category", "", "Category (default "+model.DefaultCategory+")")
	}
	catalogListCmd.Flags().StringVar(&flagListCategory, "category", "", "Only this category")

	catalogCmd.AddCommand(catalogListCmd, catalogSearchCmd, catalogAddCmd, catalogEditCmd, catalogRmCmd)
	rootCmd.AddCommand(catalogCmd)
}

// applyEntryFlags copies the flags the user set onto f and reports whether
// any were set.
func applyEntryFlags(cmd *cobra.Command, f *catalog.Form) bool {
	set := false
	if cmd.Flags().Changed("name") {
		f.Name, set = flagEntryName, true
	}
	if cmd.Flags().Changed("price") {
		f.Price, set = flagEntryPrice, true
	}
	if cmd.Flags().Changed("unit") {
		f.Unit, set = flagEntryUnit, true
	}
	if cmd.Flags().Changed("category") {
		f.Category, set = flagEntryCategory, true
	}
	return set
}

func saveEntry(f catalog.Form) error {
	entry, err := f.Entry()
	if err != nil {
		return err
	}
	return withApp(func(ctx context.Context, a *app.App) error {
		saved, err := a.Catalog.Upsert(ctx, entry)
		if err != nil {
			return err
		}
		fmt.Printf("  Saved %s (%s)\n", saved.Name, saved.ID)
		return nil
	})
}

func byCategory(entries []model.CatalogEntry, category string) []model.CatalogEntry {
	out := []model.CatalogEntry{}
	for _, e := range entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

func printCatalog(ctx context.Context, a *app.App, title string, entries []model.CatalogEntry) error {
	if len(entries) == 0 {
		fmt.Println("\n  No catalog entries. Add one with `presu catalog add`.")
		return nil
	}
	f, _, err := a.Format(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Name, e.Category, string(e.Unit), f.Money(e.UnitPrice), e.ID})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"Name", "Category", "Unit", "Price", "ID"},
		Rows:     rows,
		LeftCols: []int{1, 2, 4},
	}))
	fmt.Println(cli.Muted(fmt.Sprintf("  %d entries, %d categories", len(entries), len(catalog.Categories(entries)))))
	return nil
}

