package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/presu/internal/app"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a browser localStorage dump (products, budgets, settings)",
	Long: "Reads a JSON object keyed like presuapp_v3_products / _budgets / _settings.\n" +
		"Each document found replaces the stored one; missing keys are left alone.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	//nolint:gosec // import path is given by the local user
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return withApp(func(ctx context.Context, a *app.App) error {
		ok, err := a.Confirm.Confirm(ctx, "Importing replaces the stored documents it contains. Continue?")
		if err != nil {
			return err
		}
		if !ok {
			return app.ErrNotConfirmed
		}
		res, err := a.Import(ctx, f)
		if err != nil {
			return err
		}
		fmt.Printf("  Imported %d catalog entries and %d budgets", res.Products, res.Budgets)
		if res.Settings {
			fmt.Print(", plus the business profile")
		}
		fmt.Println(".")
		return nil
	})
}
