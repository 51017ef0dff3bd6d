package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/presu/internal/app"
	"github.com/theirongolddev/presu/internal/config"
	"github.com/theirongolddev/presu/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	c := cfg
	validity := strconv.Itoa(c.General.DefaultValidityDays)

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to presu").
				Description("A few questions, then you can start quoting.\nEverything can be changed later in "+configPath()+"."),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should data live?").
				Options(
					huh.NewOption("SQLite file on this machine", config.BackendSQLite),
					huh.NewOption("DynamoDB table (shared)", config.BackendDynamoDB),
				).
				Value(&c.Storage.Backend),
		),
		huh.NewGroup(
			huh.NewInput().Title("Database file").Value(&c.Storage.Path).Validate(required("database file")),
		).WithHideFunc(func() bool { return c.Storage.Backend != config.BackendSQLite }),
		huh.NewGroup(
			huh.NewInput().Title("DynamoDB table").Value(&c.Storage.Table).Validate(required("table")),
			huh.NewInput().Title("AWS region").Value(&c.Storage.Region).Validate(required("region")),
			huh.NewInput().Title("Endpoint override").Description("Blank for AWS; set for DynamoDB Local.").Value(&c.Storage.Endpoint),
		).WithHideFunc(func() bool { return c.Storage.Backend != config.BackendDynamoDB }),
		huh.NewGroup(
			huh.NewInput().Title("Quotes are valid for (days)").Value(&validity).Validate(intInput),
			huh.NewInput().Title("Save exports to").Placeholder("current directory").Value(&c.Export.OutputDir),
			huh.NewSelect[string]().Title("Color theme").Options(themeOpts...).Value(&c.Appearance.Theme),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	c.General.DefaultValidityDays, _ = strconv.Atoi(strings.TrimSpace(validity))
	if err := config.SaveTo(configPath(), c); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	cfg = c

	var editProfile bool
	if err := huh.NewConfirm().
		Title("Fill in your business profile now?").
		Affirmative("Yes").
		Negative("Later").
		Value(&editProfile).
		Run(); err != nil {
		return err
	}
	if editProfile {
		err := withApp(func(ctx context.Context, a *app.App) error {
			p, err := a.Settings.Get(ctx)
			if err != nil {
				return err
			}
			if err := profileForm(&p); err != nil {
				return err
			}
			return a.Settings.Save(ctx, p)
		})
		if err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", configPath())
	fmt.Println("  Run `presu setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
