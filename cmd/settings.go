package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/presu/internal/app"
	"github.com/theirongolddev/presu/internal/cli"
	"github.com/theirongolddev/presu/internal/export"
	"github.com/theirongolddev/presu/internal/pricing"
	"github.com/theirongolddev/presu/internal/settings"
)

var (
	flagBizName  string
	flagOwner    string
	flagBizEmail string
	flagBizPhone string
	flagAddress  string
	flagCurrency string
	flagBizTax   string
	flagNoLogo   bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Business profile printed on every quote",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the business profile",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			p, err := a.Settings.Get(ctx)
			if err != nil {
				return err
			}
			f := export.NewFormat(p, cfg.Export)
			logo := "none"
			if p.LogoDataURI != "" {
				logo = fmt.Sprintf("embedded (%d bytes)", len(p.LogoDataURI))
			}
			fmt.Println()
			fmt.Println(cli.RenderTitle("BUSINESS PROFILE"))
			fmt.Println()
			fmt.Print(cli.RenderKV("", [][2]string{
				{"Business", p.BusinessName},
				{"Owner", orDash(p.OwnerName)},
				{"Email", orDash(p.Email)},
				{"Phone", orDash(p.Phone)},
				{"Address", orDash(p.Address)},
				{"Currency", p.CurrencySymbol},
				{"Default tax", f.Percent(p.DefaultTaxPercent)},
				{"Logo", logo},
			}))
			fmt.Println()
			return nil
		})
	},
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the business profile (interactive without flags)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			p, err := a.Settings.Get(ctx)
			if err != nil {
				return err
			}
			fl := cmd.Flags()
			if !anyChanged(cmd, "name", "owner", "email", "phone", "address", "currency", "tax") {
				if err := profileForm(&p); err != nil {
					return err
				}
			}
			if fl.Changed("name") {
				p.BusinessName = flagBizName
			}
			if fl.Changed("owner") {
				p.OwnerName = flagOwner
			}
			if fl.Changed("email") {
				p.Email = flagBizEmail
			}
			if fl.Changed("phone") {
				p.Phone = flagBizPhone
			}
			if fl.Changed("address") {
				p.Address = flagAddress
			}
			if fl.Changed("currency") {
				p.CurrencySymbol = flagCurrency
			}
			if fl.Changed("tax") {
				p.DefaultTaxPercent = pricing.ParseDecimalOrZero(flagBizTax)
			}
			if err := a.Settings.Save(ctx, p); err != nil {
				return err
			}
			fmt.Println("  Profile saved.")
			return nil
		})
	},
}

var settingsLogoCmd = &cobra.Command{
	Use:   "logo [image]",
	Short: "Embed a logo image (PNG, JPEG, GIF, BMP, TIFF) or clear it with --clear",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if !flagNoLogo && len(args) == 0 {
			return fmt.Errorf("give an image path or --clear")
		}
		uri := ""
		if !flagNoLogo {
			var err error
			uri, err = settings.LoadLogo(args[0], cfg.Export.LogoMaxWidth)
			if err != nil {
				return err
			}
		}
		return withApp(func(ctx context.Context, a *app.App) error {
			p, err := a.Settings.Get(ctx)
			if err != nil {
				return err
			}
			p.LogoDataURI = uri
			if err := a.Settings.Save(ctx, p); err != nil {
				return err
			}
			if uri == "" {
				fmt.Println("  Logo cleared.")
			} else {
				fmt.Printf("  Logo saved (%d bytes).\n", len(uri))
			}
			return nil
		})
	},
}

func init() {
	f := settingsEditCmd.Flags()
	f.StringVar(&flagBizName, "name", "", "Business name")
	f.StringVar(&flagOwner, "owner", "", "Owner name")
	f.StringVar(&flagBizEmail, "email", "", "Contact email")
	f.StringVar(&flagBizPhone, "phone", "", "Contact phone")
	f.StringVar(&flagAddress, "address", "", "Address")
	f.StringVar(&flagCurrency, "currency", "", "Currency symbol")
	f.StringVar(&flagBizTax, "tax", "", "Default tax percent for new budgets")
	settingsLogoCmd.Flags().BoolVar(&flagNoLogo, "clear", false, "Remove the logo")

	settingsCmd.AddCommand(settingsShowCmd, settingsEditCmd, settingsLogoCmd)
	rootCmd.AddCommand(settingsCmd)
}
