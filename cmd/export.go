package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/presu/internal/app"
	"github.com/theirongolddev/presu/internal/export"
)

var (
	flagOutDir string
	flagOpen   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export budgets as PDF, WhatsApp message or spreadsheet",
}

var exportPDFCmd = &cobra.Command{
	Use:   "pdf <id>",
	Short: "Write the quote PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			art, err := a.ExportPDF(ctx, args[0])
			if err != nil {
				return err
			}
			return writeArtifact(art)
		})
	},
}

var exportMessageCmd = &cobra.Command{
	Use:     "message <id>",
	Aliases: []string{"whatsapp", "wa"},
	Short:   "Print the WhatsApp text and deep link",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			text, link, err := a.Message(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(text)
			fmt.Println()
			fmt.Printf("  %s\n", link)
			if flagOpen {
				return openURL(link)
			}
			return nil
		})
	},
}

var exportXLSXCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Write a spreadsheet of budgets",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		filter, err := budgetFilter()
		if err != nil {
			return err
		}
		return withApp(func(ctx context.Context, a *app.App) error {
			art, err := a.ExportHistory(ctx, filter)
			if err != nil {
				return err
			}
			return writeArtifact(art)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{exportPDFCmd, exportXLSXCmd} {
		c.Flags().StringVarP(&flagOutDir, "out", "o", "", "Output directory (default from config)")
	}
	exportMessageCmd.Flags().BoolVar(&flagOpen, "open", false, "Open the link in the browser")

	exportCmd.AddCommand(exportPDFCmd, exportMessageCmd, exportXLSXCmd)
	rootCmd.AddCommand(exportCmd)
}

func writeArtifact(art export.Artifact) error {
	dir := cfg.Export.OutputDir
	if flagOutDir != "" {
		dir = flagOutDir
	}
	path, err := export.WriteArtifact(dir, art)
	if err != nil {
		return err
	}
	fmt.Printf("  Wrote %s\n", path)
	return nil
}

// openURL hands url to the platform opener without waiting for it.
func openURL(url string) error {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", url)
	case "windows":
		c = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		c = exec.Command("xdg-open", url) //nolint:gosec // url is built from our own message
	}
	if err := c.Start(); err != nil {
		return fmt.Errorf("opening link: %w", err)
	}
	log.Debug().Str("url", url).Msg("opened link")
	return c.Process.Release()
}
