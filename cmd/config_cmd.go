package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/presu/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", configPath())
	if flagConfig != "" || config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Validity days: %d\n", cfg.General.DefaultValidityDays)
	fmt.Printf("    Namespace:     %s\n", cfg.General.Namespace)
	fmt.Println()

	fmt.Println("  [Storage]")
	fmt.Printf("    Backend: %s\n", cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case config.BackendDynamoDB:
		fmt.Printf("    Table:   %s\n", cfg.Storage.Table)
		fmt.Printf("    Region:  %s\n", cfg.Storage.Region)
		if cfg.Storage.Endpoint != "" {
			fmt.Printf("    Endpoint: %s\n", cfg.Storage.Endpoint)
		}
	case config.BackendMemory:
		fmt.Println("    (nothing is persisted)")
	default:
		fmt.Printf("    Path:    %s\n", cfg.Storage.Path)
	}
	fmt.Println()

	fmt.Println("  [Export]")
	out := cfg.Export.OutputDir
	if out == "" {
		out = "current directory"
	}
	fmt.Printf("    Output dir:     %s\n", out)
	fmt.Printf("    Number format:  %s\n", cfg.Export.NumberFormat)
	fmt.Printf("    Date format:    %s\n", cfg.Export.DateFormat)
	fmt.Printf("    Logo max width: %dpx\n", cfg.Export.LogoMaxWidth)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `presu setup` to reconfigure.")
	return nil
}
