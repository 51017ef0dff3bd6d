// Package cmd implements the presu CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/presu/internal/app"
	"github.com/theirongolddev/presu/internal/config"
	"github.com/theirongolddev/presu/internal/store"
)

var (
	flagConfig  string
	flagBackend string
	flagDBPath  string
	flagVerbose bool
	flagYes     bool
)

// cfg is the effective configuration, loaded before any command runs.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "presu",
	Short: "Construction quotes from the terminal",
	Long: "Keep a priced catalog, build budgets with discount, tax and adjustments,\n" +
		"and export them as PDF, WhatsApp messages or spreadsheets.",
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
	RunE:              runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: sqlite, dynamodb or memory")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging on stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Answer yes to confirmations")
}

func loadRuntime(_ *cobra.Command, _ []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	cfg = c
	setupLogging(cfg.Log.Level)
	return nil
}

func loadConfig() (config.Config, error) {
	var (
		c   config.Config
		err error
	)
	if flagConfig != "" {
		c, err = config.LoadFrom(flagConfig)
	} else {
		c, err = config.Load()
	}
	if err != nil {
		return c, err
	}
	if flagBackend != "" {
		c.Storage.Backend = strings.ToLower(flagBackend)
	}
	if flagDBPath != "" {
		c.Storage.Path = flagDBPath
	}
	return c, nil
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.ConfigPath()
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	if flagVerbose {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

// openApp opens the configured backend. Callers must Close the result.
func openApp(ctx context.Context) (*app.App, error) {
	kv, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	log.Debug().Str("backend", cfg.Storage.Backend).Msg("storage open")
	return app.New(kv, cfg, confirmer()), nil
}

// withApp runs fn against an open app and closes it afterwards.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(ctx, a)
}
