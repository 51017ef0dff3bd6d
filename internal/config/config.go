// Package config loads and saves the presu TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Storage backends understood by store.Open.
const (
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Config holds all presu configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Storage    StorageConfig    `toml:"storage"`
	Export     ExportConfig     `toml:"export"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds quoting defaults.
type GeneralConfig struct {
	DefaultValidityDays int    `toml:"default_validity_days"`
	Namespace           string `toml:"namespace"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path,omitempty"`
	Table    string `toml:"table,omitempty"`
	Region   string `toml:"region,omitempty"`
	Endpoint string `toml:"endpoint,omitempty"`
}

// ExportConfig controls generated documents.
type ExportConfig struct {
	OutputDir    string `toml:"output_dir,omitempty"`
	NumberFormat string `toml:"number_format"`
	DateFormat   string `toml:"date_format"`
	LogoMaxWidth int    `toml:"logo_max_width"`
}

// ServerConfig holds the local API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig holds the zerolog level.
type LogConfig struct {
	Level string `toml:"level"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultValidityDays: 15,
			Namespace:           "presuapp_v3",
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join(DataDir(), "presu.db"),
			Table:   "presu_kv",
			Region:  "us-east-1",
		},
		Export: ExportConfig{
			NumberFormat: "#,###.##",
			DateFormat:   "02/01/2006",
			LogoMaxWidth: 512,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8788",
		},
		Log: LogConfig{
			Level: "warn",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "presu")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "presu")
}

// DataDir returns the XDG-compliant data directory holding the SQLite file.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "presu")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "presu")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom is Load with an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo is Save with an explicit path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// applyEnv overlays environment variables on top of file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PRESU_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("PRESU_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("PRESU_DYNAMODB_TABLE"); v != "" {
		cfg.Storage.Table = v
	}
	if v := os.Getenv("DYNAMODB_ENDPOINT"); v != "" {
		cfg.Storage.Endpoint = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Storage.Region = v
	}
	if v := os.Getenv("PRESU_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// ProductsKey, BudgetsKey and SettingsKey are the three storage keys.
func (g GeneralConfig) ProductsKey() string { return g.Namespace + "_products" }
func (g GeneralConfig) BudgetsKey() string  { return g.Namespace + "_budgets" }
func (g GeneralConfig) SettingsKey() string { return g.Namespace + "_settings" }
