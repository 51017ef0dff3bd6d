package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("PRESU_STORAGE_BACKEND", "")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.General.DefaultValidityDays != 15 {
		t.Errorf("DefaultValidityDays = %d, want 15", cfg.General.DefaultValidityDays)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("Backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if got := cfg.General.BudgetsKey(); got != "presuapp_v3_budgets" {
		t.Errorf("BudgetsKey() = %q", got)
	}
}

func TestSaveToThenLoadFrom(t *testing.T) {
	t.Setenv("PRESU_STORAGE_BACKEND", "")
	t.Setenv("PRESU_LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "presu", "config.toml")

	cfg := DefaultConfig()
	cfg.General.DefaultValidityDays = 30
	cfg.Storage.Backend = BackendMemory
	cfg.Log.Level = "debug"
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config perms = %v, want 0600", info.Mode().Perm())
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got.General.DefaultValidityDays != 30 || got.Storage.Backend != BackendMemory || got.Log.Level != "debug" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("PRESU_STORAGE_BACKEND", "DynamoDB")
	t.Setenv("DYNAMODB_ENDPOINT", "http://localhost:8000")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Storage.Backend != BackendDynamoDB {
		t.Errorf("Backend = %q, want dynamodb", cfg.Storage.Backend)
	}
	if cfg.Storage.Endpoint != "http://localhost:8000" {
		t.Errorf("Endpoint = %q", cfg.Storage.Endpoint)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}
