package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "presu.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_GetMissing(t *testing.T) {
	s := openTestSQLite(t)
	v, ok, err := s.Get(context.Background(), "nope")
	if err != nil || ok || v != nil {
		t.Fatalf("Get(missing) = %q, %v, %v", v, ok, err)
	}
	ts, err := s.UpdatedAt(context.Background(), "nope")
	if err != nil || !ts.IsZero() {
		t.Fatalf("UpdatedAt(missing) = %v, %v", ts, err)
	}
}

func TestSQLite_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	if err := s.Set(ctx, "k", []byte(`[1]`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "k", []byte(`[1,2]`)); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if string(v) != `[1,2]` {
		t.Errorf("Get() = %s, want [1,2]", v)
	}
	ts, err := s.UpdatedAt(ctx, "k")
	if err != nil || ts.IsZero() {
		t.Errorf("UpdatedAt() = %v, %v", ts, err)
	}
}

func TestSQLite_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "presu.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "presuapp_v3_settings", []byte(`{"name":"Acme"}`)); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	v, ok, err := s.Get(ctx, "presuapp_v3_settings")
	if err != nil || !ok || string(v) != `{"name":"Acme"}` {
		t.Fatalf("Get() after reopen = %s, %v, %v", v, ok, err)
	}
}
