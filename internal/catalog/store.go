// Package catalog persists the priced products and services a budget is
// composed from.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/presu/internal/model"
	"github.com/theirongolddev/presu/internal/store"
)

var (
	ErrEntryNotFound = errors.New("catalog entry not found")
	ErrNameRequired  = errors.New("catalog entry name is required")
	ErrInvalidUnit   = errors.New("unknown unit")
	ErrInvalidPrice  = errors.New("price must be a number")
)

// Store keeps the catalog as one JSON array under a single key.
type Store struct {
	kv    store.KV
	key   string
	newID func() string
}

// NewStore returns a catalog store reading and writing key.
func NewStore(kv store.KV, key string) *Store {
	return &Store{kv: kv, key: key, newID: uuid.NewString}
}

// List returns entries in insertion order. An absent document is an empty catalog.
func (s *Store) List(ctx context.Context) ([]model.CatalogEntry, error) {
	var entries []model.CatalogEntry
	if _, err := store.LoadJSON(ctx, s.kv, s.key, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.CatalogEntry{}
	}
	return entries, nil
}

// Find returns the entry with id.
func (s *Store) Find(ctx context.Context, id string) (model.CatalogEntry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return model.CatalogEntry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return model.CatalogEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
}

// Upsert appends entry with a fresh id when entry.ID is empty, otherwise
// replaces the stored entry with the same id in place.
func (s *Store) Upsert(ctx context.Context, entry model.CatalogEntry) (model.CatalogEntry, error) {
	entry.Name = strings.TrimSpace(entry.Name)
	entry.Category = strings.TrimSpace(entry.Category)
	if entry.Name == "" {
		return model.CatalogEntry{}, ErrNameRequired
	}
	if !entry.Unit.Valid() {
		return model.CatalogEntry{}, fmt.Errorf("%w: %q", ErrInvalidUnit, entry.Unit)
	}
	if entry.Category == "" {
		entry.Category = model.DefaultCategory
	}

	entries, err := s.List(ctx)
	if err != nil {
		return model.CatalogEntry{}, err
	}

	if entry.ID == "" {
		entry.ID = s.mintID(entries)
		entries = append(entries, entry)
		log.Info().Str("id", entry.ID).Str("name", entry.Name).Msg("catalog entry added")
	} else {
		idx := indexOf(entries, entry.ID)
		if idx < 0 {
			return model.CatalogEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entry.ID)
		}
		entries[idx] = entry
		log.Info().Str("id", entry.ID).Msg("catalog entry updated")
	}

	if err := store.SaveJSON(ctx, s.kv, s.key, entries); err != nil {
		return model.CatalogEntry{}, err
	}
	return entry, nil
}

// Remove deletes the entry with id. Absent ids are a no-op. Budgets holding
// snapshots of the entry are not touched.
func (s *Store) Remove(ctx context.Context, id string) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(entries, id)
	if idx < 0 {
		return nil
	}
	entries = append(entries[:idx], entries[idx+1:]...)
	log.Info().Str("id", id).Msg("catalog entry removed")
	return store.SaveJSON(ctx, s.kv, s.key, entries)
}

// Search matches query against name and category, case-insensitively.
func (s *Store) Search(ctx context.Context, query string) ([]model.CatalogEntry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(entries, query), nil
}

// Filter is the pure form of Search.
func Filter(entries []model.CatalogEntry, query string) []model.CatalogEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}
	out := []model.CatalogEntry{}
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Category), q) {
			out = append(out, e)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func Categories(entries []model.CatalogEntry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out
}

func (s *Store) mintID(entries []model.CatalogEntry) string {
	for {
		id := s.newID()
		if indexOf(entries, id) < 0 {
			return id
		}
	}
}

func indexOf(entries []model.CatalogEntry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// ReplaceAll overwrites the whole catalog; used by import. Entries without a
// category get the default one.
func (s *Store) ReplaceAll(ctx context.Context, entries []model.CatalogEntry) error {
	out := make([]model.CatalogEntry, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Category) == "" {
			e.Category = model.DefaultCategory
		}
		out[i] = e
	}
	return store.SaveJSON(ctx, s.kv, s.key, out)
}
