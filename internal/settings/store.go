// Package settings persists the business profile printed on every quote.
package settings

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/presu/internal/model"
	"github.com/theirongolddev/presu/internal/store"
)

// Store holds the singleton profile document.
type Store struct {
	kv  store.KV
	key string
}

// NewStore returns a settings store reading and writing key.
func NewStore(kv store.KV, key string) *Store {
	return &Store{kv: kv, key: key}
}

// Get returns the stored profile, or DefaultProfile when none was saved.
// Fields missing from an older document keep their default values.
func (s *Store) Get(ctx context.Context) (model.BusinessProfile, error) {
	p := model.DefaultProfile()
	if _, err := store.LoadJSON(ctx, s.kv, s.key, &p); err != nil {
		return model.BusinessProfile{}, err
	}
	return p, nil
}

// Save replaces the whole profile.
func (s *Store) Save(ctx context.Context, p model.BusinessProfile) error {
	if err := store.SaveJSON(ctx, s.kv, s.key, p); err != nil {
		return err
	}
	log.Info().Str("name", p.BusinessName).Msg("settings saved")
	return nil
}
