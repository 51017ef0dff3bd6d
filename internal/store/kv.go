// Package store provides the key-value persistence backends presu keeps its
// three JSON documents in.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/presu/internal/config"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

//go:generate mockgen -source=kv.go -destination=mocks/mock_kv.go -package=mock_store

// KV is the persistence contract: whole-document get and set by key.
type KV interface {
	// Get returns the stored bytes. ok is false when the key was never set.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open builds the backend selected in cfg.
func Open(ctx context.Context, cfg config.StorageConfig) (KV, error) {
	log.Debug().Str("backend", cfg.Backend).Msg("opening store")
	switch cfg.Backend {
	case config.BackendSQLite, "":
		return OpenSQLite(cfg.Path)
	case config.BackendDynamoDB:
		return OpenDynamo(ctx, cfg)
	case config.BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}

// LoadJSON decodes the document at key into v. It reports false, leaving v
// untouched, when the key is absent.
func LoadJSON(ctx context.Context, kv KV, key string, v any) (bool, error) {
	data, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	log.Debug().Str("key", key).Int("bytes", len(data)).Msg("stored document")
	return nil
}
