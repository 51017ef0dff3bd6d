package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/presu/internal/model"
)

// ErrEmptyImport is returned when a dump holds none of the known keys.
var ErrEmptyImport = errors.New("dump contains no presu data")

// ImportResult counts what an import replaced.
type ImportResult struct {
	Products int  `json:"products"`
	Budgets  int  `json:"budgets"`
	Settings bool `json:"settings"`
}

// Import reads a browser localStorage dump: a JSON object whose keys end in
// _products, _budgets and _settings. Each value may be the document itself
// or a JSON string holding it, as localStorage stores strings. Everything is
// decoded before anything is written.
func (a *App) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var dump map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return ImportResult{}, fmt.Errorf("reading dump: %w", err)
	}

	var (
		products []model.CatalogEntry
		budgets  []model.Budget
		profile  model.BusinessProfile
		res      ImportResult
		found    [3]bool
	)
	for key, raw := range dump {
		var target any
		var slot int
		switch {
		case strings.HasSuffix(key, "_products"):
			target, slot = &products, 0
		case strings.HasSuffix(key, "_budgets"):
			target, slot = &budgets, 1
		case strings.HasSuffix(key, "_settings"):
			profile = model.DefaultProfile()
			target, slot = &profile, 2
		default:
			log.Debug().Str("key", key).Msg("import: skipping unknown key")
			continue
		}
		if err := decodeStored(raw, target); err != nil {
			return ImportResult{}, fmt.Errorf("decoding %s: %w", key, err)
		}
		found[slot] = true
	}
	if !found[0] && !found[1] && !found[2] {
		return ImportResult{}, ErrEmptyImport
	}

	if found[0] {
		if err := a.Catalog.ReplaceAll(ctx, products); err != nil {
			return res, err
		}
		res.Products = len(products)
	}
	if found[1] {
		if err := a.Budgets.ReplaceAll(ctx, budgets); err != nil {
			return res, err
		}
		res.Budgets = len(budgets)
	}
	if found[2] {
		if err := a.Settings.Save(ctx, profile); err != nil {
			return res, err
		}
		res.Settings = true
	}
	log.Info().Int("products", res.Products).Int("budgets", res.Budgets).Bool("settings", res.Settings).Msg("import complete")
	return res, nil
}

func decodeStored(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return err
		}
		raw = json.RawMessage(inner)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
