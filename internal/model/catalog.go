// Package model defines the catalog, budget and business-profile records
// persisted by presu.
package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is the measurement unit a catalog entry is priced in.
type Unit string

// Wire values match the ones the browser app stores in localStorage.
const (
	UnitM2      Unit = "m²"
	UnitUnit    Unit = "unidad"
	UnitPackage Unit = "paquete"
	UnitHour    Unit = "hora"
	UnitDay     Unit = "día"
	UnitMeter   Unit = "metro"
	UnitKg      Unit = "kg"
)

// DefaultCategory is assigned to catalog entries saved without a category.
const DefaultCategory = "General"

// Units lists every known unit in display order.
var Units = []Unit{UnitM2, UnitUnit, UnitPackage, UnitHour, UnitDay, UnitMeter, UnitKg}

var unitAliases = map[string]Unit{
	"m2":      UnitM2,
	"unit":    UnitUnit,
	"u":       UnitUnit,
	"package": UnitPackage,
	"pkg":     UnitPackage,
	"hour":    UnitHour,
	"h":       UnitHour,
	"day":     UnitDay,
	"dia":     UnitDay,
	"meter":   UnitMeter,
	"m":       UnitMeter,
}

// ParseUnit resolves a wire value or an English alias. Blank input maps to
// UnitUnit.
func ParseUnit(s string) (Unit, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return UnitUnit, true
	}
	for _, u := range Units {
		if string(u) == s {
			return u, true
		}
	}
	u, ok := unitAliases[s]
	return u, ok
}

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

// CatalogEntry is a reusable priced product or service ("insumo"/"rubro").
type CatalogEntry struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Unit      Unit            `json:"unit"`
	Category  string          `json:"category"`
}
