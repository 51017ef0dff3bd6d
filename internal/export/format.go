// Package export turns stored budgets into PDF quotes, messaging payloads and
// spreadsheet reports.
package export

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/presu/internal/config"
	"github.com/theirongolddev/presu/internal/model"
)

// DefaultNumberPattern groups thousands with commas and prints two decimals.
const DefaultNumberPattern = "#,###.##"

// Format controls how money, quantities and dates are printed.
type Format struct {
	Currency      string
	NumberPattern string
	DateLayout    string
}

// DefaultFormat uses the profile's currency with the default config patterns.
func DefaultFormat(p model.BusinessProfile) Format {
	return NewFormat(p, config.DefaultConfig().Export)
}

// NewFormat combines the profile currency with export config patterns.
func NewFormat(p model.BusinessProfile, cfg config.ExportConfig) Format {
	f := Format{
		Currency:      p.CurrencySymbol,
		NumberPattern: cfg.NumberFormat,
		DateLayout:    cfg.DateFormat,
	}
	if f.NumberPattern == "" {
		f.NumberPattern = DefaultNumberPattern
	}
	if !ValidNumberPattern(f.NumberPattern) {
		log.Warn().Str("number_format", f.NumberPattern).Str("fallback", DefaultNumberPattern).
			Msg("invalid export number format")
		f.NumberPattern = DefaultNumberPattern
	}
	if f.DateLayout == "" {
		f.DateLayout = "02/01/2006"
	}
	return f
}

// Money prints the currency symbol as a literal prefix plus grouped digits.
// Negative amounts put the sign before the symbol.
func (f Format) Money(d decimal.Decimal) string {
	v, _ := d.Abs().Float64()
	s := f.Currency + groupDigits(f.NumberPattern, v)
	if d.IsNegative() {
		return "-" + s
	}
	return s
}

// ValidNumberPattern reports whether humanize accepts pattern. humanize
// panics on malformed grouping directives such as "#,##.##".
func ValidNumberPattern(pattern string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	humanize.FormatFloat(pattern, 1234567.891)
	return true
}

// groupDigits formats v with pattern, using the default pattern when a Format
// was built by hand with a malformed one.
func groupDigits(pattern string, v float64) (s string) {
	defer func() {
		if recover() != nil {
			s = humanize.FormatFloat(DefaultNumberPattern, v)
		}
	}()
	return humanize.FormatFloat(pattern, v)
}

// Quantity prints a quantity without trailing zeros.
func (f Format) Quantity(d decimal.Decimal) string {
	return d.String()
}

// Percent prints a whole-number percentage such as "21%".
func (f Format) Percent(d decimal.Decimal) string {
	return d.String() + "%"
}

// Date prints t in the configured layout. Zero times print as "-".
func (f Format) Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(f.DateLayout)
}

// unitLabel maps wire units to what a reader of the quote expects.
func unitLabel(u model.Unit) string {
	switch u {
	case model.UnitUnit:
		return "unit"
	case model.UnitPackage:
		return "pkg"
	case model.UnitHour:
		return "hour"
	case model.UnitDay:
		return "day"
	case model.UnitMeter:
		return "m"
	}
	return strings.TrimSpace(string(u))
}
