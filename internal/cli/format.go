// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatValidity describes how long a quote stays valid relative to now.
// e.g., "today", "3d left", "expired 2d ago"
func FormatValidity(validUntil, now time.Time) string {
	if validUntil.IsZero() {
		return "-"
	}
	days := int(validUntil.Sub(now).Hours() / 24)
	switch {
	case validUntil.Before(now):
		if days == 0 {
			return "expired today"
		}
		return fmt.Sprintf("expired %dd ago", -days)
	case days == 0:
		return "today"
	default:
		return fmt.Sprintf("%dd left", days)
	}
}

// Truncate shortens s to max display cells, adding an ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 || lipgloss.Width(s) <= max {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > max {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
