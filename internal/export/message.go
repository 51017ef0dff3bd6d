package export

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/theirongolddev/presu/internal/model"
)

const whatsAppBase = "https://wa.me/"

// MessageText is the plain-text quote sent over messaging apps: one line per
// item and material, then the total and validity date.
func MessageText(b model.Budget, p model.BusinessProfile, f Format) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n", p.BusinessName)
	fmt.Fprintf(&sb, "Quote %s for %s\n\n", b.ID, b.Client.Name)

	for _, it := range b.LineItems {
		fmt.Fprintf(&sb, "- %s: %s x %s = %s\n",
			it.Name, f.Quantity(it.Quantity), f.Money(it.UnitPrice), f.Money(it.LineTotal))
	}

	if len(b.Materials) > 0 {
		sb.WriteString("\nRequired materials:\n")
		for _, m := range b.Materials {
			fmt.Fprintf(&sb, "- %s: %s\n", m.Name, m.Quantity)
		}
	}

	fmt.Fprintf(&sb, "\n*TOTAL: %s*\n", f.Money(b.Total))
	fmt.Fprintf(&sb, "Valid until %s", f.Date(b.ValidUntil))
	return sb.String()
}

// PhoneDigits keeps only the digits of a free-form phone string.
func PhoneDigits(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r <= unicode.MaxASCII {
			return r
		}
		return -1
	}, phone)
}

// WhatsAppLink builds the wa.me deep link with the client's digits and the
// percent-encoded message. Spaces are encoded as %20, not '+'.
func WhatsAppLink(b model.Budget, p model.BusinessProfile, f Format) string {
	text := strings.ReplaceAll(url.QueryEscape(MessageText(b, p, f)), "+", "%20")
	return whatsAppBase + PhoneDigits(b.Client.Phone) + "?text=" + text
}
