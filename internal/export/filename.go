package export

import (
	"strings"
	"unicode"

	"github.com/theirongolddev/presu/internal/model"
)

// FileName is Presupuesto_<id>_<client>.pdf with every non-alphanumeric
// character of the client name replaced by '_'.
func FileName(b model.Budget) string {
	return "Presupuesto_" + b.ID + "_" + safeName(b.Client.Name) + ".pdf"
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '_'
	}, s)
}
