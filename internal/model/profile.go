package model

import "github.com/shopspring/decimal"

// BusinessProfile is the singleton letterhead record used for exports and as
// the tax seed for new budgets.
type BusinessProfile struct {
	BusinessName      string          `json:"name"`
	OwnerName         string          `json:"ownerName"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	Address           string          `json:"address"`
	LogoDataURI       string          `json:"logoUrl,omitempty"`
	CurrencySymbol    string          `json:"currency"`
	DefaultTaxPercent decimal.Decimal `json:"defaultTax"`
}

// DefaultProfile returns the profile used until the user saves their own.
func DefaultProfile() BusinessProfile {
	return BusinessProfile{
		BusinessName:      "Mi Constructora",
		OwnerName:         "Ing. Profesional",
		Email:             "contacto@obra.com",
		CurrencySymbol:    "$",
		DefaultTaxPercent: decimal.Zero,
	}
}
