package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/presu/internal/cli"
	"github.com/theirongolddev/presu/internal/tui/components"
)

func (a App) viewSettings() string {
	p := a.profile
	w := a.contentWidth()

	logo := "none"
	if p.LogoDataURI != "" {
		logo = "embedded"
	}
	profile := cli.RenderKV("", [][2]string{
		{"Business", p.BusinessName},
		{"Owner", p.OwnerName},
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Address", p.Address},
		{"Currency", p.CurrencySymbol},
		{"Default tax", a.format.Percent(p.DefaultTaxPercent)},
		{"Logo", logo},
	})

	storage := cli.RenderKV("", [][2]string{
		{"Validity", fmt.Sprintf("%d days", a.svc.ValidityDays)},
		{"Output dir", outputDir(a.svc.Export.OutputDir)},
	})

	return components.ContentCard("Business profile", strings.TrimRight(profile, "\n"), w) + "\n" +
		components.ContentCard("Defaults", strings.TrimRight(storage, "\n"), w) + "\n" +
		cli.Muted("  Edit with `presu settings set` or `presu setup`.")
}

func outputDir(dir string) string {
	if dir == "" {
		return "current directory"
	}
	return dir
}
