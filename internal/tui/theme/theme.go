// Package theme holds the color palettes of the presu TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps the TUI's color roles to concrete colors.
type Theme struct {
	Name string

	Border   lipgloss.Color
	Selected lipgloss.Color // selected table row and active tab

	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color
	Accent      lipgloss.Color

	// Flash and warning lines.
	Success lipgloss.Color
	Warning lipgloss.Color
	Danger  lipgloss.Color

	// Budget status badges.
	Pending  lipgloss.Color
	Accepted lipgloss.Color
	Rejected lipgloss.Color
}

// Active is the palette every view renders with.
var Active = FlexokiDark

var FlexokiDark = Theme{
	Name:        "flexoki-dark",
	Border:      "#403E3C",
	Selected:    "#282726",
	TextDim:     "#575653",
	TextMuted:   "#878580",
	TextPrimary: "#FFFCF0",
	Accent:      "#3AA99F",
	Success:     "#879A39",
	Warning:     "#DA702C",
	Danger:      "#D14D41",
	Pending:     "#D0A215",
	Accepted:    "#879A39",
	Rejected:    "#D14D41",
}

var CatppuccinMocha = Theme{
	Name:        "catppuccin-mocha",
	Border:      "#45475A",
	Selected:    "#313244",
	TextDim:     "#6C7086",
	TextMuted:   "#A6ADC8",
	TextPrimary: "#CDD6F4",
	Accent:      "#89B4FA",
	Success:     "#A6E3A1",
	Warning:     "#FAB387",
	Danger:      "#F38BA8",
	Pending:     "#F9E2AF",
	Accepted:    "#A6E3A1",
	Rejected:    "#F38BA8",
}

var TokyoNight = Theme{
	Name:        "tokyo-night",
	Border:      "#3B4261",
	Selected:    "#292E42",
	TextDim:     "#565F89",
	TextMuted:   "#A9B1D6",
	TextPrimary: "#C0CAF5",
	Accent:      "#7AA2F7",
	Success:     "#9ECE6A",
	Warning:     "#FF9E64",
	Danger:      "#F7768E",
	Pending:     "#E0AF68",
	Accepted:    "#9ECE6A",
	Rejected:    "#F7768E",
}

// Terminal sticks to the 16 ANSI colors so the user's own scheme applies.
var Terminal = Theme{
	Name:        "terminal",
	Border:      "8",
	Selected:    "0",
	TextDim:     "8",
	TextMuted:   "7",
	TextPrimary: "15",
	Accent:      "6",
	Success:     "2",
	Warning:     "3",
	Danger:      "1",
	Pending:     "3",
	Accepted:    "2",
	Rejected:    "1",
}

// All lists the palettes offered by `presu setup`.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns the named palette, or FlexokiDark when unknown.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

func SetActive(name string) {
	Active = ByName(name)
}

// StatusColor picks the badge color for a status label.
func (t Theme) StatusColor(label string) lipgloss.Color {
	switch label {
	case "accepted":
		return t.Accepted
	case "rejected":
		return t.Rejected
	default:
		return t.Pending
	}
}
