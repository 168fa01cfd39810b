package ui

import "github.com/charmbracelet/lipgloss"

// AvailableThemes are the color themes the window accepts, in the order they
// are presented to the user.
var AvailableThemes = []string{"light", "dark", "original", "printer"}

// AvailableUIScales are the accepted interface scales, smallest first.
var AvailableUIScales = []string{"tiny", "small", "medium", "large", "huge"}

func ValidTheme(name string) bool {
	for _, t := range AvailableThemes {
		if t == name {
			return true
		}
	}
	return false
}

func ValidUIScale(name string) bool {
	for _, s := range AvailableUIScales {
		if s == name {
			return true
		}
	}
	return false
}

// Theme bundles the styles derived from a theme name and a UI scale.
type Theme struct {
	Name    string
	Title   lipgloss.Style
	Status  lipgloss.Style
	Error   lipgloss.Style
	Accent  lipgloss.Style
	Border  lipgloss.Style
	Muted   lipgloss.Style
	Padding int
}

type palette struct {
	title, status, err, accent, border, muted lipgloss.Color
}

var palettes = map[string]palette{
	"light": {
		title:  lipgloss.Color("17"),
		status: lipgloss.Color("238"),
		err:    lipgloss.Color("124"),
		accent: lipgloss.Color("26"),
		border: lipgloss.Color("250"),
		muted:  lipgloss.Color("245"),
	},
	"dark": {
		title:  lipgloss.Color("153"),
		status: lipgloss.Color("250"),
		err:    lipgloss.Color("203"),
		accent: lipgloss.Color("75"),
		border: lipgloss.Color("240"),
		muted:  lipgloss.Color("244"),
	},
	// the original color scheme from before themes were configurable
	"original": {
		title:  lipgloss.Color("28"),
		status: lipgloss.Color("241"),
		err:    lipgloss.Color("160"),
		accent: lipgloss.Color("34"),
		border: lipgloss.Color("247"),
		muted:  lipgloss.Color("243"),
	},
	// high-contrast monochrome, suitable for printing or screenshots
	"printer": {
		title:  lipgloss.Color("0"),
		status: lipgloss.Color("0"),
		err:    lipgloss.Color("0"),
		accent: lipgloss.Color("0"),
		border: lipgloss.Color("0"),
		muted:  lipgloss.Color("8"),
	},
}

var scalePadding = map[string]int{
	"tiny":   0,
	"small":  1,
	"medium": 2,
	"large":  3,
	"huge":   4,
}

// NewTheme builds the style set for a theme name at a UI scale. Unknown
// names fall back to the light theme at medium scale.
func NewTheme(name, uiScale string) Theme {
	p, ok := palettes[name]
	if !ok {
		name = "light"
		p = palettes[name]
	}
	pad, ok := scalePadding[uiScale]
	if !ok {
		pad = scalePadding["medium"]
	}

	return Theme{
		Name:    name,
		Title:   lipgloss.NewStyle().Bold(true).Foreground(p.title).Padding(0, pad),
		Status:  lipgloss.NewStyle().Foreground(p.status).Padding(0, pad),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(p.err).Padding(0, pad),
		Accent:  lipgloss.NewStyle().Foreground(p.accent),
		Border:  lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, pad+1),
		Muted:   lipgloss.NewStyle().Foreground(p.muted),
		Padding: pad,
	}
}
