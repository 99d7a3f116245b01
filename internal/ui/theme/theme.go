package theme

import "charm.land/lipgloss/v2"
import "charm.land/lipgloss/v2/compat"

// Theme defines all colors used throughout the UI.
type Theme struct {
	// Base colors
	Primary compat.CompleteAdaptiveColor

	// Text colors
	Text      compat.CompleteAdaptiveColor
	TextMuted compat.CompleteAdaptiveColor

	// Background colors
	Bg           compat.AdaptiveColor
	MetricsBarBg compat.CompleteAdaptiveColor

	// Border colors
	Border      compat.AdaptiveColor
	BorderFocus compat.CompleteAdaptiveColor

	// Accent colors
	TableSelectedFg compat.AdaptiveColor
	TableSelectedBg compat.AdaptiveColor
	Success         compat.AdaptiveColor
	Error           compat.AdaptiveColor
	Info            compat.AdaptiveColor

	// Metrics colors
	MetricsText compat.CompleteAdaptiveColor
}

// DefaultTheme is the adaptive color scheme used by default.
// Use Open Color palette when possible to define colors: https://yeun.github.io/open-color/
var DefaultTheme = Theme{
	Primary: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#B2003C"), ANSI256: lipgloss.Color("161"), ANSI: lipgloss.Color("13")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#F73D68"), ANSI256: lipgloss.Color("204"), ANSI: lipgloss.Color("13")},
	},

	// Text
	Text: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#111827"), ANSI256: lipgloss.Color("0"), ANSI: lipgloss.Color("0")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#F9FAFB"), ANSI256: lipgloss.Color("15"), ANSI: lipgloss.Color("15")},
	},
	TextMuted: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#6B7280"), ANSI256: lipgloss.Color("240"), ANSI: lipgloss.Color("8")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#9CA3AF"), ANSI256: lipgloss.Color("250"), ANSI: lipgloss.Color("7")},
	},

	// Backgrounds
	Bg: compat.AdaptiveColor{
		Light: lipgloss.Color("15"),
		Dark:  lipgloss.Color("0"),
	},
	MetricsBarBg: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#1c7ed6"), ANSI256: lipgloss.Color("33"), ANSI: lipgloss.Color("12")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#4dabf7"), ANSI256: lipgloss.Color("25"), ANSI: lipgloss.Color("4")},
	},

	// Borders
	Border: compat.AdaptiveColor{
		Light: lipgloss.Color("#D1D5DB"), // Gray-300
		Dark:  lipgloss.Color("#374151"), // Gray-700
	},
	BorderFocus: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#B2003C"), ANSI256: lipgloss.Color("161"), ANSI: lipgloss.Color("13")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#F73D68"), ANSI256: lipgloss.Color("204"), ANSI: lipgloss.Color("13")},
	},

	// Accents
	TableSelectedFg: compat.AdaptiveColor{
		Light: lipgloss.Color("229"),
		Dark:  lipgloss.Color("229"),
	},
	TableSelectedBg: compat.AdaptiveColor{
		Light: lipgloss.Color("57"),
		Dark:  lipgloss.Color("57"),
	},
	Success: compat.AdaptiveColor{
		Light: lipgloss.Color("#16A34A"),
		Dark:  lipgloss.Color("#22C55E"),
	},
	Error: compat.AdaptiveColor{
		Light: lipgloss.Color("#FF0000"),
		Dark:  lipgloss.Color("#FF0000"),
	},
	Info: compat.AdaptiveColor{
		Light: lipgloss.Color("#1c7ed6"), // Blue-7
		Dark:  lipgloss.Color("#4dabf7"), // Blue-4
	},

	// Metrics
	MetricsText: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#f8f9fa"), ANSI256: lipgloss.Color("255"), ANSI: lipgloss.Color("15")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#f8f9fa"), ANSI256: lipgloss.Color("255"), ANSI: lipgloss.Color("15")},
	},
}

// Styles holds all lipgloss styles derived from a theme
type Styles struct {
	// Metrics bar
	MetricsBar   lipgloss.Style
	MetricsFill  lipgloss.Style
	MetricsLabel lipgloss.Style
	MetricsValue lipgloss.Style
	MetricsUp    lipgloss.Style
	MetricsDown  lipgloss.Style
	MetricsLive  lipgloss.Style
	MetricLabel  lipgloss.Style
	MetricValue  lipgloss.Style

	// Navbar
	NavBar  lipgloss.Style
	NavItem lipgloss.Style
	NavKey  lipgloss.Style
	NavQuit lipgloss.Style

	// Content
	ViewTitle lipgloss.Style
	ViewText  lipgloss.Style
	ViewMuted lipgloss.Style

	// Table
	TableHeader    lipgloss.Style
	TableSelected  lipgloss.Style
	TableSeparator lipgloss.Style

	// Layout helpers
	BoxPadding  lipgloss.Style
	BorderStyle lipgloss.Style
	FocusBorder lipgloss.Style

	// Filter
	FilterFocused lipgloss.Style
	FilterBlurred lipgloss.Style

	// Scrollbar
	ScrollbarTrack lipgloss.Style
	ScrollbarThumb lipgloss.Style

	// Dialog actions
	DangerAction  lipgloss.Style
	NeutralAction lipgloss.Style

	// JSON highlighting
	JSONKey         lipgloss.Style
	JSONString      lipgloss.Style
	JSONNumber      lipgloss.Style
	JSONBool        lipgloss.Style
	JSONNull        lipgloss.Style
	JSONPunctuation lipgloss.Style

	// Charts
	CandleBull     lipgloss.Style
	CandleBear     lipgloss.Style
	ChartMuted     lipgloss.Style
	ChartCrosshair lipgloss.Style
	ChartAxis      lipgloss.Style
	ChartLabel     lipgloss.Style
	LinePrimary    lipgloss.Style
	LineSecondary  lipgloss.Style

	// Errors
	ErrorTitle  lipgloss.Style
	ErrorBorder lipgloss.Style
}

// NewStyles creates a Styles instance from the default adaptive theme.
func NewStyles() Styles {
	t := DefaultTheme
	return Styles{
		// Metrics bar
		MetricsBar: lipgloss.NewStyle().
			Foreground(t.MetricsText).
			Background(t.MetricsBarBg).
			Padding(0, 0),

		MetricsFill: lipgloss.NewStyle().
			Background(t.MetricsBarBg),

		MetricsLabel: lipgloss.NewStyle().
			Foreground(t.MetricsText).
			Background(t.MetricsBarBg),

		MetricsValue: lipgloss.NewStyle().
			Foreground(t.MetricsText).
			Background(t.MetricsBarBg).
			Bold(true),

		MetricsUp: lipgloss.NewStyle().
			Foreground(t.Success).
			Background(t.MetricsBarBg).
			Bold(true),

		MetricsDown: lipgloss.NewStyle().
			Foreground(t.Error).
			Background(t.MetricsBarBg).
			Bold(true),

		MetricsLive: lipgloss.NewStyle().
			Foreground(t.Success).
			Background(t.MetricsBarBg).
			Bold(true),

		MetricLabel: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		MetricValue: lipgloss.NewStyle().
			Foreground(t.Text).
			Bold(true),

		// Navbar
		NavBar: lipgloss.NewStyle().
			Padding(0, 1),

		NavItem: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			PaddingRight(1),

		NavKey: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Border).
			Padding(0, 1),

		NavQuit: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			PaddingRight(1),

		// Content
		ViewTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		ViewText: lipgloss.NewStyle().
			Foreground(t.Text),

		ViewMuted: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		// Table
		TableHeader: lipgloss.NewStyle().
			Foreground(t.Text).
			Bold(true),

		TableSelected: lipgloss.NewStyle().
			Foreground(t.TableSelectedFg).
			Background(t.TableSelectedBg),

		TableSeparator: lipgloss.NewStyle().
			Foreground(t.Border),

		// Layout helpers
		BoxPadding: lipgloss.NewStyle().
			Padding(0, 1),

		BorderStyle: lipgloss.NewStyle().
			Foreground(t.Border),

		FocusBorder: lipgloss.NewStyle().
			Foreground(t.BorderFocus),

		// Filter
		FilterFocused: lipgloss.NewStyle().
			Foreground(t.Primary),

		FilterBlurred: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		// Scrollbar
		ScrollbarTrack: lipgloss.NewStyle().
			Foreground(t.Border),

		ScrollbarThumb: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		// Dialog actions
		DangerAction: lipgloss.NewStyle().
			Foreground(t.MetricsText).
			Background(t.Error).
			Bold(true).
			Padding(0, 1),

		NeutralAction: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Border).
			Bold(true).
			Padding(0, 1),

		// JSON highlighting
		JSONKey: lipgloss.NewStyle().
			Foreground(t.Primary),

		JSONString: lipgloss.NewStyle().
			Foreground(t.Success),

		JSONNumber: lipgloss.NewStyle().
			Foreground(t.Info),

		JSONBool: lipgloss.NewStyle().
			Foreground(t.Info).
			Bold(true),

		JSONNull: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Italic(true),

		JSONPunctuation: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		CandleBull: lipgloss.NewStyle().
			Foreground(t.Success),

		CandleBear: lipgloss.NewStyle().
			Foreground(t.Error),

		ChartMuted: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		ChartCrosshair: lipgloss.NewStyle().
			Foreground(t.Primary),

		ChartAxis: lipgloss.NewStyle().
			Foreground(t.Border),

		ChartLabel: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		LinePrimary: lipgloss.NewStyle().
			Foreground(t.Primary),

		LineSecondary: lipgloss.NewStyle().
			Foreground(t.Info),

		ErrorTitle: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		ErrorBorder: lipgloss.NewStyle().
			Foreground(t.Error),
	}
}
