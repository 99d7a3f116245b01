// Package views contains the application views.
package views

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Styles holds the shared styles passed down to every view.
type Styles struct {
	Text  lipgloss.Style
	Muted lipgloss.Style
	Title lipgloss.Style

	MetricLabel lipgloss.Style
	MetricValue lipgloss.Style

	TableHeader    lipgloss.Style
	TableSelected  lipgloss.Style
	TableSeparator lipgloss.Style

	BorderStyle lipgloss.Style
	FocusBorder lipgloss.Style

	FilterFocused lipgloss.Style
	FilterBlurred lipgloss.Style

	ScrollbarTrack lipgloss.Style
	ScrollbarThumb lipgloss.Style

	DangerAction  lipgloss.Style
	NeutralAction lipgloss.Style

	JSONKey         lipgloss.Style
	JSONString      lipgloss.Style
	JSONNumber      lipgloss.Style
	JSONBool        lipgloss.Style
	JSONNull        lipgloss.Style
	JSONPunctuation lipgloss.Style

	CandleBull     lipgloss.Style
	CandleBear     lipgloss.Style
	ChartMuted     lipgloss.Style
	ChartCrosshair lipgloss.Style
	ChartAxis      lipgloss.Style
	ChartLabel     lipgloss.Style
	LinePrimary    lipgloss.Style
	LineSecondary  lipgloss.Style
}

// View is the interface implemented by every top-level view.
type View interface {
	// Init schedules the initial data fetch.
	Init() tea.Cmd

	// Update handles messages and returns the updated view.
	Update(msg tea.Msg) (View, tea.Cmd)

	// View renders the view.
	View() string

	// Name returns the view name shown in the navigation bar.
	Name() string

	// ShortHelp returns extra bindings for the navigation bar.
	ShortHelp() []key.Binding

	// SetSize informs the view about the available screen estate.
	SetSize(width, height int) View

	// SetStyles applies a freshly derived style set.
	SetStyles(styles Styles) View
}

// Disposable is implemented by views that hold timers or subscriptions that
// must be torn down when the user switches away.
type Disposable interface {
	Dispose()
}

// ContextItem is one label/value pair for the context bar.
type ContextItem struct {
	Label string
	Value string
}

// ContextProvider is implemented by views that publish context bar values.
type ContextProvider interface {
	ContextItems() []ContextItem
}

// HintProvider is implemented by views that advertise extra keybindings in
// the context bar.
type HintProvider interface {
	HintBindings() []key.Binding
}

// MutationHintProvider is implemented by views with destructive actions;
// their bindings render in the danger style, and only when dangerous actions
// are enabled.
type MutationHintProvider interface {
	MutationBindings() []key.Binding
}

// HelpSection is one titled group of entries in the help dialog.
type HelpSection struct {
	Title    string
	Bindings []key.Binding
	Lines    []string
}

// HelpProvider is implemented by views that contribute sections to the help
// dialog.
type HelpProvider interface {
	HelpSections() []HelpSection
}

// TableHelpProvider is implemented by views with a scrollable table, so the
// help dialog can append the shared table navigation bindings.
type TableHelpProvider interface {
	TableHelp() []key.Binding
}

// RefreshMsg asks the active view to refetch its data.
type RefreshMsg struct{}

// ConnectionErrorMsg reports a failed API call to the application shell.
type ConnectionErrorMsg struct {
	Err error
}

// SelectInstrumentMsg switches the chart view to the given instrument.
type SelectInstrumentMsg struct {
	Symbol string
}
