// Package navbar renders the bottom navigation bar.
package navbar

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// ViewInfo holds information about a view for display in the navbar.
type ViewInfo struct {
	Name string
}

// Styles holds the styles needed by the navbar.
type Styles struct {
	Bar   lipgloss.Style
	Brand lipgloss.Style
	Key   lipgloss.Style
	Item  lipgloss.Style
	Quit  lipgloss.Style
}

// DefaultStyles returns default styles for the navbar.
func DefaultStyles() Styles {
	return Styles{
		Bar:   lipgloss.NewStyle().Padding(0, 1),
		Brand: lipgloss.NewStyle().Bold(true),
		Key:   lipgloss.NewStyle().Padding(0, 1),
		Item:  lipgloss.NewStyle().PaddingRight(1),
		Quit:  lipgloss.NewStyle().PaddingRight(1),
	}
}

// Model defines state for the navbar component.
type Model struct {
	styles Styles
	views  []ViewInfo
	brand  string
	help   key.Binding
	width  int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new navbar model.
func New(opts ...Option) Model {
	m := Model{
		styles: DefaultStyles(),
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.styles = s
	}
}

// WithViews sets the views to display.
func WithViews(views []ViewInfo) Option {
	return func(m *Model) {
		m.views = views
	}
}

// WithBrand sets the brand label shown at the right edge.
func WithBrand(brand string) Option {
	return func(m *Model) {
		m.brand = brand
	}
}

// WithHelp sets the help key hint.
func WithHelp(help key.Binding) Option {
	return func(m *Model) {
		m.help = help
	}
}

// WithWidth sets the width.
func WithWidth(w int) Option {
	return func(m *Model) {
		m.width = w
	}
}

// SetStyles sets the styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetViews sets the views to display.
func (m *Model) SetViews(views []ViewInfo) {
	m.views = views
}

// SetWidth sets the width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the height of the navbar (always 1).
func (m Model) Height() int {
	return 1
}

// Init returns an initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the navbar: numbered views with the quit and help hints
// on the left, the brand at the right edge. The brand is dropped first
// when the bar gets too narrow.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}

	barStyle := m.styles.Bar.Width(m.width)
	_, rightPad, _, leftPad := barStyle.GetPadding()
	innerWidth := m.width - leftPad - rightPad
	if innerWidth <= 0 {
		return barStyle.Render("")
	}

	var b strings.Builder
	for i, v := range m.views {
		b.WriteString(m.styles.Key.Render(fmt.Sprintf("%d", i+1)))
		b.WriteString(m.styles.Item.Render(v.Name))
	}
	b.WriteString(m.styles.Key.Render("q"))
	b.WriteString(m.styles.Quit.Render("quit"))
	if h := m.help.Help(); h.Key != "" {
		b.WriteString(m.styles.Key.Render(h.Key))
		b.WriteString(m.styles.Quit.Render(h.Desc))
	}
	items := b.String()

	brand := ""
	if m.brand != "" {
		brand = m.styles.Brand.Render(m.brand)
	}

	itemsWidth := ansi.StringWidth(items)
	brandWidth := ansi.StringWidth(brand)

	switch {
	case brandWidth > 0 && itemsWidth+2+brandWidth <= innerWidth:
		gap := innerWidth - itemsWidth - brandWidth
		return barStyle.Render(items + strings.Repeat(" ", gap) + brand)
	case itemsWidth <= innerWidth:
		return barStyle.Render(items)
	default:
		return barStyle.Render(ansi.Truncate(items, innerWidth, ""))
	}
}
