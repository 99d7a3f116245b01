// Package metrics renders the top quote bar for the active instrument.
package metrics

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/lazychart/lazychart/internal/ui/format"
)

// Data holds the quote summary derived from the loaded candle window.
type Data struct {
	Instrument  string
	Granularity string
	Last        float64
	Change      float64
	ChangePct   float64
	High        float64
	Low         float64
	Bars        int
	Decimals    int
	Live        bool
}

// UpdateMsg is sent when the quote bar should be updated.
type UpdateMsg struct {
	Data Data
}

// Styles holds the styles needed by the quote bar.
type Styles struct {
	Bar   lipgloss.Style
	Fill  lipgloss.Style
	Label lipgloss.Style
	Value lipgloss.Style
	Up    lipgloss.Style
	Down  lipgloss.Style
	Live  lipgloss.Style
}

// DefaultStyles returns default styles for the quote bar.
func DefaultStyles() Styles {
	return Styles{
		Bar:   lipgloss.NewStyle().Padding(0, 1),
		Fill:  lipgloss.NewStyle().Faint(true),
		Label: lipgloss.NewStyle().Faint(true),
		Value: lipgloss.NewStyle().Bold(true),
		Up:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Down:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Live:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	}
}

// Model defines state for the quote bar component.
type Model struct {
	styles Styles
	data   Data
	width  int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new quote bar model.
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

// WithWidth sets the width.
func WithWidth(w int) Option {
	return func(m *Model) {
		m.width = w
	}
}

// WithData sets the initial data.
func WithData(d Data) Option {
	return func(m *Model) {
		m.data = d
	}
}

// SetStyles sets the styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetWidth sets the width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetData sets the quote data.
func (m *Model) SetData(d Data) {
	m.data = d
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the height of the quote bar (always 1).
func (m Model) Height() int {
	return 1
}

// Data returns the current quote data.
func (m Model) Data() Data {
	return m.data
}

// Init returns an initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case UpdateMsg:
		m.data = msg.Data
	}
	return m, nil
}

// View renders the quote bar. Trailing quote items are dropped first when
// the bar is too narrow, then the live indicator, then the head item is
// truncated.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}

	barStyle := m.styles.Bar.Width(m.width)
	innerWidth := m.width - barStyle.GetHorizontalPadding()
	if innerWidth <= 0 || m.data.Instrument == "" {
		return barStyle.Render("")
	}

	sep := m.styles.Fill.Render(" │ ")
	items := m.quoteItems()

	live := m.styles.Live.Render("● live")
	if !m.data.Live {
		live = m.styles.Label.Render("○ history")
	}
	liveWidth := lipgloss.Width(live)

	for n := len(items); n >= 1; n-- {
		left := strings.Join(items[:n], sep)
		leftWidth := lipgloss.Width(left)
		if leftWidth+2+liveWidth <= innerWidth {
			gap := m.styles.Fill.Render(strings.Repeat(" ", innerWidth-leftWidth-liveWidth))
			return barStyle.Render(left + gap + live)
		}
	}

	for n := len(items); n >= 1; n-- {
		left := strings.Join(items[:n], sep)
		if lipgloss.Width(left) <= innerWidth {
			return barStyle.Render(left)
		}
	}

	return barStyle.Render(ansi.Truncate(items[0], innerWidth, "…"))
}

// quoteItems builds the quote segments in display priority order.
func (m Model) quoteItems() []string {
	d := m.data

	dir := m.styles.Up
	if d.Change < 0 {
		dir = m.styles.Down
	}

	head := m.styles.Value.Render(d.Instrument)
	if d.Granularity != "" {
		head += " " + m.styles.Label.Render(d.Granularity)
	}

	return []string{
		head,
		m.styles.Label.Render("Last: ") + m.styles.Value.Render(format.Price(d.Last, d.Decimals)),
		m.styles.Label.Render("Chg: ") + dir.Render(fmt.Sprintf("%+.*f (%s)", d.Decimals, d.Change, format.Delta(d.ChangePct))),
		m.styles.Label.Render("High: ") + m.styles.Value.Render(format.Price(d.High, d.Decimals)),
		m.styles.Label.Render("Low: ") + m.styles.Value.Render(format.Price(d.Low, d.Decimals)),
		m.styles.Label.Render("Bars: ") + m.styles.Value.Render(format.Comma(int64(d.Bars))),
	}
}
