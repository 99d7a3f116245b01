// Package contextbar renders a fixed-height contextual header with key hints.
package contextbar

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Item renders a line in the context bar.
type Item interface {
	Render(styles Styles) string
}

// KeyValueItem renders a label/value pair.
type KeyValueItem struct {
	Label string
	Value string
}

// Render renders the key/value item.
func (i KeyValueItem) Render(styles Styles) string {
	return renderKeyValueLine(styles, i.Label, i.Value, 0)
}

// FormattedItem renders a pre-formatted line.
type FormattedItem struct {
	Line string
}

// Render returns the pre-formatted line.
func (i FormattedItem) Render(_ Styles) string {
	return i.Line
}

// HintKind classifies a key hint.
type HintKind int

const (
	// HintNormal is a regular navigation hint.
	HintNormal HintKind = iota
	// HintDanger marks a destructive action. Danger hints render in their
	// own column at the right edge.
	HintDanger
)

// Hint is a key hint shown on the right side of the bar.
type Hint struct {
	Binding key.Binding
	Kind    HintKind
}

// Styles holds the styles for rendering the context bar.
type Styles struct {
	Bar       lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Muted     lipgloss.Style
	Key       lipgloss.Style
	DangerKey lipgloss.Style
	Desc      lipgloss.Style
}

// DefaultStyles returns default styles for the context bar.
func DefaultStyles() Styles {
	return Styles{
		Bar:       lipgloss.NewStyle().Padding(0, 1),
		Label:     lipgloss.NewStyle(),
		Value:     lipgloss.NewStyle(),
		Muted:     lipgloss.NewStyle(),
		Key:       lipgloss.NewStyle(),
		DangerKey: lipgloss.NewStyle(),
		Desc:      lipgloss.NewStyle(),
	}
}

// Model defines state for the context bar component.
type Model struct {
	styles Styles
	items  []Item
	hints  []Hint
	width  int
	height int
	gap    int
}

// Option configures the context bar.
type Option func(*Model)

// New creates a new context bar model.
func New(opts ...Option) Model {
	m := Model{
		styles: DefaultStyles(),
		height: 5,
		gap:    2,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithItems sets the contextual items.
func WithItems(items []Item) Option {
	return func(m *Model) { m.items = items }
}

// WithHints sets the key hints.
func WithHints(hints []Hint) Option {
	return func(m *Model) { m.hints = hints }
}

// WithSize sets width and height.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// WithHeight sets the fixed height.
func WithHeight(height int) Option {
	return func(m *Model) { m.height = height }
}

// SetStyles sets the styles.
func (m *Model) SetStyles(s Styles) { m.styles = s }

// SetItems updates the contextual items.
func (m *Model) SetItems(items []Item) { m.items = items }

// SetHints updates the key hints.
func (m *Model) SetHints(hints []Hint) { m.hints = hints }

// SetWidth updates the width.
func (m *Model) SetWidth(width int) { m.width = width }

// SetHeight updates the height.
func (m *Model) SetHeight(height int) { m.height = height }

// Width returns the current width.
func (m Model) Width() int { return m.width }

// Height returns the current height.
func (m Model) Height() int { return m.height }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) { return m, nil }

// View renders the context bar. Context items sit on the left and key
// hints on the right. When the bar gets too narrow the gap shrinks
// first, then hints are truncated, and the context only as a last
// resort.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	barStyle := m.styles.Bar.Width(m.width)
	_, rightPad, _, leftPad := barStyle.GetPadding()
	innerWidth := m.width - leftPad - rightPad
	if innerWidth <= 0 {
		return strings.TrimRight(strings.Repeat(barStyle.Render("")+"\n", m.height), "\n")
	}

	leftLines := m.buildItemLines()
	rightLines := m.buildHintLines()
	leftWidth := maxLineWidth(leftLines)
	rightWidth := maxLineWidth(rightLines)

	gap := 0
	if leftWidth > 0 && rightWidth > 0 {
		gap = m.gap
	}

	switch {
	case leftWidth+gap+rightWidth <= innerWidth:
		// Everything fits.
	case leftWidth+rightWidth <= innerWidth:
		// Gap shrinks, both sides stay fully visible.
	case leftWidth < innerWidth:
		rightWidth = innerWidth - leftWidth
		rightLines = truncateLines(rightLines, rightWidth)
	default:
		leftWidth = innerWidth
		leftLines = truncateLines(leftLines, leftWidth)
		rightWidth = 0
		rightLines = nil
	}

	lines := make([]string, 0, m.height)
	for i := range m.height {
		left := ""
		if i < len(leftLines) {
			left = leftLines[i]
		}
		right := ""
		if i < len(rightLines) {
			right = rightLines[i]
		}

		var line string
		switch {
		case leftWidth > 0 && rightWidth > 0:
			spacer := max(innerWidth-leftWidth-rightWidth, 0)
			line = padRight(left, leftWidth) + strings.Repeat(" ", spacer) + padLeft(right, rightWidth)
		case leftWidth > 0:
			line = padRight(left, leftWidth)
		case rightWidth > 0:
			line = strings.Repeat(" ", max(innerWidth-rightWidth, 0)) + padLeft(right, rightWidth)
		default:
			line = ""
		}

		lines = append(lines, barStyle.Render(line))
	}

	return strings.Join(lines, "\n")
}

func (m Model) buildItemLines() []string {
	if len(m.items) == 0 {
		return nil
	}
	labelWidth := maxLabelWidth(m.items)

	lines := make([]string, 0, min(len(m.items), m.height))
	for i := 0; i < len(m.items) && len(lines) < m.height; i++ {
		var line string
		switch v := m.items[i].(type) {
		case KeyValueItem:
			line = renderKeyValueLine(m.styles, v.Label, v.Value, labelWidth)
		case *KeyValueItem:
			line = renderKeyValueLine(m.styles, v.Label, v.Value, labelWidth)
		default:
			line = m.items[i].Render(m.styles)
		}
		lines = append(lines, line)
	}
	return lines
}

// maxLabelWidth returns the widest label among the key/value items,
// including the trailing colon.
func maxLabelWidth(items []Item) int {
	width := 0
	for _, item := range items {
		label := ""
		switch v := item.(type) {
		case KeyValueItem:
			label = v.Label
		case *KeyValueItem:
			label = v.Label
		}
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		width = max(width, ansi.StringWidth(label+":"))
	}
	return width
}

func renderKeyValueLine(styles Styles, label, value string, labelWidth int) string {
	label = strings.TrimSpace(label)
	value = strings.TrimSpace(value)
	if label == "" && value == "" {
		return ""
	}
	if value == "" {
		value = "—"
	}

	valueStyle := styles.Value.Bold(true)
	mutedStyle := styles.Muted.Bold(true)

	if label == "" {
		if value == "—" {
			return mutedStyle.Render(value)
		}
		return valueStyle.Render(value)
	}

	labelText := label + ":"
	if labelWidth > 0 {
		labelText = fmt.Sprintf("%-*s", labelWidth, labelText)
	}
	if value == "—" {
		return styles.Label.Render(labelText) + " " + mutedStyle.Render(value)
	}
	return styles.Label.Render(labelText) + " " + valueStyle.Render(value)
}

// buildHintLines renders the hint block: normal hints in one column and
// danger hints in a second column at the right edge.
func (m Model) buildHintLines() []string {
	normal := m.renderHintColumn(HintNormal)
	danger := m.renderHintColumn(HintDanger)

	switch {
	case len(normal) == 0:
		return danger
	case len(danger) == 0:
		return normal
	}

	normalWidth := maxLineWidth(normal)
	dangerWidth := maxLineWidth(danger)
	rows := max(len(normal), len(danger))
	lines := make([]string, 0, rows)
	for i := range rows {
		left := strings.Repeat(" ", normalWidth)
		if i < len(normal) {
			left = normal[i]
		}
		right := strings.Repeat(" ", dangerWidth)
		if i < len(danger) {
			right = danger[i]
		}
		lines = append(lines, left+"  "+right)
	}
	return lines
}

// renderHintColumn renders the enabled hints of one kind, keys aligned
// within the column.
func (m Model) renderHintColumn(kind HintKind) []string {
	keyStyle := m.styles.Key
	if kind == HintDanger {
		keyStyle = m.styles.DangerKey
	}

	type hintItem struct {
		keyStyled string
		keyWidth  int
		desc      string
	}

	items := make([]hintItem, 0, len(m.hints))
	maxKeyWidth := 0
	for _, hint := range m.hints {
		if hint.Kind != kind || !hint.Binding.Enabled() {
			continue
		}
		help := hint.Binding.Help()
		keyText := strings.TrimSpace(help.Key)
		if keyText == "" {
			continue
		}
		displayKey := " " + keyText + " "
		keyWidth := ansi.StringWidth(displayKey)
		maxKeyWidth = max(maxKeyWidth, keyWidth)
		items = append(items, hintItem{
			keyStyled: keyStyle.Render(displayKey),
			keyWidth:  keyWidth,
			desc:      strings.TrimSpace(help.Desc),
		})
	}
	if len(items) == 0 {
		return nil
	}

	rows := min(len(items), max(m.height, 1))
	lines := make([]string, 0, rows)
	columnWidth := 0
	for i := range rows {
		item := items[i]
		line := item.keyStyled + strings.Repeat(" ", maxKeyWidth-item.keyWidth)
		if item.desc != "" {
			line += " " + m.styles.Desc.Render(item.desc)
		}
		lines = append(lines, line)
		columnWidth = max(columnWidth, ansi.StringWidth(line))
	}
	for i := range lines {
		lines[i] = padRight(lines[i], columnWidth)
	}
	return lines
}

func maxLineWidth(lines []string) int {
	width := 0
	for _, line := range lines {
		width = max(width, ansi.StringWidth(line))
	}
	return width
}

func truncateLines(lines []string, width int) []string {
	if width <= 0 {
		return nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = ansi.Truncate(line, width, "")
	}
	return out
}

func padRight(value string, width int) string {
	if width <= 0 {
		return ""
	}
	truncated := ansi.Truncate(value, width, "")
	if ansi.StringWidth(truncated) >= width {
		return truncated
	}
	return truncated + strings.Repeat(" ", width-ansi.StringWidth(truncated))
}

func padLeft(value string, width int) string {
	if width <= 0 {
		return ""
	}
	truncated := ansi.Truncate(value, width, "")
	if ansi.StringWidth(truncated) >= width {
		return truncated
	}
	return strings.Repeat(" ", width-ansi.StringWidth(truncated)) + truncated
}
