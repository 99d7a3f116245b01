// Package messagebox renders titled message boxes.
package messagebox

import (
	"strings"

	"charm.land/lipgloss/v2"
)

const minHeight = 5

// Styles holds the styles needed by the message box.
type Styles struct {
	Title  lipgloss.Style
	Muted  lipgloss.Style
	Border lipgloss.Style
}

// DefaultStyles returns default styles for the message box.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true),
		Muted:  lipgloss.NewStyle().Faint(true),
		Border: lipgloss.NewStyle(),
	}
}

// Model defines state for the message box component.
type Model struct {
	styles  Styles
	title   string
	message string
	width   int
	height  int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new message box model.
func New(opts ...Option) Model {
	m := Model{
		styles: DefaultStyles(),
		height: minHeight,
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

// WithTitle sets the title.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// WithMessage sets the message.
func WithMessage(msg string) Option {
	return func(m *Model) {
		m.message = msg
	}
}

// WithSize sets the width and height.
func WithSize(w, h int) Option {
	return func(m *Model) {
		m.width = w
		m.height = h
	}
}

// SetStyles sets the styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetTitle sets the title.
func (m *Model) SetTitle(title string) {
	m.title = title
}

// SetMessage sets the message.
func (m *Model) SetMessage(msg string) {
	m.message = msg
}

// SetSize sets the width and height.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the current height.
func (m Model) Height() int {
	return m.height
}

// Title returns the current title.
func (m Model) Title() string {
	return m.title
}

// Message returns the current message.
func (m Model) Message() string {
	return m.message
}

// View renders the message box with the message centered inside a
// rounded border. The box never renders shorter than five lines.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}

	height := max(m.height, minHeight)
	innerWidth := m.width - 2
	border := lipgloss.RoundedBorder()
	hBar := m.styles.Border.Render(string(border.Top))

	styledTitle := m.styles.Title.Render(" " + m.title + " ")
	rightPad := max(innerWidth-lipgloss.Width(styledTitle)-1, 0)
	topBorder := m.styles.Border.Render(string(border.TopLeft)) +
		hBar +
		styledTitle +
		strings.Repeat(hBar, rightPad) +
		m.styles.Border.Render(string(border.TopRight))

	left := m.styles.Border.Render(string(border.Left))
	right := m.styles.Border.Render(string(border.Right))

	msgText := m.styles.Muted.Render(m.message)
	msgWidth := lipgloss.Width(msgText)

	contentHeight := height - 2
	centerRow := contentHeight / 2
	middleLines := make([]string, 0, contentHeight)
	for i := range contentHeight {
		line := strings.Repeat(" ", innerWidth)
		if i == centerRow {
			leftPadding := max((innerWidth-msgWidth)/2, 0)
			rightPadding := max(innerWidth-leftPadding-msgWidth, 0)
			line = strings.Repeat(" ", leftPadding) + msgText + strings.Repeat(" ", rightPadding)
		}
		middleLines = append(middleLines, left+line+right)
	}

	bottomBorder := m.styles.Border.Render(string(border.BottomLeft)) +
		strings.Repeat(hBar, innerWidth) +
		m.styles.Border.Render(string(border.BottomRight))

	return topBorder + "\n" + strings.Join(middleLines, "\n") + "\n" + bottomBorder
}

// Render renders a one-off message box without keeping a Model around.
func Render(styles Styles, title, message string, width, height int) string {
	m := New(
		WithStyles(styles),
		WithTitle(title),
		WithMessage(message),
		WithSize(width, height),
	)
	return m.View()
}
