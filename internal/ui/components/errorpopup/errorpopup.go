// Package errorpopup renders the connection error popup.
package errorpopup

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// popupWidth is the popup width, clamped to the available width.
const popupWidth = 60

// Styles holds the styles needed by the error popup.
type Styles struct {
	Title   lipgloss.Style
	Message lipgloss.Style
	Border  lipgloss.Style
}

// DefaultStyles returns default styles for the error popup.
func DefaultStyles() Styles {
	errorColor := lipgloss.Color("#FF0000")
	return Styles{
		Title:   lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		Message: lipgloss.NewStyle().Faint(true),
		Border:  lipgloss.NewStyle().Foreground(errorColor),
	}
}

// Model defines state for the error popup component.
type Model struct {
	styles  Styles
	message string
	width   int
	height  int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new error popup model.
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

// WithSize sets the available width and height.
func WithSize(w, h int) Option {
	return func(m *Model) {
		m.width = w
		m.height = h
	}
}

// WithMessage sets the error message.
func WithMessage(msg string) Option {
	return func(m *Model) {
		m.message = msg
	}
}

// SetStyles sets the styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetSize sets the available width and height.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetMessage sets the error message to display.
func (m *Model) SetMessage(msg string) {
	m.message = msg
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the current height.
func (m Model) Height() int {
	return m.height
}

// Message returns the current error message.
func (m Model) Message() string {
	return m.message
}

// HasError returns true if there is an error message to display.
func (m Model) HasError() bool {
	return m.message != ""
}

// View renders the popup box. The caller overlays it on the rest of the
// screen. Returns an empty string when there is no error or no room to
// render.
func (m Model) View() string {
	if m.message == "" {
		return ""
	}

	width := min(popupWidth, m.width)
	innerWidth := width - 2
	contentHeight := m.height - 2
	if innerWidth <= 0 || contentHeight <= 0 {
		return ""
	}

	content := m.styles.Message.Render(m.message) + "\n\n" +
		m.styles.Message.Render("Retrying every 5 seconds...")

	contentStyle := lipgloss.NewStyle().
		Width(innerWidth).
		Padding(0, 1)
	contentLines := strings.Split(contentStyle.Render(content), "\n")
	if len(contentLines) > contentHeight {
		contentLines = contentLines[:contentHeight]
	}

	border := lipgloss.RoundedBorder()
	hBar := m.styles.Border.Render(border.Top)
	left := m.styles.Border.Render(border.Left)
	right := m.styles.Border.Render(border.Right)

	styledTitle := m.styles.Title.Render(" Connection Error ")
	rightPad := max(innerWidth-lipgloss.Width(styledTitle)-1, 0)
	topBorder := m.styles.Border.Render(border.TopLeft) +
		hBar +
		styledTitle +
		strings.Repeat(hBar, rightPad) +
		m.styles.Border.Render(border.TopRight)

	middleLines := make([]string, 0, len(contentLines))
	for _, line := range contentLines {
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		middleLines = append(middleLines, left+line+right)
	}

	bottomBorder := m.styles.Border.Render(border.BottomLeft) +
		strings.Repeat(hBar, innerWidth) +
		m.styles.Border.Render(border.BottomRight)

	return topBorder + "\n" + strings.Join(middleLines, "\n") + "\n" + bottomBorder
}
