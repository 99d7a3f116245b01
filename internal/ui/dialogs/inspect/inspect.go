// Package inspect provides the crosshair point inspector dialog.
package inspect

import (
	"fmt"
	"math"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/lazychart/lazychart/internal/market"
	"github.com/lazychart/lazychart/internal/ui/components/frame"
	"github.com/lazychart/lazychart/internal/ui/components/jsonview"
	"github.com/lazychart/lazychart/internal/ui/dialogs"
	"github.com/lazychart/lazychart/internal/ui/format"
)

// DialogID identifies the point inspector dialog.
const DialogID dialogs.DialogID = "inspect"

const (
	panelPadding = 1
	valueIndent  = 2
)

// Point carries the crosshair-selected data shown by the inspector.
type Point struct {
	Instrument  string
	Granularity string
	Candle      market.Candle
	Snapshot    *market.Snapshot
	Decimals    int
	Live        bool
}

// Styles holds the styles used by the point inspector.
type Styles struct {
	Title           lipgloss.Style
	Label           lipgloss.Style
	Value           lipgloss.Style
	Muted           lipgloss.Style
	Border          lipgloss.Style
	FocusBorder     lipgloss.Style
	JSON            lipgloss.Style
	JSONKey         lipgloss.Style
	JSONString      lipgloss.Style
	JSONNumber      lipgloss.Style
	JSONBool        lipgloss.Style
	JSONNull        lipgloss.Style
	JSONPunctuation lipgloss.Style
}

// DefaultStyles returns zero-value styles.
func DefaultStyles() Styles {
	return Styles{}
}

type propertyRow struct {
	label string
	value string
}

type payload struct {
	Instrument  string   `json:"instrument"`
	Granularity string   `json:"granularity"`
	Time        int64    `json:"time"`
	Open        float64  `json:"open"`
	High        float64  `json:"high"`
	Low         float64  `json:"low"`
	Close       float64  `json:"close"`
	MR          *float64 `json:"mr,omitempty"`
	ATR         *float64 `json:"atr,omitempty"`
	Base        *float64 `json:"base,omitempty"`
	VT          *float64 `json:"vt,omitempty"`
	Live        bool     `json:"live"`
}

// Model defines state for the point inspector dialog.
type Model struct {
	styles     Styles
	point      Point
	properties []propertyRow
	jsonView   jsonview.Model

	leftYOffset  int
	rightYOffset int
	rightXOffset int
	focusRight   bool

	width        int
	height       int
	windowWidth  int
	windowHeight int
	row          int
	col          int
	leftWidth    int
	rightWidth   int
	panelHeight  int
	minWidth     int
	minHeight    int
}

// Option configures the point inspector.
type Option func(*Model)

// New creates a new point inspector model.
func New(opts ...Option) *Model {
	m := &Model{
		styles:    DefaultStyles(),
		jsonView:  jsonview.New(),
		minWidth:  64,
		minHeight: 14,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.applyStyles(s) }
}

// WithPoint sets the point to display.
func WithPoint(p Point) Option {
	return func(m *Model) { m.setPoint(p) }
}

// Init implements dialogs.DialogModel.
func (m *Model) Init() tea.Cmd { return nil }

// Update handles input and dialog lifecycle.
func (m *Model) Update(msg tea.Msg) (dialogs.DialogModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.applySize()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "i":
			return m, func() tea.Msg { return dialogs.CloseDialogMsg{} }
		case "tab", "shift+tab":
			m.focusRight = !m.focusRight
		case "up", "k":
			if m.focusRight {
				m.rightYOffset = clampZeroMax(m.rightYOffset-1, m.maxRightYOffset())
			} else {
				m.leftYOffset = clampZeroMax(m.leftYOffset-1, m.maxLeftYOffset())
			}
		case "down", "j":
			if m.focusRight {
				m.rightYOffset = clampZeroMax(m.rightYOffset+1, m.maxRightYOffset())
			} else {
				m.leftYOffset = clampZeroMax(m.leftYOffset+1, m.maxLeftYOffset())
			}
		case "left", "h":
			if m.focusRight {
				m.rightXOffset = clampZeroMax(m.rightXOffset-4, m.maxRightXOffset())
			}
		case "right", "l":
			if m.focusRight {
				m.rightXOffset = clampZeroMax(m.rightXOffset+4, m.maxRightXOffset())
			}
		case "g":
			if m.focusRight {
				m.rightYOffset = 0
			} else {
				m.leftYOffset = 0
			}
		case "G":
			if m.focusRight {
				m.rightYOffset = m.maxRightYOffset()
			} else {
				m.leftYOffset = m.maxLeftYOffset()
			}
		case "home", "0":
			if m.focusRight {
				m.rightXOffset = 0
			}
		case "end", "$":
			if m.focusRight {
				m.rightXOffset = m.maxRightXOffset()
			}
		}
	}

	return m, nil
}

// View renders the inspector as two side-by-side panels.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	left := m.renderProperties()
	right := m.renderJSON()

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// Position returns the dialog position.
func (m *Model) Position() (int, int) {
	return m.row, m.col
}

// ID returns the dialog ID.
func (m *Model) ID() dialogs.DialogID {
	return DialogID
}

func (m *Model) applyStyles(s Styles) {
	m.styles = s
	m.jsonView.SetStyles(jsonview.Styles{
		Text:        s.JSON,
		Key:         s.JSONKey,
		String:      s.JSONString,
		Number:      s.JSONNumber,
		Bool:        s.JSONBool,
		Null:        s.JSONNull,
		Punctuation: s.JSONPunctuation,
		Muted:       s.Muted,
	})
}

func (m *Model) setPoint(p Point) {
	m.point = p
	m.leftYOffset = 0
	m.rightYOffset = 0
	m.rightXOffset = 0
	m.focusRight = false

	m.buildProperties()
	m.buildPayload()
}

func (m *Model) buildProperties() {
	c := m.point.Candle
	dec := m.point.Decimals

	rows := []propertyRow{
		{label: "Instrument", value: m.point.Instrument},
		{label: "Granularity", value: m.point.Granularity},
		{label: "Time", value: format.Time(c.Time)},
		{label: "Open", value: format.Price(c.Open, dec)},
		{label: "High", value: format.Price(c.High, dec)},
		{label: "Low", value: format.Price(c.Low, dec)},
		{label: "Close", value: format.Price(c.Close, dec)},
	}

	change := c.Close - c.Open
	pct := 0.0
	if c.Open != 0 {
		pct = change / c.Open * 100
	}
	rows = append(rows,
		propertyRow{label: "Change", value: fmt.Sprintf("%+.*f (%s)", dec, change, format.Delta(pct))},
		propertyRow{label: "Range", value: format.Price(c.High-c.Low, dec)},
	)

	if s := m.point.Snapshot; s != nil {
		if s.MR != nil {
			rows = append(rows, propertyRow{label: "MR", value: format.Price(*s.MR, dec)})
		}
		if s.ATR != nil {
			rows = append(rows, propertyRow{label: "ATR", value: format.Price(*s.ATR, dec)})
		}
		if s.Base != nil {
			rows = append(rows, propertyRow{label: "Base", value: format.Price(*s.Base, dec)})
		}
		if s.VT != nil {
			// VT is a traded-volume magnitude, not a price.
			rows = append(rows, propertyRow{label: "VT", value: format.Number(int64(math.Round(*s.VT)))})
		}
	}
	if m.point.Live {
		rows = append(rows, propertyRow{label: "Live", value: "yes"})
	}

	m.properties = rows
}

func (m *Model) buildPayload() {
	c := m.point.Candle
	pl := payload{
		Instrument:  m.point.Instrument,
		Granularity: m.point.Granularity,
		Time:        c.Time,
		Open:        c.Open,
		High:        c.High,
		Low:         c.Low,
		Close:       c.Close,
		Live:        m.point.Live,
	}
	if s := m.point.Snapshot; s != nil {
		pl.MR = s.MR
		pl.ATR = s.ATR
		pl.Base = s.Base
		pl.VT = s.VT
	}
	m.jsonView.SetValue(pl)
}

func (m *Model) applySize() {
	if m.windowWidth == 0 || m.windowHeight == 0 {
		return
	}

	dialogWidth := max(m.windowWidth*2/3, m.minWidth)
	dialogWidth = min(dialogWidth, m.windowWidth-4)
	dialogHeight := max(m.windowHeight/2, m.minHeight)
	dialogHeight = min(dialogHeight, m.windowHeight-2)

	m.width = dialogWidth
	m.height = dialogHeight
	m.row = max((m.windowHeight-dialogHeight)/2, 0)
	m.col = max((m.windowWidth-dialogWidth)/2, 0)

	m.leftWidth = min(max((m.width*40)/100, 30), m.width)
	m.rightWidth = max(m.width-m.leftWidth, 0)
	m.panelHeight = max(m.height-2, 1)
	m.clampScroll()
}

func (m *Model) clampScroll() {
	m.leftYOffset = clampZeroMax(m.leftYOffset, m.maxLeftYOffset())
	m.rightYOffset = clampZeroMax(m.rightYOffset, m.maxRightYOffset())
	m.rightXOffset = clampZeroMax(m.rightXOffset, m.maxRightXOffset())
}

func (m *Model) maxLeftYOffset() int {
	return max(m.countPropertyLines()-m.panelHeight, 0)
}

func (m *Model) maxRightYOffset() int {
	return max(m.jsonView.LineCount()-m.panelHeight, 0)
}

func (m *Model) maxRightXOffset() int {
	contentWidth := max(m.rightWidth-2-2*panelPadding, 0)
	return max(m.jsonView.MaxWidth()-contentWidth, 0)
}

// countPropertyLines counts display lines in the left panel, with wrapping.
func (m *Model) countPropertyLines() int {
	if len(m.properties) == 0 {
		return 0
	}

	valueWidth := m.propertyValueWidth()
	count := 0
	for _, prop := range m.properties {
		count++
		lines := wrapText(prop.value, valueWidth)
		if len(lines) == 0 {
			count++
		} else {
			count += len(lines)
		}
	}
	return count
}

func (m *Model) propertyValueWidth() int {
	innerWidth := m.leftWidth - 2
	contentWidth := max(innerWidth-2*panelPadding, 0)
	return max(contentWidth-valueIndent, 10)
}

func (m *Model) renderProperties() string {
	indent := strings.Repeat(" ", valueIndent)
	valueWidth := m.propertyValueWidth()

	allLines := make([]string, 0, len(m.properties)*2)
	for _, prop := range m.properties {
		allLines = append(allLines, m.styles.Label.Render(prop.label+":"))
		valueLines := wrapText(prop.value, valueWidth)
		if len(valueLines) == 0 {
			valueLines = []string{""}
		}
		for _, vl := range valueLines {
			allLines = append(allLines, indent+m.styles.Value.Render(vl))
		}
	}

	var contentLines []string
	endY := min(m.leftYOffset+m.panelHeight, len(allLines))
	if m.leftYOffset < len(allLines) {
		contentLines = allLines[m.leftYOffset:endY]
	}
	for len(contentLines) < m.panelHeight {
		contentLines = append(contentLines, "")
	}

	return frame.New(
		frame.WithStyles(m.frameStyles()),
		frame.WithTitle("Point Details"),
		frame.WithTitlePadding(0),
		frame.WithContent(strings.Join(contentLines, "\n")),
		frame.WithPadding(panelPadding),
		frame.WithSize(m.leftWidth, m.height),
		frame.WithFocused(!m.focusRight),
	).View()
}

func (m *Model) renderJSON() string {
	innerWidth := m.rightWidth - 2
	contentWidth := max(innerWidth-2*panelPadding, 0)

	endY := min(m.rightYOffset+m.panelHeight, m.jsonView.LineCount())
	contentCap := max(endY-m.rightYOffset, 0)
	contentLines := make([]string, 0, contentCap)
	for i := m.rightYOffset; i < endY; i++ {
		contentLines = append(contentLines, m.jsonView.RenderLine(i, m.rightXOffset, contentWidth))
	}
	for len(contentLines) < m.panelHeight {
		contentLines = append(contentLines, "")
	}

	return frame.New(
		frame.WithStyles(m.frameStyles()),
		frame.WithTitle("Point Data (JSON)"),
		frame.WithTitlePadding(0),
		frame.WithMeta(m.styles.Muted.Render("Esc to close")),
		frame.WithMetaPadding(0),
		frame.WithContent(strings.Join(contentLines, "\n")),
		frame.WithPadding(panelPadding),
		frame.WithSize(m.rightWidth, m.height),
		frame.WithFocused(m.focusRight),
	).View()
}

func (m *Model) frameStyles() frame.Styles {
	return frame.Styles{
		Focused: frame.StyleState{
			Title:  m.styles.Title,
			Muted:  m.styles.Muted,
			Filter: m.styles.Title,
			Border: m.styles.FocusBorder,
		},
		Blurred: frame.StyleState{
			Title:  m.styles.Title,
			Muted:  m.styles.Muted,
			Filter: m.styles.Title,
			Border: m.styles.Border,
		},
	}
}

func clampZeroMax(value, maxValue int) int {
	if value < 0 {
		return 0
	}
	if value > maxValue {
		return maxValue
	}
	return value
}

// wrapText hard-wraps text to fit within the specified width.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}

	if lipgloss.Width(s) <= width {
		return []string{s}
	}

	var lines []string
	for lipgloss.Width(s) > width {
		lines = append(lines, ansi.Truncate(s, width, ""))
		s = ansi.Cut(s, width, lipgloss.Width(s))
	}
	if s != "" {
		lines = append(lines, s)
	}
	return lines
}
