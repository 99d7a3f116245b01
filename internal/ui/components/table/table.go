// Package table renders a scrollable table with selection support.
package table

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/lazychart/lazychart/internal/ui/components/scrollbar"
)

// Alignment controls how cell content is padded within a column.
type Alignment int

const (
	// AlignLeft pads cells on the right.
	AlignLeft Alignment = iota
	// AlignRight pads cells on the left.
	AlignRight
)

// Column defines a table column. The effective width grows with the
// content, so cells are never truncated.
type Column struct {
	Title string
	Width int
	Align Alignment
}

// Row is a single table row with a stable identifier. The identifier keeps
// the selection on the same row when the data is refreshed.
type Row struct {
	ID    string
	Cells []string
}

// Styles holds the styles needed by the table.
type Styles struct {
	Text           lipgloss.Style
	Muted          lipgloss.Style
	Header         lipgloss.Style
	Selected       lipgloss.Style
	Separator      lipgloss.Style
	ScrollbarTrack lipgloss.Style
	ScrollbarThumb lipgloss.Style
}

// DefaultStyles returns a set of default style definitions for this table.
func DefaultStyles() Styles {
	return Styles{
		Text:           lipgloss.NewStyle(),
		Muted:          lipgloss.NewStyle().Faint(true),
		Header:         lipgloss.NewStyle().Bold(true),
		Selected:       lipgloss.NewStyle().Reverse(true),
		Separator:      lipgloss.NewStyle(),
		ScrollbarTrack: lipgloss.NewStyle(),
		ScrollbarThumb: lipgloss.NewStyle(),
	}
}

// KeyMap defines keybindings for table navigation.
type KeyMap struct {
	LineUp      key.Binding
	LineDown    key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	GotoTop     key.Binding
	GotoBottom  key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding
	Home        key.Binding
	End         key.Binding
}

// DefaultKeyMap returns default table keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		LineUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("j/k", "move selection"),
		),
		LineDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("j/k", "move selection"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to top"),
		),
		GotoBottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to bottom"),
		),
		ScrollLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("h/l", "scroll left/right"),
		),
		ScrollRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("h/l", "scroll left/right"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "0"),
			key.WithHelp("0", "scroll to start"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "$"),
			key.WithHelp("$", "scroll to end"),
		),
	}
}

const (
	scrollStep = 4
	pageStep   = 10
)

// Model is a scrollable table component with selection support.
type Model struct {
	KeyMap KeyMap

	columns      []Column
	rows         []Row
	styles       Styles
	width        int
	height       int
	cursor       int
	yOffset      int
	xOffset      int
	emptyMessage string

	// Derived state, rebuilt on every mutation.
	colWidths      []int
	maxRowWidth    int
	content        string
	viewportHeight int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new table model.
func New(opts ...Option) Model {
	m := Model{
		KeyMap:         DefaultKeyMap(),
		emptyMessage:   "No data",
		viewportHeight: 1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.rebuildContent()
	return m
}

// WithColumns sets the column definitions.
func WithColumns(columns []Column) Option {
	return func(m *Model) {
		m.columns = columns
	}
}

// WithRows sets the initial rows.
func WithRows(rows []Row) Option {
	return func(m *Model) {
		m.rows = rows
	}
}

// WithEmptyMessage sets the message shown when there are no rows.
func WithEmptyMessage(msg string) Option {
	return func(m *Model) {
		m.emptyMessage = msg
	}
}

// WithStyles sets the table styles.
func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.styles = s
	}
}

// WithWidth sets the table width.
func WithWidth(width int) Option {
	return func(m *Model) {
		m.width = width
	}
}

// WithHeight sets the table height.
func WithHeight(height int) Option {
	return func(m *Model) {
		m.height = height
		m.viewportHeight = max(height-2, 1)
	}
}

// SetStyles updates the table styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
	m.rebuildContent()
}

// SetSize sets the table dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewportHeight = max(height-2, 1)
	m.clampScroll()
	m.rebuildContent()
}

// SetColumns updates the column definitions.
func (m *Model) SetColumns(columns []Column) {
	m.columns = columns
	m.clampScroll()
	m.rebuildContent()
}

// SetRows updates the table data. The selection follows the previously
// selected row ID when it is still present, and stays in bounds otherwise.
func (m *Model) SetRows(rows []Row) {
	var selectedID string
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		selectedID = m.rows[m.cursor].ID
	}

	m.rows = rows

	if selectedID != "" {
		for i, row := range m.rows {
			if row.ID == selectedID {
				m.cursor = i
				break
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	m.ensureVisible()
	m.clampScroll()
	m.rebuildContent()
}

// Rows returns the current rows.
func (m Model) Rows() []Row {
	return m.rows
}

// SetEmptyMessage sets the message shown when there are no rows.
func (m *Model) SetEmptyMessage(msg string) {
	m.emptyMessage = msg
	m.rebuildContent()
}

// Cursor returns the selected row index.
func (m Model) Cursor() int {
	return m.cursor
}

// SetCursor moves the selection to the given row.
func (m *Model) SetCursor(cursor int) {
	m.cursor = cursor
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
	m.rebuildContent()
}

// ViewportHeight returns the number of visible data rows.
func (m Model) ViewportHeight() int {
	return m.viewportHeight
}

// GotoTop moves the selection and both scroll offsets to the origin.
func (m *Model) GotoTop() {
	m.cursor = 0
	m.yOffset = 0
	m.xOffset = 0
	m.rebuildContent()
}

// GotoBottom moves the selection to the last row.
func (m *Model) GotoBottom() {
	m.cursor = max(len(m.rows)-1, 0)
	m.yOffset = m.maxYOffset()
	m.rebuildContent()
}

// MoveUp moves the selection up by n rows.
func (m *Model) MoveUp(n int) {
	m.cursor = max(m.cursor-n, 0)
	m.ensureVisible()
	m.rebuildContent()
}

// MoveDown moves the selection down by n rows.
func (m *Model) MoveDown(n int) {
	m.cursor = min(m.cursor+n, max(len(m.rows)-1, 0))
	m.ensureVisible()
	m.rebuildContent()
}

// ScrollLeft scrolls content left.
func (m *Model) ScrollLeft() {
	m.xOffset = max(m.xOffset-scrollStep, 0)
	m.rebuildContent()
}

// ScrollRight scrolls content right.
func (m *Model) ScrollRight() {
	m.xOffset = min(m.xOffset+scrollStep, m.maxScrollOffset())
	m.rebuildContent()
}

// ScrollToStart resets the horizontal scroll.
func (m *Model) ScrollToStart() {
	m.xOffset = 0
	m.rebuildContent()
}

// ScrollToEnd scrolls to the end of the widest row.
func (m *Model) ScrollToEnd() {
	m.xOffset = m.maxScrollOffset()
	m.rebuildContent()
}

// Update handles key messages for navigation and scrolling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.KeyMap.LineUp):
			m.MoveUp(1)
		case key.Matches(msg, m.KeyMap.LineDown):
			m.MoveDown(1)
		case key.Matches(msg, m.KeyMap.PageUp):
			m.MoveUp(pageStep)
		case key.Matches(msg, m.KeyMap.PageDown):
			m.MoveDown(pageStep)
		case key.Matches(msg, m.KeyMap.GotoTop):
			m.GotoTop()
		case key.Matches(msg, m.KeyMap.GotoBottom):
			m.GotoBottom()
		case key.Matches(msg, m.KeyMap.ScrollLeft):
			m.ScrollLeft()
		case key.Matches(msg, m.KeyMap.ScrollRight):
			m.ScrollRight()
		case key.Matches(msg, m.KeyMap.Home):
			m.ScrollToStart()
		case key.Matches(msg, m.KeyMap.End):
			m.ScrollToEnd()
		}
	}
	return m, nil
}

// View renders the table header and the visible rows.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}

	header := m.renderHeader()
	visible := m.getVisibleContent()

	if m.scrollbarVisible() {
		bar := scrollbar.New(
			scrollbar.WithStyles(scrollbar.Styles{
				Track: m.styles.ScrollbarTrack,
				Thumb: m.styles.ScrollbarThumb,
			}),
			scrollbar.WithSize(scrollbar.DefaultWidth, len(visible)),
			scrollbar.WithRange(len(m.rows), m.viewportHeight, m.yOffset),
		)
		barLines := strings.Split(bar.View(), "\n")
		for i := range visible {
			if i < len(barLines) {
				visible[i] += " " + barLines[i]
			}
		}

		headerLines := strings.Split(header, "\n")
		for i := range headerLines {
			headerLines[i] += "  "
		}
		header = strings.Join(headerLines, "\n")
	}

	return header + "\n" + strings.Join(visible, "\n")
}

// scrollbarVisible reports whether the rows overflow the viewport.
func (m Model) scrollbarVisible() bool {
	return len(m.rows) > m.viewportHeight
}

// contentWidth returns the width available to row content. The scrollbar
// and its gap take two columns when visible.
func (m Model) contentWidth() int {
	if m.scrollbarVisible() {
		return max(m.width-scrollbar.DefaultWidth-1, 1)
	}
	return m.width
}

// maxScrollOffset returns the maximum horizontal scroll offset.
func (m Model) maxScrollOffset() int {
	return max(m.maxRowWidth-m.width, 0)
}

func (m *Model) ensureVisible() {
	if m.cursor < m.yOffset {
		m.yOffset = m.cursor
	} else if m.cursor >= m.yOffset+m.viewportHeight {
		m.yOffset = m.cursor - m.viewportHeight + 1
	}
}

func (m Model) maxYOffset() int {
	return max(len(m.rows)-m.viewportHeight, 0)
}

func (m *Model) clampScroll() {
	m.recalculateWidths()

	if m.xOffset > m.maxScrollOffset() {
		m.xOffset = m.maxScrollOffset()
	}
	if m.xOffset < 0 {
		m.xOffset = 0
	}
	if m.yOffset > m.maxYOffset() {
		m.yOffset = m.maxYOffset()
	}
	if m.yOffset < 0 {
		m.yOffset = 0
	}
}

// recalculateWidths rebuilds the effective column widths and the widest
// row. The effective column width is the larger of the defined width and
// the widest cell in the column.
func (m *Model) recalculateWidths() {
	m.colWidths = make([]int, len(m.columns))
	for i, col := range m.columns {
		m.colWidths[i] = col.Width
	}
	for _, row := range m.rows {
		for i, cell := range row.Cells {
			if i < len(m.colWidths) && lipgloss.Width(cell) > m.colWidths[i] {
				m.colWidths[i] = lipgloss.Width(cell)
			}
		}
	}

	m.maxRowWidth = 0
	for _, row := range m.rows {
		if w := lipgloss.Width(m.rowLine(row)); w > m.maxRowWidth {
			m.maxRowWidth = w
		}
	}
}

// rowLine joins the row cells using the effective column widths, with a
// separator column after each cell.
func (m Model) rowLine(row Row) string {
	var b strings.Builder
	for i, cell := range row.Cells {
		align := AlignLeft
		if i < len(m.columns) {
			align = m.columns[i].Align
		}
		width := lipgloss.Width(cell)
		if i < len(m.colWidths) {
			width = m.colWidths[i]
		}
		b.WriteString(padCell(cell, width, align))
		b.WriteByte(' ')
	}
	return b.String()
}

// rebuildContent rebuilds the pre-rendered body content.
func (m *Model) rebuildContent() {
	m.recalculateWidths()
	m.content = m.renderBody()
}

// renderHeader renders the column titles and the separator line.
func (m Model) renderHeader() string {
	var b strings.Builder
	for i, col := range m.columns {
		width := col.Width
		if m.colWidths != nil && i < len(m.colWidths) {
			width = m.colWidths[i]
		}
		b.WriteString(padCell(col.Title, width, col.Align))
		b.WriteByte(' ')
	}
	header := b.String()

	totalWidth := m.maxRowWidth
	if totalWidth == 0 {
		for _, col := range m.columns {
			totalWidth += col.Width + 1
		}
	}

	if w := lipgloss.Width(header); w < totalWidth {
		header += strings.Repeat(" ", totalWidth-w)
	}

	width := m.contentWidth()
	header = applyHorizontalScroll(header, m.xOffset, width)
	separator := applyHorizontalScroll(strings.Repeat("─", totalWidth), m.xOffset, width)

	return m.styles.Header.Render(header) + "\n" + m.styles.Separator.Render(separator)
}

// renderBody renders all table rows with scrolling and selection applied.
func (m Model) renderBody() string {
	if len(m.rows) == 0 {
		return m.styles.Muted.Render(m.emptyMessage)
	}

	width := m.contentWidth()
	lines := make([]string, 0, len(m.rows))
	for i, row := range m.rows {
		line := m.rowLine(row)
		if w := lipgloss.Width(line); w < m.maxRowWidth {
			line += strings.Repeat(" ", m.maxRowWidth-w)
		}
		line = applyHorizontalScroll(line, m.xOffset, width)
		if i == m.cursor {
			line = m.styles.Selected.Render(line)
		} else {
			line = m.styles.Text.Render(line)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// getVisibleContent returns the visible window of pre-rendered content,
// padded to the viewport height.
func (m Model) getVisibleContent() []string {
	lines := strings.Split(m.content, "\n")

	yOffset := m.yOffset
	if yOffset >= len(lines) {
		yOffset = max(len(lines)-1, 0)
	}
	if yOffset < 0 {
		yOffset = 0
	}

	end := min(yOffset+m.viewportHeight, len(lines))
	visible := make([]string, 0, m.viewportHeight)
	visible = append(visible, lines[yOffset:end]...)

	for len(visible) < m.viewportHeight {
		visible = append(visible, "")
	}

	return visible
}

// applyHorizontalScroll slices a line to the visible window, padding the
// result to the full width. Escape sequences survive the cut.
func applyHorizontalScroll(line string, offset, visibleWidth int) string {
	if visibleWidth <= 0 {
		return ""
	}
	offset = max(offset, 0)

	cut := ansi.Cut(line, offset, offset+visibleWidth)
	if w := lipgloss.Width(cut); w < visibleWidth {
		cut += strings.Repeat(" ", visibleWidth-w)
	}
	return cut
}

// padCell pads a cell to the given width without truncating.
func padCell(s string, width int, align Alignment) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	pad := strings.Repeat(" ", width-w)
	if align == AlignRight {
		return pad + s
	}
	return s + pad
}
