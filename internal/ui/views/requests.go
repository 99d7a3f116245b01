package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lazychart/lazychart/internal/devtools"
	"github.com/lazychart/lazychart/internal/market"
	"github.com/lazychart/lazychart/internal/ui/components/filterinput"
	"github.com/lazychart/lazychart/internal/ui/components/frame"
	"github.com/lazychart/lazychart/internal/ui/components/table"
	"github.com/lazychart/lazychart/internal/ui/dialogs"
	confirmdialog "github.com/lazychart/lazychart/internal/ui/dialogs/confirm"
)

const requestLogTarget = "request log"

var requestColumns = []table.Column{
	{Title: "#", Width: 6, Align: table.AlignRight},
	{Title: "Time", Width: 12},
	{Title: "Origin", Width: 24},
	{Title: "Type", Width: 8},
	{Title: "Status", Width: 6},
	{Title: "Dur", Width: 8, Align: table.AlignRight},
	{Title: "Detail", Width: 0},
}

type commandResultMsg struct {
	output string
	err    error
}

// Requests displays tracked API requests and cache commands, with an
// inline console for running commands against the page cache.
type Requests struct {
	tracker *devtools.Tracker
	cache   *market.PageCache

	width  int
	height int
	styles Styles

	entries    []devtools.LogEntry
	total      int
	httpTotal  int
	redisTotal int

	table   table.Model
	filter  filterinput.Model
	console textinput.Model

	consoleOpen             bool
	dangerousActionsEnabled bool

	frameStyles    frame.Styles
	inputContainer lipgloss.Style
}

// NewRequests creates the request log view.
func NewRequests(tracker *devtools.Tracker, cache *market.PageCache) *Requests {
	r := &Requests{
		tracker: tracker,
		cache:   cache,
		table: table.New(
			table.WithColumns(requestColumns),
			table.WithEmptyMessage("No requests recorded."),
		),
		filter:  filterinput.New(),
		console: textinput.New(),
	}
	r.console.Prompt = "redis> "
	r.console.Placeholder = "enter cache command"
	return r
}

// SetDangerousActionsEnabled toggles mutating actions.
func (r *Requests) SetDangerousActionsEnabled(enabled bool) {
	r.dangerousActionsEnabled = enabled
}

// InputFocused reports whether the filter or console owns the keyboard.
func (r *Requests) InputFocused() bool {
	return r.consoleOpen || r.filter.Focused()
}

// Init implements View.
func (r *Requests) Init() tea.Cmd {
	r.filter.Init()
	r.closeConsole()
	r.console.SetValue("")
	return nil
}

// Update implements View.
func (r *Requests) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case commandResultMsg:
		r.appendResult(msg.output, msg.err)
		return r, nil
	case confirmdialog.ActionMsg:
		if msg.Confirmed && msg.Target == requestLogTarget {
			r.tracker.ClearLog()
			r.table.GotoTop()
		}
		return r, nil
	case filterinput.ActionMsg:
		if msg.Action == filterinput.ActionNone {
			return r, nil
		}
		r.syncEntries()
		r.table.GotoBottom()
		return r, nil
	case tea.KeyMsg:
		if r.consoleOpen {
			return r.handleConsoleKey(msg)
		}
		if r.filter.Focused() {
			var cmd tea.Cmd
			r.filter, cmd = r.filter.Update(msg)
			return r, cmd
		}
		return r.handleKeys(msg)
	}

	return r, nil
}

func (r *Requests) handleKeys(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "/", "esc", "ctrl+u":
		var cmd tea.Cmd
		r.filter, cmd = r.filter.Update(msg)
		return r, cmd
	case "~":
		if !r.dangerousActionsEnabled {
			return r, nil
		}
		r.consoleOpen = true
		return r, r.console.Focus()
	case "y":
		if entry, ok := r.selectedEntry(); ok {
			return r, copyTextCmd(entryDetail(entry.Entry))
		}
		return r, nil
	case "D":
		if !r.dangerousActionsEnabled || r.total == 0 {
			return r, nil
		}
		return r, r.openClearConfirm()
	}

	updated, cmd := r.table.Update(msg)
	r.table = updated
	return r, cmd
}

func (r *Requests) handleConsoleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "~", "esc":
		r.closeConsole()
		return r, nil
	case "enter":
		return r, r.executeInput()
	case "ctrl+u":
		r.console.SetValue("")
		r.console.CursorEnd()
		return r, nil
	case "up", "down", "pgup", "pgdown":
		updated, cmd := r.table.Update(msg)
		r.table = updated
		return r, cmd
	}

	var cmd tea.Cmd
	r.console, cmd = r.console.Update(msg)
	return r, cmd
}

// View implements View.
func (r *Requests) View() string {
	if r.width <= 0 || r.height <= 0 {
		return ""
	}

	r.syncEntries()

	contentWidth := max(r.width-4, 0)
	tableHeight := max(r.height-4, 3)

	divider := strings.Repeat("─", contentWidth)
	if divider != "" {
		divider = r.styles.Muted.Render(divider)
	}

	tableView := r.table.View()
	if pad := tableHeight - lipgloss.Height(tableView); pad > 0 {
		tableView += strings.Repeat("\n", pad)
	}

	inputLine := r.filter.View()
	if r.consoleOpen {
		inputLine = r.inputContainer.Render(r.console.View())
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		tableView,
		divider,
		inputLine,
	)

	box := frame.New(
		frame.WithStyles(r.frameStyles),
		frame.WithTitle("Requests"),
		frame.WithFilter(r.filter.Query()),
		frame.WithTitlePadding(0),
		frame.WithMeta(r.metaLine()),
		frame.WithContent(content),
		frame.WithPadding(1),
		frame.WithSize(r.width, r.height),
		frame.WithMinHeight(5),
		frame.WithFocused(true),
	)
	return box.View()
}

// Name implements View.
func (r *Requests) Name() string {
	return "Requests"
}

// ShortHelp implements View.
func (r *Requests) ShortHelp() []key.Binding {
	return nil
}

// ContextItems implements ContextProvider.
func (r *Requests) ContextItems() []ContextItem {
	cacheState := "off"
	if r.cache != nil {
		cacheState = "on"
	}
	return []ContextItem{
		{Label: "Entries", Value: strconv.Itoa(r.total)},
		{Label: "HTTP", Value: strconv.Itoa(r.httpTotal)},
		{Label: "Redis", Value: strconv.Itoa(r.redisTotal)},
		{Label: "Cache", Value: cacheState},
	}
}

// HintBindings implements HintProvider.
func (r *Requests) HintBindings() []key.Binding {
	return []key.Binding{
		helpBinding([]string{"/"}, "/", "filter"),
		helpBinding([]string{"y"}, "y", "copy"),
	}
}

// MutationBindings implements MutationHintProvider.
func (r *Requests) MutationBindings() []key.Binding {
	return []key.Binding{
		helpBinding([]string{"~"}, "~", "console"),
		helpBinding([]string{"D"}, "D", "clear log"),
	}
}

// HelpSections implements HelpProvider.
func (r *Requests) HelpSections() []HelpSection {
	return []HelpSection{
		{
			Title: "Request Log",
			Bindings: []key.Binding{
				helpBinding([]string{"/"}, "/", "filter entries"),
				helpBinding([]string{"y"}, "y", "copy entry detail"),
				helpBinding([]string{"~"}, "~", "open cache console"),
				helpBinding([]string{"D"}, "D", "clear request log"),
			},
		},
		{
			Title: "Cache Console",
			Lines: []string{
				"Commands run against the page cache connection.",
				"enter executes, esc closes, ctrl+u clears the line.",
			},
		},
	}
}

// TableHelp implements TableHelpProvider.
func (r *Requests) TableHelp() []key.Binding {
	return tableHelpBindings(r.table.KeyMap)
}

// SetSize implements View.
func (r *Requests) SetSize(width, height int) View {
	r.width = width
	r.height = height
	r.updateTableSize()
	return r
}

// SetStyles implements View.
func (r *Requests) SetStyles(styles Styles) View {
	r.styles = styles
	r.frameStyles = frameStylesFromTheme(styles)
	r.table.SetStyles(tableStylesFromTheme(styles))
	r.filter.SetStyles(filterInputStylesFromTheme(styles))

	consoleStyles := r.console.Styles()
	consoleStyles.Focused.Prompt = styles.Title
	consoleStyles.Focused.Text = styles.Text
	consoleStyles.Focused.Placeholder = styles.Muted
	consoleStyles.Blurred.Prompt = styles.Muted
	consoleStyles.Blurred.Text = styles.Text
	consoleStyles.Blurred.Placeholder = styles.Muted
	r.console.SetStyles(consoleStyles)
	return r
}

// Dispose implements Disposable.
func (r *Requests) Dispose() {
	r.filter.Init()
	r.closeConsole()
	r.console.SetValue("")
}

func (r *Requests) closeConsole() {
	r.consoleOpen = false
	r.console.Blur()
}

func (r *Requests) updateTableSize() {
	contentWidth := max(r.width-4, 0)
	r.table.SetSize(contentWidth, max(r.height-4, 3))
	r.filter.SetWidth(contentWidth)
	promptWidth := lipgloss.Width(r.console.Prompt)
	r.console.SetWidth(max(contentWidth-promptWidth, 1))
	r.inputContainer = lipgloss.NewStyle().Width(contentWidth).MaxWidth(contentWidth)
}

func (r *Requests) selectedEntry() (devtools.LogEntry, bool) {
	idx := r.table.Cursor()
	if idx < 0 || idx >= len(r.entries) {
		return devtools.LogEntry{}, false
	}
	return r.entries[idx], true
}

// syncEntries rebuilds the table from the tracker log, keeping the cursor
// pinned to the newest entry when it was there before.
func (r *Requests) syncEntries() {
	if r.tracker == nil {
		r.entries = nil
		r.total = 0
		r.httpTotal = 0
		r.redisTotal = 0
		r.table.SetRows(nil)
		return
	}

	prevRows := r.table.Rows()
	wasAtEnd := len(prevRows) == 0 || r.table.Cursor() >= len(prevRows)-1

	all := r.tracker.LogEntries()
	r.total = len(all)
	r.httpTotal = 0
	r.redisTotal = 0
	query := r.filter.Query()
	entries := make([]devtools.LogEntry, 0, len(all))
	for _, entry := range all {
		switch entry.Entry.Kind {
		case devtools.EntryRequest:
			r.httpTotal++
		case devtools.EntryCache:
			r.redisTotal++
		}
		if entryMatches(entry, query) {
			entries = append(entries, entry)
		}
	}
	r.entries = entries

	rows := make([]table.Row, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, table.Row{
			ID: strconv.FormatUint(entry.Seq, 10),
			Cells: []string{
				strconv.FormatUint(entry.Seq, 10),
				entry.Time.Format("15:04:05.000"),
				entry.Origin,
				entryTypeLabel(entry.Entry.Kind),
				entryStatus(entry.Entry),
				formatEntryDuration(entry.Entry.Duration),
				entryDetail(entry.Entry),
			},
		})
	}
	r.table.SetRows(rows)
	if wasAtEnd && len(rows) > 0 {
		r.table.MoveDown(len(rows))
	}
}

func (r *Requests) metaLine() string {
	count := strconv.Itoa(r.total)
	if len(r.entries) != r.total {
		count = fmt.Sprintf("%d/%d", len(r.entries), r.total)
	}
	return r.styles.MetricLabel.Render("entries: ") + r.styles.MetricValue.Render(count)
}

func (r *Requests) openClearConfirm() tea.Cmd {
	target := r.styles.Text.Bold(true).Render(requestLogTarget)
	dialog := newConfirmDialog(
		r.styles,
		"Clear request log",
		fmt.Sprintf("Discard all %d recorded entries from the %s?", r.total, target),
		requestLogTarget,
		r.styles.DangerAction,
	)
	return func() tea.Msg {
		return dialogs.OpenDialogMsg{Model: dialog}
	}
}

func (r *Requests) executeInput() tea.Cmd {
	raw := strings.TrimSpace(r.console.Value())
	r.console.SetValue("")
	r.console.CursorEnd()

	if raw == "" {
		return nil
	}

	if r.cache == nil {
		return func() tea.Msg {
			return commandResultMsg{err: errors.New("page cache is not configured")}
		}
	}

	cache := r.cache
	return func() tea.Msg {
		args, err := parseRedisArgs(raw)
		if err != nil {
			return commandResultMsg{err: err}
		}
		ctx := devtools.WithOrigin(context.Background(), "console")
		result, err := cache.Do(ctx, toAnyArgs(args)...)
		return commandResultMsg{output: formatRedisResult(result), err: err}
	}
}

func (r *Requests) appendResult(output string, err error) {
	if r.tracker == nil {
		return
	}
	if err != nil {
		output = "error: " + err.Error()
	}
	output = normalizeOneLine(output)
	r.tracker.AppendLog(devtools.LogEntry{
		Time:   time.Now(),
		Origin: "console",
		Entry: devtools.Entry{
			Kind:   devtools.EntryConsole,
			Detail: output,
		},
	})
}

func entryMatches(entry devtools.LogEntry, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(entry.Origin), q) {
		return true
	}
	if strings.Contains(strings.ToLower(entryDetail(entry.Entry)), q) {
		return true
	}
	return strings.Contains(entryTypeLabel(entry.Entry.Kind), q)
}

func entryTypeLabel(kind devtools.EntryKind) string {
	switch kind {
	case devtools.EntryRequest:
		return "http"
	case devtools.EntryCache:
		return "redis"
	case devtools.EntryConsole:
		return "console"
	}
	return ""
}

func entryStatus(entry devtools.Entry) string {
	if entry.Err != "" {
		return "ERR"
	}
	if entry.Status > 0 {
		return strconv.Itoa(entry.Status)
	}
	return ""
}

func entryDetail(entry devtools.Entry) string {
	if entry.Err == "" {
		return entry.Detail
	}
	if entry.Detail == "" {
		return entry.Err
	}
	return entry.Detail + ": " + entry.Err
}

func formatEntryDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return devtools.FormatDuration(d)
}

func parseRedisArgs(input string) ([]string, error) {
	var args []string
	var buf strings.Builder
	var quote rune
	escaped := false

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		args = append(args, buf.String())
		buf.Reset()
	}

	for _, r := range input {
		if escaped {
			buf.WriteRune(r)
			escaped = false
			continue
		}

		if r == '\\' {
			escaped = true
			continue
		}

		if quote != 0 {
			if r == quote {
				quote = 0
				continue
			}
			buf.WriteRune(r)
			continue
		}

		switch r {
		case '"', '\'':
			quote = r
		case ' ', '\t', '\n':
			flush()
		default:
			buf.WriteRune(r)
		}
	}

	if escaped || quote != 0 {
		return nil, errors.New("unterminated quoted string")
	}

	flush()
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	return args, nil
}

func toAnyArgs(args []string) []any {
	result := make([]any, len(args))
	for i, arg := range args {
		result[i] = arg
	}
	return result
}

func formatRedisResult(result any) string {
	if result == nil {
		return "(nil)"
	}
	switch value := result.(type) {
	case string:
		return normalizeOneLine(value)
	case []byte:
		return normalizeOneLine(string(value))
	case []string:
		return normalizeOneLine(strings.Join(value, " "))
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			parts = append(parts, fmt.Sprint(item))
		}
		return normalizeOneLine(strings.Join(parts, " "))
	default:
		return normalizeOneLine(fmt.Sprint(value))
	}
}

func normalizeOneLine(value string) string {
	replacer := strings.NewReplacer(
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
		"\t", "\\t",
	)
	return replacer.Replace(value)
}
