package views

import (
	"context"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/lazychart/lazychart/internal/devtools"
	"github.com/lazychart/lazychart/internal/market"
	"github.com/lazychart/lazychart/internal/ui/components/frame"
	"github.com/lazychart/lazychart/internal/ui/components/table"
	"github.com/lazychart/lazychart/internal/ui/dialogs"
	filterdialog "github.com/lazychart/lazychart/internal/ui/dialogs/filter"
	"github.com/lazychart/lazychart/internal/ui/format"
)

// watchlistDataMsg carries the instrument list internally.
type watchlistDataMsg struct {
	instruments []market.Instrument
}

// Watchlist shows every instrument known to the market-data API.
type Watchlist struct {
	api         market.API
	width       int
	height      int
	styles      Styles
	instruments []market.Instrument
	fetchedAt   time.Time
	table       table.Model
	ready       bool
	filter      string
	frameStyles frame.Styles
	filterStyle filterdialog.Styles
}

// NewWatchlist creates a new Watchlist view.
func NewWatchlist(api market.API) *Watchlist {
	return &Watchlist{
		api: api,
		table: table.New(
			table.WithColumns(watchlistColumns),
			table.WithEmptyMessage("No instruments"),
		),
	}
}

// Init implements View.
func (w *Watchlist) Init() tea.Cmd {
	w.reset()
	return w.fetchDataCmd()
}

// Update implements View.
func (w *Watchlist) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case watchlistDataMsg:
		w.instruments = msg.instruments
		w.fetchedAt = time.Now()
		w.ready = true
		w.updateTableRows()
		return w, nil

	case RefreshMsg:
		return w, w.fetchDataCmd()

	case filterdialog.ActionMsg:
		if msg.Action == filterdialog.ActionNone {
			return w, nil
		}
		if msg.Query == w.filter {
			return w, nil
		}
		w.filter = msg.Query
		w.table.SetCursor(0)
		return w, w.fetchDataCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "/":
			return w, func() tea.Msg {
				return dialogs.OpenDialogMsg{
					Model: filterdialog.New(
						filterdialog.WithStyles(w.filterStyle),
						filterdialog.WithQuery(w.filter),
					),
				}
			}
		case "enter":
			if symbol, ok := w.selectedSymbol(); ok {
				return w, func() tea.Msg {
					return SelectInstrumentMsg{Symbol: symbol}
				}
			}
			return w, nil
		}

		w.table, _ = w.table.Update(msg)
		return w, nil
	}

	return w, nil
}

// View implements View.
func (w *Watchlist) View() string {
	if !w.ready {
		return renderStatusMessage("Watchlist", "Loading...", w.styles, w.width, w.height)
	}

	if len(w.instruments) == 0 {
		if w.filter != "" {
			return renderStatusMessage("Watchlist", "No instruments matching filter", w.styles, w.width, w.height)
		}
		return renderStatusMessage("Watchlist", "No instruments", w.styles, w.width, w.height)
	}

	return w.renderInstrumentsBox()
}

// Name implements View.
func (w *Watchlist) Name() string {
	return "Watchlist"
}

// ShortHelp implements View.
func (w *Watchlist) ShortHelp() []key.Binding {
	return nil
}

// ContextItems implements ContextProvider.
func (w *Watchlist) ContextItems() []ContextItem {
	return []ContextItem{
		{Label: "Instruments", Value: strconv.Itoa(len(w.instruments))},
		{Label: "Endpoint", Value: w.api.DisplayBaseURL()},
	}
}

// HintBindings implements HintProvider.
func (w *Watchlist) HintBindings() []key.Binding {
	return []key.Binding{
		helpBinding([]string{"/"}, "/", "filter"),
		helpBinding([]string{"enter"}, "enter", "open chart"),
	}
}

// HelpSections implements HelpProvider.
func (w *Watchlist) HelpSections() []HelpSection {
	return []HelpSection{{
		Title: "Watchlist Actions",
		Bindings: []key.Binding{
			helpBinding([]string{"/"}, "/", "filter instruments"),
			helpBinding([]string{"enter"}, "enter", "open instrument chart"),
		},
	}}
}

// TableHelp implements TableHelpProvider.
func (w *Watchlist) TableHelp() []key.Binding {
	return tableHelpBindings(w.table.KeyMap)
}

// SetSize implements View.
func (w *Watchlist) SetSize(width, height int) View {
	w.width = width
	w.height = height
	w.updateTableSize()
	return w
}

// Dispose clears cached data when the user switches away.
func (w *Watchlist) Dispose() {
	w.reset()
	w.updateTableSize()
}

// SetStyles implements View.
func (w *Watchlist) SetStyles(styles Styles) View {
	w.styles = styles
	w.table.SetStyles(tableStylesFromTheme(styles))
	w.frameStyles = frameStylesFromTheme(styles)
	w.filterStyle = filterDialogStylesFromTheme(styles)
	return w
}

// fetchDataCmd fetches the instrument list from the market-data API.
func (w *Watchlist) fetchDataCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := devtools.WithTracker(context.Background(), "watchlist.fetchDataCmd")

		instruments, err := w.api.Instruments(ctx)
		if err != nil {
			return ConnectionErrorMsg{Err: err}
		}

		if w.filter != "" {
			needle := strings.ToLower(w.filter)
			filtered := make([]market.Instrument, 0, len(instruments))
			for _, inst := range instruments {
				if strings.Contains(strings.ToLower(inst.Symbol), needle) ||
					strings.Contains(strings.ToLower(inst.Description), needle) {
					filtered = append(filtered, inst)
				}
			}
			instruments = filtered
		}

		return watchlistDataMsg{instruments: instruments}
	}
}

func (w *Watchlist) reset() {
	w.ready = false
	w.instruments = nil
	w.fetchedAt = time.Time{}
	w.table.SetRows(nil)
	w.table.SetCursor(0)
}

func (w *Watchlist) selectedSymbol() (string, bool) {
	idx := w.table.Cursor()
	if idx < 0 || idx >= len(w.instruments) {
		return "", false
	}
	return w.instruments[idx].Symbol, true
}

// Table columns for the watchlist.
var watchlistColumns = []table.Column{
	{Title: "Instrument", Width: 24},
	{Title: "Description", Width: 60},
}

// updateTableSize updates the table dimensions based on current view size.
func (w *Watchlist) updateTableSize() {
	tableHeight := max(w.height-2, 3)
	tableWidth := w.width - 4
	w.table.SetSize(tableWidth, tableHeight)
}

// updateTableRows converts the instrument list to table rows.
func (w *Watchlist) updateTableRows() {
	rows := make([]table.Row, 0, len(w.instruments))
	for _, inst := range w.instruments {
		rows = append(rows, table.Row{
			ID: inst.Symbol,
			Cells: []string{
				w.styles.Text.Render(inst.Symbol),
				w.styles.Muted.Render(inst.Description),
			},
		})
	}
	w.table.SetRows(rows)
	w.updateTableSize()
}

// renderInstrumentsBox renders the bordered box containing the table.
func (w *Watchlist) renderInstrumentsBox() string {
	meta := w.styles.MetricLabel.Render("instruments: ") + w.styles.MetricValue.Render(strconv.Itoa(len(w.instruments)))
	if !w.fetchedAt.IsZero() {
		meta += w.styles.MetricLabel.Render("  updated ") +
			w.styles.MetricValue.Render(format.DurationSince(w.fetchedAt)) +
			w.styles.MetricLabel.Render(" ago")
	}

	box := frame.New(
		frame.WithStyles(w.frameStyles),
		frame.WithTitle("Watchlist"),
		frame.WithFilter(w.filter),
		frame.WithTitlePadding(0),
		frame.WithMeta(meta),
		frame.WithContent(w.table.View()),
		frame.WithPadding(1),
		frame.WithSize(w.width, w.height),
		frame.WithMinHeight(5),
		frame.WithFocused(true),
	)
	return box.View()
}
