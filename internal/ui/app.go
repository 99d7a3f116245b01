// Package ui renders the Bubble Tea application UI.
package ui

import (
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lazychart/lazychart/internal/devtools"
	"github.com/lazychart/lazychart/internal/market"
	"github.com/lazychart/lazychart/internal/ui/components/contextbar"
	"github.com/lazychart/lazychart/internal/ui/components/errorpopup"
	"github.com/lazychart/lazychart/internal/ui/components/metrics"
	"github.com/lazychart/lazychart/internal/ui/components/navbar"
	"github.com/lazychart/lazychart/internal/ui/dialogs"
	helpdialog "github.com/lazychart/lazychart/internal/ui/dialogs/help"
	"github.com/lazychart/lazychart/internal/ui/theme"
	"github.com/lazychart/lazychart/internal/ui/views"
)

// refreshInterval is the cadence of the housekeeping tick broadcast to the
// non-chart views. The chart view runs its own auto-refresh cycle.
const refreshInterval = 15 * time.Second

const contextBarHeight = 4

// tickMsg drives the housekeeping refresh.
type tickMsg time.Time

// Options carries everything the application shell needs to run.
type Options struct {
	API     market.API
	Tracker *devtools.Tracker
	Cache   *market.PageCache
	Chart   views.ChartConfig
	Version string

	// DangerousActions enables mutating operations such as clearing the
	// request log or running cache console commands.
	DangerousActions bool
}

// App is the main application model.
type App struct {
	keys             KeyMap
	width            int
	height           int
	ready            bool
	activeView       int
	views            []views.View
	metrics          metrics.Model
	contextbar       contextbar.Model
	navbar           navbar.Model
	errorPopup       errorpopup.Model
	dialogs          dialogs.DialogCmp
	styles           theme.Styles
	dangerousActions bool
	connectionError  error
}

// New creates a new App instance.
func New(opts Options) App {
	styles := theme.NewStyles()

	chartView := views.NewChart(opts.API, opts.Chart)
	requestsView := views.NewRequests(opts.Tracker, opts.Cache)
	requestsView.SetDangerousActionsEnabled(opts.DangerousActions)

	viewList := []views.View{
		chartView,
		views.NewWatchlist(opts.API),
		requestsView,
	}

	viewStyles := views.Styles{
		Text:            styles.ViewText,
		Muted:           styles.ViewMuted,
		Title:           styles.ViewTitle,
		MetricLabel:     styles.MetricLabel,
		MetricValue:     styles.MetricValue,
		TableHeader:     styles.TableHeader,
		TableSelected:   styles.TableSelected,
		TableSeparator:  styles.TableSeparator,
		BorderStyle:     styles.BorderStyle,
		FocusBorder:     styles.FocusBorder,
		FilterFocused:   styles.FilterFocused,
		FilterBlurred:   styles.FilterBlurred,
		ScrollbarTrack:  styles.ScrollbarTrack,
		ScrollbarThumb:  styles.ScrollbarThumb,
		DangerAction:    styles.DangerAction,
		NeutralAction:   styles.NeutralAction,
		JSONKey:         styles.JSONKey,
		JSONString:      styles.JSONString,
		JSONNumber:      styles.JSONNumber,
		JSONBool:        styles.JSONBool,
		JSONNull:        styles.JSONNull,
		JSONPunctuation: styles.JSONPunctuation,
		CandleBull:      styles.CandleBull,
		CandleBear:      styles.CandleBear,
		ChartMuted:      styles.ChartMuted,
		ChartCrosshair:  styles.ChartCrosshair,
		ChartAxis:       styles.ChartAxis,
		ChartLabel:      styles.ChartLabel,
		LinePrimary:     styles.LinePrimary,
		LineSecondary:   styles.LineSecondary,
	}
	for i := range viewList {
		viewList[i] = viewList[i].SetStyles(viewStyles)
	}

	navViews := make([]navbar.ViewInfo, len(viewList))
	for i, v := range viewList {
		navViews[i] = navbar.ViewInfo{Name: v.Name()}
	}

	keys := DefaultKeyMap()
	brand := "lazychart"
	if opts.Version != "" {
		brand += " " + opts.Version
	}

	return App{
		keys:       keys,
		activeView: 0,
		views:      viewList,
		metrics: metrics.New(
			metrics.WithStyles(metrics.Styles{
				Bar:   styles.MetricsBar,
				Fill:  styles.MetricsFill,
				Label: styles.MetricsLabel,
				Value: styles.MetricsValue,
				Up:    styles.MetricsUp,
				Down:  styles.MetricsDown,
				Live:  styles.MetricsLive,
			}),
		),
		contextbar: contextbar.New(
			contextbar.WithStyles(contextbar.Styles{
				Bar:       styles.BoxPadding,
				Label:     styles.MetricLabel,
				Value:     styles.ViewText,
				Muted:     styles.ViewMuted,
				Key:       styles.NavKey,
				DangerKey: styles.DangerAction,
				Desc:      styles.ViewMuted,
			}),
			contextbar.WithHeight(contextBarHeight),
		),
		navbar: navbar.New(
			navbar.WithStyles(navbar.Styles{
				Bar:   styles.NavBar,
				Brand: styles.ViewMuted,
				Key:   styles.NavKey,
				Item:  styles.NavItem,
				Quit:  styles.NavQuit,
			}),
			navbar.WithViews(navViews),
			navbar.WithBrand(brand),
			navbar.WithHelp(keys.Help),
		),
		errorPopup: errorpopup.New(
			errorpopup.WithStyles(errorpopup.Styles{
				Title:   styles.ErrorTitle,
				Message: styles.ViewMuted,
				Border:  styles.ErrorBorder,
			}),
		),
		dialogs:          dialogs.NewDialogCmp(),
		styles:           styles,
		dangerousActions: opts.DangerousActions,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.views[a.activeView].Init(),
		a.metrics.Init(),
		a.dialogs.Init(),
		tickCmd(),
	)
}

// tickCmd returns the housekeeping tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		// The chart view owns its refresh cadence; everyone else gets the
		// housekeeping broadcast.
		if _, ok := a.views[a.activeView].(*views.Chart); !ok {
			updatedView, cmd := a.views[a.activeView].Update(views.RefreshMsg{})
			a.views[a.activeView] = updatedView
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, tickCmd())

	case views.ConnectionErrorMsg:
		a.connectionError = msg.Err

	case views.SelectInstrumentMsg:
		// The watchlist picked an instrument: bring up the chart on it.
		cmds = append(cmds, a.switchView(0))
		updatedView, cmd := a.views[a.activeView].Update(msg)
		a.views[a.activeView] = updatedView
		cmds = append(cmds, cmd)

	case dialogs.OpenDialogMsg, dialogs.CloseDialogMsg:
		updatedDialogs, cmd := a.dialogs.Update(msg)
		a.dialogs = updatedDialogs
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		return a.handleKeys(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true

		a.metrics.SetWidth(msg.Width)
		a.contextbar.SetWidth(msg.Width)
		a.navbar.SetWidth(msg.Width)

		contentHeight := a.contentHeight()
		for i := range a.views {
			a.views[i] = a.views[i].SetSize(msg.Width, contentHeight)
		}
		a.errorPopup.SetSize(msg.Width, contentHeight)

		updatedDialogs, cmd := a.dialogs.Update(msg)
		a.dialogs = updatedDialogs
		cmds = append(cmds, cmd)

	default:
		// A fresh quote means the last fetch succeeded.
		if _, ok := msg.(metrics.UpdateMsg); ok {
			a.connectionError = nil
		}

		updatedMetrics, cmd := a.metrics.Update(msg)
		a.metrics = updatedMetrics
		cmds = append(cmds, cmd)

		if a.dialogs.HasDialogs() {
			updatedDialogs, cmd := a.dialogs.Update(msg)
			a.dialogs = updatedDialogs
			cmds = append(cmds, cmd)
		}

		updatedView, cmd := a.views[a.activeView].Update(msg)
		a.views[a.activeView] = updatedView
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

func (a App) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An open dialog owns the keyboard.
	if a.dialogs.HasDialogs() {
		updatedDialogs, cmd := a.dialogs.Update(msg)
		a.dialogs = updatedDialogs
		return a, cmd
	}

	// So does a focused text input on the active view.
	if view, ok := a.views[a.activeView].(interface{ InputFocused() bool }); ok && view.InputFocused() {
		updatedView, cmd := a.views[a.activeView].Update(msg)
		a.views[a.activeView] = updatedView
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		return a, a.openHelp()

	case key.Matches(msg, a.keys.View1):
		return a, a.switchView(0)

	case key.Matches(msg, a.keys.View2):
		return a, a.switchView(1)

	case key.Matches(msg, a.keys.View3):
		return a, a.switchView(2)
	}

	if msg.String() == "esc" && a.connectionError != nil {
		a.connectionError = nil
		return a, nil
	}

	updatedView, cmd := a.views[a.activeView].Update(msg)
	a.views[a.activeView] = updatedView
	return a, cmd
}

// switchView disposes the current view's timers and subscriptions and
// initializes the target view.
func (a *App) switchView(index int) tea.Cmd {
	if index < 0 || index >= len(a.views) || index == a.activeView {
		return nil
	}
	if disposable, ok := a.views[a.activeView].(views.Disposable); ok {
		disposable.Dispose()
	}
	a.activeView = index
	return a.views[a.activeView].Init()
}

// openHelp builds the help dialog from the active view's sections plus the
// global bindings.
func (a App) openHelp() tea.Cmd {
	sections := []helpdialog.Section{{
		Title: "Views",
		Bindings: []key.Binding{
			a.keys.View1,
			a.keys.View2,
			a.keys.View3,
			a.keys.Help,
			a.keys.Quit,
		},
	}}

	if provider, ok := a.views[a.activeView].(views.HelpProvider); ok {
		for _, section := range provider.HelpSections() {
			sections = append(sections, helpdialog.Section{
				Title:    section.Title,
				Bindings: section.Bindings,
				Lines:    section.Lines,
			})
		}
	}
	if provider, ok := a.views[a.activeView].(views.TableHelpProvider); ok {
		sections = append(sections, helpdialog.Section{
			Title:    "Table Navigation",
			Bindings: provider.TableHelp(),
		})
	}

	model := helpdialog.New(
		helpdialog.WithStyles(helpdialog.Styles{
			Title:   a.styles.ViewTitle,
			Border:  a.styles.FocusBorder,
			Section: a.styles.MetricValue,
			Key:     a.styles.NavKey,
			Desc:    a.styles.ViewText,
			Muted:   a.styles.ViewMuted,
		}),
		helpdialog.WithSections(sections),
	)
	return func() tea.Msg {
		return dialogs.OpenDialogMsg{Model: model}
	}
}

func (a App) contentHeight() int {
	return max(a.height-a.metrics.Height()-a.contextbar.Height()-a.navbar.Height(), 0)
}

// syncContextBar rebuilds the context bar from the active view.
func (a *App) syncContextBar() {
	var items []contextbar.Item
	if provider, ok := a.views[a.activeView].(views.ContextProvider); ok {
		for _, item := range provider.ContextItems() {
			items = append(items, contextbar.KeyValueItem{Label: item.Label, Value: item.Value})
		}
	}

	var hints []contextbar.Hint
	if provider, ok := a.views[a.activeView].(views.HintProvider); ok {
		for _, binding := range provider.HintBindings() {
			hints = append(hints, contextbar.Hint{Binding: binding})
		}
	}
	if provider, ok := a.views[a.activeView].(views.MutationHintProvider); ok && a.dangerousActions {
		for _, binding := range provider.MutationBindings() {
			hints = append(hints, contextbar.Hint{Binding: binding, Kind: contextbar.HintDanger})
		}
	}
	hints = append(hints, contextbar.Hint{Binding: a.keys.Help})

	a.contextbar.SetItems(items)
	a.contextbar.SetHints(hints)
}

// View implements tea.Model.
func (a App) View() tea.View {
	var v tea.View
	v.AltScreen = true

	if !a.ready {
		v.SetContent("Initializing...")
		return v
	}

	a.syncContextBar()
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		a.metrics.View(),
		a.contextbar.View(),
		a.views[a.activeView].View(),
		a.navbar.View(),
	)

	layers := []*lipgloss.Layer{lipgloss.NewLayer(content).X(0).Y(0).Z(0)}
	layers = append(layers, a.dialogs.GetLayers()...)

	if a.connectionError != nil {
		a.errorPopup.SetMessage(a.connectionError.Error())
		if popup := a.errorPopup.View(); popup != "" {
			row := a.metrics.Height() + a.contextbar.Height() +
				max((a.contentHeight()-lipgloss.Height(popup))/2, 0)
			col := max((a.width-lipgloss.Width(popup))/2, 0)
			layers = append(layers, lipgloss.NewLayer(popup).X(col).Y(row).Z(100))
		}
	}

	if len(layers) == 1 {
		v.SetContent(content)
		return v
	}
	v.SetContent(lipgloss.NewCanvas(layers...).Render())
	return v
}
