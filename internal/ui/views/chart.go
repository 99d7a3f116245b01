package views

import (
	"context"
	"math"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lazychart/lazychart/internal/devtools"
	"github.com/lazychart/lazychart/internal/market"
	"github.com/lazychart/lazychart/internal/mathutil"
	"github.com/lazychart/lazychart/internal/ui/components/candlechart"
	"github.com/lazychart/lazychart/internal/ui/components/frame"
	"github.com/lazychart/lazychart/internal/ui/components/metricchart"
	"github.com/lazychart/lazychart/internal/ui/components/metrics"
	"github.com/lazychart/lazychart/internal/ui/dialogs"
	inspectdialog "github.com/lazychart/lazychart/internal/ui/dialogs/inspect"
	"github.com/lazychart/lazychart/internal/ui/format"
	"github.com/lazychart/lazychart/internal/ui/paginate"
	"github.com/lazychart/lazychart/internal/ui/viewsync"
)

// defaultPageSize is the fetch size when the config does not set one.
const defaultPageSize = 300

// chartSeriesMsg carries one fetched candle page internally. Snapshots ride
// along when the fetch also refreshed the metric history.
type chartSeriesMsg struct {
	session int
	request int
	older   bool
	anchor  int64
	initial bool
	candles []market.Candle
	snaps   []market.Snapshot
}

// chartFetchErrMsg reports a failed fetch so the controller can return to
// idle before the error reaches the connection popup.
type chartFetchErrMsg struct {
	session int
	request int
	err     error
}

// chartSyncMsg runs the deferred initial sync after a data merge.
type chartSyncMsg struct {
	session int
}

// ChartConfig carries the configurable chart session parameters.
type ChartConfig struct {
	Instrument  string
	Granularity market.Granularity
	PageSize    int
	Refresh     time.Duration
}

// Chart shows the candlestick chart with the synchronized metric pane.
type Chart struct {
	api    market.API
	width  int
	height int
	styles Styles

	instrument  string
	granularity market.Granularity
	pageSize    int
	decimals    int

	session int
	ready   bool

	candles   []market.Candle
	snaps     []market.Snapshot
	resampled []market.Snapshot

	candlePane *candlechart.Model
	metricPane *metricchart.Model
	sync       *viewsync.Synchronizer
	paginator  paginate.Model
	refresh    paginate.AutoRefresh

	pendingRange *viewsync.LogicalRange
	unsubscribe  func()

	candleBoxHeight int
	metricBoxHeight int
	lineLegend      string
	frameStyles     frame.Styles
}

// NewChart creates a new Chart view.
func NewChart(api market.API, cfg ChartConfig) *Chart {
	lines := metricchart.DefaultLines()
	names := make([]string, len(lines))
	for i, line := range lines {
		names[i] = line.Name
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Chart{
		api:         api,
		instrument:  cfg.Instrument,
		granularity: cfg.Granularity,
		pageSize:    pageSize,
		decimals:    2,
		candlePane:  candlechart.New(candlechart.WithEmptyMessage("No candles")),
		metricPane:  metricchart.New(metricchart.WithEmptyMessage("No metrics")),
		sync:        viewsync.NewSynchronizer(),
		paginator:   paginate.New(),
		refresh:     paginate.NewAutoRefresh(cfg.Refresh),
		lineLegend:  strings.Join(names, ","),
	}
}

// Init implements View.
func (c *Chart) Init() tea.Cmd {
	if c.unsubscribe == nil {
		c.unsubscribe = c.candlePane.SubscribeVisibleLogicalRangeChange(c.recordRange)
	}
	return c.resetSession()
}

// Update implements View.
func (c *Chart) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case chartSeriesMsg:
		return c.handleSeries(msg)

	case chartFetchErrMsg:
		if msg.session != c.session {
			return c, nil
		}
		c.paginator = c.paginator.Resolve(msg.request)
		err := msg.err
		return c, func() tea.Msg {
			return ConnectionErrorMsg{Err: err}
		}

	case chartSyncMsg:
		if msg.session == c.session && c.sync.Attached() {
			c.sync.InitialSync()
		}
		return c, nil

	case paginate.DebounceMsg:
		return c.handleDebounce(msg)

	case paginate.RefreshMsg:
		return c.handleRefreshTick(msg)

	case RefreshMsg:
		if !c.ready {
			return c, c.fetchInitialCmd()
		}
		return c, c.requestNewerNow()

	case SelectInstrumentMsg:
		if msg.Symbol == "" || msg.Symbol == c.instrument {
			return c, nil
		}
		c.instrument = msg.Symbol
		return c, c.resetSession()

	case tea.KeyMsg:
		return c.handleKeys(msg)
	}

	return c, nil
}

func (c *Chart) handleKeys(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		if c.candlePane.CrosshairVisible() {
			c.candlePane.MoveCrosshair(-1)
		} else {
			c.candlePane.ScrollBy(-1)
		}

	case "l", "right":
		if c.candlePane.CrosshairVisible() {
			c.candlePane.MoveCrosshair(1)
		} else {
			c.candlePane.ScrollBy(1)
		}

	case "H", "shift+left":
		if c.candlePane.CrosshairVisible() {
			c.candlePane.MoveCrosshair(-10)
		} else {
			c.candlePane.ScrollBy(-10)
		}

	case "L", "shift+right":
		if c.candlePane.CrosshairVisible() {
			c.candlePane.MoveCrosshair(10)
		} else {
			c.candlePane.ScrollBy(10)
		}

	case "+", "=":
		c.candlePane.Zoom(0.8)

	case "-":
		c.candlePane.Zoom(1.25)

	case "f":
		c.candlePane.FitAll()

	case "e", "end":
		c.candlePane.ScrollToLive()

	case "x":
		if c.candlePane.CrosshairVisible() {
			c.candlePane.HideCrosshair()
		} else {
			c.candlePane.ShowCrosshair()
		}

	case "i", "enter":
		if !c.candlePane.CrosshairVisible() {
			c.candlePane.ShowCrosshair()
		}
		return c, tea.Batch(c.openInspectCmd(), c.drainRange())

	case "g":
		c.granularity = market.NextGranularity(c.granularity)
		return c, c.resetSession()

	case "r":
		if !c.ready {
			return c, c.fetchInitialCmd()
		}
		return c, c.requestNewerNow()

	case "a":
		if c.refresh.Enabled() {
			c.refresh = c.refresh.Disable()
			return c, nil
		}
		var cmd tea.Cmd
		c.refresh, cmd = c.refresh.Enable()
		return c, cmd
	}

	return c, c.drainRange()
}

// handleSeries applies one fetched page: staleness check, capture, merge,
// replace both panes, restore, deferred sync.
func (c *Chart) handleSeries(msg chartSeriesMsg) (View, tea.Cmd) {
	if msg.session != c.session {
		return c, nil
	}
	if msg.initial {
		return c.applyInitial(msg)
	}

	c.paginator = c.paginator.Resolve(msg.request)
	if msg.snaps != nil {
		c.snaps = msg.snaps
	}

	if msg.older {
		merged, ok := market.MergeOlder(c.candles, msg.candles, msg.anchor)
		if !ok {
			c.paginator = c.paginator.MarkOldestReached()
			return c, c.quoteCmd()
		}
		c.candles = merged
	} else {
		c.candles = market.MergeNewer(c.candles, msg.candles, msg.anchor)
	}

	captured, hasView := viewsync.Capture(c.candlePane)
	c.candlePane.SetCandles(c.candles)
	c.applyMetrics()
	if hasView {
		viewsync.Restore(c.candlePane, captured)
	} else {
		c.candlePane.FitAll()
	}

	return c, tea.Batch(c.deferredSyncCmd(), c.quoteCmd(), c.drainRange())
}

// applyInitial installs the first page of a session and fits the viewport.
func (c *Chart) applyInitial(msg chartSeriesMsg) (View, tea.Cmd) {
	c.candles = msg.candles
	c.snaps = msg.snaps
	c.decimals = priceDecimals(c.candles)
	c.ready = true

	c.candlePane.SetCandles(c.candles)
	c.applyMetrics()
	c.candlePane.FitAll()

	if !c.sync.Attached() {
		c.sync.Attach(c.candlePane, c.metricPane)
	}
	c.sync.InitialSync()

	var tick tea.Cmd
	c.refresh, tick = c.refresh.Enable()

	return c, tea.Batch(tick, c.quoteCmd(), c.drainRange())
}

func (c *Chart) handleDebounce(msg paginate.DebounceMsg) (View, tea.Cmd) {
	paginator, trigger, ok := c.paginator.Settled(msg, c.window())
	c.paginator = paginator
	if !ok {
		return c, nil
	}
	return c, c.fetchPageCmd(trigger)
}

func (c *Chart) handleRefreshTick(msg paginate.RefreshMsg) (View, tea.Cmd) {
	refresh, tick, fire := c.refresh.Next(msg, !c.paginator.Loading(), len(c.candles))
	c.refresh = refresh
	if !fire {
		return c, tick
	}
	paginator, trigger, ok := c.paginator.RequestNewer(c.window())
	c.paginator = paginator
	if !ok {
		return c, tick
	}
	return c, tea.Batch(tick, c.fetchPageCmd(trigger))
}

func (c *Chart) requestNewerNow() tea.Cmd {
	paginator, trigger, ok := c.paginator.RequestNewer(c.window())
	c.paginator = paginator
	if !ok {
		return nil
	}
	return c.fetchPageCmd(trigger)
}

// recordRange is the primary surface subscription. It only notes the change;
// the surrounding Update pass converts it into a debounce schedule, so
// programmatic restores and user scrolls funnel through the same path.
func (c *Chart) recordRange(r viewsync.LogicalRange) {
	c.pendingRange = &r
}

func (c *Chart) drainRange() tea.Cmd {
	if c.pendingRange == nil {
		return nil
	}
	r := *c.pendingRange
	c.pendingRange = nil
	var cmd tea.Cmd
	c.paginator, cmd = c.paginator.RangeChanged(r, c.candlePane.BarCount())
	return cmd
}

func (c *Chart) window() paginate.Window {
	w := paginate.Window{Total: len(c.candles)}
	if r, ok := c.candlePane.VisibleLogicalRange(); ok {
		w.Range = r
	}
	if from, to, ok := market.Span(c.candles); ok {
		w.Oldest = from
		w.Newest = to
	}
	return w
}

// applyMetrics resamples the snapshot history onto the current candle grid
// and hands both to the metric pane.
func (c *Chart) applyMetrics() {
	grid := market.Times(c.candles)
	c.resampled = market.Resample(c.snaps, grid)
	c.metricPane.SetData(grid, c.resampled)
}

// resetSession abandons the current series and starts a fresh fetch.
// Responses and timer ticks from the old session go stale.
func (c *Chart) resetSession() tea.Cmd {
	c.session++
	c.ready = false
	c.paginator = c.paginator.Reset()
	c.refresh = c.refresh.Disable()
	c.sync.Detach()
	c.candles = nil
	c.snaps = nil
	c.resampled = nil
	c.pendingRange = nil
	c.candlePane.SetCandles(nil)
	c.metricPane.SetData(nil, nil)
	return c.fetchInitialCmd()
}

// fetchInitialCmd fetches the most recent candles and the full metric
// history for the current instrument.
func (c *Chart) fetchInitialCmd() tea.Cmd {
	session := c.session
	instrument := c.instrument
	granularity := c.granularity
	count := c.pageSize
	api := c.api

	return func() tea.Msg {
		ctx := devtools.WithTracker(context.Background(), "chart.fetchInitialCmd")

		candles, err := api.Candles(ctx, market.CandleRequest{
			Instrument:  instrument,
			Granularity: granularity,
			Count:       count,
		})
		if err != nil {
			return chartFetchErrMsg{session: session, err: err}
		}

		snaps, err := api.Metrics(ctx, instrument)
		if err != nil {
			return chartFetchErrMsg{session: session, err: err}
		}

		return chartSeriesMsg{
			session: session,
			initial: true,
			candles: candles,
			snaps:   snaps,
		}
	}
}

// fetchPageCmd fetches one page on the side the trigger names. Newer fetches
// refresh the metric history opportunistically; a metrics failure there keeps
// the candle merge.
func (c *Chart) fetchPageCmd(t paginate.Trigger) tea.Cmd {
	session := c.session
	instrument := c.instrument
	granularity := c.granularity
	count := c.pageSize
	api := c.api

	return func() tea.Msg {
		ctx := devtools.WithTracker(context.Background(), "chart.fetchPageCmd")

		req := market.CandleRequest{
			Instrument:  instrument,
			Granularity: granularity,
			Count:       count,
		}
		if t.Older {
			req.Before = t.Anchor
		} else {
			req.After = t.Anchor
		}

		candles, err := api.Candles(ctx, req)
		if err != nil {
			return chartFetchErrMsg{session: session, request: t.RequestID, err: err}
		}

		msg := chartSeriesMsg{
			session: session,
			request: t.RequestID,
			older:   t.Older,
			anchor:  t.Anchor,
			candles: candles,
		}
		if !t.Older {
			if snaps, err := api.Metrics(ctx, instrument); err == nil {
				msg.snaps = snaps
			}
		}
		return msg
	}
}

func (c *Chart) deferredSyncCmd() tea.Cmd {
	session := c.session
	return func() tea.Msg {
		return chartSyncMsg{session: session}
	}
}

// quoteCmd publishes the quote bar summary for the loaded window.
func (c *Chart) quoteCmd() tea.Cmd {
	data := c.quoteData()
	return func() tea.Msg {
		return metrics.UpdateMsg{Data: data}
	}
}

func (c *Chart) quoteData() metrics.Data {
	d := metrics.Data{
		Instrument:  c.instrument,
		Granularity: c.granularity.String(),
		Bars:        len(c.candles),
		Decimals:    c.decimals,
		Live:        c.paginator.LiveEdge(),
	}
	if len(c.candles) == 0 {
		return d
	}

	last := c.candles[len(c.candles)-1]
	prev := last.Open
	if len(c.candles) > 1 {
		prev = c.candles[len(c.candles)-2].Close
	}

	d.Last = last.Close
	d.Change = last.Close - prev
	if prev != 0 {
		d.ChangePct = d.Change / prev * 100
	}

	d.High = c.candles[0].High
	d.Low = c.candles[0].Low
	for _, candle := range c.candles[1:] {
		d.High = math.Max(d.High, candle.High)
		d.Low = math.Min(d.Low, candle.Low)
	}
	return d
}

// openInspectCmd opens the point inspector for the crosshair candle.
func (c *Chart) openInspectCmd() tea.Cmd {
	candle, ok := c.candlePane.CrosshairCandle()
	if !ok {
		return nil
	}

	point := inspectdialog.Point{
		Instrument:  c.instrument,
		Granularity: c.granularity.String(),
		Candle:      candle,
		Snapshot:    c.snapshotAt(candle.Time),
		Decimals:    c.decimals,
		Live:        len(c.candles) > 0 && candle.Time == c.candles[len(c.candles)-1].Time,
	}
	model := inspectdialog.New(
		inspectdialog.WithStyles(inspectStylesFromTheme(c.styles)),
		inspectdialog.WithPoint(point),
	)

	return func() tea.Msg {
		return dialogs.OpenDialogMsg{Model: model}
	}
}

// snapshotAt returns the resampled snapshot for the given grid time.
func (c *Chart) snapshotAt(ts int64) *market.Snapshot {
	for i := range c.resampled {
		if c.resampled[i].T == ts {
			s := c.resampled[i]
			return &s
		}
	}
	return nil
}

// View implements View.
func (c *Chart) View() string {
	if c.width <= 0 || c.height <= 0 {
		return ""
	}
	if !c.ready {
		return renderStatusMessage("Chart", "Loading...", c.styles, c.width, c.height)
	}

	candleBox := frame.New(
		frame.WithStyles(c.frameStyles),
		frame.WithTitle(c.instrument),
		frame.WithFilter(c.granularity.String()),
		frame.WithTitlePadding(0),
		frame.WithMeta(c.candleMeta()),
		frame.WithContent(c.candlePane.View()),
		frame.WithPadding(1),
		frame.WithSize(c.width, c.candleBoxHeight),
		frame.WithMinHeight(5),
		frame.WithFocused(true),
	)
	if c.metricBoxHeight == 0 {
		return candleBox.View()
	}

	metricBox := frame.New(
		frame.WithStyles(c.frameStyles),
		frame.WithTitle("Metrics"),
		frame.WithFilter(c.lineLegend),
		frame.WithTitlePadding(0),
		frame.WithMeta(c.metricMeta()),
		frame.WithContent(c.metricPane.View()),
		frame.WithPadding(1),
		frame.WithSize(c.width, c.metricBoxHeight),
		frame.WithMinHeight(4),
	)

	return lipgloss.JoinVertical(lipgloss.Left, candleBox.View(), metricBox.View())
}

func (c *Chart) candleMeta() string {
	if c.paginator.Loading() {
		return c.styles.MetricLabel.Render(c.paginator.State().String())
	}
	if c.paginator.LiveEdge() {
		return c.styles.MetricValue.Render("live")
	}
	if c.paginator.ReachedOldest() {
		if r, ok := c.candlePane.VisibleLogicalRange(); ok && r.From < 1 {
			return c.styles.MetricLabel.Render("start of history")
		}
	}
	return c.styles.MetricLabel.Render("bars: ") + c.styles.MetricValue.Render(format.Comma(int64(len(c.candles))))
}

func (c *Chart) metricMeta() string {
	if !c.refresh.Enabled() {
		return c.styles.MetricLabel.Render("auto: ") + c.styles.Muted.Render("off")
	}
	return c.styles.MetricLabel.Render("auto: ") + c.styles.MetricValue.Render(c.refresh.Interval().String())
}

// Name implements View.
func (c *Chart) Name() string {
	return "Chart"
}

// ShortHelp implements View.
func (c *Chart) ShortHelp() []key.Binding {
	return nil
}

// ContextItems implements ContextProvider.
func (c *Chart) ContextItems() []ContextItem {
	items := []ContextItem{
		{Label: "Instrument", Value: c.instrument},
		{Label: "Granularity", Value: c.granularity.String()},
	}
	if tr, ok := c.candlePane.VisibleTimeRange(); ok {
		items = append(items,
			ContextItem{Label: "Window", Value: format.Time(tr.From) + " .. " + format.Time(tr.To)},
			ContextItem{Label: "Span", Value: format.Duration(tr.To - tr.From)},
		)
	}
	if c.paginator.Loading() {
		items = append(items, ContextItem{Label: "Fetch", Value: c.paginator.State().String()})
	}
	return items
}

// HintBindings implements HintProvider.
func (c *Chart) HintBindings() []key.Binding {
	return []key.Binding{
		helpBinding([]string{"x"}, "x", "crosshair"),
		helpBinding([]string{"g"}, "g", "granularity"),
		helpBinding([]string{"r"}, "r", "refresh"),
	}
}

// HelpSections implements HelpProvider.
func (c *Chart) HelpSections() []HelpSection {
	return []HelpSection{
		{
			Title: "Chart Navigation",
			Bindings: []key.Binding{
				helpBinding([]string{"h", "left"}, "h/←", "pan left"),
				helpBinding([]string{"l", "right"}, "l/→", "pan right"),
				helpBinding([]string{"H"}, "H", "pan left by 10"),
				helpBinding([]string{"L"}, "L", "pan right by 10"),
				helpBinding([]string{"+", "="}, "+", "zoom in"),
				helpBinding([]string{"-"}, "-", "zoom out"),
				helpBinding([]string{"f"}, "f", "fit all candles"),
				helpBinding([]string{"e", "end"}, "e", "jump to live edge"),
			},
		},
		{
			Title: "Chart Data",
			Bindings: []key.Binding{
				helpBinding([]string{"x"}, "x", "toggle crosshair"),
				helpBinding([]string{"i", "enter"}, "i", "inspect point"),
				helpBinding([]string{"g"}, "g", "cycle granularity"),
				helpBinding([]string{"r"}, "r", "refresh now"),
				helpBinding([]string{"a"}, "a", "toggle auto-refresh"),
			},
		},
		{
			Title: "Granularities",
			Lines: []string{strings.Join(market.GranularityOrder, " → ")},
		},
	}
}

// SetSize implements View.
func (c *Chart) SetSize(width, height int) View {
	c.width = width
	c.height = height

	c.metricBoxHeight = 0
	if height >= 14 {
		c.metricBoxHeight = mathutil.Clamp(height*3/10, 6, 12)
	}
	c.candleBoxHeight = height - c.metricBoxHeight

	c.candlePane.SetSize(max(width-4, 0), max(c.candleBoxHeight-2, 2))
	c.metricPane.SetSize(max(width-4, 0), max(c.metricBoxHeight-2, 2))
	return c
}

// SetStyles implements View.
func (c *Chart) SetStyles(styles Styles) View {
	c.styles = styles
	c.frameStyles = frameStylesFromTheme(styles)
	c.candlePane.SetStyles(candleStylesFromTheme(styles))
	c.metricPane.SetStyles(metricStylesFromTheme(styles))

	lines := metricchart.DefaultLines()
	lineStyles := []lipgloss.Style{styles.LinePrimary, styles.LineSecondary}
	for i := range lines {
		if i < len(lineStyles) {
			lines[i].Style = lineStyles[i]
		}
	}
	c.metricPane.SetLines(lines...)
	return c
}

// Dispose tears down the session timers and subscriptions when the user
// switches away. Stale ticks and in-flight responses die on the session
// check.
func (c *Chart) Dispose() {
	c.session++
	c.paginator = c.paginator.Reset()
	c.refresh = c.refresh.Disable()
	c.sync.Detach()
	c.pendingRange = nil
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// priceDecimals picks the display precision from the newest close. Prices
// from one up use cents; sub-one prices keep two significant decimals.
func priceDecimals(cs []market.Candle) int {
	if len(cs) == 0 {
		return 2
	}
	last := math.Abs(cs[len(cs)-1].Close)
	if last >= 1 || last == 0 {
		return 2
	}
	return min(format.PriceDecimals(last)+2, 8)
}
