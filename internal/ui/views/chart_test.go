package views

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/lazychart/lazychart/internal/market"
	"github.com/lazychart/lazychart/internal/ui/components/metrics"
	"github.com/lazychart/lazychart/internal/ui/dialogs"
	inspectdialog "github.com/lazychart/lazychart/internal/ui/dialogs/inspect"
	"github.com/lazychart/lazychart/internal/ui/format"
	"github.com/lazychart/lazychart/internal/ui/paginate"
)

const chartTestStart int64 = 1_700_000_000

func keyCode(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

func keyText(text string) tea.KeyPressMsg {
	var code rune
	for _, r := range text {
		code = r
		break
	}
	return tea.KeyPressMsg(tea.Key{Text: text, Code: code})
}

type chartAPIStub struct {
	market.API
	reqs         []market.CandleRequest
	pages        func(req market.CandleRequest) []market.Candle
	err          error
	snaps        []market.Snapshot
	metricsErr   error
	metricsCalls []string
}

func (s *chartAPIStub) Candles(_ context.Context, req market.CandleRequest) ([]market.Candle, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	if s.pages == nil {
		return nil, nil
	}
	return s.pages(req), nil
}

func (s *chartAPIStub) Metrics(_ context.Context, id string) ([]market.Snapshot, error) {
	s.metricsCalls = append(s.metricsCalls, id)
	if s.metricsErr != nil {
		return nil, s.metricsErr
	}
	return append([]market.Snapshot(nil), s.snaps...), nil
}

func (s *chartAPIStub) DisplayBaseURL() string {
	return "http://localhost:8087"
}

func testCandles(n int, start, step int64) []market.Candle {
	cs := make([]market.Candle, n)
	for i := range cs {
		base := float64(i%7) + 1
		cs[i] = market.Candle{
			Time:  start + int64(i)*step,
			Open:  base,
			High:  base + 0.5,
			Low:   base - 0.5,
			Close: base + 0.25,
		}
	}
	return cs
}

func testSnaps(times ...int64) []market.Snapshot {
	snaps := make([]market.Snapshot, len(times))
	for i, ts := range times {
		v := float64(i) + 0.5
		snaps[i] = market.Snapshot{T: ts, MR: &v, ATR: &v}
	}
	return snaps
}

// chartStubFor answers the three fetch shapes by request side.
func chartStubFor(initial, older, newer []market.Candle) *chartAPIStub {
	return &chartAPIStub{
		pages: func(req market.CandleRequest) []market.Candle {
			switch {
			case req.Before != 0:
				return older
			case req.After != 0:
				return newer
			default:
				return initial
			}
		},
	}
}

func updateChart(t *testing.T, c *Chart, msg tea.Msg) (*Chart, tea.Cmd) {
	t.Helper()
	next, cmd := c.Update(msg)
	updated, ok := next.(*Chart)
	if !ok {
		t.Fatalf("Update returned %T, want *Chart", next)
	}
	return updated, cmd
}

// loadedChart runs Init and applies the initial page.
func loadedChart(t *testing.T, stub *chartAPIStub) *Chart {
	t.Helper()
	c := NewChart(stub, ChartConfig{
		Instrument:  "EUR_USD",
		Granularity: market.Granularity1h,
		PageSize:    50,
		Refresh:     time.Minute,
	})
	c.SetSize(100, 30)

	cmd := c.Init()
	if cmd == nil {
		t.Fatal("Init returned nil command")
	}
	c, _ = updateChart(t, c, cmd())
	if !c.ready {
		t.Fatal("chart not ready after initial load")
	}
	return c
}

func TestChartInitialLoadFitsAndGoesLive(t *testing.T) {
	t.Parallel()

	initial := testCandles(40, chartTestStart, 3600)
	stub := chartStubFor(initial, nil, nil)
	stub.snaps = testSnaps(chartTestStart, chartTestStart+10*3600)

	c := NewChart(stub, ChartConfig{
		Instrument:  "EUR_USD",
		Granularity: market.Granularity1h,
		PageSize:    50,
		Refresh:     time.Minute,
	})
	c.SetSize(100, 30)

	cmd := c.Init()
	if cmd == nil {
		t.Fatal("Init returned nil command")
	}
	msg := cmd()
	series, ok := msg.(chartSeriesMsg)
	if !ok {
		t.Fatalf("initial fetch message = %T, want chartSeriesMsg", msg)
	}
	if !series.initial {
		t.Fatal("initial fetch message not marked initial")
	}

	if len(stub.reqs) != 1 {
		t.Fatalf("candle requests = %d, want 1", len(stub.reqs))
	}
	req := stub.reqs[0]
	if req.Instrument != "EUR_USD" || req.Granularity != market.Granularity1h {
		t.Fatalf("initial request = %+v", req)
	}
	if req.Count != 50 {
		t.Fatalf("initial request count = %d, want 50", req.Count)
	}
	if req.Before != 0 || req.After != 0 {
		t.Fatalf("initial request must be unbounded, got %+v", req)
	}
	if len(stub.metricsCalls) != 1 || stub.metricsCalls[0] != "EUR_USD" {
		t.Fatalf("metrics calls = %v, want [EUR_USD]", stub.metricsCalls)
	}

	c, batch := updateChart(t, c, msg)
	if batch == nil {
		t.Fatal("initial apply returned nil command")
	}
	if !c.ready {
		t.Fatal("ready = false after initial apply")
	}
	if len(c.candles) != 40 {
		t.Fatalf("candles = %d, want 40", len(c.candles))
	}
	if len(c.resampled) != 40 {
		t.Fatalf("resampled snapshots = %d, want 40", len(c.resampled))
	}

	r, ok := c.candlePane.VisibleLogicalRange()
	if !ok {
		t.Fatal("no visible range after initial apply")
	}
	if r.From != 0 || r.To != 39 {
		t.Fatalf("visible range = [%v, %v], want [0, 39]", r.From, r.To)
	}

	if !c.paginator.LiveEdge() {
		t.Fatal("live edge not detected after fitting the full series")
	}
	if !c.refresh.Enabled() {
		t.Fatal("auto-refresh not enabled after initial load")
	}
}

func TestChartLeftEdgeBackfillPreservesViewport(t *testing.T) {
	t.Parallel()

	initial := testCandles(40, chartTestStart, 3600)
	older := testCandles(20, chartTestStart-20*3600, 3600)
	stub := chartStubFor(initial, older, nil)

	c := loadedChart(t, stub)

	before, ok := c.candlePane.VisibleTimeRange()
	if !ok {
		t.Fatal("no visible time range after load")
	}

	// Reset and the fit-all drain each bump the debounce generation once.
	c, fetch := updateChart(t, c, paginate.DebounceMsg{Generation: 2})
	if fetch == nil {
		t.Fatal("settled left edge produced no fetch")
	}
	if c.paginator.State() != paginate.LoadingOlder {
		t.Fatalf("state = %v, want %v", c.paginator.State(), paginate.LoadingOlder)
	}

	msg := fetch()
	series, ok := msg.(chartSeriesMsg)
	if !ok {
		t.Fatalf("page fetch message = %T, want chartSeriesMsg", msg)
	}
	if !series.older || series.anchor != chartTestStart {
		t.Fatalf("older page anchor = %d (older=%v), want %d", series.anchor, series.older, chartTestStart)
	}
	pageReq := stub.reqs[len(stub.reqs)-1]
	if pageReq.Before != chartTestStart || pageReq.After != 0 {
		t.Fatalf("older page request = %+v, want Before=%d", pageReq, chartTestStart)
	}

	c, _ = updateChart(t, c, msg)
	if c.paginator.Loading() {
		t.Fatalf("state = %v, want idle after merge", c.paginator.State())
	}
	if len(c.candles) != 60 {
		t.Fatalf("candles = %d, want 60", len(c.candles))
	}
	if c.candles[0].Time != chartTestStart-20*3600 {
		t.Fatalf("oldest candle = %d, want %d", c.candles[0].Time, chartTestStart-20*3600)
	}

	after, ok := c.candlePane.VisibleTimeRange()
	if !ok {
		t.Fatal("no visible time range after merge")
	}
	if after != before {
		t.Fatalf("visible time range moved: %+v -> %+v", before, after)
	}
}

func TestChartEmptyOlderPageLatchesHistoryStart(t *testing.T) {
	t.Parallel()

	initial := testCandles(40, chartTestStart, 3600)
	c := loadedChart(t, chartStubFor(initial, nil, nil))

	c, cmd := updateChart(t, c, chartSeriesMsg{
		session: c.session,
		request: 7,
		older:   true,
		anchor:  chartTestStart,
	})
	if !c.paginator.ReachedOldest() {
		t.Fatal("empty older page did not latch reachedOldest")
	}
	if len(c.candles) != 40 {
		t.Fatalf("candles = %d, want 40 untouched", len(c.candles))
	}

	if cmd == nil {
		t.Fatal("expected quote update command")
	}
	quote, ok := cmd().(metrics.UpdateMsg)
	if !ok {
		t.Fatalf("message = %T, want metrics.UpdateMsg", cmd())
	}
	if quote.Data.Bars != 40 {
		t.Fatalf("quote bars = %d, want 40", quote.Data.Bars)
	}

	// With the left boundary exhausted, the same settled window falls through
	// to the right edge.
	c, fetch := updateChart(t, c, paginate.DebounceMsg{Generation: 2})
	if fetch == nil {
		t.Fatal("settled window produced no fetch after latch")
	}
	if c.paginator.State() != paginate.LoadingNewer {
		t.Fatalf("state = %v, want %v", c.paginator.State(), paginate.LoadingNewer)
	}
}

func TestChartManualRefreshMergesNewer(t *testing.T) {
	t.Parallel()

	initial := testCandles(40, chartTestStart, 3600)
	newest := chartTestStart + 39*3600
	newer := testCandles(5, newest+3600, 3600)

	stub := chartStubFor(initial, nil, newer)
	stub.snaps = testSnaps(chartTestStart)
	c := loadedChart(t, stub)

	before, _ := c.candlePane.VisibleTimeRange()

	c, fetch := updateChart(t, c, keyText("r"))
	if fetch == nil {
		t.Fatal("manual refresh produced no fetch")
	}
	if c.paginator.State() != paginate.LoadingNewer {
		t.Fatalf("state = %v, want %v", c.paginator.State(), paginate.LoadingNewer)
	}

	msg := fetch()
	series, ok := msg.(chartSeriesMsg)
	if !ok {
		t.Fatalf("page fetch message = %T, want chartSeriesMsg", msg)
	}
	if series.older || series.anchor != newest {
		t.Fatalf("newer page anchor = %d (older=%v), want %d", series.anchor, series.older, newest)
	}
	if series.snaps == nil {
		t.Fatal("newer fetch did not refresh metric history")
	}
	pageReq := stub.reqs[len(stub.reqs)-1]
	if pageReq.After != newest || pageReq.Before != 0 {
		t.Fatalf("newer page request = %+v, want After=%d", pageReq, newest)
	}

	c, _ = updateChart(t, c, msg)
	if c.paginator.Loading() {
		t.Fatalf("state = %v, want idle after merge", c.paginator.State())
	}
	if len(c.candles) != 45 {
		t.Fatalf("candles = %d, want 45", len(c.candles))
	}
	if got := c.candles[len(c.candles)-1].Time; got != newest+5*3600 {
		t.Fatalf("newest candle = %d, want %d", got, newest+5*3600)
	}

	after, _ := c.candlePane.VisibleTimeRange()
	if after != before {
		t.Fatalf("visible time range moved: %+v -> %+v", before, after)
	}
}

func TestChartGranularityResetDropsStaleSession(t *testing.T) {
	t.Parallel()

	initial := testCandles(40, chartTestStart, 3600)
	stub := chartStubFor(initial, nil, nil)
	c := loadedChart(t, stub)
	oldSession := c.session

	c, fetch := updateChart(t, c, keyText("g"))
	if c.granularity != market.Granularity4h {
		t.Fatalf("granularity = %v, want %v", c.granularity, market.Granularity4h)
	}
	if c.session == oldSession {
		t.Fatal("session not bumped on granularity change")
	}
	if c.ready {
		t.Fatal("ready not cleared on granularity change")
	}
	if c.refresh.Enabled() {
		t.Fatal("auto-refresh not stopped on granularity change")
	}

	if fetch == nil {
		t.Fatal("granularity change produced no fetch")
	}
	fetch()
	req := stub.reqs[len(stub.reqs)-1]
	if req.Granularity != market.Granularity4h {
		t.Fatalf("refetch granularity = %v, want %v", req.Granularity, market.Granularity4h)
	}

	// A response stamped with the abandoned session must be dropped.
	c, _ = updateChart(t, c, chartSeriesMsg{
		session: oldSession,
		initial: true,
		candles: testCandles(10, chartTestStart, 3600),
	})
	if c.ready {
		t.Fatal("stale session message applied")
	}
	if c.candles != nil {
		t.Fatalf("candles = %d, want none", len(c.candles))
	}
}

func TestChartSelectInstrumentResets(t *testing.T) {
	t.Parallel()

	initial := testCandles(40, chartTestStart, 3600)
	stub := chartStubFor(initial, nil, nil)
	c := loadedChart(t, stub)
	oldSession := c.session

	c, cmd := updateChart(t, c, SelectInstrumentMsg{Symbol: "EUR_USD"})
	if cmd != nil || c.session != oldSession {
		t.Fatal("selecting the current instrument must not restart the session")
	}

	c, cmd = updateChart(t, c, SelectInstrumentMsg{Symbol: "GBP_JPY"})
	if cmd == nil {
		t.Fatal("instrument change produced no fetch")
	}
	if c.session == oldSession {
		t.Fatal("session not bumped on instrument change")
	}
	cmd()
	req := stub.reqs[len(stub.reqs)-1]
	if req.Instrument != "GBP_JPY" {
		t.Fatalf("refetch instrument = %q, want %q", req.Instrument, "GBP_JPY")
	}
}

func TestChartFetchErrorResolvesAndReports(t *testing.T) {
	t.Parallel()

	initial := testCandles(40, chartTestStart, 3600)
	stub := chartStubFor(initial, nil, nil)
	c := loadedChart(t, stub)

	c, fetch := updateChart(t, c, keyText("r"))
	if fetch == nil {
		t.Fatal("manual refresh produced no fetch")
	}

	sentinel := errors.New("market offline")
	stub.err = sentinel
	msg := fetch()
	fetchErr, ok := msg.(chartFetchErrMsg)
	if !ok {
		t.Fatalf("message = %T, want chartFetchErrMsg", msg)
	}

	c, cmd := updateChart(t, c, fetchErr)
	if c.paginator.Loading() {
		t.Fatalf("state = %v, want idle after failed fetch", c.paginator.State())
	}
	if cmd == nil {
		t.Fatal("failed fetch produced no error report")
	}
	conn, ok := cmd().(ConnectionErrorMsg)
	if !ok {
		t.Fatalf("message = %T, want ConnectionErrorMsg", cmd())
	}
	if !errors.Is(conn.Err, sentinel) {
		t.Fatalf("error = %v, want %v", conn.Err, sentinel)
	}
}

func TestChartQuoteData(t *testing.T) {
	t.Parallel()

	fixture := []market.Candle{
		{Time: 100, Open: 10, High: 15, Low: 9, Close: 12},
		{Time: 200, Open: 12, High: 18, Low: 11, Close: 14},
		{Time: 300, Open: 14, High: 16, Low: 8, Close: 13},
	}
	stub := chartStubFor(fixture, nil, nil)
	c := loadedChart(t, stub)

	d := c.quoteData()
	if d.Instrument != "EUR_USD" || d.Granularity != "1h" {
		t.Fatalf("quote identity = %q %q", d.Instrument, d.Granularity)
	}
	if d.Bars != 3 || d.Decimals != 2 {
		t.Fatalf("bars = %d decimals = %d, want 3 and 2", d.Bars, d.Decimals)
	}
	if d.Last != 13 {
		t.Fatalf("last = %v, want 13", d.Last)
	}
	if d.Change != -1 {
		t.Fatalf("change = %v, want -1", d.Change)
	}
	if want := -1.0 / 14 * 100; d.ChangePct != want {
		t.Fatalf("change pct = %v, want %v", d.ChangePct, want)
	}
	if d.High != 18 || d.Low != 8 {
		t.Fatalf("high/low = %v/%v, want 18/8", d.High, d.Low)
	}
	if !d.Live {
		t.Fatal("quote not live after fitting the full series")
	}
}

func TestChartCrosshairInspect(t *testing.T) {
	t.Parallel()

	initial := testCandles(40, chartTestStart, 3600)
	stub := chartStubFor(initial, nil, nil)
	stub.snaps = testSnaps(chartTestStart, chartTestStart+3600)
	c := loadedChart(t, stub)

	if c.candlePane.CrosshairVisible() {
		t.Fatal("crosshair visible before toggle")
	}
	c, _ = updateChart(t, c, keyText("x"))
	if !c.candlePane.CrosshairVisible() {
		t.Fatal("crosshair not shown by toggle")
	}

	c, cmd := updateChart(t, c, keyText("i"))
	if cmd == nil {
		t.Fatal("inspect produced no command")
	}
	found := false
	for _, msg := range collectCmdMsgs(t, cmd) {
		open, ok := msg.(dialogs.OpenDialogMsg)
		if !ok {
			continue
		}
		if _, ok := open.Model.(*inspectdialog.Model); !ok {
			t.Fatalf("dialog model = %T, want *inspectdialog.Model", open.Model)
		}
		found = true
	}
	if !found {
		t.Fatal("no open dialog message from inspect")
	}

	c, _ = updateChart(t, c, keyText("x"))
	if c.candlePane.CrosshairVisible() {
		t.Fatal("crosshair not hidden by second toggle")
	}
}

func TestChartAutoRefreshToggle(t *testing.T) {
	t.Parallel()

	initial := testCandles(40, chartTestStart, 3600)
	c := loadedChart(t, chartStubFor(initial, nil, nil))
	if !c.refresh.Enabled() {
		t.Fatal("auto-refresh off after load")
	}

	c, cmd := updateChart(t, c, keyText("a"))
	if c.refresh.Enabled() {
		t.Fatal("auto-refresh still on after toggle")
	}
	if cmd != nil {
		t.Fatal("disable scheduled a tick")
	}

	c, cmd = updateChart(t, c, keyText("a"))
	if !c.refresh.Enabled() {
		t.Fatal("auto-refresh not re-enabled")
	}
	if cmd == nil {
		t.Fatal("enable did not schedule a tick")
	}
}

func TestChartDisposeStopsSessionAndResubscribes(t *testing.T) {
	t.Parallel()

	initial := testCandles(40, chartTestStart, 3600)
	stub := chartStubFor(initial, nil, nil)
	c := loadedChart(t, stub)
	oldSession := c.session

	c.Dispose()
	if c.refresh.Enabled() {
		t.Fatal("auto-refresh still on after dispose")
	}
	if c.unsubscribe != nil {
		t.Fatal("surface subscription not released on dispose")
	}
	if c.sync.Attached() {
		t.Fatal("synchronizer still attached after dispose")
	}
	if c.session == oldSession {
		t.Fatal("session not bumped on dispose")
	}

	cmd := c.Init()
	if cmd == nil {
		t.Fatal("Init after dispose returned nil command")
	}
	if c.unsubscribe == nil {
		t.Fatal("surface subscription not restored on init")
	}
	c, _ = updateChart(t, c, cmd())
	if !c.ready {
		t.Fatal("chart not ready after reinit")
	}
}

func TestPriceDecimals(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		candles []market.Candle
		want    int
	}{
		"empty":     {candles: nil, want: 2},
		"unit":      {candles: []market.Candle{{Close: 1.2345}}, want: 2},
		"sub unit":  {candles: []market.Candle{{Close: 0.65}}, want: 3},
		"tiny":      {candles: []market.Candle{{Close: 0.00123}}, want: 5},
		"zero":      {candles: []market.Candle{{Close: 0}}, want: 2},
		"negative":  {candles: []market.Candle{{Close: -3.5}}, want: 2},
		"last wins": {candles: []market.Candle{{Close: 0.001}, {Close: 42}}, want: 2},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := priceDecimals(tc.candles); got != tc.want {
				t.Fatalf("priceDecimals(...) = %d, want %d", got, tc.want)
			}
		})
	}
}

// collectCmdMsgs executes cmd and flattens any batch into its messages.
func collectCmdMsgs(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg == nil {
		return nil
	}
	switch m := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range m {
			out = append(out, collectCmdMsgs(t, c)...)
		}
		return out
	default:
		return []tea.Msg{m}
	}
}

func TestChartContextItemsIncludeSpan(t *testing.T) {
	t.Parallel()

	stub := chartStubFor(testCandles(60, chartTestStart, 3600), nil, nil)
	c := loadedChart(t, stub)

	tr, ok := c.candlePane.VisibleTimeRange()
	if !ok {
		t.Fatal("no visible time range after load")
	}
	want := format.Duration(tr.To - tr.From)
	if want == "0s" {
		t.Fatalf("degenerate span %q", want)
	}

	var got string
	for _, item := range c.ContextItems() {
		if item.Label == "Span" {
			got = item.Value
		}
	}
	if got != want {
		t.Fatalf("Span context item = %q, want %q", got, want)
	}
}
