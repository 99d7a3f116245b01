// Package candlechart provides the OHLC candlestick chart surface.
package candlechart

import (
	"math"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/lazychart/lazychart/internal/market"
	"github.com/lazychart/lazychart/internal/mathutil"
	"github.com/lazychart/lazychart/internal/ui/charts"
	"github.com/lazychart/lazychart/internal/ui/viewsync"
)

const (
	// overscrollBars is how far the viewport may pan past either end of the
	// loaded series.
	overscrollBars = 5

	// minVisibleBars is the tightest zoom.
	minVisibleBars = 5
)

// Styles holds the visual styles for the candle chart.
type Styles struct {
	Bull      lipgloss.Style // Style for rising candles
	Bear      lipgloss.Style // Style for falling candles
	Muted     lipgloss.Style // Style for axis labels
	Crosshair lipgloss.Style // Style for the crosshair marker column
}

// DefaultStyles returns sensible default styles.
func DefaultStyles() Styles {
	return Styles{
		Bull:      lipgloss.NewStyle(),
		Bear:      lipgloss.NewStyle(),
		Muted:     lipgloss.NewStyle(),
		Crosshair: lipgloss.NewStyle(),
	}
}

// Model holds the candle chart state. Use it through the pointer returned by
// New: range subscriptions bind to that identity and do not survive copies.
type Model struct {
	styles Styles
	width  int
	height int

	candles []market.Candle
	times   []int64

	from    float64
	to      float64
	hasView bool

	crosshair        int
	crosshairEnabled bool

	subs    map[int]func(viewsync.LogicalRange)
	nextSub int

	emptyMessage string
}

var _ viewsync.Surface = (*Model)(nil)

// Option is a functional option for configuring the candle chart.
type Option func(*Model)

// New creates a new candle chart model with functional options.
func New(opts ...Option) *Model {
	m := &Model{
		styles: DefaultStyles(),
		subs:   make(map[int]func(viewsync.LogicalRange)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithStyles sets custom styles for the chart.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithSize sets the dimensions of the chart.
func WithSize(w, h int) Option {
	return func(m *Model) { m.width, m.height = w, h }
}

// WithEmptyMessage sets the message to display when there's no data.
func WithEmptyMessage(msg string) Option {
	return func(m *Model) { m.emptyMessage = msg }
}

// SetStyles updates the chart styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetSize updates the chart dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetEmptyMessage updates the empty state message.
func (m *Model) SetEmptyMessage(msg string) {
	m.emptyMessage = msg
}

// SetCandles replaces the series. The viewport is clamped to the new bounds
// but not announced; the caller follows up with a restore or a fit, which
// produces the single range notification for the whole mutation.
func (m *Model) SetCandles(cs []market.Candle) {
	m.candles = cs
	m.times = market.Times(cs)
	if len(cs) == 0 {
		m.hasView = false
		m.crosshairEnabled = false
		m.crosshair = 0
		return
	}
	if m.crosshair >= len(cs) {
		m.crosshair = len(cs) - 1
	}
	if m.hasView {
		m.from, m.to = m.clampViewport(m.from, m.to)
	}
}

// Candles returns the current series.
func (m Model) Candles() []market.Candle {
	return m.candles
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the current height.
func (m Model) Height() int {
	return m.height
}

// BarCount returns the number of candles on the surface.
func (m Model) BarCount() int {
	return len(m.candles)
}

// VisibleLogicalRange reports the bar-index interval on screen.
func (m Model) VisibleLogicalRange() (viewsync.LogicalRange, bool) {
	if !m.hasView || len(m.candles) == 0 {
		return viewsync.LogicalRange{}, false
	}
	return viewsync.LogicalRange{From: m.from, To: m.to}, true
}

// SetVisibleLogicalRange scrolls the surface to the given bar-index window.
func (m *Model) SetVisibleLogicalRange(r viewsync.LogicalRange) {
	if len(m.candles) == 0 {
		return
	}
	m.setViewport(r.From, r.To)
}

// VisibleTimeRange reports the absolute time interval on screen.
func (m Model) VisibleTimeRange() (viewsync.TimeRange, bool) {
	if !m.hasView || len(m.candles) == 0 {
		return viewsync.TimeRange{}, false
	}
	return viewsync.TimeRange{
		From: viewsync.TimeAt(m.times, m.from),
		To:   viewsync.TimeAt(m.times, m.to),
	}, true
}

// SetVisibleTimeRange scrolls the surface to the given absolute window.
func (m *Model) SetVisibleTimeRange(tr viewsync.TimeRange) {
	if len(m.candles) == 0 {
		return
	}
	m.setViewport(viewsync.IndexOf(m.times, tr.From), viewsync.IndexOf(m.times, tr.To))
}

// SubscribeVisibleLogicalRangeChange registers fn to run on every viewport
// change and returns the unsubscribe handle.
func (m *Model) SubscribeVisibleLogicalRangeChange(fn func(viewsync.LogicalRange)) func() {
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() { delete(m.subs, id) }
}

// FitAll shows the whole series.
func (m *Model) FitAll() {
	if len(m.candles) == 0 {
		return
	}
	m.setViewport(0, float64(len(m.candles)-1))
}

// ScrollBy pans the viewport by the given number of bars, negative toward
// history.
func (m *Model) ScrollBy(bars float64) {
	if !m.hasView || len(m.candles) == 0 {
		return
	}
	m.setViewport(m.from+bars, m.to+bars)
}

// ScrollToLive jumps the viewport to the newest bars, keeping its width.
func (m *Model) ScrollToLive() {
	if !m.hasView || len(m.candles) == 0 {
		m.FitAll()
		return
	}
	width := m.to - m.from
	to := float64(len(m.candles) - 1)
	m.setViewport(to-width, to)
}

// Zoom scales the viewport width by factor, anchored at the crosshair when
// shown, otherwise at the center. Factors below one zoom in.
func (m *Model) Zoom(factor float64) {
	if !m.hasView || len(m.candles) == 0 || factor <= 0 {
		return
	}
	anchor := (m.from + m.to) / 2
	if m.crosshairEnabled {
		anchor = float64(m.crosshair)
	}
	from := anchor - (anchor-m.from)*factor
	to := anchor + (m.to-anchor)*factor
	m.setViewport(from, to)
}

// ShowCrosshair enables the crosshair on the newest visible bar.
func (m *Model) ShowCrosshair() {
	if len(m.candles) == 0 || !m.hasView {
		return
	}
	m.crosshairEnabled = true
	m.crosshair = m.visibleLast()
}

// HideCrosshair disables the crosshair.
func (m *Model) HideCrosshair() {
	m.crosshairEnabled = false
}

// CrosshairVisible reports whether the crosshair is shown.
func (m Model) CrosshairVisible() bool {
	return m.crosshairEnabled
}

// MoveCrosshair steps the crosshair by delta bars, panning the viewport when
// it walks off screen.
func (m *Model) MoveCrosshair(delta int) {
	if !m.crosshairEnabled || len(m.candles) == 0 {
		return
	}
	m.crosshair = mathutil.Clamp(m.crosshair+delta, 0, len(m.candles)-1)
	if float64(m.crosshair) < m.from {
		m.ScrollBy(float64(m.crosshair) - m.from)
	} else if float64(m.crosshair) > m.to {
		m.ScrollBy(float64(m.crosshair) - m.to)
	}
}

// CrosshairCandle returns the candle under the crosshair.
func (m Model) CrosshairCandle() (market.Candle, bool) {
	if !m.crosshairEnabled || m.crosshair < 0 || m.crosshair >= len(m.candles) {
		return market.Candle{}, false
	}
	return m.candles[m.crosshair], true
}

// setViewport is the single viewport mutator: it clamps, stores, and
// announces the change to subscribers.
func (m *Model) setViewport(from, to float64) {
	from, to = m.clampViewport(from, to)
	if m.hasView && from == m.from && to == m.to {
		return
	}
	m.from, m.to = from, to
	m.hasView = true
	r := viewsync.LogicalRange{From: from, To: to}
	for _, fn := range m.subs {
		fn(r)
	}
}

func (m Model) clampViewport(from, to float64) (float64, float64) {
	n := len(m.candles)
	if n == 0 {
		return 0, 0
	}
	lo := -float64(overscrollBars)
	hi := float64(n-1) + overscrollBars
	width := mathutil.Clamp(to-from, math.Min(minVisibleBars, float64(n)), hi-lo)
	from = mathutil.Clamp(from, lo, hi-width)
	return from, from + width
}

func (m Model) visibleFirst() int {
	return mathutil.Clamp(int(math.Floor(m.from)), 0, len(m.candles)-1)
}

func (m Model) visibleLast() int {
	return mathutil.Clamp(int(math.Ceil(m.to)), 0, len(m.candles)-1)
}

// column is one screen column of aggregated candles.
type column struct {
	open, high, low, close float64
	first, last            int
	filled                 bool
}

const (
	styleNone = int8(iota)
	styleBull
	styleBear
	styleCross
)

type paneCell struct {
	r     rune
	style int8
}

// View renders the candle chart to a string.
func (m Model) View() string {
	if m.width < 2 || m.height < 2 {
		return ""
	}
	if len(m.candles) == 0 || !m.hasView {
		return charts.RenderCentered(m.width, m.height, m.emptyMessage)
	}

	i0 := m.visibleFirst()
	i1 := m.visibleLast()
	visible := m.candles[i0 : i1+1]

	low, high := priceBounds(visible)
	showTimeAxis := m.height >= 4
	chartHeight := m.height
	if showTimeAxis {
		chartHeight--
	}

	yLabels := charts.BuildPriceYAxisLabels(low, high, chartHeight)
	labelWidth := charts.MaxLabelWidth(yLabels)
	chartWidth := max(m.width-labelWidth-1, 1)
	if chartWidth < 2 {
		return charts.RenderCentered(m.width, m.height, m.emptyMessage)
	}

	cols := m.bucketColumns(i0, i1, chartWidth)
	grid := renderColumns(cols, low, high, chartHeight, m.crosshairColumn(cols))

	lines := m.styleGrid(grid)
	lines = charts.ApplyYAxisLabels(lines, yLabels, labelWidth, m.styles.Muted)
	if showTimeAxis {
		axis := m.styles.Muted.Render(m.timeAxisLine(cols, chartWidth))
		lines = append(lines, strings.Repeat(" ", labelWidth)+" "+axis)
	}
	return strings.Join(lines, "\n")
}

// priceBounds returns the padded low/high band covering the visible candles.
func priceBounds(cs []market.Candle) (float64, float64) {
	low := cs[0].Low
	high := cs[0].High
	for _, c := range cs[1:] {
		low = math.Min(low, c.Low)
		high = math.Max(high, c.High)
	}
	if high == low {
		pad := math.Abs(high) * 0.001
		if pad == 0 {
			pad = 1
		}
		return low - pad, high + pad
	}
	pad := (high - low) * 0.05
	return low - pad, high + pad
}

// bucketColumns spreads the visible candles across the pane width. When
// several candles share a column they aggregate to first open, max high, min
// low, last close.
func (m Model) bucketColumns(i0, i1, cols int) []column {
	n := i1 - i0 + 1
	mapping := charts.AxisMap(n, cols)
	out := make([]column, cols)
	for src := range n {
		c := m.candles[i0+src]
		col := &out[mapping[src]]
		if !col.filled {
			*col = column{
				open: c.Open, high: c.High, low: c.Low, close: c.Close,
				first: i0 + src, last: i0 + src, filled: true,
			}
			continue
		}
		col.high = math.Max(col.high, c.High)
		col.low = math.Min(col.low, c.Low)
		col.close = c.Close
		col.last = i0 + src
	}
	return out
}

func (m Model) crosshairColumn(cols []column) int {
	if !m.crosshairEnabled {
		return -1
	}
	for x, col := range cols {
		if col.filled && m.crosshair >= col.first && m.crosshair <= col.last {
			return x
		}
	}
	return -1
}

func renderColumns(cols []column, low, high float64, height, crosshairCol int) [][]paneCell {
	grid := make([][]paneCell, height)
	for r := range grid {
		row := make([]paneCell, len(cols))
		for x := range row {
			row[x] = paneCell{r: ' '}
		}
		grid[r] = row
	}

	span := high - low
	rowOf := func(price float64) int {
		if span <= 0 {
			return height - 1
		}
		row := int(math.Round((high - price) / span * float64(height-1)))
		return mathutil.Clamp(row, 0, height-1)
	}

	for x, col := range cols {
		if !col.filled {
			continue
		}
		wickTop := rowOf(col.high)
		wickBottom := rowOf(col.low)
		bodyTop := rowOf(math.Max(col.open, col.close))
		bodyBottom := rowOf(math.Min(col.open, col.close))
		style := styleBear
		if col.close >= col.open {
			style = styleBull
		}
		for r := wickTop; r <= wickBottom; r++ {
			rn := '│'
			if r >= bodyTop && r <= bodyBottom {
				rn = '█'
			}
			grid[r][x] = paneCell{r: rn, style: style}
		}
		if col.open == col.close {
			rn := '─'
			if wickTop < bodyTop && wickBottom > bodyBottom {
				rn = '┼'
			}
			grid[bodyTop][x] = paneCell{r: rn, style: style}
		}
		if x == crosshairCol {
			for r := range grid {
				if r < wickTop || r > wickBottom {
					grid[r][x] = paneCell{r: '·', style: styleCross}
				}
			}
		}
	}
	return grid
}

// styleGrid renders the cell grid line by line, styling runs of equal style
// together.
func (m Model) styleGrid(grid [][]paneCell) []string {
	styleFor := func(s int8) lipgloss.Style {
		switch s {
		case styleBull:
			return m.styles.Bull
		case styleBear:
			return m.styles.Bear
		case styleCross:
			return m.styles.Crosshair
		default:
			return lipgloss.NewStyle()
		}
	}

	lines := make([]string, len(grid))
	var line strings.Builder
	var run strings.Builder
	for r, row := range grid {
		line.Reset()
		run.Reset()
		current := styleNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current == styleNone {
				line.WriteString(run.String())
			} else {
				line.WriteString(styleFor(current).Render(run.String()))
			}
			run.Reset()
		}
		for _, cell := range row {
			if cell.style != current {
				flush()
				current = cell.style
			}
			run.WriteRune(cell.r)
		}
		flush()
		lines[r] = line.String()
	}
	return lines
}

// timeAxisLine samples a few visible columns and labels them with their
// first candle's time.
func (m Model) timeAxisLine(cols []column, width int) string {
	filled := make([]int, 0, len(cols))
	for x, col := range cols {
		if col.filled {
			filled = append(filled, x)
		}
	}
	if len(filled) == 0 {
		return strings.Repeat(" ", width)
	}

	labelCount := mathutil.Clamp(width/24, 2, 5)
	labelCount = min(labelCount, len(filled))
	sampled := make([]time.Time, labelCount)
	for i := range labelCount {
		idx := filled[i*(len(filled)-1)/max(labelCount-1, 1)]
		sampled[i] = time.Unix(m.times[cols[idx].first], 0)
	}
	labels := charts.BuildTimeBucketLabels(sampled)
	return charts.BuildBucketLabelLine(width, labels)
}
