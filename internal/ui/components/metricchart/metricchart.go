// Package metricchart provides the metric line chart surface that stays
// range-synchronized with the candle chart.
package metricchart

import (
	"math"
	"time"

	"charm.land/lipgloss/v2"
	tslc "github.com/NimbleMarkets/ntcharts/v2/linechart/timeserieslinechart"

	"github.com/lazychart/lazychart/internal/market"
	"github.com/lazychart/lazychart/internal/mathutil"
	"github.com/lazychart/lazychart/internal/ui/charts"
	"github.com/lazychart/lazychart/internal/ui/format"
	"github.com/lazychart/lazychart/internal/ui/viewsync"
)

const (
	overscrollBars = 5
	minVisibleBars = 5
)

// Styles holds the visual styles for the metric chart.
type Styles struct {
	Axis  lipgloss.Style // Style for chart axes
	Label lipgloss.Style // Style for axis labels
}

// DefaultStyles returns sensible default styles.
func DefaultStyles() Styles {
	return Styles{
		Axis:  lipgloss.NewStyle(),
		Label: lipgloss.NewStyle(),
	}
}

// Line selects one snapshot field to plot.
type Line struct {
	Name   string
	Select func(market.Snapshot) *float64
	Style  lipgloss.Style
}

// DefaultLines plots the mean-reversion score and the average true range.
func DefaultLines() []Line {
	return []Line{
		{Name: "mr", Select: func(s market.Snapshot) *float64 { return s.MR }},
		{Name: "atr", Select: func(s market.Snapshot) *float64 { return s.ATR }},
	}
}

// Model holds the metric chart state. Its timeline is the candle grid, so
// both chart surfaces always agree on bar count and ordering. Use it through
// the pointer returned by New: range subscriptions bind to that identity.
type Model struct {
	styles Styles
	width  int
	height int

	lines     []Line
	grid      []int64
	snapshots []market.Snapshot

	from    float64
	to      float64
	hasView bool

	subs    map[int]func(viewsync.LogicalRange)
	nextSub int

	xFormatter func(int, float64) string
	yFormatter func(int, float64) string
	xSteps     int
	ySteps     int
	minValue   *float64
	maxValue   *float64

	emptyMessage string
}

var _ viewsync.Surface = (*Model)(nil)

// Option is a functional option for configuring the metric chart.
type Option func(*Model)

// New creates a new metric chart model with functional options.
func New(opts ...Option) *Model {
	m := &Model{
		styles: DefaultStyles(),
		lines:  DefaultLines(),
		subs:   make(map[int]func(viewsync.LogicalRange)),
		xSteps: 2,
		ySteps: 2,
		xFormatter: func(_ int, v float64) string {
			return time.Unix(int64(v), 0).UTC().Format("15:04")
		},
		yFormatter: func(_ int, v float64) string {
			return format.Price(v, 2)
		},
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

// WithLines sets the metric lines to plot.
func WithLines(lines ...Line) Option {
	return func(m *Model) { m.lines = lines }
}

// WithXFormatter sets the X-axis label formatter.
func WithXFormatter(formatter func(int, float64) string) Option {
	return func(m *Model) { m.xFormatter = formatter }
}

// WithYFormatter sets the Y-axis label formatter.
func WithYFormatter(formatter func(int, float64) string) Option {
	return func(m *Model) { m.yFormatter = formatter }
}

// WithXYSteps sets the number of label steps for X and Y axes.
func WithXYSteps(xSteps, ySteps int) Option {
	return func(m *Model) { m.xSteps, m.ySteps = xSteps, ySteps }
}

// WithValueRange sets an explicit value range (overrides auto-detection).
func WithValueRange(minValue, maxValue float64) Option {
	return func(m *Model) { m.minValue, m.maxValue = &minValue, &maxValue }
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

// SetLines updates the metric lines to plot.
func (m *Model) SetLines(lines ...Line) {
	m.lines = lines
}

// SetValueRange sets an explicit value range (overrides auto-detection).
func (m *Model) SetValueRange(minValue, maxValue float64) {
	m.minValue, m.maxValue = &minValue, &maxValue
}

// SetEmptyMessage updates the empty state message.
func (m *Model) SetEmptyMessage(msg string) {
	m.emptyMessage = msg
}

// SetData replaces the candle-grid timeline and the metric snapshots
// resampled onto it. The viewport is clamped but not announced; the caller
// follows up with a restore or an initial sync.
func (m *Model) SetData(grid []int64, snapshots []market.Snapshot) {
	m.grid = grid
	m.snapshots = snapshots
	if len(grid) == 0 {
		m.hasView = false
		return
	}
	if m.hasView {
		m.from, m.to = m.clampViewport(m.from, m.to)
	}
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the current height.
func (m Model) Height() int {
	return m.height
}

// BarCount returns the number of grid slots on the surface.
func (m Model) BarCount() int {
	return len(m.grid)
}

// VisibleLogicalRange reports the bar-index interval on screen.
func (m Model) VisibleLogicalRange() (viewsync.LogicalRange, bool) {
	if !m.hasView || len(m.grid) == 0 {
		return viewsync.LogicalRange{}, false
	}
	return viewsync.LogicalRange{From: m.from, To: m.to}, true
}

// SetVisibleLogicalRange scrolls the surface to the given bar-index window.
func (m *Model) SetVisibleLogicalRange(r viewsync.LogicalRange) {
	if len(m.grid) == 0 {
		return
	}
	m.setViewport(r.From, r.To)
}

// VisibleTimeRange reports the absolute time interval on screen.
func (m Model) VisibleTimeRange() (viewsync.TimeRange, bool) {
	if !m.hasView || len(m.grid) == 0 {
		return viewsync.TimeRange{}, false
	}
	return viewsync.TimeRange{
		From: viewsync.TimeAt(m.grid, m.from),
		To:   viewsync.TimeAt(m.grid, m.to),
	}, true
}

// SetVisibleTimeRange scrolls the surface to the given absolute window.
func (m *Model) SetVisibleTimeRange(tr viewsync.TimeRange) {
	if len(m.grid) == 0 {
		return
	}
	m.setViewport(viewsync.IndexOf(m.grid, tr.From), viewsync.IndexOf(m.grid, tr.To))
}

// SubscribeVisibleLogicalRangeChange registers fn to run on every viewport
// change and returns the unsubscribe handle.
func (m *Model) SubscribeVisibleLogicalRangeChange(fn func(viewsync.LogicalRange)) func() {
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() { delete(m.subs, id) }
}

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
	n := len(m.grid)
	if n == 0 {
		return 0, 0
	}
	lo := -float64(overscrollBars)
	hi := float64(n-1) + overscrollBars
	width := mathutil.Clamp(to-from, math.Min(minVisibleBars, float64(n)), hi-lo)
	from = mathutil.Clamp(from, lo, hi-width)
	return from, from + width
}

// View renders the metric chart to a string.
func (m Model) View() string {
	if m.width < 1 || m.height < 1 {
		return ""
	}
	if len(m.grid) == 0 || !m.hasView {
		return charts.RenderCentered(m.width, m.height, m.emptyMessage)
	}

	minTime := viewsync.TimeAt(m.grid, m.from)
	maxTime := viewsync.TimeAt(m.grid, m.to)
	if maxTime <= minTime {
		maxTime = minTime + 1
	}

	minValue, maxValue, found := m.valueBounds(minTime, maxTime)
	if m.minValue != nil {
		minValue = *m.minValue
	}
	if m.maxValue != nil {
		maxValue = *m.maxValue
	}
	if !found && (m.minValue == nil || m.maxValue == nil) {
		return charts.RenderCentered(m.width, m.height, m.emptyMessage)
	}

	chart := tslc.New(m.width, m.height,
		tslc.WithXYSteps(m.xSteps, m.ySteps),
		tslc.WithXLabelFormatter(m.xFormatter),
		tslc.WithYLabelFormatter(m.yFormatter),
		tslc.WithAxesStyles(m.styles.Axis, m.styles.Label),
		tslc.WithTimeRange(time.Unix(minTime, 0), time.Unix(maxTime, 0)),
		tslc.WithYRange(minValue, maxValue),
	)
	chart.AutoMinX = false
	chart.AutoMaxX = false
	chart.AutoMinY = false
	chart.AutoMaxY = false

	for i, line := range m.lines {
		if line.Select == nil {
			continue
		}
		if i == 0 {
			chart.SetStyle(line.Style)
		} else {
			chart.SetDataSetStyle(line.Name, line.Style)
		}
		for _, s := range m.snapshots {
			v := line.Select(s)
			if v == nil {
				continue
			}
			point := tslc.TimePoint{Time: time.Unix(s.T, 0), Value: *v}
			if i == 0 {
				chart.Push(point)
			} else {
				chart.PushDataSet(line.Name, point)
			}
		}
	}

	chart.DrawBrailleAll()
	return chart.View()
}

// valueBounds scans the snapshots inside the visible window and returns the
// padded value range across all lines. ok is false when nothing is plottable
// in the window.
func (m Model) valueBounds(minTime, maxTime int64) (float64, float64, bool) {
	minValue := math.Inf(1)
	maxValue := math.Inf(-1)
	found := false
	for _, s := range m.snapshots {
		if s.T < minTime || s.T > maxTime {
			continue
		}
		for _, line := range m.lines {
			if line.Select == nil {
				continue
			}
			v := line.Select(s)
			if v == nil {
				continue
			}
			minValue = math.Min(minValue, *v)
			maxValue = math.Max(maxValue, *v)
			found = true
		}
	}
	if !found {
		return 0, 0, false
	}
	if maxValue == minValue {
		pad := math.Abs(maxValue) * 0.001
		if pad == 0 {
			pad = 1
		}
		return minValue - pad, maxValue + pad, true
	}
	pad := (maxValue - minValue) * 0.05
	return minValue - pad, maxValue + pad, true
}
