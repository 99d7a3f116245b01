package paginate

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// DefaultRefreshInterval is the auto-refresh cadence when none is
// configured.
const DefaultRefreshInterval = 5 * time.Second

// RefreshMsg is delivered on every auto-refresh tick. Ticks from a disabled
// or superseded cycle carry a stale generation and are dropped.
type RefreshMsg struct {
	Generation int
}

// AutoRefresh keeps the right edge of the chart current by running the
// load-newer path on a fixed interval. Each Enable starts a fresh tick
// generation, so ticks left over from an earlier cycle die out instead of
// stacking up across enable/disable cycles.
type AutoRefresh struct {
	interval   time.Duration
	generation int
	enabled    bool
}

// NewAutoRefresh returns a disabled scheduler with the given cadence.
func NewAutoRefresh(interval time.Duration) AutoRefresh {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return AutoRefresh{interval: interval}
}

// Enable starts a new tick cycle.
func (a AutoRefresh) Enable() (AutoRefresh, tea.Cmd) {
	a.enabled = true
	a.generation++
	return a, a.tickCmd()
}

// Disable stops the cycle. Any tick already scheduled goes stale.
func (a AutoRefresh) Disable() AutoRefresh {
	a.enabled = false
	a.generation++
	return a
}

// SetInterval changes the cadence, restarting the cycle when enabled.
func (a AutoRefresh) SetInterval(interval time.Duration) (AutoRefresh, tea.Cmd) {
	if interval <= 0 {
		return a, nil
	}
	a.interval = interval
	if !a.enabled {
		return a, nil
	}
	a.generation++
	return a, a.tickCmd()
}

// Next handles a tick. fire reports whether the host should run the
// load-newer path now; it stays false while a fetch is in flight or the
// store is empty. The returned command schedules the following tick for as
// long as the cycle is enabled.
func (a AutoRefresh) Next(msg RefreshMsg, idle bool, total int) (AutoRefresh, tea.Cmd, bool) {
	if !a.enabled || msg.Generation != a.generation {
		return a, nil, false
	}
	fire := idle && total > 0
	return a, a.tickCmd(), fire
}

// Enabled reports whether the cycle is running.
func (a AutoRefresh) Enabled() bool {
	return a.enabled
}

// Interval returns the current cadence.
func (a AutoRefresh) Interval() time.Duration {
	return a.interval
}

func (a AutoRefresh) tickCmd() tea.Cmd {
	generation := a.generation
	return tea.Tick(a.interval, func(time.Time) tea.Msg {
		return RefreshMsg{Generation: generation}
	})
}
