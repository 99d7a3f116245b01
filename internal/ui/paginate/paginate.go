// Package paginate turns scroll activity into serialized chart fetches.
//
// The controller is a state machine over idle and the two loading
// directions. Scroll events bump a debounce generation; the edge decision
// runs once the scroll settles, against store bounds read at that moment.
// Fetches are stamped with request IDs, and only the current ID can resolve
// the state back to idle.
package paginate

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/lazychart/lazychart/internal/ui/viewsync"
)

const (
	// edgeBars is how close to either end of the loaded series the settled
	// range has to get before more data is requested.
	edgeBars = 10

	// liveEdgeBars is the coarser threshold for "watching the newest data",
	// reported to the host on every range change.
	liveEdgeBars = 50

	// DebounceInterval is how long scrolling has to stay quiet before the
	// edge checks run.
	DebounceInterval = 300 * time.Millisecond
)

// State is the controller's fetch state.
type State int

const (
	// Idle means no fetch is outstanding.
	Idle State = iota

	// LoadingOlder means a left-edge history fetch is in flight.
	LoadingOlder

	// LoadingNewer means a right-edge fetch is in flight.
	LoadingNewer
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case LoadingOlder:
		return "loading older"
	case LoadingNewer:
		return "loading newer"
	default:
		return "idle"
	}
}

// DebounceMsg is delivered when a scroll pause elapses. Ticks from
// superseded scroll bursts carry a stale generation and are dropped.
type DebounceMsg struct {
	Generation int
}

// Window is the controller's input snapshot: the settled visible range and
// the bounds of what is currently loaded.
type Window struct {
	Range  viewsync.LogicalRange
	Total  int
	Oldest int64 // unix seconds of the first loaded candle
	Newest int64 // unix seconds of the last loaded candle
}

// Trigger describes the fetch the host must start after an edge check hit.
type Trigger struct {
	RequestID int
	Older     bool
	Anchor    int64 // unix seconds bound for the fetch
}

// Model decides when the chart needs more history and keeps those fetches
// one at a time. All state lives on the event loop; methods return the
// updated value.
type Model struct {
	state         State
	generation    int
	requestID     int
	reachedOldest bool
	liveEdge      bool
}

// New returns an idle controller.
func New() Model {
	return Model{}
}

// RangeChanged records a scroll event and schedules the debounce tick that
// supersedes any earlier pending one. The live-edge flag is recomputed
// immediately, not debounced.
func (m Model) RangeChanged(r viewsync.LogicalRange, total int) (Model, tea.Cmd) {
	m.liveEdge = total > 0 && r.To > float64(total-liveEdgeBars)
	m.generation++
	return m, m.debounceCmd()
}

// Settled handles the debounce tick. When the settled range is within
// edgeBars of either end of the loaded series and the controller is idle, it
// moves to the matching loading state and returns the fetch to run; the left
// edge wins when both ends hit. An exhausted left boundary stays quiet until
// the series is replaced.
func (m Model) Settled(msg DebounceMsg, w Window) (Model, Trigger, bool) {
	if msg.Generation != m.generation {
		return m, Trigger{}, false
	}
	if m.state != Idle || w.Total == 0 {
		return m, Trigger{}, false
	}
	if w.Range.From < edgeBars && !m.reachedOldest {
		m.state = LoadingOlder
		m.requestID++
		return m, Trigger{RequestID: m.requestID, Older: true, Anchor: w.Oldest}, true
	}
	if w.Range.To > float64(w.Total-edgeBars) {
		m.state = LoadingNewer
		m.requestID++
		return m, Trigger{RequestID: m.requestID, Anchor: w.Newest}, true
	}
	return m, Trigger{}, false
}

// RequestNewer starts a newer fetch immediately, bypassing the debounce.
// Auto-refresh uses this path. No-ops unless the controller is idle and the
// store is non-empty.
func (m Model) RequestNewer(w Window) (Model, Trigger, bool) {
	if m.state != Idle || w.Total == 0 {
		return m, Trigger{}, false
	}
	m.state = LoadingNewer
	m.requestID++
	return m, Trigger{RequestID: m.requestID, Anchor: w.Newest}, true
}

// Resolve returns the controller to idle once the fetch with the given ID
// finishes, successfully or not. Stale IDs are ignored.
func (m Model) Resolve(requestID int) Model {
	if requestID != m.requestID {
		return m
	}
	m.state = Idle
	return m
}

// MarkOldestReached latches after an older fetch came back with nothing
// older than the anchor. Further left-edge triggers are no-ops until Reset.
func (m Model) MarkOldestReached() Model {
	m.reachedOldest = true
	return m
}

// Reset clears all state for a new instrument or granularity session.
// Pending debounce ticks and in-flight resolutions go stale.
func (m Model) Reset() Model {
	m.generation++
	m.requestID++
	m.state = Idle
	m.reachedOldest = false
	m.liveEdge = false
	return m
}

// State returns the current fetch state.
func (m Model) State() State {
	return m.state
}

// Loading reports whether a fetch is in flight in either direction.
func (m Model) Loading() bool {
	return m.state != Idle
}

// LiveEdge reports whether the last range change had the newest data on
// screen.
func (m Model) LiveEdge() bool {
	return m.liveEdge
}

// ReachedOldest reports whether the left boundary of available history has
// been marked exhausted.
func (m Model) ReachedOldest() bool {
	return m.reachedOldest
}

func (m Model) debounceCmd() tea.Cmd {
	generation := m.generation
	return tea.Tick(DebounceInterval, func(time.Time) tea.Msg {
		return DebounceMsg{Generation: generation}
	})
}
