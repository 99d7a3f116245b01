// Package viewsync keeps two independently rendered chart surfaces aligned
// and preserves the visible window across data mutations.
package viewsync

// TimeRange is a visible window in absolute unix seconds. Absolute time is
// the unit of truth for preserving scroll position across merges: bar
// indices shift whenever history is prepended, timestamps do not.
type TimeRange struct {
	From int64
	To   int64
}

// LogicalRange is a visible window in fractional bar indices. It is only
// meaningful between surfaces sharing the same point count and ordering, and
// it never survives a data mutation.
type LogicalRange struct {
	From float64
	To   float64
}

// Surface is the capability set a chart pane exposes to the coordination
// layer.
type Surface interface {
	// VisibleTimeRange reports the absolute time interval on screen.
	// ok is false while the surface has no data.
	VisibleTimeRange() (TimeRange, bool)

	// SetVisibleTimeRange scrolls the surface to the given absolute window.
	SetVisibleTimeRange(TimeRange)

	// VisibleLogicalRange reports the bar-index interval on screen.
	// ok is false while the surface has no data.
	VisibleLogicalRange() (LogicalRange, bool)

	// SetVisibleLogicalRange scrolls the surface to the given bar-index
	// window.
	SetVisibleLogicalRange(LogicalRange)

	// SubscribeVisibleLogicalRangeChange registers fn to run whenever the
	// visible logical range changes and returns an unsubscribe handle the
	// caller must release on teardown.
	SubscribeVisibleLogicalRangeChange(fn func(LogicalRange)) (unsubscribe func())

	// BarCount returns the number of points on the surface.
	BarCount() int
}

// Synchronizer mirrors the visible logical range between a primary and a
// secondary surface in both directions. A single syncing flag stops the
// mirror write from re-triggering the opposite handler; execution is
// single-threaded, so the flag is sufficient and deliberately not a mutex.
type Synchronizer struct {
	primary   Surface
	secondary Surface
	syncing   bool
	unsubs    []func()
}

// NewSynchronizer creates an unattached synchronizer.
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{}
}

// Attach subscribes both surfaces to each other, replacing any previous
// attachment. Either surface may be nil, in which case nothing is wired and
// a later Attach completes the pair.
func (s *Synchronizer) Attach(primary, secondary Surface) {
	s.Detach()
	s.primary = primary
	s.secondary = secondary
	if primary == nil || secondary == nil {
		return
	}

	unsubPrimary := primary.SubscribeVisibleLogicalRangeChange(func(r LogicalRange) {
		s.mirror(s.secondary, r)
	})
	unsubSecondary := secondary.SubscribeVisibleLogicalRangeChange(func(r LogicalRange) {
		s.mirror(s.primary, r)
	})
	s.unsubs = []func(){unsubPrimary, unsubSecondary}
}

// Detach releases both subscriptions. Safe to call repeatedly and on an
// unattached synchronizer.
func (s *Synchronizer) Detach() {
	for _, unsub := range s.unsubs {
		if unsub != nil {
			unsub()
		}
	}
	s.unsubs = nil
	s.primary = nil
	s.secondary = nil
}

// Attached reports whether both surfaces are currently wired.
func (s *Synchronizer) Attached() bool {
	return len(s.unsubs) > 0
}

// InitialSync applies the primary's current range to the secondary. The
// chart view schedules this for the pass after a surface was (re)created, so
// the new surface's own layout has settled before a range is imposed on it.
func (s *Synchronizer) InitialSync() {
	if s.syncing || s.primary == nil {
		return
	}
	r, ok := s.primary.VisibleLogicalRange()
	if !ok {
		return
	}
	s.mirror(s.secondary, r)
}

// mirror writes r to the opposite surface exactly once per user-driven
// change. Surfaces torn down mid-flight degrade to a no-op.
func (s *Synchronizer) mirror(target Surface, r LogicalRange) {
	if s.syncing || target == nil {
		return
	}
	s.syncing = true
	if target.BarCount() > 0 {
		target.SetVisibleLogicalRange(r)
	}
	s.syncing = false
}
