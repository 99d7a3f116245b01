package viewsync

// Capture reads the absolute time window currently visible on s, taken
// immediately before a data mutation. ok is false when the surface is absent
// or still empty; the first page of a session has no viewport to preserve
// and the view should fit the whole dataset instead.
func Capture(s Surface) (TimeRange, bool) {
	if s == nil || s.BarCount() == 0 {
		return TimeRange{}, false
	}
	return s.VisibleTimeRange()
}

// Restore re-applies a window captured before a merge. The same absolute
// interval maps to new bar indices once history has been prepended, so the
// chart holds still on screen. Best effort: a surface torn down in between
// degrades to a no-op.
func Restore(s Surface, tr TimeRange) {
	if s == nil || s.BarCount() == 0 {
		return
	}
	s.SetVisibleTimeRange(tr)
}
