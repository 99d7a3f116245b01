package market

// Resample aligns sparse snapshots onto an ascending target time grid using
// carry-forward semantics: each grid time takes the values of the most recent
// snapshot observed at or before it, stamped with the grid time. Grid times
// earlier than the first snapshot are skipped (no data yet), and grid times
// later than the last snapshot are excluded so a stale value is never
// extrapolated into unobserved territory. Snapshots are never mutated; the
// walk is a single two-pointer pass, linear in the combined input length.
func Resample(snapshots []Snapshot, grid []int64) []Snapshot {
	if len(snapshots) == 0 || len(grid) == 0 {
		return nil
	}

	lastObserved := snapshots[len(snapshots)-1].T
	out := make([]Snapshot, 0, len(grid))
	i := 0
	for _, t := range grid {
		if t > lastObserved {
			continue
		}
		for i+1 < len(snapshots) && snapshots[i+1].T <= t {
			i++
		}
		if snapshots[i].T > t {
			continue
		}
		s := snapshots[i]
		s.T = t
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
