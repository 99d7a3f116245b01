package market

import (
	"cmp"
	"slices"
)

// Normalize returns a clean copy of raw: points with a non-finite OHLC field
// are dropped, the rest are sorted ascending by Time, and duplicate
// timestamps are collapsed keeping the value supplied latest in raw. The
// result is strictly ascending with unique Time keys.
func Normalize(raw []Candle) []Candle {
	clean := make([]Candle, 0, len(raw))
	for _, c := range raw {
		if c.Valid() {
			clean = append(clean, c)
		}
	}
	return sortDedup(clean)
}

// MergeOlder prepends the subset of incoming strictly older than anchor to
// existing. The boolean is false when incoming holds nothing older than
// anchor: the history source is exhausted, which is a boundary condition and
// not an error, and existing is returned untouched. Neither input slice is
// mutated.
func MergeOlder(existing, incoming []Candle, anchor int64) ([]Candle, bool) {
	older := make([]Candle, 0, len(incoming))
	for _, c := range incoming {
		if c.Time < anchor {
			older = append(older, c)
		}
	}
	if len(older) == 0 {
		return existing, false
	}
	older = sortDedup(older)

	merged := make([]Candle, 0, len(older)+len(existing))
	merged = append(merged, older...)
	merged = append(merged, existing...)
	return merged, true
}

// MergeNewer appends the subset of incoming strictly newer than anchor to
// existing. When incoming holds nothing newer the view is already current and
// existing is returned unchanged. Neither input slice is mutated.
func MergeNewer(existing, incoming []Candle, anchor int64) []Candle {
	newer := make([]Candle, 0, len(incoming))
	for _, c := range incoming {
		if c.Time > anchor {
			newer = append(newer, c)
		}
	}
	if len(newer) == 0 {
		return existing
	}
	newer = sortDedup(newer)

	merged := make([]Candle, 0, len(existing)+len(newer))
	merged = append(merged, existing...)
	merged = append(merged, newer...)
	return merged
}

// Times returns the Time column of cs. The chart views hand this to Resample
// as the target grid and to the metric pane as its timeline.
func Times(cs []Candle) []int64 {
	if len(cs) == 0 {
		return nil
	}
	times := make([]int64, len(cs))
	for i, c := range cs {
		times[i] = c.Time
	}
	return times
}

// Span returns the first and last timestamps of cs.
func Span(cs []Candle) (from, to int64, ok bool) {
	if len(cs) == 0 {
		return 0, 0, false
	}
	return cs[0].Time, cs[len(cs)-1].Time, true
}

// sortDedup sorts cs ascending by Time and collapses duplicate timestamps in
// place. The sort is stable, so within a duplicate run the candle supplied
// latest in the input wins.
func sortDedup(cs []Candle) []Candle {
	slices.SortStableFunc(cs, func(a, b Candle) int {
		return cmp.Compare(a.Time, b.Time)
	})
	out := cs[:0]
	for _, c := range cs {
		if n := len(out); n > 0 && out[n-1].Time == c.Time {
			out[n-1] = c
			continue
		}
		out = append(out, c)
	}
	return out
}
