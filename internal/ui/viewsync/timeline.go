package viewsync

import "slices"

// TimeAt converts a fractional bar index on an ascending timeline into an
// absolute unix time, interpolating between neighboring bars. Indices past
// either end extrapolate with the edge bar spacing, so a small overscroll
// still maps to a stable time.
func TimeAt(times []int64, idx float64) int64 {
	n := len(times)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return times[0]
	}

	if idx <= 0 {
		step := times[1] - times[0]
		return times[0] + int64(idx*float64(step))
	}
	last := float64(n - 1)
	if idx >= last {
		step := times[n-1] - times[n-2]
		return times[n-1] + int64((idx-last)*float64(step))
	}

	i := int(idx)
	frac := idx - float64(i)
	return times[i] + int64(frac*float64(times[i+1]-times[i]))
}

// IndexOf is the inverse of TimeAt: it converts an absolute unix time into a
// fractional bar index on an ascending timeline. Times outside the covered
// span extrapolate with the edge bar spacing.
func IndexOf(times []int64, t int64) float64 {
	n := len(times)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return 0
	}

	if t <= times[0] {
		step := times[1] - times[0]
		if step == 0 {
			return 0
		}
		return float64(t-times[0]) / float64(step)
	}
	if t >= times[n-1] {
		step := times[n-1] - times[n-2]
		if step == 0 {
			return float64(n - 1)
		}
		return float64(n-1) + float64(t-times[n-1])/float64(step)
	}

	i, found := slices.BinarySearch(times, t)
	if found {
		return float64(i)
	}
	// t sits between times[i-1] and times[i].
	step := times[i] - times[i-1]
	if step == 0 {
		return float64(i)
	}
	return float64(i-1) + float64(t-times[i-1])/float64(step)
}
