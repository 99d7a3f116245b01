// Package mathutil provides small numeric helpers shared by the chart
// components.
package mathutil

import "cmp"

// Clamp limits val to the [low, high] range.
func Clamp[T cmp.Ordered](val, low, high T) T {
	if val < low {
		return low
	}
	if val > high {
		return high
	}
	return val
}
