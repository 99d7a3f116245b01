// Package format provides UI formatting helpers.
package format

import (
	"fmt"
	"strings"
	"time"
)

// nowFunc is swappable in tests.
var nowFunc = time.Now

// Duration formats elapsed seconds as "2m3s", "1h30m", etc. (max 2 segments).
func Duration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	mins := (seconds % 3600) / 60
	secs := seconds % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh%dm", hours, mins)
	case mins > 0:
		return fmt.Sprintf("%dm%ds", mins, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// DurationSince formats the elapsed time since at, "-" for a zero time.
func DurationSince(at time.Time) string {
	if at.IsZero() {
		return "-"
	}
	return Duration(int64(nowFunc().Sub(at).Seconds()))
}

// Number formats a number with K/M suffixes for readability.
func Number(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// Comma formats an integer with thousands separators.
func Comma(n int64) string {
	s := fmt.Sprintf("%d", n)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	return sign + b.String()
}

// Price formats a price with a fixed number of decimal places.
func Price(v float64, decimals int) string {
	return fmt.Sprintf("%.*f", decimals, v)
}

// PriceDecimals returns how many decimal places are needed to tell values a
// given step apart. Sub-pip FX steps cap out at 8.
func PriceDecimals(step float64) int {
	if step <= 0 {
		return 2
	}
	decimals := 0
	for step < 1 && decimals < 8 {
		step *= 10
		decimals++
	}
	return decimals
}

// Delta formats a signed percentage change as "+0.42%".
func Delta(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}

// Time formats a unix timestamp as a UTC minute-precision string.
func Time(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04")
}
