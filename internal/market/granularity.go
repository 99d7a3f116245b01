package market

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Granularity is the duration of one candle bucket in seconds.
type Granularity int64

// Granularities supported by the candles endpoint.
const (
	Granularity1m  Granularity = 60
	Granularity5m  Granularity = 300
	Granularity15m Granularity = 900
	Granularity1h  Granularity = 3600
	Granularity4h  Granularity = 14400
	Granularity1d  Granularity = 86400
)

// GranularityLabels maps the short labels accepted on the command line to
// bucket durations.
var GranularityLabels = map[string]Granularity{
	"1m":  Granularity1m,
	"5m":  Granularity5m,
	"15m": Granularity15m,
	"1h":  Granularity1h,
	"4h":  Granularity4h,
	"1d":  Granularity1d,
}

// GranularityOrder defines the cycling order for the granularity hotkey.
var GranularityOrder = []string{"1m", "5m", "15m", "1h", "4h", "1d"}

// Seconds returns the bucket length in whole seconds.
func (g Granularity) Seconds() int64 {
	return int64(g)
}

// Duration returns the bucket length as a time.Duration.
func (g Granularity) Duration() time.Duration {
	return time.Duration(g) * time.Second
}

// String returns the short label for known granularities and a raw second
// count for everything else.
func (g Granularity) String() string {
	for _, label := range GranularityOrder {
		if GranularityLabels[label] == g {
			return label
		}
	}
	return strconv.FormatInt(int64(g), 10) + "s"
}

// ParseGranularity resolves a short label like "1h". A plain second count is
// accepted too, so config files can name buckets the API does not label.
func ParseGranularity(s string) (Granularity, error) {
	if g, ok := GranularityLabels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return g, nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil && secs > 0 {
		return Granularity(secs), nil
	}
	return 0, fmt.Errorf("unknown granularity %q (supported: %s)", s, strings.Join(GranularityOrder, ", "))
}

// NextGranularity returns the granularity after g in cycling order, wrapping
// at the end. Unlisted granularities cycle back to the first entry.
func NextGranularity(g Granularity) Granularity {
	for i, label := range GranularityOrder {
		if GranularityLabels[label] == g {
			return GranularityLabels[GranularityOrder[(i+1)%len(GranularityOrder)]]
		}
	}
	return GranularityLabels[GranularityOrder[0]]
}
