// Package market provides the market-data API client and the candle series
// operations the chart views are built on.
package market

import "math"

// Candle is one OHLC aggregation over a granularity bucket.
// Time is the bucket start in Unix seconds (UTC) and is the unique key within
// a series: candle slices are kept strictly ascending by Time with no
// duplicate timestamps, and merges produce new slices rather than mutating in
// place.
type Candle struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Valid reports whether every OHLC field is a finite number. Points failing
// this are dropped during normalization, never coerced.
func (c Candle) Valid() bool {
	return finite(c.Open) && finite(c.High) && finite(c.Low) && finite(c.Close)
}

// Bullish reports whether the candle closed at or above its open.
func (c Candle) Bullish() bool {
	return c.Close >= c.Open
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Snapshot is one sparse, irregularly timed observation of the strategy
// metrics published for an instrument. Fields are independently optional: a
// nil pointer means the metric was not observed at that time, which is
// distinct from zero. Snapshot slices are ascending by T and treated as
// immutable once fetched.
type Snapshot struct {
	T    int64    `json:"t"`    // observation time, unix seconds UTC
	MR   *float64 `json:"mr"`   // mean-reversion score
	ATR  *float64 `json:"atr"`  // average true range
	Base *float64 `json:"base"` // baseline price
	VT   *float64 `json:"vt"`   // volatility target
}

// Float returns a pointer to v, for building sparse snapshots.
func Float(v float64) *float64 {
	return &v
}

// Instrument identifies one symbol known to the market-data API.
type Instrument struct {
	Symbol      string `json:"instrument"`
	Description string `json:"description"`
}
