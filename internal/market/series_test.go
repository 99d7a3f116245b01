package market

import (
	"math"
	"reflect"
	"slices"
	"testing"
)

// candles builds a series of flat candles at the given times, with a price
// derived from the time so individual points stay distinguishable.
func candles(times ...int64) []Candle {
	cs := make([]Candle, len(times))
	for i, ts := range times {
		price := float64(ts)
		cs[i] = Candle{Time: ts, Open: price, High: price + 1, Low: price - 1, Close: price}
	}
	return cs
}

// requireAscending fails the test unless cs is strictly ascending by Time.
func requireAscending(t *testing.T, cs []Candle) {
	t.Helper()
	for i := 1; i < len(cs); i++ {
		if cs[i-1].Time >= cs[i].Time {
			t.Fatalf("series not strictly ascending at %d: %d >= %d", i, cs[i-1].Time, cs[i].Time)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   []Candle
		times []int64
	}{
		{
			name:  "empty",
			raw:   nil,
			times: nil,
		},
		{
			name:  "already sorted",
			raw:   candles(100, 200, 300),
			times: []int64{100, 200, 300},
		},
		{
			name:  "unsorted input",
			raw:   candles(300, 100, 200),
			times: []int64{100, 200, 300},
		},
		{
			name:  "duplicates collapsed",
			raw:   candles(100, 200, 100, 300, 200),
			times: []int64{100, 200, 300},
		},
		{
			name: "non-finite dropped",
			raw: []Candle{
				{Time: 100, Open: 1, High: 2, Low: 0.5, Close: 1.5},
				{Time: 200, Open: math.NaN(), High: 2, Low: 0.5, Close: 1.5},
				{Time: 300, Open: 1, High: math.Inf(1), Low: 0.5, Close: 1.5},
				{Time: 400, Open: 1, High: 2, Low: math.Inf(-1), Close: 1.5},
				{Time: 500, Open: 1, High: 2, Low: 0.5, Close: 1.5},
			},
			times: []int64{100, 500},
		},
	}

	for i := range tests {
		test := tests[i]
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(test.raw)
			requireAscending(t, got)
			if !slices.Equal(Times(got), test.times) {
				t.Fatalf("Normalize times = %v, want %v", Times(got), test.times)
			}
		})
	}
}

func TestNormalizeKeepsLatestDuplicate(t *testing.T) {
	t.Parallel()

	raw := []Candle{
		{Time: 100, Open: 1, High: 1, Low: 1, Close: 1},
		{Time: 200, Open: 2, High: 2, Low: 2, Close: 2},
		{Time: 100, Open: 9, High: 9, Low: 9, Close: 9},
	}

	got := Normalize(raw)
	if len(got) != 2 {
		t.Fatalf("Normalize returned %d candles, want 2", len(got))
	}
	if got[0].Close != 9 {
		t.Fatalf("duplicate at t=100 resolved to Close=%v, want the later value 9", got[0].Close)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	raw := candles(300, 100, 200)
	want := Times(raw)
	_ = Normalize(raw)
	if !slices.Equal(Times(raw), want) {
		t.Fatalf("Normalize reordered its input: %v, want %v", Times(raw), want)
	}
}

func TestMergeOlder(t *testing.T) {
	t.Parallel()

	existing := candles(1000, 1100, 1200)

	tests := []struct {
		name     string
		incoming []Candle
		anchor   int64
		times    []int64
		ok       bool
	}{
		{
			name:     "prepends older page",
			incoming: candles(700, 800, 900),
			anchor:   1000,
			times:    []int64{700, 800, 900, 1000, 1100, 1200},
			ok:       true,
		},
		{
			name:     "filters overlap at anchor",
			incoming: candles(800, 900, 1000, 1100),
			anchor:   1000,
			times:    []int64{800, 900, 1000, 1100, 1200},
			ok:       true,
		},
		{
			name:     "sorts incoming page",
			incoming: candles(900, 700, 800),
			anchor:   1000,
			times:    []int64{700, 800, 900, 1000, 1100, 1200},
			ok:       true,
		},
		{
			name:     "exhausted when nothing older",
			incoming: candles(1000, 1100, 1200),
			anchor:   1000,
			times:    []int64{1000, 1100, 1200},
			ok:       false,
		},
		{
			name:     "exhausted on empty page",
			incoming: nil,
			anchor:   1000,
			times:    []int64{1000, 1100, 1200},
			ok:       false,
		},
	}

	for i := range tests {
		test := tests[i]
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, ok := MergeOlder(existing, test.incoming, test.anchor)
			if ok != test.ok {
				t.Fatalf("MergeOlder ok = %v, want %v", ok, test.ok)
			}
			requireAscending(t, got)
			if !slices.Equal(Times(got), test.times) {
				t.Fatalf("MergeOlder times = %v, want %v", Times(got), test.times)
			}
		})
	}
}

func TestMergeOlderExhaustedLeavesExistingUntouched(t *testing.T) {
	t.Parallel()

	existing := candles(1000, 1100)
	got, ok := MergeOlder(existing, candles(1000, 1100), 1000)
	if ok {
		t.Fatal("MergeOlder reported ok for an exhausted page")
	}
	if !reflect.DeepEqual(got, existing) {
		t.Fatalf("MergeOlder mutated the series on an exhausted page: %v", Times(got))
	}
}

func TestMergeOlderIdempotent(t *testing.T) {
	t.Parallel()

	existing := candles(1000, 1100, 1200)
	page := candles(700, 800, 900)

	merged, ok := MergeOlder(existing, page, existing[0].Time)
	if !ok {
		t.Fatal("first MergeOlder rejected a valid page")
	}

	// Replaying the same page against the new anchor finds nothing older.
	again, ok := MergeOlder(merged, page, merged[0].Time)
	if ok {
		t.Fatal("second MergeOlder of the same page reported new data")
	}
	if !reflect.DeepEqual(again, merged) {
		t.Fatalf("second MergeOlder changed the series: %v", Times(again))
	}
}

func TestMergeNewer(t *testing.T) {
	t.Parallel()

	existing := candles(1000, 1100, 1200)

	tests := []struct {
		name     string
		incoming []Candle
		anchor   int64
		times    []int64
	}{
		{
			name:     "appends newer page",
			incoming: candles(1300, 1400),
			anchor:   1200,
			times:    []int64{1000, 1100, 1200, 1300, 1400},
		},
		{
			name:     "filters overlap at anchor",
			incoming: candles(1100, 1200, 1300),
			anchor:   1200,
			times:    []int64{1000, 1100, 1200, 1300},
		},
		{
			name:     "sorts incoming page",
			incoming: candles(1400, 1300),
			anchor:   1200,
			times:    []int64{1000, 1100, 1200, 1300, 1400},
		},
		{
			name:     "already current",
			incoming: candles(1100, 1200),
			anchor:   1200,
			times:    []int64{1000, 1100, 1200},
		},
		{
			name:     "empty page",
			incoming: nil,
			anchor:   1200,
			times:    []int64{1000, 1100, 1200},
		},
	}

	for i := range tests {
		test := tests[i]
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := MergeNewer(existing, test.incoming, test.anchor)
			requireAscending(t, got)
			if !slices.Equal(Times(got), test.times) {
				t.Fatalf("MergeNewer times = %v, want %v", Times(got), test.times)
			}
		})
	}
}

func TestMergeNewerIdempotent(t *testing.T) {
	t.Parallel()

	existing := candles(1000, 1100)
	page := candles(1200, 1300)

	merged := MergeNewer(existing, page, existing[len(existing)-1].Time)
	again := MergeNewer(merged, page, merged[len(merged)-1].Time)
	if !reflect.DeepEqual(again, merged) {
		t.Fatalf("replaying an applied page changed the series: %v", Times(again))
	}
}

func TestMergeNewerAlreadyCurrentReturnsSameSlice(t *testing.T) {
	t.Parallel()

	existing := candles(1000, 1100)
	got := MergeNewer(existing, candles(1000, 1100), 1100)
	if &got[0] != &existing[0] {
		t.Fatal("MergeNewer allocated a new series although nothing was newer")
	}
}

func TestTimes(t *testing.T) {
	t.Parallel()

	if got := Times(nil); got != nil {
		t.Fatalf("Times(nil) = %v, want nil", got)
	}
	if got := Times(candles(1, 2, 3)); !slices.Equal(got, []int64{1, 2, 3}) {
		t.Fatalf("Times = %v, want [1 2 3]", got)
	}
}

func TestSpan(t *testing.T) {
	t.Parallel()

	if _, _, ok := Span(nil); ok {
		t.Fatal("Span(nil) reported ok")
	}
	from, to, ok := Span(candles(100, 200, 300))
	if !ok || from != 100 || to != 300 {
		t.Fatalf("Span = (%d, %d, %v), want (100, 300, true)", from, to, ok)
	}
}
