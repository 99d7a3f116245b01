package market

import (
	"slices"
	"testing"
)

func snapshotTimes(ss []Snapshot) []int64 {
	if len(ss) == 0 {
		return nil
	}
	times := make([]int64, len(ss))
	for i, s := range ss {
		times[i] = s.T
	}
	return times
}

func TestResampleCarryForward(t *testing.T) {
	t.Parallel()

	// Two observations; the grid slot before the first has no data yet, the
	// slot after the last must not extrapolate a stale value forward.
	snapshots := []Snapshot{
		{T: 100, MR: Float(0.1)},
		{T: 200, MR: Float(0.2)},
	}

	got := Resample(snapshots, []int64{90, 150, 250})
	if len(got) != 1 {
		t.Fatalf("Resample emitted %d points, want exactly 1 (times %v)", len(got), snapshotTimes(got))
	}
	if got[0].T != 150 {
		t.Fatalf("emitted point stamped t=%d, want the grid time 150", got[0].T)
	}
	if got[0].MR == nil || *got[0].MR != 0.1 {
		t.Fatalf("emitted point carries mr=%v, want 0.1 from the t=100 snapshot", got[0].MR)
	}
}

func TestResample(t *testing.T) {
	t.Parallel()

	snapshots := []Snapshot{
		{T: 100, MR: Float(1)},
		{T: 250, MR: Float(2)},
		{T: 400, MR: Float(3)},
	}

	tests := []struct {
		name  string
		grid  []int64
		times []int64
		mrs   []float64
	}{
		{
			name:  "exact matches",
			grid:  []int64{100, 250, 400},
			times: []int64{100, 250, 400},
			mrs:   []float64{1, 2, 3},
		},
		{
			name:  "carry between observations",
			grid:  []int64{100, 150, 200, 300, 400},
			times: []int64{100, 150, 200, 300, 400},
			mrs:   []float64{1, 1, 1, 2, 3},
		},
		{
			name:  "grid before first observation skipped",
			grid:  []int64{10, 50, 120},
			times: []int64{120},
			mrs:   []float64{1},
		},
		{
			name:  "grid past last observation excluded",
			grid:  []int64{390, 400, 410, 500},
			times: []int64{390, 400},
			mrs:   []float64{2, 3},
		},
		{
			name:  "entire grid past last observation",
			grid:  []int64{500, 600},
			times: nil,
			mrs:   nil,
		},
		{
			name:  "entire grid before first observation",
			grid:  []int64{10, 20},
			times: nil,
			mrs:   nil,
		},
	}

	for i := range tests {
		test := tests[i]
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := Resample(snapshots, test.grid)
			if !slices.Equal(snapshotTimes(got), test.times) {
				t.Fatalf("Resample times = %v, want %v", snapshotTimes(got), test.times)
			}
			for j, want := range test.mrs {
				if got[j].MR == nil || *got[j].MR != want {
					t.Fatalf("point %d carries mr=%v, want %v", j, got[j].MR, want)
				}
			}
		})
	}
}

func TestResampleEmptyInputs(t *testing.T) {
	t.Parallel()

	if got := Resample(nil, []int64{100, 200}); got != nil {
		t.Fatalf("Resample(nil, grid) = %v, want nil", got)
	}
	if got := Resample([]Snapshot{{T: 100}}, nil); got != nil {
		t.Fatalf("Resample(snapshots, nil) = %v, want nil", got)
	}
}

func TestResamplePreservesNullFields(t *testing.T) {
	t.Parallel()

	// A metric absent in the observation stays absent in the carried point,
	// it must not come back as zero.
	snapshots := []Snapshot{
		{T: 100, MR: Float(0.5), ATR: nil, Base: Float(101.5), VT: nil},
	}

	got := Resample(snapshots, []int64{100})
	if len(got) != 1 {
		t.Fatalf("Resample emitted %d points, want 1", len(got))
	}
	if got[0].ATR != nil || got[0].VT != nil {
		t.Fatalf("absent metrics reappeared: atr=%v vt=%v", got[0].ATR, got[0].VT)
	}
	if got[0].MR == nil || *got[0].MR != 0.5 || got[0].Base == nil || *got[0].Base != 101.5 {
		t.Fatalf("present metrics lost: mr=%v base=%v", got[0].MR, got[0].Base)
	}
}

func TestResampleDoesNotMutateSnapshots(t *testing.T) {
	t.Parallel()

	snapshots := []Snapshot{
		{T: 100, MR: Float(1)},
		{T: 200, MR: Float(2)},
	}

	_ = Resample(snapshots, []int64{150, 175})
	if snapshots[0].T != 100 || snapshots[1].T != 200 {
		t.Fatalf("Resample restamped its input: %v", snapshotTimes(snapshots))
	}
}
