package calibration

import "testing"

func TestFitDragTableAveragesPerBucket(t *testing.T) {
	samples := []Sample{
		{ExtensionFraction: 0.0, MeasuredCd: 0.30},
		{ExtensionFraction: 0.02, MeasuredCd: 0.32},
		{ExtensionFraction: 1.0, MeasuredCd: 1.05},
		{ExtensionFraction: 0.98, MeasuredCd: 0.95},
	}

	table := FitDragTable(samples)

	if got, want := table[0], float32(0.31); got < want-0.01 || got > want+0.01 {
		t.Errorf("bucket 0 mean: got %v want ~%v", got, want)
	}
	if got, want := table[4], float32(1.0); got < want-0.01 || got > want+0.01 {
		t.Errorf("bucket 4 mean: got %v want ~%v", got, want)
	}
}

func TestFitDragTableInterpolatesEmptyBuckets(t *testing.T) {
	samples := []Sample{
		{ExtensionFraction: 0.0, MeasuredCd: 0.30},
		{ExtensionFraction: 1.0, MeasuredCd: 1.10},
	}

	table := FitDragTable(samples)

	for i := 1; i < 4; i++ {
		if table[i] <= table[i-1] {
			t.Fatalf("expected strictly increasing interpolated table, got %v", table)
		}
	}
}

func TestNearestBreakpoint(t *testing.T) {
	cases := map[float64]int{
		0.0:  0,
		0.1:  0,
		0.24: 1,
		0.26: 1,
		0.5:  2,
		0.8:  3,
		1.0:  4,
	}
	for input, want := range cases {
		if got := nearestBreakpoint(input); got != want {
			t.Errorf("nearestBreakpoint(%v) = %d, want %d", input, got, want)
		}
	}
}
