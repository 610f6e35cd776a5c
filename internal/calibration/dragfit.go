// Package calibration holds ground-side, offline tooling: fitting a drag
// table from bench/flight data and Monte-Carlo property testing of the
// ascent/MPC pipeline. Neither runs on the real-time core, so both are
// free to use gonum and goroutines where the core cannot.
package calibration

import "gonum.org/v1/gonum/stat"

// breakpoints are the air-brakes extension fractions the drag table is
// indexed by: 0%, 25%, 50%, 75%, 100%.
var breakpoints = [5]float64{0, 0.25, 0.5, 0.75, 1.0}

// Sample is one bench or flight-reconstructed (extension, measured Cd)
// observation.
type Sample struct {
	ExtensionFraction float64
	MeasuredCd        float64
}

// FitDragTable buckets samples to their nearest extension breakpoint and
// returns the per-bucket mean Cd as a 5-entry drag table. A bucket with
// no samples falls back to linear interpolation between its populated
// neighbors so the strictly-increasing invariant
// config.RocketParameters.Validate enforces still has a chance to hold.
func FitDragTable(samples []Sample) [5]float32 {
	buckets := make([][]float64, 5)
	for _, s := range samples {
		buckets[nearestBreakpoint(s.ExtensionFraction)] = append(buckets[nearestBreakpoint(s.ExtensionFraction)], s.MeasuredCd)
	}

	var table [5]float32
	var have [5]bool
	for i, b := range buckets {
		if len(b) == 0 {
			continue
		}
		table[i] = float32(stat.Mean(b, nil))
		have[i] = true
	}

	fillMissingBuckets(&table, have)
	return table
}

func nearestBreakpoint(extensionFraction float64) int {
	best, bestDist := 0, 1e9
	for i, bp := range breakpoints {
		d := bp - extensionFraction
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// fillMissingBuckets linearly interpolates any table entries that had no
// samples, using the nearest populated neighbors on each side.
func fillMissingBuckets(table *[5]float32, have [5]bool) {
	for i := 0; i < 5; i++ {
		if have[i] {
			continue
		}
		lo := i
		for lo >= 0 && !have[lo] {
			lo--
		}
		hi := i
		for hi < 5 && !have[hi] {
			hi++
		}
		switch {
		case lo < 0 && hi < 5:
			table[i] = table[hi]
		case hi >= 5 && lo >= 0:
			table[i] = table[lo]
		case lo >= 0 && hi < 5:
			t := float32(i-lo) / float32(hi-lo)
			table[i] = table[lo] + t*(table[hi]-table[lo])
		}
	}
}
