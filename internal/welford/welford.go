// Package welford implements Welford's numerically stable online
// mean/variance algorithm over three-dimensional samples.
package welford

import "github.com/pozzari-rocketry/flightcore/internal/types"

// Accumulator holds running (count, mean, M2) state. The zero value is a
// valid, empty accumulator.
type Accumulator struct {
	count int
	mean  types.Vec3
	m2    types.Vec3
}

// Update folds one sample into the running statistics.
func (a *Accumulator) Update(sample types.Vec3) {
	a.count++
	n := float32(a.count)
	delta := sample.Sub(a.mean)
	a.mean = a.mean.Add(delta.Scale(1 / n))
	delta2 := sample.Sub(a.mean)
	a.m2 = a.m2.Add(types.Vec3{
		X: delta.X * delta2.X,
		Y: delta.Y * delta2.Y,
		Z: delta.Z * delta2.Z,
	})
}

// Count returns the number of samples folded in so far.
func (a *Accumulator) Count() int {
	return a.count
}

// Mean returns the running mean. Zero-valued until the first sample.
func (a *Accumulator) Mean() types.Vec3 {
	return a.mean
}

// Variance returns the unbiased per-axis sample variance and true, or the
// zero vector and false if fewer than two samples have been seen.
func (a *Accumulator) Variance() (types.Vec3, bool) {
	if a.count < 2 {
		return types.Vec3{}, false
	}
	n := float32(a.count - 1)
	return types.Vec3{X: a.m2.X / n, Y: a.m2.Y / n, Z: a.m2.Z / n}, true
}

// VarianceMagnitude returns the sum of the per-axis variances (a scalar
// noise-power proxy), or false if undefined.
func (a *Accumulator) VarianceMagnitude() (float32, bool) {
	v, ok := a.Variance()
	if !ok {
		return 0, false
	}
	return v.X + v.Y + v.Z, true
}

// Reset clears the accumulator back to its zero value.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}
