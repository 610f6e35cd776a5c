package welford

import (
	"math"
	"testing"

	"github.com/pozzari-rocketry/flightcore/internal/types"
)

func TestVarianceUndefinedBelowTwoSamples(t *testing.T) {
	var a Accumulator
	if _, ok := a.Variance(); ok {
		t.Fatal("variance should be undefined with zero samples")
	}
	a.Update(types.Vec3{X: 1})
	if _, ok := a.Variance(); ok {
		t.Fatal("variance should be undefined with one sample")
	}
}

func TestMeanAndVarianceMatchDirectComputation(t *testing.T) {
	samples := []types.Vec3{
		{X: 1, Y: 10, Z: -3},
		{X: 2, Y: 12, Z: -1},
		{X: 3, Y: 8, Z: 0},
		{X: 4, Y: 14, Z: 2},
		{X: 5, Y: 9, Z: 5},
	}

	var a Accumulator
	for _, s := range samples {
		a.Update(s)
	}

	wantMean := types.Vec3{}
	for _, s := range samples {
		wantMean = wantMean.Add(s)
	}
	n := float32(len(samples))
	wantMean = wantMean.Scale(1 / n)

	gotMean := a.Mean()
	if !closeVec(gotMean, wantMean, 1e-4) {
		t.Fatalf("mean = %+v, want %+v", gotMean, wantMean)
	}

	var sumSq types.Vec3
	for _, s := range samples {
		d := s.Sub(wantMean)
		sumSq = sumSq.Add(types.Vec3{X: d.X * d.X, Y: d.Y * d.Y, Z: d.Z * d.Z})
	}
	wantVar := sumSq.Scale(1 / float32(len(samples)-1))

	gotVar, ok := a.Variance()
	if !ok {
		t.Fatal("variance should be defined")
	}
	if !closeVec(gotVar, wantVar, 1e-4) {
		t.Fatalf("variance = %+v, want %+v", gotVar, wantVar)
	}
}

func closeVec(a, b types.Vec3, relTol float64) bool {
	return closeF(float64(a.X), float64(b.X), relTol) &&
		closeF(float64(a.Y), float64(b.Y), relTol) &&
		closeF(float64(a.Z), float64(b.Z), relTol)
}

func closeF(a, b, relTol float64) bool {
	if math.Abs(b) < 1e-9 {
		return math.Abs(a-b) < 1e-6
	}
	return math.Abs(a-b)/math.Abs(b) < relTol
}
