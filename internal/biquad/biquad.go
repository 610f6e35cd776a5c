// Package biquad implements a persistent per-axis Butterworth low-pass
// filter used to clean the ignition-detection acceleration signal before
// it is compared against the squared ignition threshold.
package biquad

import "math"

// Filter is a direct-form-II transposed biquad section. It carries state
// between calls, so one Filter instance is needed per signal axis.
type Filter struct {
	b0, b1, b2 float32
	a1, a2     float32
	z1, z2     float32
}

// NewButterworthLowPass builds a second-order Butterworth low-pass section
// for the given cutoff and sample rate (both Hz). The OnPad ignition
// filter runs this at a 10 Hz cutoff against a 500 Hz sample rate, but the
// constructor takes both as parameters so other bindings (different
// sample rate firmware targets) are not hard-coded.
func NewButterworthLowPass(cutoffHz, sampleRateHz float32) *Filter {
	// Standard bilinear-transform Butterworth biquad design (Q = 1/sqrt(2)).
	w0 := 2 * math.Pi * float64(cutoffHz) / float64(sampleRateHz)
	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)
	q := 1 / math.Sqrt2
	alpha := sinW0 / (2 * q)

	a0 := 1 + alpha
	b0 := (1 - cosW0) / 2 / a0
	b1 := (1 - cosW0) / a0
	b2 := b0
	a1 := -2 * cosW0 / a0
	a2 := (1 - alpha) / a0

	return &Filter{
		b0: float32(b0), b1: float32(b1), b2: float32(b2),
		a1: float32(a1), a2: float32(a2),
	}
}

// Step filters one sample and returns the output, updating internal state.
func (f *Filter) Step(x float32) float32 {
	y := f.b0*x + f.z1
	f.z1 = f.b1*x - f.a1*y + f.z2
	f.z2 = f.b2*x - f.a2*y
	return y
}

// Reset clears the filter's internal state (does not change its
// coefficients).
func (f *Filter) Reset() {
	f.z1, f.z2 = 0, 0
}
