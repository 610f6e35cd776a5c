package estimator

import "github.com/pozzari-rocketry/flightcore/internal/types"

// ignitionLowPassCutoffHz is the Butterworth cutoff applied to the OnPad
// ignition-detection signal.
const ignitionLowPassCutoffHz = 10.0

// Estimator drives the bootstrap orientation state machine one tick at a
// time, hiding the current Phase behind phase-gated accessors.
type Estimator struct {
	phase Phase
}

// New constructs an Estimator in its initial OnPad phase. sampleRate is
// samples/second and ignitionThreshold is the low-passed acceleration
// magnitude, in m/s^2, that declares ignition.
func New(sampleRate int, ignitionThreshold float32) *Estimator {
	return &Estimator{phase: NewOnPad(sampleRate, ignitionThreshold, ignitionLowPassCutoffHz)}
}

// Update folds one (already axis-remapped) measurement through the
// current phase, transitioning as needed, and returns the resulting
// Phase.
func (e *Estimator) Update(m types.Measurement) Phase {
	e.phase = e.phase.Step(m)
	return e.phase
}

// VerticalAccel returns the current phase's best estimate of Earth-frame
// net vertical acceleration for m, suitable as the altitude Kalman
// filter's process input.
func (e *Estimator) VerticalAccel(m types.Measurement) float32 {
	return e.phase.VerticalAccel(m)
}

// Tilt returns the angle between Earth-Up and the rocket's +Z axis, and
// true, once Stage2 has been reached.
func (e *Estimator) Tilt() (float32, bool) {
	return e.phase.Tilt()
}

// Stats returns the bias/noise statistics computed at ignition, and
// true, once Stage1 has been reached.
func (e *Estimator) Stats() (Stats, bool) {
	return e.phase.Stats()
}

// InStage2 reports whether the estimator has reached the terminal
// rocket-frame tracking phase.
func (e *Estimator) InStage2() bool {
	_, ok := e.phase.Tilt()
	return ok
}
