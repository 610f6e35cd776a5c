// Package estimator implements the staged bootstrap orientation estimator:
// OnPad -> Stage1 -> Stage2, modeled as an explicit tagged union so each
// phase's data is dropped on transition rather than accumulating in one
// shared struct.
package estimator

import "github.com/pozzari-rocketry/flightcore/internal/types"

// Phase is one variant of the bootstrap state machine. Step consumes one
// tick's (already axis-remapped) measurement and returns the phase to use
// on the next tick — itself, unless a transition just occurred.
type Phase interface {
	Step(m types.Measurement) Phase

	// VerticalAccel returns this phase's best estimate of the Earth-frame
	// vertical (net, non-gravity) acceleration for m, used to drive the
	// altitude Kalman filter's process model.
	VerticalAccel(m types.Measurement) float32

	// Tilt returns the angle between Earth-Up and the rocket's +Z axis,
	// and true, once Stage2 exists; otherwise (0, false).
	Tilt() (float32, bool)

	// Stats returns the bias/noise statistics computed at the end of
	// OnPad, and true, once Stage1 exists; otherwise (Stats{}, false).
	Stats() (Stats, bool)
}

// Stats holds the bias and noise estimates derived from the first
// buffered second of on-pad data.
type Stats struct {
	GyroBias             types.Vec3
	AccelVariance        float32
	GyroVariance         float32
	AltVariance          float32
	LaunchPadAltitudeASL float32
}

// gravityMSS is standard gravity, used for the OnPad fallback vertical
// acceleration estimate (pad assumed roughly upright).
const gravityMSS = 9.81
