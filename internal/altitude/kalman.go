// Package altitude implements the two-state barometric altitude Kalman
// filter. The state is (altitude ASL, vertical velocity); unlike the
// teacher's gonum-backed fusion.ExtendedKalmanFilter, this filter uses
// plain fixed-size float32 arrays rather than a heap-allocating matrix
// library, because the real-time core forbids per-tick heap allocation
// and mandates bit-reproducible single precision that a generic float64
// matrix type would not give us for free (see DESIGN.md).
package altitude

import "github.com/pozzari-rocketry/flightcore/internal/config"

// KalmanFilter tracks altitude ASL and vertical velocity.
type KalmanFilter struct {
	dt float32

	alt float32
	vv  float32

	// cov is the symmetric 2x2 covariance [[P00,P01],[P01,P11]].
	p00, p01, p11 float32

	processNoiseAccelStd float32
	measurementVariance  float32
}

// New constructs a filter seeded with an initial altitude and variance
// (normally computed from the first N on-pad samples) and the tuning in
// cfg.
func New(dt, initialAltASL, initialAltVariance float32, cfg config.KalmanConfig) *KalmanFilter {
	measVar := cfg.MeasurementVariance
	if initialAltVariance > measVar {
		measVar = initialAltVariance
	}
	return &KalmanFilter{
		dt:                    dt,
		alt:                   initialAltASL,
		p00:                   initialAltVariance,
		p11:                   1.0,
		processNoiseAccelStd:  cfg.ProcessNoiseAccelStd,
		measurementVariance:   measVar,
	}
}

// Predict advances the filter one tick under the supplied vertical
// acceleration input as the process model's control term.
func (kf *KalmanFilter) Predict(aVert float32) {
	dt := kf.dt

	kf.alt = kf.alt + kf.vv*dt + 0.5*aVert*dt*dt
	kf.vv = kf.vv + aVert*dt

	// State transition F = [[1, dt],[0, 1]]; P' = F P F^T + Q.
	p00 := kf.p00 + dt*(kf.p01+kf.p01+dt*kf.p11)
	p01 := kf.p01 + dt*kf.p11
	p11 := kf.p11

	// Process noise from a constant-acceleration-uncertainty model,
	// discretized over dt (standard Q for a near-constant-velocity KF).
	q := kf.processNoiseAccelStd * kf.processNoiseAccelStd
	dt2 := dt * dt
	dt3 := dt2 * dt
	dt4 := dt3 * dt
	p00 += q * dt4 / 4
	p01 += q * dt3 / 2
	p11 += q * dt2

	kf.p00, kf.p01, kf.p11 = p00, p01, p11
}

// Update applies a barometric altitude measurement as a direct
// observation of the altitude state.
func (kf *KalmanFilter) Update(altitudeASL float32) {
	innovation := altitudeASL - kf.alt
	s := kf.p00 + kf.measurementVariance
	if s < 1e-9 {
		s = 1e-9
	}
	k0 := kf.p00 / s
	k1 := kf.p01 / s

	kf.alt += k0 * innovation
	kf.vv += k1 * innovation

	p00 := (1 - k0) * kf.p00
	p01 := (1 - k0) * kf.p01
	p11 := kf.p11 - k1*kf.p01

	kf.p00, kf.p01, kf.p11 = p00, p01, p11
}

// SeedVelocity overwrites the filter's vertical velocity state. Intended
// for one-time handoff seeding (e.g. the descent state machine taking
// over apogee's last velocity estimate), never a per-tick operation.
func (kf *KalmanFilter) SeedVelocity(v float32) { kf.vv = v }

// Altitude returns the current altitude ASL estimate.
func (kf *KalmanFilter) Altitude() float32 { return kf.alt }

// VerticalVelocity returns the current vertical velocity estimate.
func (kf *KalmanFilter) VerticalVelocity() float32 { return kf.vv }

// AltitudeVariance returns the current altitude estimate's variance.
func (kf *KalmanFilter) AltitudeVariance() float32 { return kf.p00 }
