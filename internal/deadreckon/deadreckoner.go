// Package deadreckon integrates orientation and position purely from
// inertial measurements.
package deadreckon

import "github.com/pozzari-rocketry/flightcore/internal/types"

// gravityMSS is the magnitude of gravitational acceleration subtracted
// from the inertial-frame acceleration when gravity compensation is
// enabled.
const gravityMSS = 9.81

// Reckoner tracks orientation, position, and velocity incrementally.
type Reckoner struct {
	q             types.Quaternion
	pos           types.Vec3
	vel           types.Vec3
	subtractGravity bool
}

// New returns a Reckoner that subtracts Earth gravity from the rotated
// acceleration before integrating — the constructor to use once the
// vehicle is in coast/free-fall and accelerometer readings include the 1g
// bias.
func New(initial types.Quaternion) *Reckoner {
	return &Reckoner{q: initial.Normalized(), subtractGravity: true}
}

// NewNoGravity returns a Reckoner that integrates raw rotated acceleration
// with no gravity subtraction — used for bootstrap replay and tests where
// the caller wants pure kinematic integration in a possibly non-Earth-
// aligned frame.
func NewNoGravity(initial types.Quaternion) *Reckoner {
	return &Reckoner{q: initial.Normalized(), subtractGravity: false}
}

// SetPosition overwrites the current position estimate.
func (r *Reckoner) SetPosition(p types.Vec3) { r.pos = p }

// SetVelocity overwrites the current velocity estimate.
func (r *Reckoner) SetVelocity(v types.Vec3) { r.vel = v }

// Orientation returns the current q_sensor_to_earth-style rotation state.
func (r *Reckoner) Orientation() types.Quaternion { return r.q }

// Position returns the current integrated position.
func (r *Reckoner) Position() types.Vec3 { return r.pos }

// Velocity returns the current integrated velocity.
func (r *Reckoner) Velocity() types.Vec3 { return r.vel }

// Step advances the reckoner by one tick of dt seconds given an
// acceleration (in the reckoner's own source frame) and a body-frame
// angular rate:
//
//  1. q ← q ⊗ exp(½ω·dt)
//  2. a_e = q·a_s − g·ẑ  (gravity subtraction optional)
//  3. p ← p + v·dt + ½·a_e·dt²;  v ← v + a_e·dt
func (r *Reckoner) Step(accel, gyro types.Vec3, dt float32) {
	r.q = r.q.Mul(types.SmallAngleStep(gyro, dt)).Normalized()

	aInertial := r.q.Rotate(accel)
	if r.subtractGravity {
		aInertial = aInertial.Sub(types.Up.Scale(gravityMSS))
	}

	r.pos = r.pos.Add(r.vel.Scale(dt)).Add(aInertial.Scale(dt * dt / 2))
	r.vel = r.vel.Add(aInertial.Scale(dt))
}
