// Package dynamics implements the two-dimensional rigid-body physics
// shared by the apogee simulator and the air-brakes MPC: drag, gravity,
// and RK2 (midpoint) time stepping.
package dynamics

import (
	"math"

	"github.com/pozzari-rocketry/flightcore/internal/config"
)

// gravityMSS is the downward gravitational acceleration used by the
// forward simulation.
const gravityMSS = 9.81

// State is the simulated rocket's kinematic state: altitude ASL and a
// two-dimensional (horizontal, vertical) velocity.
type State struct {
	AltitudeASL float32
	Vx, Vy      float32
}

// seaLevelDensityKgM3 and scaleHeightM parametrize a standard exponential
// atmosphere density model, adequate over the altitude range this
// forward simulation runs across.
const (
	seaLevelDensityKgM3 = 1.225
	scaleHeightM        = 8500.0
)

// AirDensity approximates ambient air density at the given altitude ASL.
func AirDensity(altitudeASL float32) float32 {
	return seaLevelDensityKgM3 * float32(math.Exp(-float64(altitudeASL)/scaleHeightM))
}

// acceleration returns the instantaneous (ax, ay) from gravity plus drag
// opposing the velocity vector, for a rocket in the given drag
// configuration.
func acceleration(s State, params config.RocketParameters, dragPercent float32) (ax, ay float32) {
	speed := float32(math.Sqrt(float64(s.Vx*s.Vx + s.Vy*s.Vy)))
	if speed < 1e-6 {
		return 0, -gravityMSS
	}

	cd := CdFromDragPercent(params.DragTable, dragPercent)
	rho := AirDensity(s.AltitudeASL)
	dragAccel := 0.5 * rho * speed * speed * cd * params.ReferenceAreaM2 / params.BurnoutMassKg

	ux, uy := -s.Vx/speed, -s.Vy/speed
	return dragAccel * ux, -gravityMSS + dragAccel*uy
}

// Step advances s by dt seconds using RK2 (midpoint) integration under a
// constant drag command for the duration of the step.
func Step(s State, params config.RocketParameters, dragPercent, dt float32) State {
	ax0, ay0 := acceleration(s, params, dragPercent)
	mid := State{
		AltitudeASL: s.AltitudeASL + s.Vy*dt/2,
		Vx:          s.Vx + ax0*dt/2,
		Vy:          s.Vy + ay0*dt/2,
	}
	axm, aym := acceleration(mid, params, dragPercent)
	return State{
		AltitudeASL: s.AltitudeASL + mid.Vy*dt,
		Vx:          s.Vx + axm*dt,
		Vy:          s.Vy + aym*dt,
	}
}
