// Package apogee forward-simulates the rocket dynamics ODE to predict the
// altitude at which vertical velocity crosses zero.
package apogee

import (
	"github.com/pozzari-rocketry/flightcore/internal/config"
	"github.com/pozzari-rocketry/flightcore/internal/dynamics"
)

// stepDt is the fixed simulation time step.
const stepDt = 0.1

// maxSteps bounds the forward simulation so a degenerate drag table or
// state can never spin the core's single tick loop forever.
const maxSteps = 20000

// Simulator wraps the physical parameters the apogee prediction is run
// against.
type Simulator struct {
	params            config.RocketParameters
	dragHalvingFactor float32
}

// New constructs a Simulator for the given airframe. dragHalvingFactor is
// the tunable applied to the second simulated step, modeling air-brakes
// servo retraction latency (default 0.5, config.DragHalvingFactor).
func New(params config.RocketParameters, dragHalvingFactor float32) *Simulator {
	return &Simulator{params: params, dragHalvingFactor: dragHalvingFactor}
}

// Predict integrates forward from the given initial state under a
// candidate first-tick drag command (in [-1,+1]) until vertical velocity
// crosses zero, returning the predicted apogee altitude ASL.
//
// The first step uses dragPercent; the second uses
// dragPercent*dragHalvingFactor (servo retraction lag); every step after
// that uses a drag command of 0, which maps to the table's 50%-extension
// Cd (a command of -1 is fully retracted). If the initial
// vertical velocity is already <= 0, the initial altitude is returned
// unchanged — the rocket is not still ascending.
func (s *Simulator) Predict(initial dynamics.State, dragPercent float32) float32 {
	if initial.Vy <= 0 {
		return initial.AltitudeASL
	}

	state := initial
	for i := 0; i < maxSteps; i++ {
		cmd := float32(0)
		switch i {
		case 0:
			cmd = dragPercent
		case 1:
			cmd = dragPercent * s.dragHalvingFactor
		}

		prev := state
		next := dynamics.Step(state, s.params, cmd, stepDt)

		if next.Vy <= 0 {
			return crossingAltitude(prev, next)
		}
		state = next
	}
	return state.AltitudeASL
}

// crossingAltitude linearly interpolates the zero-crossing time between
// two consecutive simulation states and returns the altitude there.
func crossingAltitude(prev, next dynamics.State) float32 {
	denom := prev.Vy - next.Vy
	if denom < 1e-6 && denom > -1e-6 {
		return next.AltitudeASL
	}
	t := prev.Vy / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return prev.AltitudeASL + t*(next.AltitudeASL-prev.AltitudeASL)
}
