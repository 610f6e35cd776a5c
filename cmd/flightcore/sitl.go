package main

import (
	"math/rand"

	"github.com/pozzari-rocketry/flightcore/internal/config"
	"github.com/pozzari-rocketry/flightcore/internal/dynamics"
	"github.com/pozzari-rocketry/flightcore/internal/types"
)

// Motor and noise parameters for the synthetic flight this binary flies
// against in lieu of real hardware: peripheral drivers are an external
// collaborator, so the SITL loop supplies its own truth model instead of
// talking to one.
const (
	motorBurnTimeS    = 3.5
	motorThrustAccelM = 110.0
	launchPadASL      = 1400.0
	baroNoiseStdM     = 0.5
	gravityMSS        = 9.81
)

// sitl flies a synthetic, upright, purely-vertical ascent/descent and
// hands back both the noisy sensor Measurement the pipeline consumes and
// the noise-free ground-truth dynamics.State the SITL driver uses to
// commission and drive the MPC (a real build would have no such oracle;
// here it stands in for the servo-loop's own apogee simulator running
// against live telemetry).
type sitl struct {
	rng     *rand.Rand
	dt      float32
	params  config.RocketParameters
	elapsed float32
	state   dynamics.State
}

func newSITL(params config.RocketParameters, dt float32) *sitl {
	return &sitl{
		rng:    rand.New(rand.NewSource(1)),
		dt:     dt,
		params: params,
		state:  dynamics.State{AltitudeASL: launchPadASL},
	}
}

// step advances the truth model by one tick under the given air-brakes
// extension command (ignored while the motor is still burning) and
// returns the noisy raw sensor Measurement plus the ground-truth state.
func (s *sitl) step(extensionFraction float32) (types.Measurement, dynamics.State) {
	thrustAccel := float32(0)
	dragPercent := float32(-1) // brakes fully retracted: table[0] baseline Cd
	if s.elapsed < motorBurnTimeS {
		thrustAccel = motorThrustAccelM
	} else {
		dragPercent = extensionFraction*2 - 1
	}
	s.elapsed += s.dt

	thrusted := s.state
	thrusted.Vy += thrustAccel * s.dt
	next := dynamics.Step(thrusted, s.params, dragPercent, s.dt)

	trueVerticalAccel := (next.Vy - s.state.Vy) / s.dt
	s.state = next

	measurement := types.Measurement{
		Accel:  types.Vec3{Z: trueVerticalAccel + gravityMSS + s.rng.Float32()*0.1 - 0.05},
		Gyro:   types.Vec3{},
		AltASL: s.state.AltitudeASL + s.rng.Float32()*baroNoiseStdM*2 - baroNoiseStdM,
	}
	return measurement, s.state
}
