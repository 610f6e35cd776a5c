// Package descent sequences the top-level flight state machine from
// liftoff through recovery: ascent handoff, drogue deployment, main
// deployment, and landing detection.
package descent

import (
	"math"
	"time"

	"github.com/pozzari-rocketry/flightcore/internal/altitude"
	"github.com/pozzari-rocketry/flightcore/internal/ascent"
	"github.com/pozzari-rocketry/flightcore/internal/config"
	"github.com/pozzari-rocketry/flightcore/pkg/obslog"
)

var log = obslog.Component("descent")

// PyroSelect names which pyrotechnic channel, if any, a tick fired.
type PyroSelect int

const (
	PyroNone PyroSelect = iota
	PyroDrogue
	PyroMain
)

func (p PyroSelect) String() string {
	switch p {
	case PyroDrogue:
		return "drogue"
	case PyroMain:
		return "main"
	default:
		return "none"
	}
}

// Phase identifies the descent machine's current variant.
type Phase int

const (
	Ascent Phase = iota
	DrogueChuteDelay
	DrogueChuteDeployed
	MainChuteDelay
	MainChuteDeployed
	Landed
	FailedToReachMinApogee
)

func (p Phase) String() string {
	switch p {
	case Ascent:
		return "ascent"
	case DrogueChuteDelay:
		return "drogue_chute_delay"
	case DrogueChuteDeployed:
		return "drogue_chute_deployed"
	case MainChuteDelay:
		return "main_chute_delay"
	case MainChuteDeployed:
		return "main_chute_deployed"
	case Landed:
		return "landed"
	case FailedToReachMinApogee:
		return "failed_to_reach_min_apogee"
	default:
		return "unknown"
	}
}

// landedVelocityThreshold is the |vertical velocity| < 1 m/s landing
// trigger.
const landedVelocityThreshold = 1.0

// Machine sequences Ascent through recovery. It owns the ascent state
// machine for the climb, and takes over altitude filtering itself once
// apogee hands off (ascent.StateMachine is terminal at Apogee).
type Machine struct {
	ascentSM *ascent.StateMachine
	profile  config.FlightProfile
	dt       float32
	kfCfg    config.KalmanConfig

	phase Phase
	kf    *altitude.KalmanFilter

	launchPadAltitudeASL float32
	drogueTicksRemaining int
	mainTicksRemaining   int
}

// New constructs a Machine delegating ascent tracking to sm.
func New(sm *ascent.StateMachine, profile config.FlightProfile, dt float32, kfCfg config.KalmanConfig) *Machine {
	return &Machine{ascentSM: sm, profile: profile, dt: dt, kfCfg: kfCfg}
}

// Phase returns the current descent machine phase.
func (m *Machine) Phase() Phase { return m.phase }

// Update folds one tick's barometric altitude and vertical acceleration
// estimate through the machine, returning any pyro event fired this tick.
func (m *Machine) Update(altitudeASL, verticalAccel float32) (PyroSelect, bool) {
	switch m.phase {
	case Ascent:
		return m.updateAscent(altitudeASL, verticalAccel)

	case DrogueChuteDelay:
		m.kf.Predict(verticalAccel)
		m.kf.Update(altitudeASL)
		m.drogueTicksRemaining--
		if m.drogueTicksRemaining <= 0 {
			m.transition(DrogueChuteDeployed)
			return PyroDrogue, true
		}
		return PyroNone, false

	case DrogueChuteDeployed:
		m.kf.Predict(verticalAccel)
		m.kf.Update(altitudeASL)
		if m.kf.Altitude()-m.launchPadAltitudeASL < m.profile.MainChuteAltitudeAGL {
			m.mainTicksRemaining = ticksFor(m.profile.MainDelay, m.dt)
			m.transition(MainChuteDelay)
		}
		return PyroNone, false

	case MainChuteDelay:
		m.kf.Predict(verticalAccel)
		m.kf.Update(altitudeASL)
		m.mainTicksRemaining--
		if m.mainTicksRemaining <= 0 {
			m.transition(MainChuteDeployed)
			return PyroMain, true
		}
		return PyroNone, false

	case MainChuteDeployed:
		m.kf.Predict(verticalAccel)
		m.kf.Update(altitudeASL)
		if absF32(m.kf.VerticalVelocity()) < landedVelocityThreshold {
			m.transition(Landed)
		}
		return PyroNone, false

	default: // Landed, FailedToReachMinApogee are terminal.
		return PyroNone, false
	}
}

func (m *Machine) updateAscent(altitudeASL, verticalAccel float32) (PyroSelect, bool) {
	phase := m.ascentSM.Update(altitudeASL, verticalAccel)
	if phase != ascent.Apogee {
		return PyroNone, false
	}

	agl, _ := m.ascentSM.AltitudeAGL()
	pad, _ := m.ascentSM.LaunchPadAltitudeASL()
	alt, _ := m.ascentSM.AltitudeASL()
	vel, _ := m.ascentSM.Velocity()
	variance, _ := m.ascentSM.AltitudeVariance()

	m.launchPadAltitudeASL = pad

	if agl < m.profile.MinApogeeAGL {
		m.transition(FailedToReachMinApogee)
		return PyroNone, false
	}

	m.kf = altitude.New(m.dt, alt, variance, m.kfCfg)
	m.kf.SeedVelocity(vel)
	m.drogueTicksRemaining = ticksFor(m.profile.DrogueDelay, m.dt)
	m.transition(DrogueChuteDelay)
	return PyroNone, false
}

func (m *Machine) transition(to Phase) {
	log.WithFields(map[string]interface{}{
		"from": m.phase.String(),
		"to":   to.String(),
	}).Info("descent phase transition")
	m.phase = to
}

func ticksFor(d time.Duration, dt float32) int {
	return int(math.Round(d.Seconds() / float64(dt)))
}

func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
