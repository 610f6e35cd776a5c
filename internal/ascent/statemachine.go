// Package ascent owns the top-level ascent lifecycle: seeding the
// altitude Kalman filter from on-pad statistics, gating barometric
// updates during the transonic regime, and declaring apogee.
package ascent

import (
	"github.com/pozzari-rocketry/flightcore/internal/altitude"
	"github.com/pozzari-rocketry/flightcore/internal/config"
	"github.com/pozzari-rocketry/flightcore/internal/types"
	"github.com/pozzari-rocketry/flightcore/internal/welford"
)

// Phase identifies which state the ascent machine is in.
type Phase int

const (
	Init Phase = iota
	OnPadOrAscent
	BaroLockOut
	Apogee
)

func (p Phase) String() string {
	switch p {
	case Init:
		return "init"
	case OnPadOrAscent:
		return "on_pad_or_ascent"
	case BaroLockOut:
		return "baro_lock_out"
	case Apogee:
		return "apogee"
	default:
		return "unknown"
	}
}

// transonicEngage/Disengage are the barometric lock-out thresholds,
// expressed as fractions of the local speed of sound.
const (
	transonicEngageFrac    = 0.9
	transonicDisengageFrac = 0.85
	apogeeVerticalVelocity = -1.0 // m/s
)

// SpeedOfSound is the linear standard-atmosphere approximation the
// transonic lock-out thresholds were tuned against, kept as a closed form
// rather than a full atmosphere table.
func SpeedOfSound(altitudeASL float32) float32 {
	return 340.29 - 0.003903*altitudeASL
}

// StateMachine sequences Init -> OnPadOrAscent <-> BaroLockOut -> Apogee.
type StateMachine struct {
	phase Phase
	dt    float32
	kfCfg config.KalmanConfig

	seedTarget int
	seedAcc    welford.Accumulator

	kf                   *altitude.KalmanFilter
	launchPadAltitudeASL float32
	minApogeeAGL         float32
}

// New constructs a StateMachine that will seed the Kalman filter from the
// first seedSamples altitude readings.
func New(dt float32, seedSamples int, minApogeeAGL float32, kfCfg config.KalmanConfig) *StateMachine {
	return &StateMachine{
		dt:           dt,
		kfCfg:        kfCfg,
		seedTarget:   seedSamples,
		minApogeeAGL: minApogeeAGL,
	}
}

// Update folds one tick's altitude measurement and current vertical
// acceleration estimate through the machine, returning the resulting
// phase.
func (s *StateMachine) Update(altitudeASL, verticalAccel float32) Phase {
	switch s.phase {
	case Init:
		s.seedAcc.Update(types.Vec3{X: altitudeASL})
		if s.seedAcc.Count() >= s.seedTarget {
			mean := s.seedAcc.Mean().X
			variance, ok := s.seedAcc.Variance()
			v := float32(0)
			if ok {
				v = variance.X
			}
			s.launchPadAltitudeASL = mean
			s.kf = altitude.New(s.dt, mean, v, s.kfCfg)
			s.phase = OnPadOrAscent
		}
		return s.phase

	case OnPadOrAscent:
		s.kf.Predict(verticalAccel)
		s.kf.Update(altitudeASL)
		s.advance()
		return s.phase

	case BaroLockOut:
		s.kf.Predict(verticalAccel)
		s.advance()
		return s.phase

	default: // Apogee is terminal
		return s.phase
	}
}

func (s *StateMachine) advance() {
	vv := s.kf.VerticalVelocity()
	sos := SpeedOfSound(s.kf.Altitude())
	absVV := vv
	if absVV < 0 {
		absVV = -absVV
	}

	switch s.phase {
	case OnPadOrAscent:
		agl := s.kf.Altitude() - s.launchPadAltitudeASL
		if agl > s.minApogeeAGL && vv < apogeeVerticalVelocity {
			s.phase = Apogee
			return
		}
		if absVV > transonicEngageFrac*sos {
			s.phase = BaroLockOut
		}
	case BaroLockOut:
		if absVV < transonicDisengageFrac*sos {
			s.phase = OnPadOrAscent
		}
	}
}

// Phase returns the current machine phase.
func (s *StateMachine) Phase() Phase { return s.phase }

// AltitudeAGL returns the current altitude above the launch pad and true,
// or (0, false) before the filter has been seeded.
func (s *StateMachine) AltitudeAGL() (float32, bool) {
	if s.kf == nil {
		return 0, false
	}
	return s.kf.Altitude() - s.launchPadAltitudeASL, true
}

// Velocity returns the current vertical velocity estimate and true, or
// (0, false) before seeding.
func (s *StateMachine) Velocity() (float32, bool) {
	if s.kf == nil {
		return 0, false
	}
	return s.kf.VerticalVelocity(), true
}

// LaunchPadAltitudeASL returns the altitude ASL recorded while seeding,
// and true once available.
func (s *StateMachine) LaunchPadAltitudeASL() (float32, bool) {
	if s.kf == nil {
		return 0, false
	}
	return s.launchPadAltitudeASL, true
}

// AltitudeASL returns the filter's raw ASL altitude estimate and true
// once the filter exists.
func (s *StateMachine) AltitudeASL() (float32, bool) {
	if s.kf == nil {
		return 0, false
	}
	return s.kf.Altitude(), true
}

// AltitudeVariance returns the filter's current altitude estimate
// variance and true once the filter exists, so a downstream state
// machine can seed its own filter on handoff at apogee.
func (s *StateMachine) AltitudeVariance() (float32, bool) {
	if s.kf == nil {
		return 0, false
	}
	return s.kf.AltitudeVariance(), true
}
