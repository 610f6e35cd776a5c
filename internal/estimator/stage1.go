package estimator

import (
	"github.com/pozzari-rocketry/flightcore/internal/deadreckon"
	"github.com/pozzari-rocketry/flightcore/internal/types"
	"github.com/pozzari-rocketry/flightcore/internal/welford"
)

// Stage1 replays live samples through the av-frame dead-reckoner seeded
// at ignition, and accumulates the average commanded-thrust acceleration
// direction needed to derive the rocket's own body frame.
type Stage1 struct {
	reckoner   *deadreckon.Reckoner
	qAVtoEarth types.Quaternion
	gyroBias   types.Vec3
	dt         float32
	halfSecond int

	ticks  int
	accAcc welford.Accumulator

	stats Stats
}

func (s *Stage1) Step(m types.Measurement) Phase {
	gyro := m.Gyro.Sub(s.gyroBias)
	s.reckoner.Step(m.Accel, gyro, s.dt)
	s.accAcc.Update(m.Accel)
	s.ticks++

	if s.ticks >= s.halfSecond {
		return s.toStage2()
	}
	return s
}

func (s *Stage1) VerticalAccel(m types.Measurement) float32 {
	accelEarth := s.qAVtoEarth.Rotate(m.Accel)
	return accelEarth.Z - gravityMSS
}

func (s *Stage1) Tilt() (float32, bool) { return 0, false }
func (s *Stage1) Stats() (Stats, bool)  { return s.stats, true }

// toStage2 derives the rocket's own +Z (thrust) axis from the half-second
// average acceleration direction and transitions:
//
//	q_earth_to_rocket = rotation sending the averaged Earth-frame thrust
//	                    acceleration onto Earth-Up
//	q_av_to_rocket     = q_av_to_earth.Mul(q_earth_to_rocket)
//	                     (av -> earth first, then earth -> rocket)
func (s *Stage1) toStage2() Phase {
	avgAccelAV := s.accAcc.Mean()
	avgAccelEarth := s.qAVtoEarth.Rotate(avgAccelAV)

	qEarthToRocket := types.RotationBetween(avgAccelEarth, types.Up)
	qAVtoRocket := s.qAVtoEarth.Mul(qEarthToRocket)

	// Recompose the reckoner's tracked orientation from q_av_to_earth to
	// q_rocket_to_earth so its future Step calls (fed rocket-frame samples)
	// integrate a consistent frame; position/velocity carry over unchanged.
	qRocketToEarth := qAVtoRocket.Conjugate().Mul(s.qAVtoEarth)
	reckoner := deadreckon.NewNoGravity(qRocketToEarth)
	reckoner.SetPosition(s.reckoner.Position())
	reckoner.SetVelocity(s.reckoner.Velocity())

	return &Stage2{
		reckoner:    reckoner,
		qAVtoEarth:  s.qAVtoEarth,
		qAVtoRocket: qAVtoRocket,
		gyroBias:    s.gyroBias,
		dt:          s.dt,
		stats:       s.stats,
	}
}
