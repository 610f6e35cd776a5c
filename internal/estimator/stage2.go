package estimator

import (
	"github.com/pozzari-rocketry/flightcore/internal/deadreckon"
	"github.com/pozzari-rocketry/flightcore/internal/types"
)

// Stage2 is the terminal orientation phase: every sample is rotated into
// the rocket body frame before being fed to the reckoner, and Tilt
// becomes available.
type Stage2 struct {
	reckoner    *deadreckon.Reckoner
	qAVtoEarth  types.Quaternion
	qAVtoRocket types.Quaternion
	gyroBias    types.Vec3
	dt          float32

	stats Stats
}

func (s *Stage2) Step(m types.Measurement) Phase {
	gyro := s.qAVtoRocket.Rotate(m.Gyro.Sub(s.gyroBias))
	accel := s.qAVtoRocket.Rotate(m.Accel)
	s.reckoner.Step(accel, gyro, s.dt)
	return s
}

func (s *Stage2) VerticalAccel(m types.Measurement) float32 {
	accelEarth := s.qAVtoEarth.Rotate(m.Accel)
	return accelEarth.Z - gravityMSS
}

// Tilt returns the angle between Earth-Up and the rocket's +Z axis, as
// currently tracked by the reckoner's q_rocket_to_earth orientation state.
func (s *Stage2) Tilt() (float32, bool) {
	rocketZInEarth := s.reckoner.Orientation().Rotate(types.Up)
	return types.Up.AngleTo(rocketZInEarth), true
}

func (s *Stage2) Stats() (Stats, bool) { return s.stats, true }
