package estimator

import (
	"github.com/pozzari-rocketry/flightcore/internal/biquad"
	"github.com/pozzari-rocketry/flightcore/internal/deadreckon"
	"github.com/pozzari-rocketry/flightcore/internal/types"
	"github.com/pozzari-rocketry/flightcore/internal/welford"
)

// OnPad accepts every sample, low-passes each acceleration axis to reject
// spikes, and watches the filtered magnitude for ignition.
type OnPad struct {
	buf         *ringBuffer
	filters     [3]*biquad.Filter
	thresholdSq float32
	sampleRate  int
	dt          float32
}

// NewOnPad constructs the initial phase of the bootstrap estimator.
// sampleRate is samples/second (the ring buffer is sized to hold exactly
// 2 seconds of history); ignitionThreshold is the low-passed acceleration
// magnitude, in m/s^2, that declares ignition; cutoffHz is the
// Butterworth cutoff applied independently to each accel axis.
func NewOnPad(sampleRate int, ignitionThreshold, cutoffHz float32) *OnPad {
	rate := float32(sampleRate)
	return &OnPad{
		buf: newRingBuffer(2 * sampleRate),
		filters: [3]*biquad.Filter{
			biquad.NewButterworthLowPass(cutoffHz, rate),
			biquad.NewButterworthLowPass(cutoffHz, rate),
			biquad.NewButterworthLowPass(cutoffHz, rate),
		},
		thresholdSq: ignitionThreshold * ignitionThreshold,
		sampleRate:  sampleRate,
		dt:          1 / rate,
	}
}

func (p *OnPad) Step(m types.Measurement) Phase {
	p.buf.Push(m)

	fx := p.filters[0].Step(m.Accel.X)
	fy := p.filters[1].Step(m.Accel.Y)
	fz := p.filters[2].Step(m.Accel.Z)
	magSq := fx*fx + fy*fy + fz*fz

	if p.buf.Full() && magSq > p.thresholdSq {
		return p.ignite()
	}
	return p
}

func (p *OnPad) VerticalAccel(m types.Measurement) float32 {
	return m.Accel.Z - gravityMSS
}

func (p *OnPad) Tilt() (float32, bool) { return 0, false }
func (p *OnPad) Stats() (Stats, bool)  { return Stats{}, false }

// ignite runs the bias/noise-floor seeding computation over the buffered
// history and returns the Stage1 phase.
func (p *OnPad) ignite() Phase {
	n := p.sampleRate

	var accAcc, gyroAcc, altAcc welford.Accumulator
	for i := 0; i < n; i++ {
		s := p.buf.At(i)
		accAcc.Update(s.Accel)
		gyroAcc.Update(s.Gyro)
		altAcc.Update(types.Vec3{X: s.AltASL})
	}

	gyroBias := gyroAcc.Mean()
	accelVariance, _ := accAcc.VarianceMagnitude()
	gyroVariance, _ := gyroAcc.VarianceMagnitude()
	altVarVec, _ := altAcc.Variance()
	launchPadAltitudeASL := altAcc.Mean().X

	gravityAV := accAcc.Mean()
	qEarthToAV := types.RotationBetween(types.Up, gravityAV)
	qAVtoEarth := qEarthToAV.Conjugate()

	reckoner := deadreckon.NewNoGravity(qAVtoEarth)
	reckoner.SetPosition(types.Vec3{Z: launchPadAltitudeASL})

	for i := n; i < 2*n; i++ {
		s := p.buf.At(i)
		reckoner.Step(s.Accel, s.Gyro.Sub(gyroBias), p.dt)
	}

	return &Stage1{
		reckoner:   reckoner,
		qAVtoEarth: qAVtoEarth,
		gyroBias:   gyroBias,
		dt:         p.dt,
		halfSecond: n / 2,
		stats: Stats{
			GyroBias:             gyroBias,
			AccelVariance:        accelVariance,
			GyroVariance:         gyroVariance,
			AltVariance:          altVarVec.X,
			LaunchPadAltitudeASL: launchPadAltitudeASL,
		},
	}
}
