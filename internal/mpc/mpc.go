// Package mpc implements the air-brakes model-predictive controller:
// bisection over a candidate drag command to drive predicted apogee
// toward a target, converted to a servo extension percentage.
package mpc

import (
	"github.com/pozzari-rocketry/flightcore/internal/apogee"
	"github.com/pozzari-rocketry/flightcore/internal/config"
	"github.com/pozzari-rocketry/flightcore/internal/dynamics"
	"github.com/pozzari-rocketry/flightcore/pkg/obslog"
)

var log = obslog.Component("mpc")

// bisectionIterations is the fixed number of bracket-refinement steps
// per control cycle, run after the two initial bracket-endpoint
// simulations.
const bisectionIterations = 3

// Controller tracks the commissioned target apogee and safety envelope,
// and computes one extension command per tick.
type Controller struct {
	sim          *apogee.Simulator
	dragTable    [5]float32
	targetApogee float32
	envelopeMin  float32
	envelopeMax  float32
}

// New constructs a Controller for the given airframe, with an initial
// target apogee and a safety envelope commissioned from the zero-drag
// apogee predicted at this moment.
func New(params config.RocketParameters, dragHalvingFactor, initialTargetApogee float32, zeroDragApogeeAtCommission float32) *Controller {
	return &Controller{
		sim:          apogee.New(params, dragHalvingFactor),
		dragTable:    params.DragTable,
		targetApogee: initialTargetApogee,
		envelopeMin:  0,
		envelopeMax:  1.5 * zeroDragApogeeAtCommission,
	}
}

// SetTargetApogee updates the commissioned target, clamping to the
// safety envelope established at construction and logging a warning if
// the requested value was out of range.
func (c *Controller) SetTargetApogee(meters float32) {
	clamped := meters
	if clamped < c.envelopeMin {
		clamped = c.envelopeMin
	} else if clamped > c.envelopeMax {
		clamped = c.envelopeMax
	}
	if clamped != meters {
		log.WithFields(map[string]interface{}{
			"requested": meters,
			"clamped":   clamped,
			"envelope_min": c.envelopeMin,
			"envelope_max": c.envelopeMax,
		}).Warn("target apogee uplink clamped to safety envelope")
	}
	c.targetApogee = clamped
}

// TargetApogee returns the currently commissioned target.
func (c *Controller) TargetApogee() float32 { return c.targetApogee }

// ExtensionCommand runs one control cycle from the current altitude ASL
// and velocity, returning the commanded air-brakes extension percentage
// in [0,1].
func (c *Controller) ExtensionCommand(altitudeASL, velocityY float32) float32 {
	state := dynamics.State{AltitudeASL: altitudeASL, Vy: velocityY}

	lo, hi := float32(-1), float32(1)
	apogeeLo := c.sim.Predict(state, lo)
	apogeeHi := c.sim.Predict(state, hi)

	for i := 0; i < bisectionIterations; i++ {
		mid := (lo + hi) / 2
		apogeeMid := c.sim.Predict(state, mid)

		// Monotonicity: higher drag command => lower apogee. Keep the
		// target bracketed between lo and hi.
		if c.targetApogee > apogeeMid {
			hi, apogeeHi = mid, apogeeMid
		} else {
			lo, apogeeLo = mid, apogeeMid
		}
	}

	dragCommand := interpolate(lo, hi, apogeeLo, apogeeHi, c.targetApogee)
	cd := dynamics.CdFromDragPercent(c.dragTable, dragCommand)
	return dynamics.ExtensionFromCd(c.dragTable, cd)
}

// interpolate linearly refines the bisection bracket [lo,hi] (with
// apogees apogeeLo,apogeeHi) toward the drag command whose predicted
// apogee would equal target, clamping the interpolation parameter to
// [0,1] and falling back to the bracket midpoint on near-zero
// denominator.
func interpolate(lo, hi, apogeeLo, apogeeHi, target float32) float32 {
	denom := apogeeHi - apogeeLo
	if denom < 1e-6 && denom > -1e-6 {
		return (lo + hi) / 2
	}
	t := (target - apogeeLo) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return lo + t*(hi-lo)
}
