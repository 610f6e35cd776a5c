package apogee

import (
	"testing"

	"github.com/pozzari-rocketry/flightcore/internal/config"
	"github.com/pozzari-rocketry/flightcore/internal/dynamics"
)

func testParams() config.RocketParameters {
	return config.RocketParameters{
		BurnoutMassKg:   20,
		ReferenceAreaM2: 0.02,
		DragTable:       [5]float32{0.3, 0.4, 0.55, 0.75, 1.0},
	}
}

func TestPredictReturnsInitialAltitudeWhenNotAscending(t *testing.T) {
	sim := New(testParams(), 0.5)
	state := dynamics.State{AltitudeASL: 500, Vy: 0}
	got := sim.Predict(state, 0)
	if got != 500 {
		t.Fatalf("expected unchanged altitude for v_y<=0, got %v", got)
	}
	state.Vy = -5
	if got := sim.Predict(state, 1); got != 500 {
		t.Fatalf("expected unchanged altitude for descending state, got %v", got)
	}
}

func TestPredictMonotonicInDragCommand(t *testing.T) {
	sim := New(testParams(), 0.5)
	initial := dynamics.State{AltitudeASL: 1000, Vx: 0, Vy: 150}

	lowDragApogee := sim.Predict(initial, -1)
	midDragApogee := sim.Predict(initial, 0)
	highDragApogee := sim.Predict(initial, 1)

	if !(lowDragApogee > midDragApogee && midDragApogee > highDragApogee) {
		t.Fatalf("apogee should strictly decrease with drag command: low=%v mid=%v high=%v",
			lowDragApogee, midDragApogee, highDragApogee)
	}
}
