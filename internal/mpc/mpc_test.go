package mpc

import (
	"testing"

	"github.com/pozzari-rocketry/flightcore/internal/config"
)

func testParams() config.RocketParameters {
	return config.RocketParameters{
		BurnoutMassKg:   20,
		ReferenceAreaM2: 0.02,
		DragTable:       [5]float32{0.3, 0.4, 0.55, 0.75, 1.0},
	}
}

func TestExtensionCommandConvergesTowardTarget(t *testing.T) {
	params := testParams()
	c := New(params, config.DragHalvingFactor, 3000, 4000)

	ext := c.ExtensionCommand(1000, 150)
	if ext < 0 || ext > 1 {
		t.Fatalf("extension command out of range: %v", ext)
	}
}

func TestSetTargetApogeeClampsToEnvelope(t *testing.T) {
	params := testParams()
	c := New(params, config.DragHalvingFactor, 3000, 2000) // envelope max = 3000

	c.SetTargetApogee(10000)
	if got := c.TargetApogee(); got != 3000 {
		t.Fatalf("expected target clamped to envelope max 3000, got %v", got)
	}

	c.SetTargetApogee(-5)
	if got := c.TargetApogee(); got != 0 {
		t.Fatalf("expected target clamped to envelope min 0, got %v", got)
	}

	c.SetTargetApogee(1500)
	if got := c.TargetApogee(); got != 1500 {
		t.Fatalf("expected in-envelope target to pass through unchanged, got %v", got)
	}
}
