package calibration

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

func TestRunMonteCarloPropertiesFindsNoViolations(t *testing.T) {
	bounds := ScenarioBounds{
		AltitudeASLMin: 500, AltitudeASLMax: 1500,
		VerticalVelocityMin: 50, VerticalVelocityMax: 250,
		TargetApogeeMin: 1500, TargetApogeeMax: 3500,
	}

	report := RunMonteCarloProperties(1, 200, 8, bounds, testParams(), config.DragHalvingFactor)

	if report.Draws != 200 {
		t.Fatalf("expected 200 draws recorded, got %d", report.Draws)
	}
	if report.MonotonicityViolations != 0 {
		t.Errorf("expected no monotonicity violations, got %d", report.MonotonicityViolations)
	}
	if report.FixedPointViolations != 0 {
		t.Errorf("expected no fixed-point violations, got %d", report.FixedPointViolations)
	}
}

func TestRunMonteCarloPropertiesIsDeterministicForSameSeed(t *testing.T) {
	bounds := ScenarioBounds{
		AltitudeASLMin: 500, AltitudeASLMax: 1500,
		VerticalVelocityMin: 50, VerticalVelocityMax: 250,
		TargetApogeeMin: 1500, TargetApogeeMax: 3500,
	}

	a := RunMonteCarloProperties(42, 50, 4, bounds, testParams(), config.DragHalvingFactor)
	b := RunMonteCarloProperties(42, 50, 4, bounds, testParams(), config.DragHalvingFactor)

	if a != b {
		t.Fatalf("expected identical reports for identical seed, got %+v vs %+v", a, b)
	}
}
