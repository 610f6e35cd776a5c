package dynamics

import (
	"testing"

	"github.com/pozzari-rocketry/flightcore/internal/config"
)

var testTable = [5]float32{0.3, 0.4, 0.55, 0.75, 1.0}

func TestCdExtensionRoundTrip(t *testing.T) {
	for _, dragPercent := range []float32{-1, -0.6, -0.25, 0, 0.1, 0.5, 0.9, 1} {
		cd := CdFromDragPercent(testTable, dragPercent)
		ext := ExtensionFromCd(testTable, cd)
		want := (dragPercent + 1) / 2
		if diff := ext - want; diff > 1e-4 || diff < -1e-4 {
			t.Fatalf("round trip mismatch for dragPercent=%v: got ext=%v, want %v", dragPercent, ext, want)
		}
	}
}

func TestCdMonotonicInDragCommand(t *testing.T) {
	prev := CdFromDragPercent(testTable, -1)
	for _, dragPercent := range []float32{-0.75, -0.5, -0.25, 0, 0.25, 0.5, 0.75, 1} {
		cd := CdFromDragPercent(testTable, dragPercent)
		if cd <= prev {
			t.Fatalf("Cd is not monotonically increasing: at %v got %v, prev %v", dragPercent, cd, prev)
		}
		prev = cd
	}
}

func TestHigherDragYieldsLowerApogeeViaStep(t *testing.T) {
	params := config.RocketParameters{BurnoutMassKg: 20, ReferenceAreaM2: 0.02, DragTable: testTable}
	s0 := State{AltitudeASL: 1000, Vx: 0, Vy: 150}

	simulate := func(dragPercent float32) float32 {
		s := s0
		for i := 0; i < 2000 && s.Vy > 0; i++ {
			s = Step(s, params, dragPercent, 0.1)
		}
		return s.AltitudeASL
	}

	low := simulate(-1)
	high := simulate(1)
	if high >= low {
		t.Fatalf("expected higher drag command to reduce apogee altitude: low-drag=%v high-drag=%v", low, high)
	}
}
