package descent

import (
	"testing"
	"time"

	"github.com/pozzari-rocketry/flightcore/internal/ascent"
	"github.com/pozzari-rocketry/flightcore/internal/config"
)

func TestMachineFailsWhenApogeeBelowMinimum(t *testing.T) {
	const dt = float32(0.1)
	sm := ascent.New(dt, 5, 500, config.DefaultKalmanConfig())
	profile := config.FlightProfile{
		IgnitionAccelThreshold: 30,
		MinApogeeAGL:           500,
		DrogueDelay:            time.Second,
		MainChuteAltitudeAGL:   100,
		MainDelay:              500 * time.Millisecond,
	}
	m := New(sm, profile, dt, config.DefaultKalmanConfig())

	const padAlt = float32(100)
	for i := 0; i < 5; i++ {
		m.Update(padAlt, 0)
	}

	// A shallow lob that never clears the 500m minimum apogee AGL.
	v0 := float32(30)
	for t := float32(0); t < 8; t += dt {
		alt := padAlt + v0*t - 0.5*9.81*t*t
		m.Update(alt, -9.81)
		if m.Phase() == FailedToReachMinApogee {
			return
		}
	}
	t.Fatalf("expected FailedToReachMinApogee, got phase %v", m.Phase())
}

func TestMachineSequencesThroughLanding(t *testing.T) {
	const dt = float32(0.1)
	sm := ascent.New(dt, 5, 50, config.DefaultKalmanConfig())
	profile := config.FlightProfile{
		IgnitionAccelThreshold: 30,
		MinApogeeAGL:           50,
		DrogueDelay:            time.Second,
		MainChuteAltitudeAGL:   100,
		MainDelay:              500 * time.Millisecond,
	}
	m := New(sm, profile, dt, config.DefaultKalmanConfig())

	const padAlt = float32(100)
	for i := 0; i < 5; i++ {
		m.Update(padAlt, 0)
	}

	v0 := float32(60)
	var pyroDrogueSeen, pyroMainSeen bool
	t0 := float32(0)
	for ; t0 < 15 && m.Phase() != Landed; t0 += dt {
		alt := padAlt + v0*t0 - 0.5*9.81*t0*t0
		pyro, fired := m.Update(alt, -9.81)
		if fired && pyro == PyroDrogue {
			pyroDrogueSeen = true
		}
		if fired && pyro == PyroMain {
			pyroMainSeen = true
		}
	}
	if !pyroDrogueSeen {
		t.Fatalf("expected a drogue pyro event before descent settled")
	}
	if !pyroMainSeen {
		t.Fatalf("expected a main pyro event before descent settled")
	}

	// Let the recovered vehicle sit at a constant altitude until the
	// filter's velocity estimate decays below the landing threshold.
	lastAlt := padAlt + v0*t0 - 0.5*9.81*t0*t0
	for i := 0; i < 2000 && m.Phase() != Landed; i++ {
		m.Update(lastAlt, 0)
	}
	if m.Phase() != Landed {
		t.Fatalf("expected Landed, got phase %v", m.Phase())
	}
}
