package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pozzari-rocketry/flightcore/internal/types"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flight.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadAppliesIdentityRemapWhenUnset(t *testing.T) {
	path := writeTempConfig(t, `
rocket:
  burnout_mass_kg: 20
  reference_area_m2: 0.02
  drag_table: [0.3, 0.4, 0.55, 0.75, 1.0]
profile:
  ignition_accel_threshold_ms2: 30
  min_apogee_agl_m: 100
  main_chute_altitude_agl_m: 150
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AxisRemap != types.IdentityRemap {
		t.Fatalf("expected identity remap by default, got %+v", cfg.AxisRemap)
	}
	if cfg.SampleRateHz != 500 {
		t.Fatalf("expected default sample rate 500, got %v", cfg.SampleRateHz)
	}
}

func TestLoadParsesExplicitAxisRemap(t *testing.T) {
	path := writeTempConfig(t, `
rocket:
  burnout_mass_kg: 20
  reference_area_m2: 0.02
  drag_table: [0.3, 0.4, 0.55, 0.75, 1.0]
profile:
  ignition_accel_threshold_ms2: 30
  min_apogee_agl_m: 100
  main_chute_altitude_agl_m: 150
axis_remap:
  remapx: +y
  remapy: -x
  remapz: -z
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := types.AxisRemap{RemapX: types.PlusY, RemapY: types.MinusX, RemapZ: types.MinusZ}
	if cfg.AxisRemap != want {
		t.Fatalf("expected remap %+v, got %+v", want, cfg.AxisRemap)
	}
}

func TestLoadRejectsInvalidRocketParameters(t *testing.T) {
	path := writeTempConfig(t, `
rocket:
  burnout_mass_kg: -1
  reference_area_m2: 0.02
  drag_table: [0.3, 0.4, 0.55, 0.75, 1.0]
profile:
  ignition_accel_threshold_ms2: 30
  min_apogee_agl_m: 100
  main_chute_altitude_agl_m: 150
`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error loading a negative burnout mass")
	}
}
