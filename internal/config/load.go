package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pozzari-rocketry/flightcore/internal/types"
)

// FlightConfig bundles everything the core loads once at boot: rocket
// parameters, flight profile, Kalman tuning, axis remap, sample rate, and
// the commissioned target apogee, all immutable after Load.
type FlightConfig struct {
	Rocket        RocketParameters    `yaml:"rocket"`
	Profile       FlightProfile       `yaml:"profile"`
	Kalman        KalmanConfig        `yaml:"kalman"`
	AxisRemap     types.AxisRemap     `yaml:"axis_remap"`
	SampleRateHz  float32             `yaml:"sample_rate_hz"`
	TargetApogeeM float32             `yaml:"target_apogee_m"`
}

// Load reads and validates a FlightConfig from a YAML file. This is the
// only place in the core that returns an error from something other than
// a construction call, and it is itself a construction call.
func Load(path string) (*FlightConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg FlightConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if cfg.SampleRateHz <= 0 {
		cfg.SampleRateHz = 500
	}
	if cfg.AxisRemap == (types.AxisRemap{}) {
		cfg.AxisRemap = types.IdentityRemap
	}

	if err := cfg.Rocket.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Profile.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
