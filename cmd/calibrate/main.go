// Command calibrate fits a drag-coefficient table from bench/flight
// samples and Monte-Carlo validates the apogee/MPC pipeline against the
// fitted table before it's trusted in a flight configuration. See
// internal/calibration for the fitting and property-testing logic.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pozzari-rocketry/flightcore/internal/calibration"
	"github.com/pozzari-rocketry/flightcore/internal/config"
	"github.com/pozzari-rocketry/flightcore/pkg/obslog"
)

var (
	samplesPath = flag.String("samples", "", "CSV file of extension_fraction,measured_cd bench samples")
	draws       = flag.Int("draws", 2000, "number of Monte Carlo draws to validate the fitted table against")
	workers     = flag.Int("workers", 8, "worker goroutines for the Monte Carlo property sweep")
	seed        = flag.Int64("seed", 1, "Monte Carlo RNG seed")

	burnoutMassKg   = flag.Float64("burnout-mass-kg", 20, "airframe burnout mass")
	referenceAreaM2 = flag.Float64("reference-area-m2", 0.02, "airframe reference area")
)

var log = obslog.Component("calibrate")

func main() {
	flag.Parse()
	obslog.Logger = obslog.New("info", "stdout")

	if *samplesPath == "" {
		log.Fatal("-samples is required")
	}

	samples, err := readSamples(*samplesPath)
	if err != nil {
		log.Fatalf("reading bench samples: %v", err)
	}

	table := calibration.FitDragTable(samples)
	params := config.RocketParameters{
		BurnoutMassKg:   float32(*burnoutMassKg),
		ReferenceAreaM2: float32(*referenceAreaM2),
		DragTable:       table,
	}
	if err := params.Validate(); err != nil {
		log.Fatalf("fitted drag table failed validation: %v", err)
	}

	fmt.Printf("drag_table: [%.4f, %.4f, %.4f, %.4f, %.4f]\n", table[0], table[1], table[2], table[3], table[4])

	bounds := calibration.ScenarioBounds{
		AltitudeASLMin: 500, AltitudeASLMax: 2000,
		VerticalVelocityMin: 50, VerticalVelocityMax: 300,
		TargetApogeeMin: 1000, TargetApogeeMax: 4000,
	}
	report := calibration.RunMonteCarloProperties(*seed, *draws, *workers, bounds, params, config.DragHalvingFactor)

	log.WithFields(map[string]interface{}{
		"draws":                   report.Draws,
		"monotonicity_violations": report.MonotonicityViolations,
		"fixed_point_violations":  report.FixedPointViolations,
	}).Info("Monte Carlo property sweep complete")

	if report.MonotonicityViolations > 0 || report.FixedPointViolations > 0 {
		log.Warn("fitted drag table did not pass every property check; inspect before flying it")
		os.Exit(1)
	}
}

// readSamples parses a headerless or single-header CSV of
// extension_fraction,measured_cd rows.
func readSamples(path string) ([]calibration.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	var samples []calibration.Sample
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		ext, errExt := strconv.ParseFloat(record[0], 64)
		cd, errCd := strconv.ParseFloat(record[1], 64)
		if errExt != nil || errCd != nil {
			continue // header row or malformed line
		}
		samples = append(samples, calibration.Sample{ExtensionFraction: ext, MeasuredCd: cd})
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("calibrate: no usable samples found in %s", path)
	}
	return samples, nil
}
