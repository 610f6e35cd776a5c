package telemetry

import "math"

// Field is a (min, max, resolution) bit-packed wire field. The bit width
// is derived, never stored, so a field's on-wire size always tracks its
// declared precision.
type Field struct {
	Name       string
	Min, Max   float64
	Resolution float64
}

func (f Field) bitWidth() int {
	return int(math.Ceil(math.Log2((f.Max - f.Min) / f.Resolution)))
}

func (f Field) encode(value float64) uint64 {
	if value < f.Min {
		value = f.Min
	} else if value > f.Max {
		value = f.Max
	}
	maxCode := uint64(1)<<uint(f.bitWidth()) - 1
	code := uint64(math.Round((value - f.Min) / f.Resolution))
	if code > maxCode {
		code = maxCode
	}
	return code
}

func (f Field) decode(code uint64) float64 {
	return f.Min + float64(code)*f.Resolution
}

// The recognized downlink fields, shared between packet schemas.
var (
	latitudeField  = Field{"latitude", -90, 90, 2.146e-5}
	longitudeField = Field{"longitude", -180, 180, 2.146e-5}

	batteryVoltageField   = Field{"battery_voltage", 2.5, 8.5, 0.01}
	airTemperatureField   = Field{"air_temperature_c", -30, 85, 0.1}
	altitudeAGLField      = Field{"altitude_agl_m", -100, 5000, 1}
	verticalVelocityField = Field{"vertical_velocity_ms", -100, 400, 2}
	tiltField             = Field{"tilt_deg", -90, 90, 1}
	extensionField        = Field{"extension_fraction", 0, 0.9, 0.04}
)
