package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Measurement is one tick's raw sensor sample: accelerometer and gyroscope
// in the sensor/IMU frame, plus absolute barometric altitude. Produced
// externally (peripheral driver task), never mutated by the core.
type Measurement struct {
	Accel    Vec3    // m/s^2, including gravity, sensor frame
	Gyro     Vec3    // rad/s, sensor frame
	AltASL   float32 // meters above sea level
}

// SignedAxis names one signed sensor axis used by an AxisRemap.
type SignedAxis int

const (
	PlusX SignedAxis = iota
	MinusX
	PlusY
	MinusY
	PlusZ
	MinusZ
)

// String renders the axis the way it's written in a flight config file.
func (a SignedAxis) String() string {
	switch a {
	case PlusX:
		return "+x"
	case MinusX:
		return "-x"
	case PlusY:
		return "+y"
	case MinusY:
		return "-y"
	case PlusZ:
		return "+z"
	case MinusZ:
		return "-z"
	default:
		return "invalid"
	}
}

// MarshalYAML renders a SignedAxis as its "+x"/"-z" string form.
func (a SignedAxis) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// UnmarshalYAML parses the "+x"/"-x"/"+y"/"-y"/"+z"/"-z" string form a
// flight config's axis_remap section is written in.
func (a *SignedAxis) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "+x":
		*a = PlusX
	case "-x":
		*a = MinusX
	case "+y":
		*a = PlusY
	case "-y":
		*a = MinusY
	case "+z":
		*a = PlusZ
	case "-z":
		*a = MinusZ
	default:
		return fmt.Errorf("types: invalid signed axis %q, want one of +x,-x,+y,-y,+z,-z", s)
	}
	return nil
}

func (a SignedAxis) component(v Vec3) float32 {
	switch a {
	case PlusX:
		return v.X
	case MinusX:
		return -v.X
	case PlusY:
		return v.Y
	case MinusY:
		return -v.Y
	case PlusZ:
		return v.Z
	case MinusZ:
		return -v.Z
	default:
		return v.X
	}
}

// AxisRemap is the boot-time sensor-die-to-rocket-body axis convention:
// the coordinate convention between the IMU die and the rocket body is
// not consistent across hardware revisions, so it is configuration,
// never a compile-time constant.
type AxisRemap struct {
	RemapX, RemapY, RemapZ SignedAxis
}

// IdentityRemap is the no-op axis mapping.
var IdentityRemap = AxisRemap{RemapX: PlusX, RemapY: PlusY, RemapZ: PlusZ}

// Apply remaps a raw vector (e.g. accelerometer or gyro) into the
// configured rocket-body-aligned sensor axes.
func (r AxisRemap) Apply(v Vec3) Vec3 {
	return Vec3{
		X: r.RemapX.component(v),
		Y: r.RemapY.component(v),
		Z: r.RemapZ.component(v),
	}
}

// Remap applies the axis convention to both vector fields of a
// Measurement, leaving altitude untouched.
func (r AxisRemap) Remap(m Measurement) Measurement {
	return Measurement{
		Accel:  r.Apply(m.Accel),
		Gyro:   r.Apply(m.Gyro),
		AltASL: m.AltASL,
	}
}
