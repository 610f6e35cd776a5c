package telemetry

import "fmt"

// PacketTypeInFlight is the leading discriminator byte for an in-flight
// telemetry packet.
const PacketTypeInFlight byte = 0x01

// InFlightPacket is the full in-flight downlink schema. Latitude and
// longitude are carried as float64 in memory — ground-side geodetic
// fields are the one exception to the real-time core's float32
// determinism rule — even though their wire encoding is the same
// fixed-point scheme as every other field.
type InFlightPacket struct {
	Latitude, Longitude float64
	BatteryVoltage      float32
	AirTemperatureC     float32
	AltitudeAGL         float32
	VerticalVelocity    float32
	TiltDeg             float32
	ExtensionFraction   float32
}

// InFlightPacketLen is the fixed on-wire byte length of an in-flight
// packet, derived from the fields' declared bit widths rather than
// hard-coded, so a serial tap can frame the stream without a
// length-prefix or delimiter.
func InFlightPacketLen() int {
	return len(EncodeInFlight(InFlightPacket{}))
}

// EncodeInFlight bit-packs p into a downlink frame.
func EncodeInFlight(p InFlightPacket) []byte {
	w := &bitWriter{}
	w.writeByte(PacketTypeInFlight)
	w.writeField(latitudeField, p.Latitude)
	w.writeField(longitudeField, p.Longitude)
	w.writeField(batteryVoltageField, float64(p.BatteryVoltage))
	w.writeField(airTemperatureField, float64(p.AirTemperatureC))
	w.writeField(altitudeAGLField, float64(p.AltitudeAGL))
	w.writeField(verticalVelocityField, float64(p.VerticalVelocity))
	w.writeField(tiltField, float64(p.TiltDeg))
	w.writeField(extensionField, float64(p.ExtensionFraction))
	return w.bytes()
}

// DecodeInFlight unpacks a downlink frame produced by EncodeInFlight.
func DecodeInFlight(data []byte) (InFlightPacket, error) {
	r := &bitReader{buf: data}
	packetType, err := r.readByte()
	if err != nil {
		return InFlightPacket{}, err
	}
	if packetType != PacketTypeInFlight {
		return InFlightPacket{}, fmt.Errorf("telemetry: expected in-flight packet type 0x%02x, got 0x%02x", PacketTypeInFlight, packetType)
	}

	lat, err := r.readField(latitudeField)
	if err != nil {
		return InFlightPacket{}, err
	}
	lon, err := r.readField(longitudeField)
	if err != nil {
		return InFlightPacket{}, err
	}
	battery, err := r.readField(batteryVoltageField)
	if err != nil {
		return InFlightPacket{}, err
	}
	airTemp, err := r.readField(airTemperatureField)
	if err != nil {
		return InFlightPacket{}, err
	}
	alt, err := r.readField(altitudeAGLField)
	if err != nil {
		return InFlightPacket{}, err
	}
	vv, err := r.readField(verticalVelocityField)
	if err != nil {
		return InFlightPacket{}, err
	}
	tilt, err := r.readField(tiltField)
	if err != nil {
		return InFlightPacket{}, err
	}
	ext, err := r.readField(extensionField)
	if err != nil {
		return InFlightPacket{}, err
	}

	return InFlightPacket{
		Latitude:          lat,
		Longitude:         lon,
		BatteryVoltage:    float32(battery),
		AirTemperatureC:   float32(airTemp),
		AltitudeAGL:       float32(alt),
		VerticalVelocity:  float32(vv),
		TiltDeg:           float32(tilt),
		ExtensionFraction: float32(ext),
	}, nil
}
