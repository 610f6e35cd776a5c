package telemetry

import "testing"

func approxEqual(a, b, tol float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol
}

func TestInFlightRoundTrip(t *testing.T) {
	p := InFlightPacket{
		Latitude:          28.5721,
		Longitude:         -80.6480,
		BatteryVoltage:    7.4,
		AirTemperatureC:   22.3,
		AltitudeAGL:       1234,
		VerticalVelocity:  -42,
		TiltDeg:           12,
		ExtensionFraction: 0.52,
	}

	encoded := EncodeInFlight(p)
	got, err := DecodeInFlight(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !approxEqual(got.Latitude, p.Latitude, 2.146e-5*1.5) {
		t.Errorf("latitude round trip: got %v want %v", got.Latitude, p.Latitude)
	}
	if !approxEqual(got.Longitude, p.Longitude, 2.146e-5*1.5) {
		t.Errorf("longitude round trip: got %v want %v", got.Longitude, p.Longitude)
	}
	if !approxEqual(float64(got.BatteryVoltage), float64(p.BatteryVoltage), 0.02) {
		t.Errorf("battery voltage round trip: got %v want %v", got.BatteryVoltage, p.BatteryVoltage)
	}
	if !approxEqual(float64(got.AltitudeAGL), float64(p.AltitudeAGL), 1.5) {
		t.Errorf("altitude AGL round trip: got %v want %v", got.AltitudeAGL, p.AltitudeAGL)
	}
	if !approxEqual(float64(got.ExtensionFraction), float64(p.ExtensionFraction), 0.05) {
		t.Errorf("extension round trip: got %v want %v", got.ExtensionFraction, p.ExtensionFraction)
	}
}

func TestDecodeRejectsWrongPacketType(t *testing.T) {
	landed := EncodeLanded(LandedPacket{BatteryVoltage: 7.0, LastKnownAltitudeAGL: 0, FlightOutcome: OutcomeLanded})
	if _, err := DecodeInFlight(landed); err == nil {
		t.Fatalf("expected an error decoding a landed packet as in-flight")
	}
}

func TestLandedRoundTrip(t *testing.T) {
	p := LandedPacket{BatteryVoltage: 6.8, LastKnownAltitudeAGL: 305, FlightOutcome: OutcomeFailedToReachMinApogee}
	encoded := EncodeLanded(p)
	got, err := DecodeLanded(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.FlightOutcome != OutcomeFailedToReachMinApogee {
		t.Fatalf("expected outcome to round trip, got %v", got.FlightOutcome)
	}
	if !approxEqual(float64(got.LastKnownAltitudeAGL), float64(p.LastKnownAltitudeAGL), 1.5) {
		t.Errorf("altitude round trip: got %v want %v", got.LastKnownAltitudeAGL, p.LastKnownAltitudeAGL)
	}
}

func TestFieldBitWidthIsDeterministic(t *testing.T) {
	if tiltField.bitWidth() <= 0 {
		t.Fatalf("expected a positive bit width for tilt field")
	}
}
