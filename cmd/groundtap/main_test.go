package main

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/pozzari-rocketry/flightcore/internal/telemetry"
)

func TestTapDecodesConcatenatedPackets(t *testing.T) {
	var wire bytes.Buffer
	wire.Write(telemetry.EncodeInFlight(telemetry.InFlightPacket{
		Latitude: 28.5, Longitude: -80.6, BatteryVoltage: 7.4, AltitudeAGL: 500,
	}))
	wire.Write(telemetry.EncodeLanded(telemetry.LandedPacket{
		BatteryVoltage: 6.9, LastKnownAltitudeAGL: 0, FlightOutcome: telemetry.OutcomeLanded,
	}))

	var out bytes.Buffer
	err := tap(&wire, &out)
	if err != io.EOF {
		t.Fatalf("expected tap to stop at EOF, got %v", err)
	}

	dec := json.NewDecoder(&out)
	var first telemetry.InFlightPacket
	if err := dec.Decode(&first); err != nil {
		t.Fatalf("decoding first JSON line: %v", err)
	}
	if first.AltitudeAGL < 499 || first.AltitudeAGL > 501 {
		t.Errorf("expected altitude ~500, got %v", first.AltitudeAGL)
	}

	var second telemetry.LandedPacket
	if err := dec.Decode(&second); err != nil {
		t.Fatalf("decoding second JSON line: %v", err)
	}
	if second.FlightOutcome != telemetry.OutcomeLanded {
		t.Errorf("expected landed outcome, got %v", second.FlightOutcome)
	}
}

func TestTapResynchronizesOnUnknownPacketType(t *testing.T) {
	wire := bytes.NewReader([]byte{0xFF, 0x00, 0x00})
	var out bytes.Buffer
	err := tap(wire, &out)
	if err != io.EOF {
		t.Fatalf("expected EOF after resynchronizing past bad bytes, got %v", err)
	}
}
