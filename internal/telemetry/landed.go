package telemetry

import "fmt"

// PacketTypeLanded is the leading discriminator byte for a post-recovery
// telemetry packet: a second, smaller schema sized for post-recovery
// bandwidth and priority needs, once a GPS fix may no longer be
// available.
const PacketTypeLanded byte = 0x02

// Outcome identifies why the flight ended.
type Outcome byte

const (
	OutcomeLanded Outcome = iota
	OutcomeFailedToReachMinApogee
)

func (o Outcome) String() string {
	if o == OutcomeFailedToReachMinApogee {
		return "failed_to_reach_min_apogee"
	}
	return "landed"
}

// LandedPacket is the reduced post-recovery downlink schema: no GPS fix
// is assumed available, so only the last known (pre-loss) altitude AGL is
// carried, alongside battery state and the flight outcome.
type LandedPacket struct {
	BatteryVoltage       float32
	LastKnownAltitudeAGL float32
	FlightOutcome        Outcome
}

// LandedPacketLen is the fixed on-wire byte length of a landed packet,
// mirroring InFlightPacketLen.
func LandedPacketLen() int {
	return len(EncodeLanded(LandedPacket{}))
}

// EncodeLanded bit-packs p into a downlink frame.
func EncodeLanded(p LandedPacket) []byte {
	w := &bitWriter{}
	w.writeByte(PacketTypeLanded)
	w.writeField(batteryVoltageField, float64(p.BatteryVoltage))
	w.writeField(altitudeAGLField, float64(p.LastKnownAltitudeAGL))
	w.writeBits(uint64(p.FlightOutcome), 1)
	return w.bytes()
}

// DecodeLanded unpacks a downlink frame produced by EncodeLanded.
func DecodeLanded(data []byte) (LandedPacket, error) {
	r := &bitReader{buf: data}
	packetType, err := r.readByte()
	if err != nil {
		return LandedPacket{}, err
	}
	if packetType != PacketTypeLanded {
		return LandedPacket{}, fmt.Errorf("telemetry: expected landed packet type 0x%02x, got 0x%02x", PacketTypeLanded, packetType)
	}

	battery, err := r.readField(batteryVoltageField)
	if err != nil {
		return LandedPacket{}, err
	}
	alt, err := r.readField(altitudeAGLField)
	if err != nil {
		return LandedPacket{}, err
	}
	outcomeBit, err := r.readBits(1)
	if err != nil {
		return LandedPacket{}, fmt.Errorf("telemetry: reading flight outcome bit: %w", err)
	}

	return LandedPacket{
		BatteryVoltage:       float32(battery),
		LastKnownAltitudeAGL: float32(alt),
		FlightOutcome:        Outcome(outcomeBit),
	}, nil
}
