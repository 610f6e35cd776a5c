// Command groundtap opens a serial port and decodes the fixed-point
// downlink packets described in internal/telemetry, mirroring how flight
// telemetry is tapped on the bench before the real VLP radio is
// integrated (grounded on the teacher's actuators/mavlink_protocol.go,
// which talks MAVLink over exactly this serial library).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.bug.st/serial"

	"github.com/pozzari-rocketry/flightcore/internal/telemetry"
	"github.com/pozzari-rocketry/flightcore/pkg/obslog"
)

var (
	portName = flag.String("port", "/dev/ttyUSB0", "serial port device")
	baudRate = flag.Int("baud", 57600, "serial baud rate")
	logLevel = flag.String("log-level", "info", "log level: debug, info, warn, error")
)

var log = obslog.Component("groundtap")

func main() {
	flag.Parse()
	obslog.Logger = obslog.New(*logLevel, "stdout")
	log = obslog.Component("groundtap")

	port, err := serial.Open(*portName, &serial.Mode{BaudRate: *baudRate})
	if err != nil {
		log.Fatalf("opening serial port %s: %v", *portName, err)
	}
	defer port.Close()

	log.WithFields(map[string]interface{}{"port": *portName, "baud": *baudRate}).Info("groundtap listening")

	if err := tap(port, os.Stdout); err != nil && err != io.EOF {
		log.Fatalf("tap stopped: %v", err)
	}
}

// tap reads discriminator-framed downlink packets from r until a read
// fails (EOF included), writing each decoded packet as a JSON line to w.
// A frame that fails to decode is logged and skipped, as is an
// unrecognized type byte.
func tap(r io.Reader, w io.Writer) error {
	inFlightLen := telemetry.InFlightPacketLen()
	landedLen := telemetry.LandedPacketLen()
	enc := json.NewEncoder(w)

	for {
		header := make([]byte, 1)
		if _, err := io.ReadFull(r, header); err != nil {
			return err
		}

		switch header[0] {
		case telemetry.PacketTypeInFlight:
			frame, err := readFrame(r, header[0], inFlightLen)
			if err != nil {
				return err
			}
			packet, err := telemetry.DecodeInFlight(frame)
			if err != nil {
				log.WithError(err).Warn("dropping malformed in-flight packet")
				continue
			}
			enc.Encode(packet)

		case telemetry.PacketTypeLanded:
			frame, err := readFrame(r, header[0], landedLen)
			if err != nil {
				return err
			}
			packet, err := telemetry.DecodeLanded(frame)
			if err != nil {
				log.WithError(err).Warn("dropping malformed landed packet")
				continue
			}
			enc.Encode(packet)

		default:
			log.WithField("type_byte", fmt.Sprintf("0x%02x", header[0])).Warn("unrecognized packet type, resynchronizing")
		}
	}
}

// readFrame reads the remainder of a fixed-length packet given its
// already-consumed leading discriminator byte.
func readFrame(r io.Reader, typeByte byte, totalLen int) ([]byte, error) {
	frame := make([]byte, totalLen)
	frame[0] = typeByte
	if _, err := io.ReadFull(r, frame[1:]); err != nil {
		return nil, err
	}
	return frame, nil
}
