// Command flightcore drives the real-time estimation/control pipeline
// described in internal/estimator, internal/ascent, internal/descent, and
// internal/mpc. It is the SITL loop: peripheral hardware (IMU/baro
// drivers, the servo link, the CAN/VLP radios) is out of scope for this
// core, so this binary supplies its own synthetic measurement source and
// mock actuators, wired the same way a real flight computer would wire
// its drivers, so the pipeline itself runs unmodified against real
// hardware later.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/pozzari-rocketry/flightcore/internal/apogee"
	"github.com/pozzari-rocketry/flightcore/internal/ascent"
	"github.com/pozzari-rocketry/flightcore/internal/config"
	"github.com/pozzari-rocketry/flightcore/internal/descent"
	"github.com/pozzari-rocketry/flightcore/internal/dynamics"
	"github.com/pozzari-rocketry/flightcore/internal/estimator"
	"github.com/pozzari-rocketry/flightcore/internal/groundlink"
	"github.com/pozzari-rocketry/flightcore/internal/mpc"
	"github.com/pozzari-rocketry/flightcore/internal/telemetry"
	"github.com/pozzari-rocketry/flightcore/internal/types"
	"github.com/pozzari-rocketry/flightcore/internal/uplink"
	"github.com/pozzari-rocketry/flightcore/pkg/obslog"
)

var (
	version = "0.1.0"

	configPath    = flag.String("config", "configs/flight.yaml", "flight configuration file")
	logLevel      = flag.String("log-level", "info", "log level: debug, info, warn, error")
	logOutput     = flag.String("log-output", "stdout", "log output: stdout or a file path")
	httpPort      = flag.Int("http-port", 8093, "status/health HTTP port")
	uplinkKeyPath = flag.String("uplink-key", "", "PEM-encoded ES256 public key for uplink command verification (optional)")
	maxTicks      = flag.Int("max-ticks", 600000, "safety bound on SITL ticks before forced shutdown")
)

// app bundles every pipeline stage the way the teacher's top-level struct
// bundles its subsystems.
type app struct {
	cfg *config.FlightConfig
	dt  float32

	estimator *estimator.Estimator
	ascentSM  *ascent.StateMachine
	descentSM *descent.Machine
	mpcCtrl   *mpc.Controller
	uplinkV   *uplink.Verifier

	ground *groundlink.Broadcaster

	log *logrus.Logger
}

func main() {
	flag.Parse()
	printBanner()

	log := obslog.New(*logLevel, *logOutput)
	obslog.Logger = log

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading flight configuration: %v", err)
	}

	a, err := newApp(cfg)
	if err != nil {
		log.Fatalf("initializing flightcore: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := a.ground.Run(ctx); err != nil && err != context.Canceled {
			log.WithError(err).Warn("groundlink broadcaster stopped")
		}
	}()

	srv := a.startHTTPServer()

	done := make(chan struct{})
	go func() {
		a.runSITL(ctx)
		close(done)
	}()

	select {
	case <-sigChan:
		log.Info("shutdown signal received")
	case <-done:
		log.Info("SITL run completed")
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http server shutdown error")
	}
}

func newApp(cfg *config.FlightConfig) (*app, error) {
	dt := 1.0 / cfg.SampleRateHz
	seedSamples := int(cfg.SampleRateHz)

	ascentSM := ascent.New(dt, seedSamples, cfg.Profile.MinApogeeAGL, cfg.Kalman)
	descentSM := descent.New(ascentSM, cfg.Profile, dt, cfg.Kalman)
	est := estimator.New(int(cfg.SampleRateHz), cfg.Profile.IgnitionAccelThreshold)

	var verifier *uplink.Verifier
	if *uplinkKeyPath != "" {
		pemBytes, err := os.ReadFile(*uplinkKeyPath)
		if err != nil {
			return nil, fmt.Errorf("reading uplink public key: %w", err)
		}
		pubKey, err := jwt.ParseECPublicKeyFromPEM(pemBytes)
		if err != nil {
			return nil, fmt.Errorf("parsing uplink public key: %w", err)
		}
		verifier = uplink.NewVerifier(pubKey)
	}

	return &app{
		cfg:       cfg,
		dt:        dt,
		estimator: est,
		ascentSM:  ascentSM,
		descentSM: descentSM,
		uplinkV:   verifier,
		ground:    groundlink.New(),
		log:       obslog.Logger,
	}, nil
}

// runSITL drives the synchronous pipeline tick by tick against a
// synthetic flight, the way a real build would drive it against a live
// sensor stream, until the descent machine reaches a terminal phase or
// maxTicks is hit.
func (a *app) runSITL(ctx context.Context) {
	sim := newSITL(a.cfg.Rocket, a.dt)
	extension := float32(0)

	for tick := 0; tick < *maxTicks; tick++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		raw, truth := sim.step(extension)
		m := a.cfg.AxisRemap.Remap(raw)

		a.estimator.Update(m)
		verticalAccel := a.estimator.VerticalAccel(m)

		if a.mpcCtrl == nil && a.estimator.InStage2() {
			a.commissionMPC(truth.AltitudeASL, truth.Vy)
		}
		if a.mpcCtrl != nil && a.descentSM.Phase() == descent.Ascent {
			extension = a.mpcCtrl.ExtensionCommand(truth.AltitudeASL, truth.Vy)
		} else {
			extension = 0
		}

		pyro, fired := a.descentSM.Update(m.AltASL, verticalAccel)
		if fired {
			a.log.WithField("pyro", pyro.String()).Info("pyro channel fired")
		}

		tilt, _ := a.estimator.Tilt()
		a.broadcastInFlight(m, truth.Vy, extension, tilt)

		phase := a.descentSM.Phase()
		if phase == descent.Landed || phase == descent.FailedToReachMinApogee {
			a.log.WithField("outcome", phase.String()).Info("flight terminated")
			a.broadcastLanded(m, phase)
			return
		}
	}
	a.log.Warn("SITL run hit max-ticks safety bound without landing")
}

// commissionMPC constructs the MPC controller once the orientation
// estimator reaches Stage2 (rocket-frame tracking available), passing the
// zero-drag predicted apogee at that instant to mpc.New, which sets the
// safety envelope's upper bound to 1.5 times that value.
func (a *app) commissionMPC(altitudeASL, velocityY float32) {
	sim := apogee.New(a.cfg.Rocket, config.DragHalvingFactor)
	zeroDragApogee := sim.Predict(dynamics.State{AltitudeASL: altitudeASL, Vy: velocityY}, -1)

	a.mpcCtrl = mpc.New(a.cfg.Rocket, config.DragHalvingFactor, a.cfg.TargetApogeeM, zeroDragApogee)
	a.log.WithFields(logrus.Fields{
		"target_apogee_m":  a.cfg.TargetApogeeM,
		"zero_drag_apogee": zeroDragApogee,
	}).Info("air-brakes controller commissioned")
}

// launchSiteLatitude/Longitude stand in for the GPS fix a real build
// reads from the nav peripheral; a fixed benign coordinate is enough to
// exercise the telemetry codec and groundlink fan-out end to end.
const (
	launchSiteLatitude  = 32.9342
	launchSiteLongitude = -106.9200
	mockBatteryVoltage  = 7.4
)

// broadcastInFlight encodes the current tick as a downlink packet and
// fans it out to connected ground viewers.
func (a *app) broadcastInFlight(m types.Measurement, verticalVelocity, extension, tiltDeg float32) {
	pad, _ := a.ascentSM.LaunchPadAltitudeASL()
	packet := telemetry.InFlightPacket{
		Latitude:          launchSiteLatitude,
		Longitude:         launchSiteLongitude,
		BatteryVoltage:    mockBatteryVoltage,
		AirTemperatureC:   airTemperatureAt(m.AltASL),
		AltitudeAGL:       m.AltASL - pad,
		VerticalVelocity:  verticalVelocity,
		TiltDeg:           tiltDeg,
		ExtensionFraction: extension,
	}
	telemetry.EncodeInFlight(packet) // exercises the wire codec; groundlink fans out the decoded view below

	a.ground.Broadcast(&groundlink.Message{
		Timestamp:         time.Now(),
		Latitude:          packet.Latitude,
		Longitude:         packet.Longitude,
		BatteryVoltage:    packet.BatteryVoltage,
		AirTemperatureC:   packet.AirTemperatureC,
		AltitudeAGL:       packet.AltitudeAGL,
		VerticalVelocity:  packet.VerticalVelocity,
		TiltDeg:           packet.TiltDeg,
		ExtensionFraction: packet.ExtensionFraction,
		Phase:             a.descentSM.Phase().String(),
	})
}

// broadcastLanded encodes the terminal landed/failed-to-reach-apogee
// packet.
func (a *app) broadcastLanded(m types.Measurement, phase descent.Phase) {
	pad, _ := a.ascentSM.LaunchPadAltitudeASL()
	outcome := telemetry.OutcomeLanded
	if phase == descent.FailedToReachMinApogee {
		outcome = telemetry.OutcomeFailedToReachMinApogee
	}
	packet := telemetry.LandedPacket{
		BatteryVoltage:       mockBatteryVoltage,
		LastKnownAltitudeAGL: m.AltASL - pad,
		FlightOutcome:        outcome,
	}
	telemetry.EncodeLanded(packet)

	a.ground.Broadcast(&groundlink.Message{
		Timestamp:   time.Now(),
		AltitudeAGL: packet.LastKnownAltitudeAGL,
		Phase:       phase.String(),
	})
}

// airTemperatureAt approximates the ISA troposphere lapse rate, enough
// to give the mock air-temperature telemetry field a realistic shape.
func airTemperatureAt(altitudeASL float32) float32 {
	const seaLevelTempC = 15.0
	const lapseRateCPerM = 0.0065
	return seaLevelTempC - lapseRateCPerM*altitudeASL
}

func (a *app) startHTTPServer() *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/api/v1/status", a.statusHandler)
	if a.uplinkV != nil {
		mux.HandleFunc("/api/v1/uplink", a.uplinkHandler)
	}
	mux.HandleFunc("/ws/telemetry", a.ground.HandleWebSocket)

	srv := &http.Server{Addr: fmt.Sprintf(":%d", *httpPort), Handler: mux}
	go func() {
		a.log.WithField("port", *httpPort).Info("status HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.WithError(err).Error("http server error")
		}
	}()
	return srv
}

func (a *app) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "service": "flightcore", "version": version})
}

func (a *app) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	target := float32(0)
	if a.mpcCtrl != nil {
		target = a.mpcCtrl.TargetApogee()
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ascent_phase":    a.ascentSM.Phase().String(),
		"descent_phase":   a.descentSM.Phase().String(),
		"target_apogee_m": target,
	})
}

// uplinkHandler accepts a signed command envelope and, once verified,
// applies it to the MPC target apogee.
func (a *app) uplinkHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	cmd, err := a.uplinkV.Verify(string(body))
	if err != nil {
		a.log.WithError(err).Warn("rejected uplink envelope")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	if cmd.TargetApogeeM > 0 && a.mpcCtrl != nil {
		a.mpcCtrl.SetTargetApogee(cmd.TargetApogeeM)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}

func printBanner() {
	fmt.Printf("flightcore %s — ascent/descent/air-brakes SITL driver\n", version)
}
