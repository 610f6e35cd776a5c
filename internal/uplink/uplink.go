// Package uplink verifies signed ground-station command envelopes before
// any in-core effect (target apogee change, mode request) is allowed to
// take place. Uplink packets that could perturb a live air-brakes
// controller are safety-relevant enough to authenticate in this repo
// rather than leaving it purely to the external radio stack.
package uplink

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Command is the decoded, authenticated payload of an uplink envelope.
type Command struct {
	// TargetApogeeM is non-zero only when the uplink requests a new
	// commissioned target apogee (meters).
	TargetApogeeM float32 `json:"target_apogee_m"`
	// RequestedMode, if non-empty, names a mode change request. The core
	// only ever observes it; the mode transition logic lives elsewhere.
	RequestedMode string `json:"requested_mode,omitempty"`
}

type commandClaims struct {
	jwt.RegisteredClaims
	Command
}

// Verifier checks uplink envelopes against a single ground-station public
// key (ES256).
type Verifier struct {
	publicKey interface{}
}

// NewVerifier constructs a Verifier for the given ES256 public key.
func NewVerifier(publicKey interface{}) *Verifier {
	return &Verifier{publicKey: publicKey}
}

// Verify parses and validates a signed uplink envelope, returning the
// authenticated Command. An envelope that fails signature verification,
// has expired, or uses an unexpected signing method is rejected.
func (v *Verifier) Verify(envelope string) (Command, error) {
	var claims commandClaims
	token, err := jwt.ParseWithClaims(envelope, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("uplink: unexpected signing method %v", t.Method.Alg())
		}
		return v.publicKey, nil
	}, jwt.WithValidMethods([]string{"ES256"}))
	if err != nil {
		return Command{}, fmt.Errorf("uplink: verifying envelope: %w", err)
	}
	if !token.Valid {
		return Command{}, fmt.Errorf("uplink: envelope failed validation")
	}
	return claims.Command, nil
}
