package uplink

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedEnvelope(t *testing.T, key *ecdsa.PrivateKey, cmd Command) string {
	t.Helper()
	claims := commandClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		Command: cmd,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("signing test envelope: %v", err)
	}
	return signed
}

func TestVerifyAcceptsValidEnvelope(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating test key: %v", err)
	}
	v := NewVerifier(&key.PublicKey)

	envelope := signedEnvelope(t, key, Command{TargetApogeeM: 2500})
	got, err := v.Verify(envelope)
	if err != nil {
		t.Fatalf("expected valid envelope to verify, got %v", err)
	}
	if got.TargetApogeeM != 2500 {
		t.Fatalf("expected target apogee 2500, got %v", got.TargetApogeeM)
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	signerKey, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	otherKey, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)

	v := NewVerifier(&otherKey.PublicKey)
	envelope := signedEnvelope(t, signerKey, Command{TargetApogeeM: 1000})

	if _, err := v.Verify(envelope); err == nil {
		t.Fatalf("expected verification to fail against the wrong public key")
	}
}

func TestVerifyRejectsExpiredEnvelope(t *testing.T) {
	key, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	v := NewVerifier(&key.PublicKey)

	claims := commandClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Command: Command{TargetApogeeM: 1000},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("signing expired envelope: %v", err)
	}

	if _, err := v.Verify(signed); err == nil {
		t.Fatalf("expected expired envelope to be rejected")
	}
}
