package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := "super-secret"
	tok, err := NewAccessToken(secret, 42, "user")
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("expected non-empty token string")
	}
	wantExp := time.Now().UTC().Add(AccessTokenTTL)
	if d := tok.Exp.Sub(wantExp); d < -5*time.Second || d > 5*time.Second {
		t.Fatalf("expiry not ~60m out: got %v", tok.Exp)
	}

	claims, err := ParseAccessToken(secret, tok.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id mismatch: got %d want 42", claims.UserID)
	}
	if claims.Role != "user" {
		t.Fatalf("role mismatch: got %q want %q", claims.Role, "user")
	}
}

func TestParseAccessToken_Expired(t *testing.T) {
	t.Parallel()

	secret := "secret"
	// Build a token whose exp is already in the past; issuance always
	// stamps now+60m, so the expired case has to be crafted directly.
	past := time.Now().UTC().Add(-61 * time.Minute)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uint64(7),
		"exp": past.Unix(),
		"iat": past.Add(-time.Hour).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = ParseAccessToken(secret, raw)
	if err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("right-secret", 7, "user")
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	_, err = ParseAccessToken("wrong-secret", tok.Token)
	if err != ErrTokenSignature {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestParseAccessToken_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseAccessToken("k", "not.a.jwt"); err != ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestParseAccessToken_MissingSubject(t *testing.T) {
	t.Parallel()

	secret := "secret"
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().UTC().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken(secret, raw); err != ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}
