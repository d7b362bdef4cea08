//go:build !integration

package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, key, userID, role string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestParseJWT(t *testing.T) {
	SetJWTSecret("test-secret")

	claims, err := ParseJWT(signToken(t, "test-secret", "42", "customer", time.Minute))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "42" || claims.Role != "customer" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseJWT_Rejects(t *testing.T) {
	SetJWTSecret("test-secret")

	if _, err := ParseJWT(signToken(t, "test-secret", "42", "customer", -time.Minute)); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
	if _, err := ParseJWT(signToken(t, "other-secret", "42", "customer", time.Minute)); err == nil {
		t.Fatalf("expected token signed with another key to be rejected")
	}
	if _, err := ParseJWT("not-a-token"); err == nil {
		t.Fatalf("expected garbage to be rejected")
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "42"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseJWT(unsigned); err == nil {
		t.Fatalf("expected alg none to be rejected")
	}

	SetJWTSecret("")
	if _, err := ParseJWT(signToken(t, "test-secret", "42", "customer", time.Minute)); err == nil {
		t.Fatalf("expected error without a configured secret")
	}
}
