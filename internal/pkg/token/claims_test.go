package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestInspect_ReadsSubjectAndExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := sign(t, jwt.MapClaims{"sub": "alice", "exp": exp.Unix()})

	c, ok := Inspect(raw)
	if !ok {
		t.Fatalf("expected token to parse")
	}
	if c.Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", c.Subject)
	}
	if !c.ExpiresAt.Equal(exp) {
		t.Fatalf("expected exp %v, got %v", exp, c.ExpiresAt)
	}
}

func TestInspect_OpaqueToken(t *testing.T) {
	if _, ok := Inspect("not-a-jwt"); ok {
		t.Fatalf("expected opaque token to be rejected")
	}
}

func TestTTL(t *testing.T) {
	now := time.Now()
	raw := sign(t, jwt.MapClaims{"exp": now.Add(30 * time.Minute).Unix()})

	ttl, ok := TTL(raw, now)
	if !ok {
		t.Fatalf("expected ttl")
	}
	if ttl <= 29*time.Minute || ttl > 30*time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	if _, ok := TTL(sign(t, jwt.MapClaims{"sub": "bob"}), now); ok {
		t.Fatalf("expected no ttl for token without exp")
	}
}
