// Package token reads claims from access tokens the console does not own.
// Signatures are never verified here: the backend is the only party that
// can do that, and the console only uses the claims for bookkeeping.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of registered claims the console looks at.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Inspect decodes the claims of a JWT without verifying it. ok is false
// when the token is not a parseable JWT.
func Inspect(raw string) (Claims, bool) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &rc); err != nil {
		return Claims{}, false
	}
	c := Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, true
}

// TTL returns how long the token remains valid relative to now. ok is
// false when the token has no expiry or cannot be parsed; a token that is
// already expired yields ok with a non-positive duration.
func TTL(raw string, now time.Time) (time.Duration, bool) {
	c, ok := Inspect(raw)
	if !ok || c.ExpiresAt.IsZero() {
		return 0, false
	}
	return c.ExpiresAt.Sub(now), true
}
