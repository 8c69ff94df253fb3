package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the decoded claim set of a session token.
type Claims struct {
	Subject string // The username the token was issued to.
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and verifying session tokens.
// Tokens are signed and time-limited but not persisted server-side: each
// request is evaluated independently and a token self-invalidates at expiry.
type TokenService interface {
	// Issue creates a signed session token for the given subject.
	Issue(subject string) (token string, expiresAt time.Time, err error)

	// Verify checks the signature and expiry of a token string and returns
	// the decoded claims. Absent, malformed, tampered and expired tokens all
	// fail verification.
	Verify(token string) (*Claims, error)

	// AccessTokenDuration returns the configured token lifetime.
	AccessTokenDuration() time.Duration
}
