// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"passport/config"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/service"
)

// algHS256 is the only signing algorithm this service accepts. The identifier
// is part of the startup configuration so a deployment cannot silently run
// with an algorithm the operators did not choose.
const algHS256 = "HS256"

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret    string        // Secret key for signing session tokens.
	accessTTL time.Duration // Time-to-live for session tokens.
}

// NewJWTService is the constructor for jwtService.
// It fails when the signing secret or algorithm is absent, so the process
// refuses to start without them.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.Token == nil || cfg.Token.Secret == "" {
		return nil, errors.New("token signing secret must be provided")
	}
	if cfg.Token.Algorithm == "" {
		return nil, errors.New("token signing algorithm must be provided")
	}
	if cfg.Token.Algorithm != algHS256 {
		return nil, errors.Errorf("unsupported token signing algorithm: %s", cfg.Token.Algorithm)
	}

	accessTTL := cfg.Token.AccessTTL
	if accessTTL == 0 {
		accessTTL = time.Hour
	}

	return &jwtService{
		secret:    cfg.Token.Secret,
		accessTTL: accessTTL,
	}, nil
}

// Issue creates a signed session token binding the verified subject.
func (s *jwtService) Issue(subject string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessTTL)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "failed to sign session token")
	}

	return token, expiresAt, nil
}

// Verify checks the signature and expiry of a token string.
// Expired tokens and tokens that are absent, malformed or tampered all fail;
// the two cases map to distinct auth error kinds but the same 401 class.
func (s *jwtService) Verify(tokenString string) (*service.Claims, error) {
	if tokenString == "" {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("session token is missing")
	}

	var registered jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &registered, func(token *jwt.Token) (any, error) {
		// Reject any token whose header names a different algorithm family.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerrors.ErrTokenExpired.WrapMessage("session token has expired")
		}

		return nil, domainerrors.ErrTokenInvalid.WrapMessage("failed to parse session token")
	}
	if !token.Valid {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("session token is not valid")
	}

	return &service.Claims{
		Subject:          registered.Subject,
		RegisteredClaims: registered,
	}, nil
}

// AccessTokenDuration returns the configured lifetime for session tokens.
func (s *jwtService) AccessTokenDuration() time.Duration {
	return s.accessTTL
}
