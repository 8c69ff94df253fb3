// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"passport/config"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/service"
)

const (
	// minPasswordLength is the static precondition every new password must meet.
	minPasswordLength = 8

	// minBcryptCost is the floor for the adaptive work factor; configs below it
	// are silently raised so a typo can't weaken stored hashes.
	minBcryptCost = 10
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := 0
	if cfg != nil && cfg.Auth != nil {
		cost = cfg.Auth.BcryptCost
	}

	return NewBcryptHasherWithCost(cost)
}

// NewBcryptHasherWithCost builds a hasher with an explicit work factor.
// Costs below the floor are raised to it.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	if cost < minBcryptCost {
		cost = minBcryptCost
	}

	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt generates a fresh random salt per call and embeds the algorithm,
// cost and salt in the returned string.
func (h *bcryptHasher) Hash(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", domainerrors.ErrPasswordTooShort
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
// bcrypt recomputes the digest with the embedded salt and cost and compares
// in constant time; any mismatch or malformed hash yields false.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}
