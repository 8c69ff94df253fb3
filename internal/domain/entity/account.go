// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the core entity in the system, representing a stored identity
// with unique login keys and a password hash.
// It is created only by registration and, apart from PasswordHash (replaced
// by a password reset), immutable afterwards. The PasswordHash is never the
// plaintext password and is never returned to a caller.
type Account struct {
	ID           uuid.UUID // The unique identifier for the account, generated by the database.
	Username     string    // The canonical login key. Globally unique.
	Email        string    // Optional contact email. Globally unique when present.
	Number       string    // Optional phone number. Globally unique when present.
	PasswordHash string    // The bcrypt hash of the password; salt and cost are embedded in the string.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification (password resets only).
}
