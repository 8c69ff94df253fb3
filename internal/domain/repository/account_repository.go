// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"passport/internal/domain/entity"
)

// Domain-specific errors for credential persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrAccountNotFound is returned when no account matches the login key.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateAccount is returned when an insert collides with an existing unique login key.
	ErrDuplicateAccount = errors.New("account already exists")
)

// AccountRepository defines the standard operations for credential persistence.
// The application layer depends on this interface, not the concrete implementation.
type AccountRepository interface {
	// Insert persists a new account. The insert and the uniqueness check are a
	// single atomic statement: colliding concurrent inserts resolve to exactly
	// one success and one ErrDuplicateAccount, enforced by the store's unique
	// constraints rather than application-level locking.
	Insert(ctx context.Context, account *entity.Account) error

	// FindByUsername retrieves a single account by its canonical login key.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)

	// UpdatePasswordHash replaces the password hash of the account matching
	// username and returns the number of rows affected. Zero rows means no
	// such account exists.
	UpdatePasswordHash(ctx context.Context, username, newHash string) (int64, error)
}
