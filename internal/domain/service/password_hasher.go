// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password. The algorithm,
	// cost and salt are embedded in the returned string, so no separate salt
	// storage is needed and the scheme can be upgraded without a migration.
	// Passwords shorter than the minimum length are rejected.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash in constant time.
	// It returns false on any mismatch, never an error.
	Check(password, hash string) bool
}
