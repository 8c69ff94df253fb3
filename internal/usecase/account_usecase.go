// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
// Email and Number are optional; when present they must be globally unique.
type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Number   string `json:"number,omitempty"`
}

// LoginInput defines the data required to log in.
// The canonical login key is the username.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordInput defines the data required to reset an account password.
type ResetPasswordInput struct {
	Username    string `json:"username" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's identity.
// No secret material is ever echoed back.
type RegisterOutput struct {
	Username string `json:"username"`
}

// LoginOutput returns the session token issued after a successful login.
type LoginOutput struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AccountUsecase defines the interface for account lifecycle operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	ResetPassword(ctx context.Context, input *ResetPasswordInput) error
}
