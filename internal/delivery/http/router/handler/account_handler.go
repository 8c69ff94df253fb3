// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"passport/config"
	"passport/internal/delivery/http/middleware"
	"passport/internal/delivery/http/response"
	"passport/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	cookieAccessToken = "access_token"
	cookieTokenType   = "token_type"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	cfg    *config.Config
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, cfg *config.Config, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		cfg:    cfg,
		logger: logger,
	}
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var input *usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	// The response carries the username only, never the password or its hash.
	return response.Success(c, http.StatusCreated, output, "Account registered successfully")
}

// Login handles the login request. On success it returns the session token in
// the body and also sets it as a cookie for browser clients.
func (h *AccountHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	maxAge := int(time.Until(output.ExpiresAt).Seconds())
	c.SetCookie(h.sessionCookie(cookieAccessToken, output.AccessToken, maxAge))
	c.SetCookie(h.sessionCookie(cookieTokenType, output.TokenType, maxAge))

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// ResetPassword handles the password reset request.
func (h *AccountHandler) ResetPassword(c echo.Context) error {
	var input *usecase.ResetPasswordInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password reset input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.ResetPassword(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "password updated successfully"}, "Password reset successful")
}

// Me returns the subject of the authenticated session token.
func (h *AccountHandler) Me(c echo.Context) error {
	usernameVal := c.Get(middleware.ContextKeyUsername)
	username, ok := usernameVal.(string)
	if !ok || username == "" {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid subject in token")
	}

	return response.Success(c, http.StatusOK, map[string]string{"username": username}, "Profile retrieved successfully")
}

// sessionCookie builds a session cookie with the hardening attributes shared
// by both cookies the login handler sets.
func (h *AccountHandler) sessionCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Token.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
