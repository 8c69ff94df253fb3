package middleware

import (
	"strings"

	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// accessTokenCookie is the cookie the login handler sets; browser clients
// authenticate with it instead of the Authorization header.
const accessTokenCookie = "access_token"

// ContextKeyUsername is the echo context key the authenticated subject is stored under.
const ContextKeyUsername = "username"

// AuthMiddleware provides middleware for session token authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the session token from the Authorization header or,
// failing that, the access_token cookie, and stores the subject on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := m.extractToken(c)
		if tokenString == "" {
			return domainerrors.ErrTokenInvalid.WrapMessage("missing session token")
		}

		claims, err := m.tokenSvc.Verify(tokenString)
		if err != nil {
			return err
		}

		// Set the authenticated subject on the context for handlers to use
		c.Set(ContextKeyUsername, claims.Subject)

		return next(c)
	}
}

// extractToken prefers the Authorization header over the cookie.
func (m *AuthMiddleware) extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString != authHeader {
			return tokenString
		}

		return ""
	}

	cookie, err := c.Cookie(accessTokenCookie)
	if err != nil {
		return ""
	}

	return cookie.Value
}
