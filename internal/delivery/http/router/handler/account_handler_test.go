package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"passport/config"
	httpmiddleware "passport/internal/delivery/http/middleware"
	"passport/internal/delivery/http/validator"
	domainerrors "passport/internal/domain/errors"
	mockUC "passport/internal/mocks/usecase"
	"passport/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func newTestAccountHandler(t *testing.T) (*AccountHandler, *mockUC.MockAccountUsecase) {
	t.Helper()

	uc := mockUC.NewMockAccountUsecase(t)
	cfg := &config.Config{Token: &config.TokenConfig{CookieSecure: false}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewAccountHandler(uc, cfg, logger), uc
}

func TestAccountHandler_Register_Success(t *testing.T) {
	h, uc := newTestAccountHandler(t)
	c, rec := newTestContext(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"wonderland"}`)

	uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(&usecase.RegisterOutput{Username: "alice"}, nil)

	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alice"`)
	// The password must never appear in the response.
	assert.NotContains(t, rec.Body.String(), "wonderland")
}

func TestAccountHandler_Register_MissingPassword(t *testing.T) {
	h, _ := newTestAccountHandler(t)
	c, _ := newTestContext(t, http.MethodPost, "/auth/register", `{"username":"alice"}`)

	err := h.Register(c)

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())
}

func TestAccountHandler_Register_Conflict(t *testing.T) {
	h, uc := newTestAccountHandler(t)
	c, _ := newTestContext(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"wonderland"}`)

	uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(nil, domainerrors.ErrAccountExists.WrapMessage("registration failed"))

	err := h.Register(c)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountExists))
}

func TestAccountHandler_Login_SetsSessionCookies(t *testing.T) {
	h, uc := newTestAccountHandler(t)
	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"wonderland"}`)

	uc.EXPECT().
		Login(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
		Return(&usecase.LoginOutput{
			AccessToken: "signed.token.value",
			TokenType:   "bearer",
			ExpiresAt:   time.Now().Add(time.Hour),
		}, nil)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	byName := map[string]*http.Cookie{}
	for _, cookie := range cookies {
		byName[cookie.Name] = cookie
	}

	access := byName["access_token"]
	require.NotNil(t, access)
	assert.Equal(t, "signed.token.value", access.Value)

	tokenType := byName["token_type"]
	require.NotNil(t, tokenType)
	assert.Equal(t, "bearer", tokenType.Value)

	for _, cookie := range cookies {
		assert.True(t, cookie.HttpOnly, "cookie %s must be HttpOnly", cookie.Name)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite, "cookie %s must be SameSite=Lax", cookie.Name)
		assert.False(t, cookie.Secure, "Secure follows the config, which is off here")
		assert.InDelta(t, 3600, cookie.MaxAge, 5, "cookie %s lifetime must match the token TTL", cookie.Name)
	}
}

func TestAccountHandler_Login_InvalidCredentials(t *testing.T) {
	h, uc := newTestAccountHandler(t)
	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"not-wonderland"}`)

	uc.EXPECT().
		Login(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
		Return(nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed"))

	err := h.Login(c)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	// No cookie may be set on a failed login.
	assert.Empty(t, rec.Result().Cookies())
}

func TestAccountHandler_ResetPassword_Success(t *testing.T) {
	h, uc := newTestAccountHandler(t)
	c, rec := newTestContext(t, http.MethodPost, "/auth/reset-password", `{"username":"alice","new_password":"looking-glass"}`)

	uc.EXPECT().
		ResetPassword(mock.Anything, mock.AnythingOfType("*usecase.ResetPasswordInput")).
		Return(nil)

	require.NoError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountHandler_ResetPassword_UnknownAccount(t *testing.T) {
	h, uc := newTestAccountHandler(t)
	c, _ := newTestContext(t, http.MethodPost, "/auth/reset-password", `{"username":"nobody","new_password":"looking-glass"}`)

	uc.EXPECT().
		ResetPassword(mock.Anything, mock.AnythingOfType("*usecase.ResetPasswordInput")).
		Return(domainerrors.ErrAccountNotFound.WrapMessage("password reset failed"))

	err := h.ResetPassword(c)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountHandler_Me(t *testing.T) {
	h, _ := newTestAccountHandler(t)
	c, rec := newTestContext(t, http.MethodGet, "/account/me", "")
	c.Set(httpmiddleware.ContextKeyUsername, "alice")

	require.NoError(t, h.Me(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alice"`)
}

func TestAccountHandler_Me_MissingSubject(t *testing.T) {
	h, _ := newTestAccountHandler(t)
	c, rec := newTestContext(t, http.MethodGet, "/account/me", "")

	require.NoError(t, h.Me(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	c, rec := newTestContext(t, http.MethodGet, "/health", "")

	require.NoError(t, HealthCheck(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
