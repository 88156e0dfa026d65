package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/middleware"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/service"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/config"
	appErrors "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/errors"
)

type fakeLogin struct {
	res *models.LoginResponse
	err error
	req models.LoginRequest
}

func (f *fakeLogin) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.req = req
	return f.res, f.err
}

func newTokens() *service.TokenService {
	return service.NewTokenService(config.JWTConfig{Secret: "test-secret", Expiration: time.Hour})
}

func TestLoginSetsCookie(t *testing.T) {
	login := &fakeLogin{res: &models.LoginResponse{
		Token:     "signed.jwt.value",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      models.UserInfo{UserID: 7, Username: "root", Role: models.RoleRoot},
	}}
	h := NewAuthHandler(login, middleware.NewGuard(newTokens(), nil), true)
	c, rec := newContext(http.MethodPost, "/api/auth/login.php", strings.NewReader(`{"username":"root","password":"pw"}`))
	c.Request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	h.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "203.0.113.9", login.req.IP)
	cookie := rec.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "auth_token=signed.jwt.value")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "Secure")
	assert.Contains(t, cookie, "SameSite=Strict")

	body := decode(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "signed.jwt.value", data["token"])
}

func TestLoginRequiresPost(t *testing.T) {
	h := NewAuthHandler(&fakeLogin{}, middleware.NewGuard(newTokens(), nil), false)
	c, rec := newContext(http.MethodGet, "/api/auth/login.php", nil)

	h.Login(c)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLoginMapsServiceErrors(t *testing.T) {
	h := NewAuthHandler(&fakeLogin{err: appErrors.ErrAuthProviderRequired}, middleware.NewGuard(newTokens(), nil), false)
	c, rec := newContext(http.MethodPost, "/api/auth/login.php", strings.NewReader(`{"username":"g","password":"x"}`))

	h.Login(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	errBody := decode(t, rec)["error"].(map[string]interface{})
	assert.Equal(t, "AUTH_PROVIDER_REQUIRED", errBody["code"])
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	h := NewAuthHandler(&fakeLogin{}, middleware.NewGuard(newTokens(), nil), false)
	c, rec := newContext(http.MethodPost, "/api/auth/login.php", strings.NewReader(`{"username":`))

	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateWithCookie(t *testing.T) {
	tokens := newTokens()
	token, _, err := tokens.Issue(&models.User{UserID: 3, Username: "ada", Role: models.RoleAdmin})
	require.NoError(t, err)
	h := NewAuthHandler(&fakeLogin{}, middleware.NewGuard(tokens, nil), false)
	c, rec := newContext(http.MethodGet, "/api/auth/validate.php", nil)
	c.Request.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: token})

	h.Validate(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true,"user":{"userId":3,"username":"ada","role":"admin"}}`, rec.Body.String())
}

func TestValidateWithoutToken(t *testing.T) {
	h := NewAuthHandler(&fakeLogin{}, middleware.NewGuard(newTokens(), nil), false)
	c, rec := newContext(http.MethodGet, "/api/auth/validate.php", nil)

	h.Validate(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Authentication required"}`, rec.Body.String())
}
