package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/middleware"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/service"
	appErrors "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/errors"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/response"
)

type loginService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service      loginService
	guard        *middleware.Guard
	secureCookie bool
}

// NewAuthHandler creates a new handler. secureCookie marks the session cookie Secure.
func NewAuthHandler(svc loginService, guard *middleware.Guard, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: svc, guard: guard, secureCookie: secureCookie}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate by username or email and password. Sets the auth_token cookie.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/login.php [post]
func (h *AuthHandler) Login(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		response.Error(c, appErrors.ErrMethodNotAllowed)
		return
	}

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Invalid input"))
		return
	}
	req.IP = middleware.ClientIP(c)
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(service.AuthCookieName, res.Token, int(time.Until(res.ExpiresAt).Seconds()), "/", "", h.secureCookie, true)
	response.JSON(c, http.StatusOK, res)
}

// Validate godoc
// @Summary Validate session token
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/validate.php [get]
func (h *AuthHandler) Validate(c *gin.Context) {
	claims, ok := h.guard.RequireValidToken(c, nil)
	if !ok {
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user": gin.H{
			"userId":   claims.UserID,
			"username": claims.Username,
			"role":     claims.Role,
		},
	})
}
