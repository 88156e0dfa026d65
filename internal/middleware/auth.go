package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	appErrors "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/errors"
)

// ContextUserKey is the gin context key storing the token claims.
const ContextUserKey = "currentUser"

// TokenDecoder resolves the session token presented with a request.
type TokenDecoder interface {
	CurrentUser(r *http.Request) (*models.Claims, error)
}

// ErrorHandler writes the rejection for a failed auth check.
type ErrorHandler interface {
	Handle(c *gin.Context, message string, status int)
}

// ErrorHandlerFunc adapts a function to ErrorHandler.
type ErrorHandlerFunc func(c *gin.Context, message string, status int)

// Handle calls f.
func (f ErrorHandlerFunc) Handle(c *gin.Context, message string, status int) {
	f(c, message, status)
}

// JSONErrorHandler writes {"success":false,"error":message}.
type JSONErrorHandler struct{}

// Handle writes the JSON rejection body.
func (JSONErrorHandler) Handle(c *gin.Context, message string, status int) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// Guard performs token and role checks against a TokenDecoder.
type Guard struct {
	decoder TokenDecoder
	handler ErrorHandler
}

// NewGuard constructs a Guard. A nil handler falls back to JSONErrorHandler.
func NewGuard(decoder TokenDecoder, handler ErrorHandler) *Guard {
	if handler == nil {
		handler = JSONErrorHandler{}
	}
	return &Guard{decoder: decoder, handler: handler}
}

// RequireValidToken returns the caller's claims. Without a valid token the rejection is written through
// handler (or the guard's default), the context is aborted and ok is false; the caller must return.
func (g *Guard) RequireValidToken(c *gin.Context, handler ErrorHandler) (*models.Claims, bool) {
	if claims, exists := c.Get(ContextUserKey); exists {
		if typed, ok := claims.(*models.Claims); ok && typed != nil {
			return typed, true
		}
	}

	claims, err := g.decoder.CurrentUser(c.Request)
	if err != nil || claims == nil {
		g.reject(c, handler, appErrors.ErrAuthenticationRequired)
		return nil, false
	}
	c.Set(ContextUserKey, claims)
	return claims, true
}

// IsAuthenticated reports whether r carries a valid token.
func (g *Guard) IsAuthenticated(r *http.Request) bool {
	claims, err := g.decoder.CurrentUser(r)
	return err == nil && claims != nil
}

func (g *Guard) reject(c *gin.Context, handler ErrorHandler, err *appErrors.Error) {
	if handler == nil {
		handler = g.handler
	}
	handler.Handle(c, err.Message, err.Status)
	c.Abort()
}

// ClaimsFromContext returns the claims stored by the guard, if any.
func ClaimsFromContext(c *gin.Context) *models.Claims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.Claims)
	if !ok {
		return nil
	}
	return claims
}
