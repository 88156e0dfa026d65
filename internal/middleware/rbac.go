package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	appErrors "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/errors"
)

// HasRole reports whether claims carry one of roles. Nil claims match nothing.
func HasRole(claims *models.Claims, roles ...string) bool {
	if claims == nil {
		return false
	}
	for _, role := range roles {
		if claims.Role == role {
			return true
		}
	}
	return false
}

// RequireRole rejects with 403 unless claims carry one of allowed. On rejection the context is aborted and
// false is returned; the caller must return.
func (g *Guard) RequireRole(c *gin.Context, claims *models.Claims, allowed []string, handler ErrorHandler) bool {
	if HasRole(claims, allowed...) {
		return true
	}
	g.reject(c, handler, appErrors.ErrInsufficientPermissions)
	return false
}

// Roles enforces token and role membership for a route group.
func (g *Guard) Roles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := g.RequireValidToken(c, nil)
		if !ok {
			return
		}
		if !g.RequireRole(c, claims, roles, nil) {
			return
		}
		c.Next()
	}
}
