package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/dto"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/service"
)

// RateChecker decides whether a request may proceed.
type RateChecker interface {
	Allow(ctx context.Context, identifier, endpoint string, limit int) service.RateDecision
	Now() time.Time
}

// RateLimit enforces limit requests per window for endpoint, keyed by client IP.
func RateLimit(limiter RateChecker, endpoint string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := limiter.Allow(c.Request.Context(), ClientIP(c), endpoint, limit)

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

		if decision.Allowed {
			c.Next()
			return
		}

		retryAfter := decision.RetryAfter(limiter.Now())
		h.Set("Retry-After", strconv.FormatInt(retryAfter, 10))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.RateLimitExceeded{
			Success:    false,
			Error:      "rate_limit_exceeded",
			Message:    fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", retryAfter),
			Limit:      decision.Limit,
			ResetTime:  decision.Reset.Unix(),
			RetryAfter: retryAfter,
		})
	}
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the socket address.
func ClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
