package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
)

// AuditRecorder accepts access log entries.
type AuditRecorder interface {
	Record(entry models.AuditEntry)
}

// NewAuditEntry describes the current request. Anonymous callers are recorded as anonymous/public.
func NewAuditEntry(c *gin.Context, endpoint, action string, success bool) models.AuditEntry {
	entry := models.AuditEntry{
		Endpoint:      endpoint,
		Action:        action,
		UserID:        "anonymous",
		UserRole:      "public",
		ClientIP:      ClientIP(c),
		UserAgent:     c.GetHeader("User-Agent"),
		RequestMethod: c.Request.Method,
		Parameters:    queryParameters(c),
		Success:       success,
		Metadata:      map[string]interface{}{},
	}
	if claims := ClaimsFromContext(c); claims != nil {
		entry.UserID = strconv.FormatInt(claims.UserID, 10)
		entry.UserRole = claims.Role
	}
	return entry
}

// NewAuditFailure describes a rejected request with the reason it failed.
func NewAuditFailure(c *gin.Context, endpoint, reason string) models.AuditEntry {
	entry := NewAuditEntry(c, endpoint, models.AuditActionDenied, false)
	if ClaimsFromContext(c) == nil {
		entry.UserRole = "unknown"
	}
	entry.Metadata["failure_reason"] = reason
	return entry
}

// Audit records every request that passes through, successful when the handler answered below 400.
func Audit(recorder AuditRecorder, endpoint, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		entry := NewAuditEntry(c, endpoint, action, true)
		if status >= 400 {
			entry = NewAuditFailure(c, endpoint, http.StatusText(status))
		}
		entry.Metadata["status"] = status
		recorder.Record(entry)
	}
}

func queryParameters(c *gin.Context) map[string]interface{} {
	params := make(map[string]interface{})
	for key, values := range c.Request.URL.Query() {
		if len(values) == 1 {
			params[key] = values[0]
			continue
		}
		params[key] = values
	}
	return params
}
