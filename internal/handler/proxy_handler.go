package handler

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

var endpointName = regexp.MustCompile(`^[a-z_]+\.php$`)

// ProxyHandler re-dispatches the legacy /course_factory/api/... paths onto the canonical /api/... routes.
type ProxyHandler struct {
	engine *gin.Engine
}

// NewProxyHandler constructs a ProxyHandler dispatching through engine.
func NewProxyHandler(engine *gin.Engine) *ProxyHandler {
	return &ProxyHandler{engine: engine}
}

// Admin forwards /course_factory/api/admin/<name> to /api/admin/<name> for allow-listed names.
func (h *ProxyHandler) Admin(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("endpoint"), "/")
	if !endpointName.MatchString(name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endpoint"})
		return
	}

	target := "/api/admin/" + name
	if !h.hasRoute(target) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found: " + name})
		return
	}
	h.dispatch(c, target)
}

// Forward returns a handler that re-dispatches to a fixed target path.
func (h *ProxyHandler) Forward(target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.dispatch(c, target)
	}
}

func (h *ProxyHandler) dispatch(c *gin.Context, target string) {
	c.Request.URL.Path = target
	c.Request.URL.RawPath = ""
	h.engine.HandleContext(c)
	c.Abort()
}

func (h *ProxyHandler) hasRoute(path string) bool {
	for _, route := range h.engine.Routes() {
		if route.Path == path {
			return true
		}
	}
	return false
}
