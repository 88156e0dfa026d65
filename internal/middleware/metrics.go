package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/service"
)

const metricsObservedKey = "metricsObserved"

// Metrics records one duration and count sample per request, labelled by the matched route. A request the
// legacy proxy re-dispatches passes through twice; only the inner pass, which knows the canonical route, is
// counted.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		if c.GetBool(metricsObservedKey) {
			return
		}
		c.Set(metricsObservedKey, true)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
