package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/dto"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/middleware"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/privacy"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/response"
)

const publicMetricsEndpoint = "public_metrics"

type publicMetricsProvider interface {
	Snapshot(ctx context.Context) (*dto.PublicMetricsResponse, error)
}

// PublicMetricsHandler serves the anonymous aggregate dashboard.
type PublicMetricsHandler struct {
	service publicMetricsProvider
	audit   middleware.AuditRecorder
	guard   *privacy.Guard
	logger  *zap.Logger
}

// NewPublicMetricsHandler constructs the handler.
func NewPublicMetricsHandler(svc publicMetricsProvider, audit middleware.AuditRecorder, guard *privacy.Guard, logger *zap.Logger) *PublicMetricsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublicMetricsHandler{service: svc, audit: audit, guard: guard, logger: logger}
}

// Get godoc
// @Summary Public platform metrics
// @Description Aggregate platform statistics. Accepts no parameters and no authentication.
// @Tags Public
// @Produce json
// @Success 200 {object} dto.PublicMetricsResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 405 {object} map[string]interface{}
// @Failure 429 {object} dto.RateLimitExceeded
// @Failure 500 {object} map[string]interface{}
// @Router /public/metrics [get]
func (h *PublicMetricsHandler) Get(c *gin.Context) {
	if c.Request.URL.RawQuery != "" {
		h.audit.Record(middleware.NewAuditFailure(c, publicMetricsEndpoint, "invalid_parameters"))
		response.Fail(c, http.StatusBadRequest, "invalid_request", "This endpoint does not accept parameters")
		return
	}

	if c.Request.Method != http.MethodGet {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "message": "Method not allowed"})
		return
	}

	snapshot, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		h.logger.Error("public metrics unavailable", zap.Error(err))
		h.audit.Record(middleware.NewAuditFailure(c, publicMetricsEndpoint, "internal_error"))
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch public metrics"})
		return
	}

	entry := middleware.NewAuditEntry(c, publicMetricsEndpoint, models.AuditActionView, true)
	entry.Metadata["metric_count"] = len(snapshot.Metrics)
	h.audit.Record(entry)

	h.guard.Respond(c, http.StatusOK, publicMetricsEndpoint, snapshot)
}
