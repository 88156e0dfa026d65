package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/dto"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/middleware"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/service"
	appErrors "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/errors"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/export"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/response"
)

const (
	maxAuditLimit       = 1000
	auditExportEndpoint = "root_audit_export"
)

type auditReader interface {
	Recent(limit int) ([]models.AuditEntry, error)
}

type auditExporter interface {
	Export(req service.AuditExportRequest) (*service.AuditExport, error)
	Table(exp *service.AuditExport) export.Table
}

// AuditHandler lets root users review and export the analytics access log.
type AuditHandler struct {
	audit    auditReader
	exports  auditExporter
	recorder middleware.AuditRecorder
	logger   *zap.Logger
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler(audit auditReader, exports auditExporter, recorder middleware.AuditRecorder, logger *zap.Logger) *AuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditHandler{audit: audit, exports: exports, recorder: recorder, logger: logger}
}

// Recent godoc
// @Summary Recent audit log entries
// @Tags Root
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries (default 100, max 1000)"
// @Success 200 {object} response.Envelope
// @Router /root/audit/logs [get]
func (h *AuditHandler) Recent(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	entries, err := h.audit.Recent(limit)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read audit log"))
		return
	}
	response.JSON(c, http.StatusOK, entries, map[string]interface{}{"count": len(entries)})
}

// Export godoc
// @Summary Export audit log entries for compliance review
// @Tags Root
// @Produce json,text/csv,application/pdf
// @Security BearerAuth
// @Param format query string false "json, csv or pdf"
// @Param startDate query string false "YYYY-MM-DD, default 30 days ago"
// @Param endDate query string false "YYYY-MM-DD, default today"
// @Param reason query string false "Justification, at least 5 characters"
// @Param confirmed query string false "1 to confirm a large export"
// @Success 200 {object} dto.AuditExportDocument
// @Failure 400 {object} map[string]interface{}
// @Router /root/audit/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	exp, err := h.exports.Export(service.AuditExportRequest{
		Format:    c.Query("format"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Reason:    c.Query("reason"),
		Confirmed: c.Query("confirmed") == "1",
	})
	if err != nil {
		var invalid *service.ExportValidationError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Export validation failed", "errors": invalid.Problems})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate audit export"})
		return
	}

	dates := dto.DateRange{Start: exp.StartDate, End: exp.EndDate}
	if exp.ConfirmationRequired {
		c.JSON(http.StatusOK, dto.AuditExportConfirmation{
			ConfirmationRequired: true,
			Message:              "Large export requires confirmation",
			Warnings:             exp.Warnings,
			ExportDetails: dto.AuditExportDetails{
				EntryCount: exp.Matched,
				DateRange:  dates,
				Days:       exp.Days,
				Format:     exp.Format,
				Reason:     exp.Reason,
			},
			ToConfirm: "Add parameter: confirmed=1",
		})
		return
	}

	var userID int64
	if claims := middleware.ClaimsFromContext(c); claims != nil {
		userID = claims.UserID
	}
	entry := middleware.NewAuditEntry(c, auditExportEndpoint, models.AuditActionExport, true)
	entry.Metadata["format"] = exp.Format
	entry.Metadata["start_date"] = exp.StartDate
	entry.Metadata["end_date"] = exp.EndDate
	entry.Metadata["entry_count"] = exp.Matched
	entry.Metadata["reason"] = exp.Reason
	h.recorder.Record(entry)
	h.logger.Warn("audit log exported",
		zap.Int64("user_id", userID),
		zap.String("format", exp.Format),
		zap.String("start_date", exp.StartDate),
		zap.String("end_date", exp.EndDate),
		zap.Int("entry_count", exp.Matched),
		zap.String("reason", exp.Reason),
	)

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="audit_export_%s_to_%s.%s"`, exp.StartDate, exp.EndDate, exp.Format))
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")

	if exp.Format == "json" {
		c.JSON(http.StatusOK, dto.AuditExportDocument{
			ExportMetadata: dto.AuditExportMetadata{
				GeneratedAt: time.Now().UTC().Format(time.RFC3339),
				GeneratedBy: userID,
				Reason:      exp.Reason,
				DateRange:   dates,
				EntryCount:  len(exp.Entries),
				Format:      exp.Format,
			},
			PrivacyNotice:           dto.AuditExportPrivacyNotice,
			ComplianceCertification: "FERPA-compliant audit trail export",
			Events:                  exp.Entries,
		})
		return
	}

	renderer, err := export.ForFormat(exp.Format)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported export format"))
		return
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, h.exports.Table(exp)); err != nil {
		h.logger.Error("audit export render failed", zap.Error(err))
		c.Header("Content-Disposition", "")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate audit export"})
		return
	}
	c.Data(http.StatusOK, renderer.ContentType(), buf.Bytes())
}
