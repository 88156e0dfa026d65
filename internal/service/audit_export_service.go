package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	appErrors "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/errors"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/export"
)

// Audit export limits.
const (
	MaxAuditExportEntries       = 50000
	MaxAuditExportDays          = 365
	AuditExportConfirmThreshold = 10000

	auditExportDefaultDays   = 30
	auditExportDefaultReason = "compliance_review"
	auditExportMinReason     = 5
	exportDateLayout         = "2006-01-02"
)

var auditExportFormats = map[string]struct{}{"json": {}, "csv": {}, "pdf": {}}

var auditExportHeaders = []string{
	"Timestamp", "ISO Timestamp", "Endpoint", "Action", "User Role", "Client IP", "User Agent",
	"Request Method", "Success", "Parameters", "Metadata",
}

type auditRangeReader interface {
	Between(from, to time.Time, limit int) ([]models.AuditEntry, int, error)
}

// AuditExportRequest carries the raw export query. Empty fields take defaults.
type AuditExportRequest struct {
	Format    string
	StartDate string
	EndDate   string
	Reason    string
	Confirmed bool
}

// AuditExport is a validated export. When ConfirmationRequired is set, Entries is not meant to be sent.
type AuditExport struct {
	Format               string
	StartDate            string
	EndDate              string
	Days                 int
	Reason               string
	Matched              int
	Entries              []models.AuditEntry
	ConfirmationRequired bool
	Warnings             []string
}

// ExportValidationError lists every problem with an export request.
type ExportValidationError struct {
	Problems []string
}

func (e *ExportValidationError) Error() string {
	return "export validation failed: " + strings.Join(e.Problems, "; ")
}

// AuditExportService selects audit entries for compliance exports.
type AuditExportService struct {
	source auditRangeReader
	logger *zap.Logger
	now    func() time.Time
}

// NewAuditExportService constructs an AuditExportService.
func NewAuditExportService(source auditRangeReader, logger *zap.Logger) *AuditExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditExportService{source: source, logger: logger, now: time.Now}
}

// Export validates req and loads the matching entries. Exports at or above the confirmation threshold come
// back with ConfirmationRequired unless req.Confirmed is set.
func (s *AuditExportService) Export(req AuditExportRequest) (*AuditExport, error) {
	now := s.now().UTC()
	out := &AuditExport{
		Format:    strings.ToLower(strings.TrimSpace(req.Format)),
		StartDate: strings.TrimSpace(req.StartDate),
		EndDate:   strings.TrimSpace(req.EndDate),
		Reason:    strings.TrimSpace(req.Reason),
	}
	if out.Format == "" {
		out.Format = "json"
	}
	if out.StartDate == "" {
		out.StartDate = now.AddDate(0, 0, -auditExportDefaultDays).Format(exportDateLayout)
	}
	if out.EndDate == "" {
		out.EndDate = now.Format(exportDateLayout)
	}
	if req.Reason == "" {
		out.Reason = auditExportDefaultReason
	}

	var problems []string
	start, startErr := time.ParseInLocation(exportDateLayout, out.StartDate, time.UTC)
	if startErr != nil {
		problems = append(problems, "Invalid startDate, expected YYYY-MM-DD")
	}
	end, endErr := time.ParseInLocation(exportDateLayout, out.EndDate, time.UTC)
	if endErr != nil {
		problems = append(problems, "Invalid endDate, expected YYYY-MM-DD")
	}
	from := start
	to := end.Add(24*time.Hour - time.Nanosecond)
	if startErr == nil && endErr == nil {
		span := to.Sub(from)
		days := int(span / (24 * time.Hour))
		if days > MaxAuditExportDays {
			problems = append(problems, fmt.Sprintf("Date range exceeds maximum of %d days (requested: %d days)", MaxAuditExportDays, days))
		}
		if span < 0 {
			problems = append(problems, "Start date must be before end date")
		}
		out.Days = days
	}
	if _, ok := auditExportFormats[out.Format]; !ok {
		problems = append(problems, "Invalid format. Must be 'json', 'csv' or 'pdf'")
	}
	if len([]rune(out.Reason)) < auditExportMinReason {
		problems = append(problems, fmt.Sprintf("Export reason required (minimum %d characters)", auditExportMinReason))
	}
	if len(problems) > 0 {
		return nil, &ExportValidationError{Problems: problems}
	}

	entries, matched, err := s.source.Between(from, to, MaxAuditExportEntries)
	if err != nil {
		s.logger.Error("audit export read failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to generate audit export")
	}
	out.Matched = matched

	if matched >= AuditExportConfirmThreshold && !req.Confirmed {
		out.ConfirmationRequired = true
		out.Warnings = []string{
			fmt.Sprintf("Export contains %d entries (>= %d threshold)", matched, AuditExportConfirmThreshold),
			"Explicit confirmation required",
		}
		return out, nil
	}
	if matched > MaxAuditExportEntries {
		return nil, &ExportValidationError{Problems: []string{
			fmt.Sprintf("Export would exceed maximum of %d entries (matched: %d)", MaxAuditExportEntries, matched),
		}}
	}

	out.Entries = entries
	return out, nil
}

// Table flattens an export for the file renderers.
func (s *AuditExportService) Table(exp *AuditExport) export.Table {
	rows := make([][]string, 0, len(exp.Entries))
	for _, e := range exp.Entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.Timestamp.Unix(), 10),
			e.Timestamp.UTC().Format(time.RFC3339),
			orUnknown(e.Endpoint),
			orUnknown(e.Action),
			orUnknown(e.UserRole),
			orUnknown(e.ClientIP),
			orUnknown(e.UserAgent),
			orUnknown(e.RequestMethod),
			strconv.FormatBool(e.Success),
			compactJSON(e.Parameters),
			compactJSON(e.Metadata),
		})
	}
	return export.Table{
		Title:   fmt.Sprintf("Audit export %s to %s", exp.StartDate, exp.EndDate),
		Headers: auditExportHeaders,
		Rows:    rows,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func compactJSON(m map[string]interface{}) string {
	if len(m) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
