package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
)

type fakeAuditRange struct {
	entries  []models.AuditEntry
	matched  int
	err      error
	from, to time.Time
	limit    int
}

func (f *fakeAuditRange) Between(from, to time.Time, limit int) ([]models.AuditEntry, int, error) {
	f.from, f.to, f.limit = from, to, limit
	return f.entries, f.matched, f.err
}

func newExportService(source *fakeAuditRange) *AuditExportService {
	svc := NewAuditExportService(source, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestAuditExportDefaults(t *testing.T) {
	source := &fakeAuditRange{entries: []models.AuditEntry{{Endpoint: "public_metrics"}}, matched: 1}

	exp, err := newExportService(source).Export(AuditExportRequest{})
	require.NoError(t, err)
	assert.Equal(t, "json", exp.Format)
	assert.Equal(t, "2026-09-15", exp.StartDate)
	assert.Equal(t, "2026-10-15", exp.EndDate)
	assert.Equal(t, "compliance_review", exp.Reason)
	assert.Equal(t, 30, exp.Days)
	assert.Len(t, exp.Entries, 1)

	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), source.from)
	assert.Equal(t, time.Date(2026, 10, 15, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), source.to)
	assert.Equal(t, MaxAuditExportEntries, source.limit)
}

func TestAuditExportValidation(t *testing.T) {
	_, err := newExportService(&fakeAuditRange{}).Export(AuditExportRequest{
		Format:    "xml",
		StartDate: "2024-01-01",
		EndDate:   "2026-01-01",
		Reason:    "why",
	})

	var invalid *ExportValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []string{
		"Date range exceeds maximum of 365 days (requested: 731 days)",
		"Invalid format. Must be 'json', 'csv' or 'pdf'",
		"Export reason required (minimum 5 characters)",
	}, invalid.Problems)
}

func TestAuditExportRejectsReversedRange(t *testing.T) {
	_, err := newExportService(&fakeAuditRange{}).Export(AuditExportRequest{StartDate: "2026-10-10", EndDate: "2026-10-01"})

	var invalid *ExportValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, invalid.Problems, "Start date must be before end date")
}

func TestAuditExportDayCountOnLongRanges(t *testing.T) {
	exp, err := newExportService(&fakeAuditRange{}).Export(AuditExportRequest{StartDate: "2025-01-01", EndDate: "2026-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 365, exp.Days)

	_, err = newExportService(&fakeAuditRange{}).Export(AuditExportRequest{StartDate: "2024-01-01", EndDate: "2025-01-02"})
	var invalid *ExportValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []string{"Date range exceeds maximum of 365 days (requested: 367 days)"}, invalid.Problems)
}

func TestAuditExportRejectsEndOneDayBeforeStart(t *testing.T) {
	_, err := newExportService(&fakeAuditRange{}).Export(AuditExportRequest{StartDate: "2026-10-02", EndDate: "2026-10-01"})

	var invalid *ExportValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []string{"Start date must be before end date"}, invalid.Problems)
}

func TestAuditExportRejectsBadDates(t *testing.T) {
	_, err := newExportService(&fakeAuditRange{}).Export(AuditExportRequest{StartDate: "10/01/2026"})

	var invalid *ExportValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []string{"Invalid startDate, expected YYYY-MM-DD"}, invalid.Problems)
}

func TestAuditExportRequiresConfirmation(t *testing.T) {
	source := &fakeAuditRange{matched: AuditExportConfirmThreshold}

	exp, err := newExportService(source).Export(AuditExportRequest{Format: "csv"})
	require.NoError(t, err)
	assert.True(t, exp.ConfirmationRequired)
	assert.Equal(t, "Export contains 10000 entries (>= 10000 threshold)", exp.Warnings[0])

	exp, err = newExportService(source).Export(AuditExportRequest{Format: "csv", Confirmed: true})
	require.NoError(t, err)
	assert.False(t, exp.ConfirmationRequired)
}

func TestAuditExportRejectsOversizedConfirmedExport(t *testing.T) {
	source := &fakeAuditRange{matched: MaxAuditExportEntries + 1}

	_, err := newExportService(source).Export(AuditExportRequest{Confirmed: true})

	var invalid *ExportValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "Export would exceed maximum of 50000 entries (matched: 50001)", invalid.Problems[0])
}

func TestAuditExportTable(t *testing.T) {
	svc := newExportService(&fakeAuditRange{})
	exp := &AuditExport{
		StartDate: "2026-10-01",
		EndDate:   "2026-10-15",
		Entries: []models.AuditEntry{{
			Timestamp:     time.Date(2026, 10, 2, 3, 4, 5, 0, time.UTC),
			Endpoint:      "public_metrics",
			Action:        models.AuditActionView,
			UserRole:      "public",
			RequestMethod: "GET",
			Success:       true,
			Metadata:      map[string]interface{}{"metric_count": 4},
		}},
	}

	table := svc.Table(exp)
	require.Len(t, table.Rows, 1)
	assert.Len(t, table.Headers, 11)
	assert.Equal(t, []string{
		"1790910245", "2026-10-02T03:04:05Z", "public_metrics", "view", "public", "unknown", "unknown",
		"GET", "true", "[]", `{"metric_count":4}`,
	}, table.Rows[0])
}
