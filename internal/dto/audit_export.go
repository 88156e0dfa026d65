package dto

import "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"

// AuditExportPrivacyNotice accompanies every JSON audit export.
const AuditExportPrivacyNotice = "This export contains audit logs only. No student PII or raw analytics payloads included."

// DateRange is an inclusive pair of YYYY-MM-DD dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AuditExportMetadata describes who produced an export and why.
type AuditExportMetadata struct {
	GeneratedAt string    `json:"generated_at"`
	GeneratedBy int64     `json:"generated_by"`
	Reason      string    `json:"reason"`
	DateRange   DateRange `json:"date_range"`
	EntryCount  int       `json:"entry_count"`
	Format      string    `json:"format"`
}

// AuditExportDocument is the JSON export body.
type AuditExportDocument struct {
	ExportMetadata          AuditExportMetadata `json:"export_metadata"`
	PrivacyNotice           string              `json:"privacy_notice"`
	ComplianceCertification string              `json:"compliance_certification"`
	Events                  []models.AuditEntry `json:"events"`
}

// AuditExportDetails summarises an export awaiting confirmation.
type AuditExportDetails struct {
	EntryCount int       `json:"entry_count"`
	DateRange  DateRange `json:"date_range"`
	Days       int       `json:"days"`
	Format     string    `json:"format"`
	Reason     string    `json:"reason"`
}

// AuditExportConfirmation is returned instead of the export when it is large.
type AuditExportConfirmation struct {
	Success              bool               `json:"success"`
	ConfirmationRequired bool               `json:"confirmation_required"`
	Message              string             `json:"message"`
	Warnings             []string           `json:"warnings"`
	ExportDetails        AuditExportDetails `json:"export_details"`
	ToConfirm            string             `json:"to_confirm"`
}
