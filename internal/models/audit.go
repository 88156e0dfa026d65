package models

import "time"

// Audit actions.
const (
	AuditActionView   = "view"
	AuditActionDenied = "access_denied"
	AuditActionLogin  = "login"
	AuditActionDelete = "delete"
	AuditActionExport = "export_audit"
)

// AuditEntry is one JSON line of the analytics access log.
type AuditEntry struct {
	ID            string                 `json:"id"`
	Timestamp     time.Time              `json:"timestamp"`
	Endpoint      string                 `json:"endpoint"`
	Action        string                 `json:"action"`
	UserID        string                 `json:"user_id"`
	UserRole      string                 `json:"user_role"`
	ClientIP      string                 `json:"client_ip"`
	UserAgent     string                 `json:"user_agent"`
	RequestMethod string                 `json:"request_method"`
	Parameters    map[string]interface{} `json:"parameters"`
	Success       bool                   `json:"success"`
	Metadata      map[string]interface{} `json:"metadata"`
}
