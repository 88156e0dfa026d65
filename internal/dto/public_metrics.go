package dto

import "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"

// PrivacyNotice is attached to every public metrics response.
const PrivacyNotice = "All data is aggregated. No individual student information is displayed."

// PublicMetricItem is the wire form of one aggregate metric.
type PublicMetricItem struct {
	Key         string  `json:"key"`
	Value       float64 `json:"value"`
	Type        string  `json:"type"`
	Label       string  `json:"label"`
	LastUpdated string  `json:"lastUpdated"`
}

// RecentActivity summarises the latest daily rollup.
type RecentActivity struct {
	Users24h   int64 `json:"users24h"`
	Lessons24h int64 `json:"lessons24h"`
}

// PublicMetricsResponse is the body of GET /api/public/metrics.
type PublicMetricsResponse struct {
	Success         bool                       `json:"success"`
	Metrics         []PublicMetricItem         `json:"metrics"`
	RecentActivity  RecentActivity             `json:"recentActivity"`
	WeeklyTrend     []models.DailyRollup       `json:"weeklyTrend"`
	PopularSubjects []models.SubjectPopularity `json:"popularSubjects"`
	LastUpdated     string                     `json:"lastUpdated"`
	PrivacyNotice   string                     `json:"privacyNotice"`
}

// RateLimitExceeded is the 429 body.
type RateLimitExceeded struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	Limit      int    `json:"limit"`
	ResetTime  int64  `json:"reset_time"`
	RetryAfter int64  `json:"retry_after"`
}
