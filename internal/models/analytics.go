package models

import "time"

// PublicMetric is one row of analytics_public_metrics.
type PublicMetric struct {
	Key          string    `db:"metric_key"`
	Value        float64   `db:"metric_value"`
	Type         string    `db:"metric_type"`
	Label        string    `db:"display_label"`
	DisplayOrder int       `db:"display_order"`
	LastUpdated  time.Time `db:"last_updated"`
}

// DailyRollup is one day of analytics_daily_rollup.
type DailyRollup struct {
	RollupDate       string  `db:"rollup_date" json:"rollup_date"`
	TotalActiveUsers int64   `db:"total_active_users" json:"total_active_users"`
	LessonsCompleted int64   `db:"lessons_completed" json:"lessons_completed"`
	AvgMasteryScore  float64 `db:"avg_mastery_score" json:"avg_mastery_score"`
}

// ActivitySnapshot is the most recent daily rollup reduced to 24h counts.
type ActivitySnapshot struct {
	Users24h   int64 `db:"users_24h"`
	Lessons24h int64 `db:"lessons_24h"`
}

// SubjectPopularity counts distinct enrolled students per subject area.
type SubjectPopularity struct {
	SubjectArea  string `db:"subject_area" json:"subject_area"`
	StudentCount int64  `db:"student_count" json:"student_count"`
}
