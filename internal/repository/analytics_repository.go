package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/database"
)

// AnalyticsRepository reads the pre-aggregated analytics tables.
type AnalyticsRepository struct {
	db *database.Client
}

// NewAnalyticsRepository constructs an AnalyticsRepository.
func NewAnalyticsRepository(db *database.Client) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// PublicMetrics returns every published metric ordered by display_order.
func (r *AnalyticsRepository) PublicMetrics(ctx context.Context) ([]models.PublicMetric, error) {
	const query = `SELECT metric_key, metric_value, metric_type, display_label, display_order, last_updated
		FROM analytics_public_metrics ORDER BY display_order ASC`
	metrics := make([]models.PublicMetric, 0)
	if err := r.db.Select(ctx, &metrics, query); err != nil {
		return nil, fmt.Errorf("select public metrics: %w", err)
	}
	return metrics, nil
}

// WeeklyTrend returns the daily rollups of the last seven days, oldest first.
func (r *AnalyticsRepository) WeeklyTrend(ctx context.Context) ([]models.DailyRollup, error) {
	const query = `SELECT to_char(rollup_date, 'YYYY-MM-DD') AS rollup_date, total_active_users, lessons_completed, avg_mastery_score
		FROM analytics_daily_rollup WHERE rollup_date >= NOW() - INTERVAL '7 days' ORDER BY rollup_date ASC`
	trend := make([]models.DailyRollup, 0)
	if err := r.db.Select(ctx, &trend, query); err != nil {
		return nil, fmt.Errorf("select weekly trend: %w", err)
	}
	return trend, nil
}

// LatestActivity returns the newest rollup's counts, or zeros when none exist.
func (r *AnalyticsRepository) LatestActivity(ctx context.Context) (models.ActivitySnapshot, error) {
	const query = `SELECT total_active_users AS users_24h, lessons_completed AS lessons_24h
		FROM analytics_daily_rollup ORDER BY rollup_date DESC LIMIT 1`
	var snapshot models.ActivitySnapshot
	if err := r.db.Get(ctx, &snapshot, query); err != nil {
		if errors.Is(err, database.ErrNoResult) {
			return models.ActivitySnapshot{}, nil
		}
		return models.ActivitySnapshot{}, fmt.Errorf("select latest activity: %w", err)
	}
	return snapshot, nil
}

// PopularSubjects ranks subject areas of active courses by distinct enrolled students.
func (r *AnalyticsRepository) PopularSubjects(ctx context.Context, limit int) ([]models.SubjectPopularity, error) {
	const query = `SELECT c.subject_area, COUNT(DISTINCT ca.user_id) AS student_count
		FROM courses c JOIN course_assignments ca ON c.course_id = ca.course_id
		WHERE c.is_active = TRUE GROUP BY c.subject_area ORDER BY student_count DESC LIMIT $1`
	subjects := make([]models.SubjectPopularity, 0)
	if err := r.db.Select(ctx, &subjects, query, limit); err != nil {
		return nil, fmt.Errorf("select popular subjects: %w", err)
	}
	return subjects, nil
}
