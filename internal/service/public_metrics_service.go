package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/dto"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	appErrors "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/errors"
)

const (
	timestampLayout     = "2006-01-02 15:04:05"
	popularSubjectLimit = 5
)

type snapshotCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

type analyticsReader interface {
	PublicMetrics(ctx context.Context) ([]models.PublicMetric, error)
	WeeklyTrend(ctx context.Context) ([]models.DailyRollup, error)
	LatestActivity(ctx context.Context) (models.ActivitySnapshot, error)
	PopularSubjects(ctx context.Context, limit int) ([]models.SubjectPopularity, error)
}

// PublicMetricsService assembles the public aggregate dashboard.
type PublicMetricsService struct {
	repo   analyticsReader
	cache  snapshotCache
	logger *zap.Logger
	now    func() time.Time
}

// NewPublicMetricsService constructs a PublicMetricsService. cache may be nil.
func NewPublicMetricsService(repo analyticsReader, cache *CacheService, logger *zap.Logger) *PublicMetricsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PublicMetricsService{repo: repo, logger: logger, now: time.Now}
	if cache != nil {
		s.cache = cache
	}
	return s
}

// Snapshot returns the cached snapshot when one is fresh, otherwise reads every aggregate. Any read failure
// is logged in full and reported to the caller as a generic internal error.
func (s *PublicMetricsService) Snapshot(ctx context.Context) (*dto.PublicMetricsResponse, error) {
	if s.cache != nil {
		var cached dto.PublicMetricsResponse
		if s.cache.Get(ctx, PublicMetricsCacheKey, &cached) {
			return &cached, nil
		}
	}

	snapshot, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, PublicMetricsCacheKey, snapshot, 0)
	}
	return snapshot, nil
}

func (s *PublicMetricsService) load(ctx context.Context) (*dto.PublicMetricsResponse, error) {
	metrics, err := s.repo.PublicMetrics(ctx)
	if err != nil {
		return nil, s.fail("public metrics", err)
	}
	trend, err := s.repo.WeeklyTrend(ctx)
	if err != nil {
		return nil, s.fail("weekly trend", err)
	}
	activity, err := s.repo.LatestActivity(ctx)
	if err != nil {
		return nil, s.fail("latest activity", err)
	}
	subjects, err := s.repo.PopularSubjects(ctx, popularSubjectLimit)
	if err != nil {
		return nil, s.fail("popular subjects", err)
	}

	items := make([]dto.PublicMetricItem, 0, len(metrics))
	for _, m := range metrics {
		items = append(items, dto.PublicMetricItem{
			Key:         m.Key,
			Value:       m.Value,
			Type:        m.Type,
			Label:       m.Label,
			LastUpdated: m.LastUpdated.Format(timestampLayout),
		})
	}
	if trend == nil {
		trend = []models.DailyRollup{}
	}
	if subjects == nil {
		subjects = []models.SubjectPopularity{}
	}

	return &dto.PublicMetricsResponse{
		Success: true,
		Metrics: items,
		RecentActivity: dto.RecentActivity{
			Users24h:   activity.Users24h,
			Lessons24h: activity.Lessons24h,
		},
		WeeklyTrend:     trend,
		PopularSubjects: subjects,
		LastUpdated:     s.now().Format(timestampLayout),
		PrivacyNotice:   dto.PrivacyNotice,
	}, nil
}

func (s *PublicMetricsService) fail(stage string, err error) error {
	s.logger.Error("public metrics query failed", zap.String("stage", stage), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch public metrics")
}
