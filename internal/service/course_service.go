package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/database"
	appErrors "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/errors"
)

type courseStore interface {
	ListActive(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	ActiveIDsExcept(ctx context.Context, keep int64) ([]int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Deactivate(ctx context.Context, id int64) (int64, error)
}

// CourseService implements course maintenance for the admin API and the operator CLI.
type CourseService struct {
	repo      courseStore
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

// NewCourseService constructs a CourseService. cache may be nil; when set, removals evict the public
// metrics snapshot.
func NewCourseService(repo courseStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	s := &CourseService{repo: repo, validator: validate, logger: logger}
	if cache != nil {
		s.cache = cache
	}
	return s
}

// ListActive returns published courses, newest first.
func (s *CourseService) ListActive(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// ActiveIDsExcept returns the ids of every active course other than keep.
func (s *CourseService) ActiveIDsExcept(ctx context.Context, keep int64) ([]int64, error) {
	ids, err := s.repo.ActiveIDsExcept(ctx, keep)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return ids, nil
}

// Delete removes or deactivates one course and returns what it was.
func (s *CourseService) Delete(ctx context.Context, req models.DeleteCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "courseId must be a positive integer")
	}

	course, err := s.repo.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, s.mapErr(req.CourseID, err)
	}

	var affected int64
	if req.Soft {
		affected, err = s.repo.Deactivate(ctx, req.CourseID)
	} else {
		affected, err = s.repo.Delete(ctx, req.CourseID)
	}
	if err != nil {
		return nil, s.mapErr(req.CourseID, err)
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, notFoundMessage(req.CourseID))
	}

	s.logger.Info("course removed", zap.Int64("course_id", req.CourseID), zap.Bool("soft", req.Soft))
	if s.cache != nil {
		s.cache.Invalidate(ctx, PublicMetricsCacheKey)
	}
	course.IsActive = false
	return course, nil
}

func (s *CourseService) mapErr(id int64, err error) error {
	if errors.Is(err, database.ErrNoResult) {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMessage(id))
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
}

func notFoundMessage(id int64) string {
	return fmt.Sprintf("Course ID %d not found.", id)
}
