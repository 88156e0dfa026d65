package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/database"
)

// CourseRepository manages published courses.
type CourseRepository struct {
	db *database.Client
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *database.Client) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListActive returns active courses, newest first.
func (r *CourseRepository) ListActive(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT course_id, course_name, subject_area, difficulty_level, is_active, created_at
		FROM courses WHERE is_active = TRUE ORDER BY created_at DESC`
	courses := make([]models.Course, 0)
	if err := r.db.Select(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list active courses: %w", err)
	}
	return courses, nil
}

// FindByID returns the id and name of a course regardless of its active flag.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	const query = `SELECT course_id, course_name FROM courses WHERE course_id = $1`
	row, err := r.db.QueryOne(ctx, query, id)
	if err != nil {
		if errors.Is(err, database.ErrNoResult) {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &models.Course{CourseID: asInt64(row["course_id"]), CourseName: asString(row["course_name"])}, nil
}

// ActiveIDsExcept returns every active course id other than keep.
func (r *CourseRepository) ActiveIDsExcept(ctx context.Context, keep int64) ([]int64, error) {
	const query = `SELECT course_id FROM courses WHERE course_id <> $1 AND is_active = TRUE ORDER BY course_id`
	rows, err := r.db.Query(ctx, query, keep)
	if err != nil {
		return nil, fmt.Errorf("list course ids: %w", err)
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, asInt64(row["course_id"]))
	}
	return ids, nil
}

// Delete removes a course row inside a transaction that first locks it. A missing course yields
// database.ErrNoResult.
func (r *CourseRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := r.db.WithTx(ctx, func(tx *database.Client) error {
		if _, err := tx.QueryOne(ctx, `SELECT course_id FROM courses WHERE course_id = $1 FOR UPDATE`, id); err != nil {
			return err
		}
		n, err := tx.Execute(ctx, `DELETE FROM courses WHERE course_id = $1`, id)
		if err != nil {
			return err
		}
		affected = n
		return nil
	})
	if err != nil {
		if errors.Is(err, database.ErrNoResult) {
			return 0, err
		}
		return 0, fmt.Errorf("delete course: %w", err)
	}
	return affected, nil
}

// Deactivate hides a course without removing it.
func (r *CourseRepository) Deactivate(ctx context.Context, id int64) (int64, error) {
	const query = `UPDATE courses SET is_active = FALSE WHERE course_id = $1`
	affected, err := r.db.Execute(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("deactivate course: %w", err)
	}
	return affected, nil
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		out, _ := strconv.ParseInt(n, 10, 64)
		return out
	default:
		return 0
	}
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
