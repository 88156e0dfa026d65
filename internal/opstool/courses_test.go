package opstool

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	appErrors "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/errors"
)

type fakeCourses struct {
	courses []models.Course
	deleted []models.DeleteCourseRequest
}

func newFakeCourses() *fakeCourses {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return &fakeCourses{courses: []models.Course{
		{CourseID: 9, CourseName: "Algebra Foundations", SubjectArea: "math", DifficultyLevel: "beginner", IsActive: true, CreatedAt: created},
		{CourseID: 7, CourseName: "Introduction to Photosynthesis and Plant Biology", SubjectArea: "science", DifficultyLevel: "intermediate", IsActive: true, CreatedAt: created.Add(-time.Hour)},
		{CourseID: 4, CourseName: "Essay Writing", SubjectArea: "english", DifficultyLevel: "advanced", IsActive: true, CreatedAt: created.Add(-2 * time.Hour)},
	}}
}

func (f *fakeCourses) ListActive(context.Context) ([]models.Course, error) {
	out := make([]models.Course, 0, len(f.courses))
	for _, c := range f.courses {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourses) ActiveIDsExcept(_ context.Context, keep int64) ([]int64, error) {
	ids := make([]int64, 0)
	for _, c := range f.courses {
		if c.IsActive && c.CourseID != keep {
			ids = append(ids, c.CourseID)
		}
	}
	return ids, nil
}

func (f *fakeCourses) Delete(_ context.Context, req models.DeleteCourseRequest) (*models.Course, error) {
	if req.CourseID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courseId must be a positive integer")
	}
	for i, c := range f.courses {
		if c.CourseID == req.CourseID && c.IsActive {
			f.deleted = append(f.deleted, req)
			f.courses[i].IsActive = false
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Course ID %d not found.", req.CourseID))
}

func run(t *testing.T, courses *fakeCourses, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	tool := NewCourseTool("delete-courses", courses, strings.NewReader(stdin), &out)
	require.NoError(t, tool.Run(context.Background(), args))
	return out.String()
}

func TestListPrintsTable(t *testing.T) {
	out := run(t, newFakeCourses(), "", "--list")

	assert.Contains(t, out, "Published Courses:")
	assert.Contains(t, out, "9     Algebra Foundations            math                 beginner        2026-03-01 09:30:00")
	assert.Contains(t, out, "Introduction to Photosynthesis ")
	assert.NotContains(t, out, "Plant Biology")
	assert.Contains(t, out, "Total: 3 courses")
}

func TestNoArgsPrintsUsageAndListing(t *testing.T) {
	out := run(t, newFakeCourses(), "")

	assert.True(t, strings.HasPrefix(out, "Usage:\n"))
	assert.Contains(t, out, "delete-courses --keep [course_id]")
	assert.Contains(t, out, "Total: 3 courses")
}

func TestKeepDeclinedLeavesCoursesUntouched(t *testing.T) {
	courses := newFakeCourses()
	before := run(t, courses, "", "--list")

	out := run(t, courses, "no\n", "--keep", "9")

	assert.Contains(t, out, "EXCEPT course ID 9")
	assert.Contains(t, out, "Cancelled.")
	assert.Empty(t, courses.deleted)
	assert.Equal(t, before, run(t, courses, "", "--list"))
}

func TestKeepConfirmedDeletesOthers(t *testing.T) {
	courses := newFakeCourses()

	out := run(t, courses, "YES\n", "--keep", "9")

	require.Len(t, courses.deleted, 2)
	assert.Equal(t, int64(7), courses.deleted[0].CourseID)
	assert.Equal(t, int64(4), courses.deleted[1].CourseID)
	assert.Contains(t, out, "Deletion complete. Courses remaining:")
	assert.Contains(t, out, "Total: 1 courses")
}

func TestDeleteIDsReportsMissingAndContinues(t *testing.T) {
	courses := newFakeCourses()

	out := run(t, courses, "yes\n", "4", "99", "7")

	assert.Contains(t, out, "About to delete 3 course(s)")
	assert.Contains(t, out, "Deleting: [4] Essay Writing... DELETED")
	assert.Contains(t, out, "Course ID 99 not found.")
	assert.Contains(t, out, "Deleted 2 course(s).")
	assert.Contains(t, out, "Total: 1 courses")
}

func TestDeleteIDsReportsUnparseableIDAsMissing(t *testing.T) {
	courses := newFakeCourses()

	out := run(t, courses, "yes\n", "abc", "4")

	assert.Contains(t, out, "Course ID 0 not found.")
	assert.NotContains(t, out, "FAILED")
	assert.Contains(t, out, "Deleted 1 course(s).")
	require.Len(t, courses.deleted, 1)
	assert.Equal(t, int64(4), courses.deleted[0].CourseID)
}

func TestSoftFlagDeactivates(t *testing.T) {
	courses := newFakeCourses()

	run(t, courses, "yes\n", "--soft", "4")

	require.Len(t, courses.deleted, 1)
	assert.True(t, courses.deleted[0].Soft)
}

func TestConfirmationEOFCancels(t *testing.T) {
	courses := newFakeCourses()

	out := run(t, courses, "", "4")

	assert.Contains(t, out, "Cancelled.")
	assert.Empty(t, courses.deleted)
}

type fakeAgents []models.Agent

func (f fakeAgents) ListAdvisors(context.Context) ([]models.Agent, error) {
	return f, nil
}

func TestPrintAgents(t *testing.T) {
	var out bytes.Buffer
	agents := fakeAgents{{AgentName: "Professor Hawkeinstein", Temperature: 0.7, MaxTokens: 512, PromptLength: 11, SystemPrompt: "Be helpful."}}

	require.NoError(t, PrintAgents(context.Background(), agents, &out))

	expected := "Agent: Professor Hawkeinstein\n" +
		"Temperature: 0.7\n" +
		"Max Tokens: 512\n" +
		"Prompt Length: 11 chars\n" +
		"System Prompt:\nBe helpful.\n" +
		strings.Repeat("-", 80) + "\n"
	assert.Equal(t, expected, out.String())
}
