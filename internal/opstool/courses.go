// Package opstool implements the operator command line tools.
package opstool

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	appErrors "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/errors"
)

const (
	ruleWidth    = 80
	nameWidth    = 30
	createdStamp = "2006-01-02 15:04:05"
)

// CourseAdmin is the course maintenance surface the tool drives.
type CourseAdmin interface {
	ListActive(ctx context.Context) ([]models.Course, error)
	ActiveIDsExcept(ctx context.Context, keep int64) ([]int64, error)
	Delete(ctx context.Context, req models.DeleteCourseRequest) (*models.Course, error)
}

// CourseTool lists and deletes published courses.
type CourseTool struct {
	program string
	courses CourseAdmin
	in      *bufio.Reader
	out     io.Writer
}

// NewCourseTool constructs a CourseTool reading confirmations from in.
func NewCourseTool(program string, courses CourseAdmin, in io.Reader, out io.Writer) *CourseTool {
	return &CourseTool{program: program, courses: courses, in: bufio.NewReader(in), out: out}
}

// Run executes one invocation. args excludes the program name.
func (t *CourseTool) Run(ctx context.Context, args []string) error {
	soft := false
	rest := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--soft" {
			soft = true
			continue
		}
		rest = append(rest, arg)
	}

	if len(rest) == 0 {
		t.usage()
		return t.List(ctx)
	}

	switch {
	case rest[0] == "--list":
		return t.List(ctx)
	case rest[0] == "--keep" && len(rest) > 1:
		return t.keep(ctx, parseID(rest[1]), soft)
	}

	ids := make([]int64, 0, len(rest))
	for _, arg := range rest {
		ids = append(ids, parseID(arg))
	}
	return t.deleteIDs(ctx, ids, soft)
}

// List prints the active courses table.
func (t *CourseTool) List(ctx context.Context) error {
	courses, err := t.courses.ListActive(ctx)
	if err != nil {
		return err
	}

	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(t.out, "\nPublished Courses:\n%s\n", rule)
	fmt.Fprintf(t.out, "%-5s %-30s %-20s %-15s %s\n", "ID", "Name", "Subject", "Difficulty", "Created")
	fmt.Fprintln(t.out, strings.Repeat("-", ruleWidth))
	for _, course := range courses {
		fmt.Fprintf(t.out, "%-5d %-30s %-20s %-15s %s\n",
			course.CourseID,
			truncate(course.CourseName, nameWidth),
			course.SubjectArea,
			course.DifficultyLevel,
			course.CreatedAt.Format(createdStamp),
		)
	}
	fmt.Fprintln(t.out, rule)
	fmt.Fprintf(t.out, "Total: %d courses\n\n", len(courses))
	return nil
}

func (t *CourseTool) usage() {
	fmt.Fprintln(t.out, "Usage:")
	fmt.Fprintf(t.out, "  %s [course_id1] [course_id2] ...  # Delete specific courses\n", t.program)
	fmt.Fprintf(t.out, "  %s --list                         # List all courses\n", t.program)
	fmt.Fprintf(t.out, "  %s --keep [course_id]             # Delete all EXCEPT specified course\n", t.program)
	fmt.Fprintf(t.out, "  %s --soft ...                     # Deactivate instead of deleting rows\n\n", t.program)
}

func (t *CourseTool) keep(ctx context.Context, keepID int64, soft bool) error {
	fmt.Fprintf(t.out, "WARNING: This will delete ALL courses EXCEPT course ID %d\n", keepID)
	if !t.confirm() {
		return nil
	}

	ids, err := t.courses.ActiveIDsExcept(ctx, keepID)
	if err != nil {
		return err
	}

	fmt.Fprintln(t.out)
	for _, id := range ids {
		t.deleteOne(ctx, id, soft)
	}

	fmt.Fprint(t.out, "\nDeletion complete. Courses remaining:\n\n")
	return t.List(ctx)
}

func (t *CourseTool) deleteIDs(ctx context.Context, ids []int64, soft bool) error {
	fmt.Fprintf(t.out, "About to delete %d course(s)\n", len(ids))
	if !t.confirm() {
		return nil
	}

	fmt.Fprintln(t.out)
	deleted := 0
	for _, id := range ids {
		if t.deleteOne(ctx, id, soft) {
			deleted++
		}
	}

	fmt.Fprintf(t.out, "\nDeleted %d course(s).\n\n", deleted)
	return t.List(ctx)
}

func (t *CourseTool) deleteOne(ctx context.Context, id int64, soft bool) bool {
	// Unparseable ids arrive as 0; no course can have a non-positive id.
	if id <= 0 {
		fmt.Fprintf(t.out, "Course ID %d not found.\n", id)
		return false
	}
	course, err := t.courses.Delete(ctx, models.DeleteCourseRequest{CourseID: id, Soft: soft})
	if err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrNotFound.Code {
			fmt.Fprintln(t.out, appErr.Message)
			return false
		}
		fmt.Fprintf(t.out, "Deleting: [%d]... FAILED (%v)\n", id, err)
		return false
	}
	fmt.Fprintf(t.out, "Deleting: [%d] %s... DELETED\n", course.CourseID, course.CourseName)
	return true
}

// confirm reads one answer line; anything but "yes" cancels.
func (t *CourseTool) confirm() bool {
	fmt.Fprint(t.out, "Are you sure? Type 'yes' to confirm: ")
	line, _ := t.in.ReadString('\n')
	if !strings.EqualFold(strings.TrimSpace(line), "yes") {
		fmt.Fprintln(t.out, "Cancelled.")
		return false
	}
	return true
}

// parseID mirrors a lenient integer cast: garbage becomes 0, which never matches a course.
func parseID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}
