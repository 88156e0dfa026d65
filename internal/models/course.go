package models

import "time"

// Course mirrors a row of the courses table.
type Course struct {
	CourseID        int64     `db:"course_id" json:"courseId"`
	CourseName      string    `db:"course_name" json:"courseName"`
	SubjectArea     string    `db:"subject_area" json:"subjectArea"`
	DifficultyLevel string    `db:"difficulty_level" json:"difficultyLevel"`
	IsActive        bool      `db:"is_active" json:"isActive"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// DeleteCourseRequest is the admin payload for removing a course.
type DeleteCourseRequest struct {
	CourseID int64 `json:"courseId" validate:"required,gt=0"`
	Soft     bool  `json:"soft"`
}
