package model

import "time"

// Enrollment links a student to a course.
type Enrollment struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	CourseID   string    `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// EnrolledCourse is a student-dashboard entry.
type EnrolledCourse struct {
	ID         string    `json:"id"`
	EnrolledAt time.Time `json:"enrolled_at"`
	Course     Course    `json:"course"`
}
