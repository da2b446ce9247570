package model

import "time"

// LabWork represents a lab assignment attached to a course.
type LabWork struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"course_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateLabWorkRequest is the payload for creating a lab work.
type CreateLabWorkRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=200"`
	Description string     `json:"description" binding:"required,min=3,max=5000"`
	Deadline    *time.Time `json:"deadline" binding:"omitempty"`
}
