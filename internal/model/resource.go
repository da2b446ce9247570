package model

import "time"

// Resource is a course material (lecture notes, slides, attachments)
// stored in the object store with its metadata recorded here.
type Resource struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	FilePath  string    `json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
}
