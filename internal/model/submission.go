package model

import "time"

// Submission records an uploaded lab-work file for a student.
type Submission struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	LabID       string    `json:"lab_id"`
	FilePath    string    `json:"file_path"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmissionWithStudent is a teacher-facing listing entry.
type SubmissionWithStudent struct {
	Submission
	StudentName string `json:"student_name"`
}
