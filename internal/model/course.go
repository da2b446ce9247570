package model

import "time"

// Course represents a course taught by a teacher.
type Course struct {
	ID          string    `json:"id"`
	TeacherID   string    `json:"teacher_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CourseListing is a catalog entry with the teacher's name joined in
// and, when the caller is a student, their enrollment status.
type CourseListing struct {
	Course
	TeacherName string `json:"teacher_name"`
	Enrolled    bool   `json:"enrolled"`
}

// TeacherCourse is a teacher-dashboard entry with the enrolled student count.
type TeacherCourse struct {
	Course
	StudentCount int `json:"student_count"`
}

// CourseDetail is the full course page payload.
type CourseDetail struct {
	Course
	TeacherName string     `json:"teacher_name"`
	Enrolled    bool       `json:"enrolled"`
	Labs        []LabWork  `json:"labs"`
	Resources   []Resource `json:"resources"`
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"required,min=3,max=2000"`
}
