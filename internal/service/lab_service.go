package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/opencourse/lms-backend/internal/model"
	"github.com/opencourse/lms-backend/internal/repository"
)

var (
	ErrLabNotFound    = errors.New("lab work not found")
	ErrNotCourseOwner = errors.New("caller does not own this course")
)

// LabService handles lab works and submission listings.
type LabService struct {
	labs        *repository.LabWorkRepository
	courses     *repository.CourseRepository
	submissions *repository.SubmissionRepository
}

// NewLabService creates a new LabService.
func NewLabService(
	labs *repository.LabWorkRepository,
	courses *repository.CourseRepository,
	submissions *repository.SubmissionRepository,
) *LabService {
	return &LabService{labs: labs, courses: courses, submissions: submissions}
}

// ListByCourse returns all lab works for a course.
func (s *LabService) ListByCourse(ctx context.Context, courseID string) ([]model.LabWork, error) {
	return s.labs.ListByCourse(ctx, courseID)
}

// CreateLab creates a lab work on a course the teacher owns.
func (s *LabService) CreateLab(ctx context.Context, teacherID, courseID string, req *model.CreateLabWorkRequest) (*model.LabWork, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course.TeacherID != teacherID {
		return nil, ErrNotCourseOwner
	}

	lab := &model.LabWork{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	}
	if err := s.labs.Create(ctx, lab); err != nil {
		return nil, fmt.Errorf("create lab work: %w", err)
	}
	return lab, nil
}

// GetLab returns a lab work together with the caller's own submission, if any.
func (s *LabService) GetLab(ctx context.Context, labID, callerID string) (*model.LabWork, *model.Submission, error) {
	lab, err := s.labs.GetByID(ctx, labID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrLabNotFound
		}
		return nil, nil, fmt.Errorf("load lab work: %w", err)
	}

	submission, err := s.submissions.GetByStudentAndLab(ctx, callerID, labID)
	if err != nil {
		return nil, nil, fmt.Errorf("load submission: %w", err)
	}
	return lab, submission, nil
}

// ListSubmissions returns all submissions for a lab. Only the teacher who
// owns the lab's course may list them.
func (s *LabService) ListSubmissions(ctx context.Context, labID, callerID string) ([]model.SubmissionWithStudent, error) {
	lab, err := s.labs.GetByID(ctx, labID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLabNotFound
		}
		return nil, fmt.Errorf("load lab work: %w", err)
	}

	course, err := s.courses.GetByID(ctx, lab.CourseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course.TeacherID != callerID {
		return nil, ErrNotCourseOwner
	}

	return s.submissions.ListByLab(ctx, labID)
}
