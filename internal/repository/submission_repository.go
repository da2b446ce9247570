package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencourse/lms-backend/internal/model"
)

// SubmissionRepository handles lab submission metadata.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create inserts a submission record.
func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO submissions (student_id, lab_id, file_path)
		 VALUES ($1, $2, $3)
		 RETURNING id, submitted_at`,
		s.StudentID, s.LabID, s.FilePath,
	).Scan(&s.ID, &s.SubmittedAt)
}

// GetByStudentAndLab retrieves a student's submission for a lab, or nil if
// none exists.
func (r *SubmissionRepository) GetByStudentAndLab(ctx context.Context, studentID, labID string) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, lab_id, file_path, submitted_at
		 FROM submissions WHERE student_id = $1 AND lab_id = $2
		 ORDER BY submitted_at DESC LIMIT 1`,
		studentID, labID,
	).Scan(&s.ID, &s.StudentID, &s.LabID, &s.FilePath, &s.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// ListByLab retrieves all submissions for a lab with student names.
func (r *SubmissionRepository) ListByLab(ctx context.Context, labID string) ([]model.SubmissionWithStudent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.student_id, s.lab_id, s.file_path, s.submitted_at, u.full_name
		 FROM submissions s
		 JOIN users u ON u.id = s.student_id
		 WHERE s.lab_id = $1
		 ORDER BY s.submitted_at DESC`, labID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.SubmissionWithStudent
	for rows.Next() {
		var sw model.SubmissionWithStudent
		if err := rows.Scan(&sw.ID, &sw.StudentID, &sw.LabID, &sw.FilePath, &sw.SubmittedAt, &sw.StudentName); err != nil {
			return nil, err
		}
		subs = append(subs, sw)
	}
	return subs, rows.Err()
}
