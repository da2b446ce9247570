package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencourse/lms-backend/internal/model"
)

// LabWorkRepository handles lab work data access.
type LabWorkRepository struct {
	pool *pgxpool.Pool
}

// NewLabWorkRepository creates a new LabWorkRepository.
func NewLabWorkRepository(pool *pgxpool.Pool) *LabWorkRepository {
	return &LabWorkRepository{pool: pool}
}

// GetByID retrieves a lab work by ID.
func (r *LabWorkRepository) GetByID(ctx context.Context, id string) (*model.LabWork, error) {
	lw := &model.LabWork{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, title, description, deadline, created_at
		 FROM lab_works WHERE id = $1`, id,
	).Scan(&lw.ID, &lw.CourseID, &lw.Title, &lw.Description, &lw.Deadline, &lw.CreatedAt)
	if err != nil {
		return nil, err
	}
	return lw, nil
}

// ListByCourse retrieves all lab works for a course.
func (r *LabWorkRepository) ListByCourse(ctx context.Context, courseID string) ([]model.LabWork, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, title, description, deadline, created_at
		 FROM lab_works WHERE course_id = $1
		 ORDER BY created_at`, courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labs []model.LabWork
	for rows.Next() {
		var lw model.LabWork
		if err := rows.Scan(&lw.ID, &lw.CourseID, &lw.Title, &lw.Description, &lw.Deadline, &lw.CreatedAt); err != nil {
			return nil, err
		}
		labs = append(labs, lw)
	}
	return labs, rows.Err()
}

// Create inserts a new lab work.
func (r *LabWorkRepository) Create(ctx context.Context, lw *model.LabWork) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO lab_works (course_id, title, description, deadline)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		lw.CourseID, lw.Title, lw.Description, lw.Deadline,
	).Scan(&lw.ID, &lw.CreatedAt)
}
