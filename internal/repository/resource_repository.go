package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencourse/lms-backend/internal/model"
)

// ResourceRepository handles course material metadata.
type ResourceRepository struct {
	pool *pgxpool.Pool
}

// NewResourceRepository creates a new ResourceRepository.
func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{pool: pool}
}

// Create inserts a resource record.
func (r *ResourceRepository) Create(ctx context.Context, res *model.Resource) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO resources (course_id, title, type, file_path)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		res.CourseID, res.Title, res.Type, res.FilePath,
	).Scan(&res.ID, &res.CreatedAt)
}

// ListByCourse retrieves all resources for a course.
func (r *ResourceRepository) ListByCourse(ctx context.Context, courseID string) ([]model.Resource, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, title, type, file_path, created_at
		 FROM resources WHERE course_id = $1
		 ORDER BY created_at DESC`, courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []model.Resource
	for rows.Next() {
		var res model.Resource
		if err := rows.Scan(&res.ID, &res.CourseID, &res.Title, &res.Type, &res.FilePath, &res.CreatedAt); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}
