package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencourse/lms-backend/internal/model"
)

// PhotoRepository handles photo metadata.
type PhotoRepository struct {
	pool *pgxpool.Pool
}

// NewPhotoRepository creates a new PhotoRepository.
func NewPhotoRepository(pool *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{pool: pool}
}

// Create inserts a photo record.
func (r *PhotoRepository) Create(ctx context.Context, p *model.Photo) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO photos (user_id, file_path)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		p.UserID, p.FilePath,
	).Scan(&p.ID, &p.CreatedAt)
}

// ListByUser retrieves a user's photos, newest first.
func (r *PhotoRepository) ListByUser(ctx context.Context, userID string) ([]model.Photo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, file_path, created_at
		 FROM photos WHERE user_id = $1
		 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []model.Photo
	for rows.Next() {
		var p model.Photo
		if err := rows.Scan(&p.ID, &p.UserID, &p.FilePath, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
