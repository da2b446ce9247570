package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencourse/lms-backend/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// GetByID retrieves a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, teacher_id, title, description, created_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.TeacherID, &c.Title, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListAll retrieves the full catalog with teacher names joined in.
func (r *CourseRepository) ListAll(ctx context.Context) ([]model.CourseListing, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.teacher_id, c.title, c.description, c.created_at, u.full_name
		 FROM courses c
		 JOIN users u ON u.id = c.teacher_id
		 ORDER BY c.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []model.CourseListing
	for rows.Next() {
		var l model.CourseListing
		if err := rows.Scan(&l.ID, &l.TeacherID, &l.Title, &l.Description, &l.CreatedAt, &l.TeacherName); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// ListByTeacher retrieves a teacher's courses with enrollment counts.
func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID string) ([]model.TeacherCourse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.teacher_id, c.title, c.description, c.created_at,
		        COUNT(e.id) AS student_count
		 FROM courses c
		 LEFT JOIN enrollments e ON e.course_id = c.id
		 WHERE c.teacher_id = $1
		 GROUP BY c.id
		 ORDER BY c.created_at DESC`, teacherID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.TeacherCourse
	for rows.Next() {
		var tc model.TeacherCourse
		if err := rows.Scan(&tc.ID, &tc.TeacherID, &tc.Title, &tc.Description, &tc.CreatedAt, &tc.StudentCount); err != nil {
			return nil, err
		}
		courses = append(courses, tc)
	}
	return courses, rows.Err()
}

// TeacherName returns the full name of the course's teacher.
func (r *CourseRepository) TeacherName(ctx context.Context, teacherID string) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx,
		`SELECT full_name FROM users WHERE id = $1`, teacherID,
	).Scan(&name)
	return name, err
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (teacher_id, title, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		c.TeacherID, c.Title, c.Description,
	).Scan(&c.ID, &c.CreatedAt)
}
