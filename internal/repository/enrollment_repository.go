package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencourse/lms-backend/internal/model"
)

var ErrAlreadyEnrolled = errors.New("student is already enrolled in this course")

// EnrollmentRepository handles enrollment data access.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Create enrolls a student in a course. Concurrent enrollments race at the
// unique constraint; the loser gets ErrAlreadyEnrolled.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO enrollments (student_id, course_id)
		 VALUES ($1, $2)
		 RETURNING id, enrolled_at`,
		e.StudentID, e.CourseID,
	).Scan(&e.ID, &e.EnrolledAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyEnrolled
		}
		return err
	}
	return nil
}

// CourseIDsByStudent returns the set of course IDs the student is enrolled in.
func (r *EnrollmentRepository) CourseIDsByStudent(ctx context.Context, studentID string) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT course_id FROM enrollments WHERE student_id = $1`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// ListByStudent retrieves a student's enrollments with course details.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]model.EnrolledCourse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.enrolled_at, c.id, c.teacher_id, c.title, c.description, c.created_at
		 FROM enrollments e
		 JOIN courses c ON c.id = e.course_id
		 WHERE e.student_id = $1
		 ORDER BY e.enrolled_at DESC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrolled []model.EnrolledCourse
	for rows.Next() {
		var ec model.EnrolledCourse
		if err := rows.Scan(&ec.ID, &ec.EnrolledAt,
			&ec.Course.ID, &ec.Course.TeacherID, &ec.Course.Title, &ec.Course.Description, &ec.Course.CreatedAt); err != nil {
			return nil, err
		}
		enrolled = append(enrolled, ec)
	}
	return enrolled, rows.Err()
}

// Exists reports whether the student is enrolled in the course.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2)`,
		studentID, courseID,
	).Scan(&exists)
	return exists, err
}
