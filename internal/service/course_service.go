package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/opencourse/lms-backend/internal/config"
	"github.com/opencourse/lms-backend/internal/model"
	"github.com/opencourse/lms-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
)

// catalogCacheTTL bounds staleness of the shared course catalog.
const catalogCacheTTL = 5 * time.Minute

// CourseService handles the course catalog, enrollment, and dashboards.
type CourseService struct {
	courses     *repository.CourseRepository
	enrollments *repository.EnrollmentRepository
	labs        *repository.LabWorkRepository
	resources   *repository.ResourceRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	courses *repository.CourseRepository,
	enrollments *repository.EnrollmentRepository,
	labs *repository.LabWorkRepository,
	resources *repository.ResourceRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *CourseService {
	return &CourseService{
		courses:     courses,
		enrollments: enrollments,
		labs:        labs,
		resources:   resources,
		rdb:         rdb,
		log:         log,
	}
}

// ListCatalog returns the course catalog with the caller's enrollment flags
// merged in. The catalog itself is shared across users and served cache-aside
// from Redis; enrollment flags are always read fresh.
func (s *CourseService) ListCatalog(ctx context.Context, userID string) ([]model.CourseListing, error) {
	listings, err := s.cachedCatalog(ctx)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollments.CourseIDsByStudent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}

	for i := range listings {
		listings[i].Enrolled = enrolled[listings[i].ID]
	}
	return listings, nil
}

func (s *CourseService) cachedCatalog(ctx context.Context) ([]model.CourseListing, error) {
	key := config.CacheKey.CourseCatalogKey()

	if s.rdb != nil {
		data, err := s.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var listings []model.CourseListing
			if err := json.Unmarshal(data, &listings); err == nil {
				return listings, nil
			}
			// Corrupt cache entry; fall through to the database.
			s.rdb.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("Catalog cache read failed")
		}
	}

	listings, err := s.courses.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if s.rdb != nil {
		if data, err := json.Marshal(listings); err == nil {
			if err := s.rdb.Set(ctx, key, data, catalogCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Catalog cache write failed")
			}
		}
	}
	return listings, nil
}

// invalidateCatalog drops the cached catalog after a write.
func (s *CourseService) invalidateCatalog(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.CourseCatalogKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Catalog cache invalidation failed")
	}
}

// GetCourse returns the full course page payload: course, teacher name,
// labs, resources, and the caller's enrollment status.
func (s *CourseService) GetCourse(ctx context.Context, courseID, userID string) (*model.CourseDetail, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}

	detail := &model.CourseDetail{Course: *course}

	labs, err := s.labs.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load labs: %w", err)
	}
	detail.Labs = labs

	resources, err := s.resources.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	detail.Resources = resources

	names, err := s.courses.TeacherName(ctx, course.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("load teacher: %w", err)
	}
	detail.TeacherName = names

	enrolled, err := s.enrollments.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	detail.Enrolled = enrolled

	return detail, nil
}

// CreateCourse creates a course owned by the given teacher.
func (s *CourseService) CreateCourse(ctx context.Context, teacherID string, req *model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		TeacherID:   teacherID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.invalidateCatalog(ctx)
	return course, nil
}

// Enroll enrolls the student in the course. Duplicate enrollments surface as
// ErrAlreadyEnrolled; concurrent enrollments race at the unique constraint.
func (s *CourseService) Enroll(ctx context.Context, studentID, courseID string) (*model.Enrollment, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}

	enrollment := &model.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	return enrollment, nil
}

// StudentDashboard returns the caller's enrolled courses.
func (s *CourseService) StudentDashboard(ctx context.Context, studentID string) ([]model.EnrolledCourse, error) {
	return s.enrollments.ListByStudent(ctx, studentID)
}

// TeacherDashboard returns the teacher's courses with enrollment counts.
func (s *CourseService) TeacherDashboard(ctx context.Context, teacherID string) ([]model.TeacherCourse, error) {
	return s.courses.ListByTeacher(ctx, teacherID)
}
