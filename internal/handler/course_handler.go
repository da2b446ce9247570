package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencourse/lms-backend/internal/middleware"
	"github.com/opencourse/lms-backend/internal/model"
	"github.com/opencourse/lms-backend/internal/response"
	"github.com/opencourse/lms-backend/internal/service"
	"github.com/opencourse/lms-backend/internal/validator"
)

// CourseHandler handles the course catalog, enrollment, and lab listings.
type CourseHandler struct {
	courseService *service.CourseService
	labService    *service.LabService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService, labService *service.LabService) *CourseHandler {
	return &CourseHandler{courseService: courseService, labService: labService}
}

// List godoc
// GET /api/v1/courses
// Returns the full catalog with the caller's enrollment flags merged in.
func (h *CourseHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courses, err := h.courseService.ListCatalog(c.Request.Context(), claims.Subject)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// Get godoc
// GET /api/v1/courses/:id
// Returns the course page payload: course, teacher, labs, resources,
// and whether the caller is enrolled.
func (h *CourseHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	courseID := c.Param("id")

	detail, err := h.courseService.GetCourse(c.Request.Context(), courseID, claims.Subject)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": detail})
}

// Create godoc
// POST /api/v1/courses (teacher only)
func (h *CourseHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.CreateCourse(c.Request.Context(), claims.Subject, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// Enroll godoc
// POST /api/v1/courses/:id/enroll
// Enrolls the caller in the course. Double enrollment returns 409.
func (h *CourseHandler) Enroll(c *gin.Context) {
	claims := middleware.GetClaims(c)
	courseID := c.Param("id")

	enrollment, err := h.courseService.Enroll(c.Request.Context(), claims.Subject, courseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrAlreadyEnrolled):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

// ListLabs godoc
// GET /api/v1/courses/:id/labs
func (h *CourseHandler) ListLabs(c *gin.Context) {
	courseID := c.Param("id")

	labs, err := h.labService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"lab_works": labs})
}

// CreateLab godoc
// POST /api/v1/courses/:id/labs (teacher only, must own the course)
func (h *CourseHandler) CreateLab(c *gin.Context) {
	claims := middleware.GetClaims(c)
	courseID := c.Param("id")

	var req model.CreateLabWorkRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lab, err := h.labService.CreateLab(c.Request.Context(), claims.Subject, courseID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotCourseOwner):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"lab_work": lab})
}
