package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencourse/lms-backend/internal/middleware"
	"github.com/opencourse/lms-backend/internal/response"
	"github.com/opencourse/lms-backend/internal/service"
)

// DashboardHandler handles the role-specific dashboard views.
type DashboardHandler struct {
	courseService *service.CourseService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(courseService *service.CourseService) *DashboardHandler {
	return &DashboardHandler{courseService: courseService}
}

// Student godoc
// GET /api/v1/dashboard/student
// Returns the caller's enrolled courses.
func (h *DashboardHandler) Student(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courses, err := h.courseService.StudentDashboard(c.Request.Context(), claims.Subject)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"enrollments": courses})
}

// Teacher godoc
// GET /api/v1/dashboard/teacher (teacher only)
// Returns the caller's courses with student counts.
func (h *DashboardHandler) Teacher(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courses, err := h.courseService.TeacherDashboard(c.Request.Context(), claims.Subject)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}
