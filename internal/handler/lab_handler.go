package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencourse/lms-backend/internal/middleware"
	"github.com/opencourse/lms-backend/internal/response"
	"github.com/opencourse/lms-backend/internal/service"
)

// LabHandler handles individual lab works and their submissions.
type LabHandler struct {
	labService *service.LabService
}

// NewLabHandler creates a new LabHandler.
func NewLabHandler(labService *service.LabService) *LabHandler {
	return &LabHandler{labService: labService}
}

// Get godoc
// GET /api/v1/labs/:id
// Returns the lab work plus the caller's own submission, when one exists.
func (h *LabHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	labID := c.Param("id")

	lab, submission, err := h.labService.GetLab(c.Request.Context(), labID, claims.Subject)
	if err != nil {
		if errors.Is(err, service.ErrLabNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"lab_work":   lab,
		"submission": submission,
	})
}

// ListSubmissions godoc
// GET /api/v1/labs/:id/submissions (teacher only, must own the course)
func (h *LabHandler) ListSubmissions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	labID := c.Param("id")

	submissions, err := h.labService.ListSubmissions(c.Request.Context(), labID, claims.Subject)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLabNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotCourseOwner):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submissions": submissions})
}
