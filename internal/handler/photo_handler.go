package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencourse/lms-backend/internal/middleware"
	"github.com/opencourse/lms-backend/internal/model"
	"github.com/opencourse/lms-backend/internal/response"
	"github.com/opencourse/lms-backend/internal/service"
	"github.com/opencourse/lms-backend/internal/validator"
)

// PhotoHandler handles photo metadata for the direct-upload flow.
type PhotoHandler struct {
	uploadService *service.UploadService
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(uploadService *service.UploadService) *PhotoHandler {
	return &PhotoHandler{uploadService: uploadService}
}

// List godoc
// GET /api/v1/photos
// Returns the caller's photo metadata.
func (h *PhotoHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	photos, err := h.uploadService.ListPhotos(c.Request.Context(), claims.Subject)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"photos": photos})
}

// Record godoc
// POST /api/v1/photos
// Records metadata for a photo already uploaded via a signed URL.
func (h *PhotoHandler) Record(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.RecordPhotoRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	photo, err := h.uploadService.RecordPhoto(c.Request.Context(), claims.Subject, req.FilePath)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"photo": photo})
}
