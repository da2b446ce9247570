package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/opencourse/lms-backend/internal/model"
	"github.com/opencourse/lms-backend/internal/service"
)

// UploadHandler handles the file relay endpoints. These routes predate the
// versioned API and keep their original paths and plain JSON shapes; sessions
// are resolved inline rather than through middleware so that failures use the
// same plain shape.
type UploadHandler struct {
	authService   *service.AuthService
	uploadService *service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(authService *service.AuthService, uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{authService: authService, uploadService: uploadService}
}

// session resolves the caller's claims from the Authorization header.
func (h *UploadHandler) session(c *gin.Context) *service.Claims {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil
	}
	claims, err := h.authService.ValidateToken(parts[1])
	if err != nil {
		return nil
	}
	return claims
}

// LabSubmission godoc
// POST /api/lab-submission
// Relays a lab submission to the object store and records its metadata.
// Students may only submit for themselves; teachers may submit on behalf
// of any student. Authorization is decided before anything is written.
func (h *UploadHandler) LabSubmission(c *gin.Context) {
	claims := h.session(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	studentID := c.PostForm("studentId")
	labID := c.PostForm("labId")
	if err != nil || studentID == "" || labID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	defer file.Close()

	if claims.Subject != studentID && claims.Role != model.RoleTeacher {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	filePath, err := h.uploadService.SubmitLab(c.Request.Context(), studentID, labID, file, header)
	if err != nil {
		if errors.Is(err, service.ErrFileTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "filePath": filePath})
}

// CourseMaterials godoc
// POST /api/course-materials
// Relays a course material to the object store and records its metadata.
// Teacher role required.
func (h *UploadHandler) CourseMaterials(c *gin.Context) {
	claims := h.session(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if claims.Role != model.RoleTeacher {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	courseID := c.PostForm("courseId")
	if err != nil || courseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	defer file.Close()

	title := c.PostForm("resourceTitle")
	if title == "" {
		title = header.Filename
	}
	resourceType := c.PostForm("resourceType")

	filePath, err := h.uploadService.UploadCourseMaterial(c.Request.Context(), courseID, title, resourceType, file, header)
	if err != nil {
		if errors.Is(err, service.ErrFileTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "filePath": filePath})
}

type signedURLRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

// GenerateSignedURL godoc
// POST /api/generate-signed-url
// Issues a presigned PUT URL for a direct photo upload. The object path is
// namespaced by the caller's user id.
func (h *UploadHandler) GenerateSignedURL(c *gin.Context) {
	claims := h.session(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req signedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FileName == "" || req.ContentType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	uploadURL, filePath, err := h.uploadService.GenerateSignedURL(c.Request.Context(), claims.Subject, req.FileName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploadUrl": uploadURL, "filePath": filePath})
}
