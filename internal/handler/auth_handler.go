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

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// POST /api/v1/auth/login
// Exchanges email + password for a session JWT. The remote identity bridge
// runs best-effort; its token, when obtained, rides inside the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	identity, err := h.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			response.Fail(c, http.StatusBadRequest, response.ErrMissingCredentials)
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	token, err := h.authService.GenerateToken(identity)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        identity.ID,
			"email":     identity.Email,
			"full_name": identity.FullName,
			"role":      identity.Role,
		},
	})
}

// Signup godoc
// POST /api/v1/auth/signup
// Creates a local student account. Teacher accounts are provisioned via CLI.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the profile of the currently authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), claims.Subject)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// RemoteSession godoc
// POST /api/v1/auth/remote-session
// Exchanges the authenticated local session for a remote access token using
// the configured fallback password, creating the remote identity on first use.
func (h *AuthHandler) RemoteSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), claims.Subject)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	token, err := h.authService.RemoteSession(c.Request.Context(), user)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrUpstreamFailure)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"access_token": token})
}
