package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/opencourse/lms-backend/internal/config"
	"github.com/opencourse/lms-backend/internal/handler"
	"github.com/opencourse/lms-backend/internal/middleware"
	"github.com/opencourse/lms-backend/internal/response"
	"github.com/opencourse/lms-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Course    *handler.CourseHandler
	Lab       *handler.LabHandler
	Dashboard *handler.DashboardHandler
	Photo     *handler.PhotoHandler
	Upload    *handler.UploadHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for credential routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/signup", authLimiter.Middleware(), handlers.Auth.Signup)

		// Authenticated profile routes
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
		auth.POST("/remote-session", middleware.RequireAuth(authService), handlers.Auth.RemoteSession)
	}

	// ─── 2. Authenticated API (JWT) ────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireAuth(authService))
	{
		// Course catalog and enrollment
		api.GET("/courses", handlers.Course.List)
		api.GET("/courses/:id", handlers.Course.Get)
		api.POST("/courses", middleware.RequireTeacher(), handlers.Course.Create)
		api.POST("/courses/:id/enroll", handlers.Course.Enroll)
		api.GET("/courses/:id/labs", handlers.Course.ListLabs)
		api.POST("/courses/:id/labs", middleware.RequireTeacher(), handlers.Course.CreateLab)

		// Lab works and submissions
		api.GET("/labs/:id", handlers.Lab.Get)
		api.GET("/labs/:id/submissions", handlers.Lab.ListSubmissions)

		// Dashboards
		api.GET("/dashboard/student", handlers.Dashboard.Student)
		api.GET("/dashboard/teacher", middleware.RequireTeacher(), handlers.Dashboard.Teacher)

		// Photos (direct-upload metadata)
		api.GET("/photos", handlers.Photo.List)
		api.POST("/photos", handlers.Photo.Record)
	}

	// ─── 3. File Relay Group (Legacy Paths, Plain JSON) ────────────────
	// These routes resolve sessions inside the handler so that errors keep
	// the plain {"error": ...} shape their clients expect.
	router.POST("/api/lab-submission", handlers.Upload.LabSubmission)
	router.POST("/api/course-materials", handlers.Upload.CourseMaterials)
	router.POST("/api/generate-signed-url", handlers.Upload.GenerateSignedURL)

	return router
}
