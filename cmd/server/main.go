package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opencourse/lms-backend/internal/config"
	"github.com/opencourse/lms-backend/internal/database"
	"github.com/opencourse/lms-backend/internal/handler"
	"github.com/opencourse/lms-backend/internal/logger"
	"github.com/opencourse/lms-backend/internal/remoteauth"
	"github.com/opencourse/lms-backend/internal/repository"
	"github.com/opencourse/lms-backend/internal/router"
	"github.com/opencourse/lms-backend/internal/service"
	"github.com/opencourse/lms-backend/internal/storage"
	"github.com/opencourse/lms-backend/internal/validator"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting LMS Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Connect to Object Storage ─────────────────────────────────────
	store, err := storage.NewStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to object storage")
	}

	// ─── Remote Auth Bridge (optional) ─────────────────────────────────
	var remote service.RemoteAuthenticator
	if cfg.RemoteAuthURL != "" {
		remote = remoteauth.NewClient(cfg)
	} else {
		log.Warn().Msg("Remote auth not configured; running local-only")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	labRepo := repository.NewLabWorkRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)
	photoRepo := repository.NewPhotoRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo, remote, log)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, labRepo, resourceRepo, rdb, log)
	labService := service.NewLabService(labRepo, courseRepo, submissionRepo)
	uploadService := service.NewUploadService(cfg, store, submissionRepo, resourceRepo, photoRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Course:    handler.NewCourseHandler(courseService, labService),
		Lab:       handler.NewLabHandler(labService),
		Dashboard: handler.NewDashboardHandler(courseService),
		Photo:     handler.NewPhotoHandler(uploadService),
		Upload:    handler.NewUploadHandler(authService, uploadService),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
