package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/opencourse/lms-backend/internal/config"
	"github.com/opencourse/lms-backend/internal/model"
	"github.com/opencourse/lms-backend/internal/storage"
	"github.com/rs/zerolog"
)

// ErrFileTooLarge is returned when an upload exceeds the configured limit.
var ErrFileTooLarge = errors.New("file too large")

// ObjectStore is the object storage surface the upload relay needs.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error
	PresignedUploadURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

// SubmissionStore records submission metadata.
type SubmissionStore interface {
	Create(ctx context.Context, s *model.Submission) error
}

// ResourceStore records course material metadata.
type ResourceStore interface {
	Create(ctx context.Context, r *model.Resource) error
}

// PhotoStore records photo metadata.
type PhotoStore interface {
	Create(ctx context.Context, p *model.Photo) error
	ListByUser(ctx context.Context, userID string) ([]model.Photo, error)
}

// UploadService relays files to the object store and records their metadata.
// There is no compensation: a stored object whose metadata insert fails is
// left orphaned and the error surfaced to the caller.
type UploadService struct {
	cfg         *config.Config
	store       ObjectStore
	submissions SubmissionStore
	resources   ResourceStore
	photos      PhotoStore
	log         zerolog.Logger
}

// NewUploadService creates a new UploadService.
func NewUploadService(
	cfg *config.Config,
	store ObjectStore,
	submissions SubmissionStore,
	resources ResourceStore,
	photos PhotoStore,
	log zerolog.Logger,
) *UploadService {
	return &UploadService{
		cfg:         cfg,
		store:       store,
		submissions: submissions,
		resources:   resources,
		photos:      photos,
		log:         log,
	}
}

// SubmitLab stores a lab submission file under {studentId}/{labId}/{uuid}{ext}
// and records its metadata. Returns the object path.
func (s *UploadService) SubmitLab(ctx context.Context, studentID, labID string, file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	filePath := fmt.Sprintf("%s/%s/%s%s", studentID, labID, uuid.New().String(), filepath.Ext(header.Filename))

	contentType := header.Header.Get("Content-Type")
	if err := s.store.Upload(ctx, storage.BucketLabSubmissions, filePath, file, header.Size, contentType); err != nil {
		return "", err
	}

	submission := &model.Submission{
		StudentID: studentID,
		LabID:     labID,
		FilePath:  filePath,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		// The stored object is left orphaned; surface the insert failure.
		s.log.Error().Err(err).Str("file_path", filePath).Msg("Submission metadata insert failed after upload")
		return "", err
	}

	return filePath, nil
}

// UploadCourseMaterial stores a course material under {courseId}/{uuid}{ext}
// and records its metadata. Returns the object path.
func (s *UploadService) UploadCourseMaterial(ctx context.Context, courseID, title, resourceType string, file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	filePath := fmt.Sprintf("%s/%s%s", courseID, uuid.New().String(), filepath.Ext(header.Filename))

	contentType := header.Header.Get("Content-Type")
	if err := s.store.Upload(ctx, storage.BucketCourseMaterials, filePath, file, header.Size, contentType); err != nil {
		return "", err
	}

	resource := &model.Resource{
		CourseID: courseID,
		Title:    title,
		Type:     resourceType,
		FilePath: filePath,
	}
	if err := s.resources.Create(ctx, resource); err != nil {
		s.log.Error().Err(err).Str("file_path", filePath).Msg("Resource metadata insert failed after upload")
		return "", err
	}

	return filePath, nil
}

// GenerateSignedURL returns a presigned PUT URL for a client-side direct
// upload to the photos bucket, plus the object path the client must use.
func (s *UploadService) GenerateSignedURL(ctx context.Context, userID, fileName string) (uploadURL, filePath string, err error) {
	filePath = fmt.Sprintf("%s/%d-%s", userID, time.Now().UnixMilli(), fileName)

	uploadURL, err = s.store.PresignedUploadURL(ctx, storage.BucketPhotos, filePath, s.cfg.SignedURLTTL)
	if err != nil {
		return "", "", err
	}
	return uploadURL, filePath, nil
}

// RecordPhoto records metadata for a photo the client uploaded directly.
func (s *UploadService) RecordPhoto(ctx context.Context, userID, filePath string) (*model.Photo, error) {
	photo := &model.Photo{UserID: userID, FilePath: filePath}
	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, fmt.Errorf("record photo: %w", err)
	}
	return photo, nil
}

// ListPhotos returns the caller's photo metadata.
func (s *UploadService) ListPhotos(ctx context.Context, userID string) ([]model.Photo, error) {
	return s.photos.ListByUser(ctx, userID)
}
