// Package storage wraps the object store holding uploaded files. Buckets map
// one-to-one to upload surfaces: lab submissions, course materials, photos.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/opencourse/lms-backend/internal/config"
)

// Bucket names. Created on startup if missing.
const (
	BucketLabSubmissions  = "lab-submissions"
	BucketCourseMaterials = "course-materials"
	BucketPhotos          = "photos"
)

// minioAPI is the subset of *minio.Client the store uses. Kept as an
// interface so tests can run without a live object store.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
}

// Store is the application's object storage client.
type Store struct {
	api minioAPI
}

// NewStore builds a Store from configuration and ensures all buckets exist.
func NewStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return NewStoreWithAPI(ctx, client)
}

// NewStoreWithAPI allows injecting a mockable API (used in tests).
func NewStoreWithAPI(ctx context.Context, api minioAPI) (*Store, error) {
	s := &Store{api: api}
	for _, bucket := range []string{BucketLabSubmissions, BucketCourseMaterials, BucketPhotos} {
		if err := s.ensureBucket(ctx, bucket); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := s.api.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := s.api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return nil
}

// Upload writes an object under key in the given bucket.
func (s *Store) Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.api.PutObject(ctx, bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload object: %w", err)
	}
	return nil
}

// Delete removes an object.
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	if err := s.api.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// PresignedUploadURL returns a URL the client can PUT the object to directly.
func (s *Store) PresignedUploadURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	u, err := s.api.PresignedPutObject(ctx, bucket, key, expiry)
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}
	return u.String(), nil
}
