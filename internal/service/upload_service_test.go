package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/opencourse/lms-backend/internal/config"
	"github.com/opencourse/lms-backend/internal/model"
	"github.com/opencourse/lms-backend/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Fakes ─────────────────────────────────────────────────────────────

type storedObject struct {
	bucket      string
	key         string
	contentType string
	size        int64
}

type recordingObjectStore struct {
	objects    []storedObject
	uploadErr  error
	presignErr error
}

func (f *recordingObjectStore) Upload(_ context.Context, bucket, key string, _ io.Reader, size int64, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.objects = append(f.objects, storedObject{bucket: bucket, key: key, contentType: contentType, size: size})
	return nil
}

func (f *recordingObjectStore) PresignedUploadURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://store.local/" + bucket + "/" + key + "?signed", nil
}

type recordingSubmissions struct {
	created   []*model.Submission
	createErr error
}

func (f *recordingSubmissions) Create(_ context.Context, s *model.Submission) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, s)
	return nil
}

type recordingResources struct {
	created []*model.Resource
}

func (f *recordingResources) Create(_ context.Context, r *model.Resource) error {
	f.created = append(f.created, r)
	return nil
}

type recordingPhotos struct {
	created []*model.Photo
}

func (f *recordingPhotos) Create(_ context.Context, p *model.Photo) error {
	f.created = append(f.created, p)
	return nil
}

func (f *recordingPhotos) ListByUser(_ context.Context, _ string) ([]model.Photo, error) {
	out := make([]model.Photo, 0, len(f.created))
	for _, p := range f.created {
		out = append(out, *p)
	}
	return out, nil
}

// ─── Helpers ───────────────────────────────────────────────────────────

type uploadFixture struct {
	svc         *UploadService
	store       *recordingObjectStore
	submissions *recordingSubmissions
	resources   *recordingResources
	photos      *recordingPhotos
}

func newUploadFixture(maxBytes int64) *uploadFixture {
	f := &uploadFixture{
		store:       &recordingObjectStore{},
		submissions: &recordingSubmissions{},
		resources:   &recordingResources{},
		photos:      &recordingPhotos{},
	}
	cfg := &config.Config{
		MaxUploadBytes: maxBytes,
		SignedURLTTL:   15 * time.Minute,
	}
	f.svc = NewUploadService(cfg, f.store, f.submissions, f.resources, f.photos, zerolog.Nop())
	return f
}

// multipartFile builds a real multipart file + header so header.Size is set
// the way Gin would set it.
func multipartFile(t *testing.T, fieldName, fileName, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := req.FormFile(fieldName)
	require.NoError(t, err)
	return file, header
}

// ─── SubmitLab ─────────────────────────────────────────────────────────

func TestSubmitLab_PathShapeAndMetadata(t *testing.T) {
	f := newUploadFixture(1 << 20)
	file, header := multipartFile(t, "file", "report.pdf", "pdf-bytes")

	path, err := f.svc.SubmitLab(context.Background(), "student-1", "lab-9", file, header)
	require.NoError(t, err)

	// {studentId}/{labId}/{uuid}.{ext}
	assert.Regexp(t, regexp.MustCompile(`^student-1/lab-9/[0-9a-f-]{36}\.pdf$`), path)

	require.Len(t, f.store.objects, 1)
	assert.Equal(t, storage.BucketLabSubmissions, f.store.objects[0].bucket)
	assert.Equal(t, path, f.store.objects[0].key)

	require.Len(t, f.submissions.created, 1)
	assert.Equal(t, "student-1", f.submissions.created[0].StudentID)
	assert.Equal(t, "lab-9", f.submissions.created[0].LabID)
	assert.Equal(t, path, f.submissions.created[0].FilePath)
}

func TestSubmitLab_UniquePerUpload(t *testing.T) {
	f := newUploadFixture(1 << 20)

	file1, header1 := multipartFile(t, "file", "report.pdf", "first")
	path1, err := f.svc.SubmitLab(context.Background(), "student-1", "lab-9", file1, header1)
	require.NoError(t, err)

	file2, header2 := multipartFile(t, "file", "report.pdf", "second")
	path2, err := f.svc.SubmitLab(context.Background(), "student-1", "lab-9", file2, header2)
	require.NoError(t, err)

	assert.NotEqual(t, path1, path2)
}

func TestSubmitLab_TooLarge(t *testing.T) {
	f := newUploadFixture(4)
	file, header := multipartFile(t, "file", "report.pdf", "way more than four bytes")

	_, err := f.svc.SubmitLab(context.Background(), "student-1", "lab-9", file, header)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Empty(t, f.store.objects)
	assert.Empty(t, f.submissions.created)
}

func TestSubmitLab_StorageFailure(t *testing.T) {
	f := newUploadFixture(1 << 20)
	f.store.uploadErr = errors.New("bucket offline")
	file, header := multipartFile(t, "file", "report.pdf", "pdf-bytes")

	_, err := f.svc.SubmitLab(context.Background(), "student-1", "lab-9", file, header)
	require.Error(t, err)
	assert.Empty(t, f.submissions.created)
}

func TestSubmitLab_MetadataFailureSurfaces(t *testing.T) {
	f := newUploadFixture(1 << 20)
	f.submissions.createErr = errors.New("insert failed")
	file, header := multipartFile(t, "file", "report.pdf", "pdf-bytes")

	_, err := f.svc.SubmitLab(context.Background(), "student-1", "lab-9", file, header)
	require.Error(t, err)
	// The object was stored before the insert failed; it stays orphaned.
	assert.Len(t, f.store.objects, 1)
}

// ─── UploadCourseMaterial ──────────────────────────────────────────────

func TestUploadCourseMaterial_PathShapeAndMetadata(t *testing.T) {
	f := newUploadFixture(1 << 20)
	file, header := multipartFile(t, "file", "slides.pptx", "slides")

	path, err := f.svc.UploadCourseMaterial(context.Background(), "course-3", "Week 1 Slides", "presentation", file, header)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^course-3/[0-9a-f-]{36}\.pptx$`), path)
	require.Len(t, f.store.objects, 1)
	assert.Equal(t, storage.BucketCourseMaterials, f.store.objects[0].bucket)

	require.Len(t, f.resources.created, 1)
	assert.Equal(t, "Week 1 Slides", f.resources.created[0].Title)
	assert.Equal(t, "presentation", f.resources.created[0].Type)
}

// ─── Signed URLs and Photos ────────────────────────────────────────────

func TestGenerateSignedURL_PathIsUserScoped(t *testing.T) {
	f := newUploadFixture(1 << 20)

	uploadURL, path, err := f.svc.GenerateSignedURL(context.Background(), "user-7", "avatar.png")
	require.NoError(t, err)

	// {userId}/{timestamp}-{fileName}
	assert.Regexp(t, regexp.MustCompile(`^user-7/\d+-avatar\.png$`), path)
	assert.True(t, strings.Contains(uploadURL, storage.BucketPhotos))
	assert.Empty(t, f.photos.created, "issuing a URL must not record metadata")
}

func TestRecordAndListPhotos(t *testing.T) {
	f := newUploadFixture(1 << 20)

	photo, err := f.svc.RecordPhoto(context.Background(), "user-7", "user-7/123-avatar.png")
	require.NoError(t, err)
	assert.Equal(t, "user-7", photo.UserID)

	photos, err := f.svc.ListPhotos(context.Background(), "user-7")
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, "user-7/123-avatar.png", photos[0].FilePath)
}
