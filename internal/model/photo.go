package model

import "time"

// Photo records metadata for a file the client uploaded directly to the
// photos bucket via a presigned URL.
type Photo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FilePath  string    `json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordPhotoRequest is the payload for recording photo metadata after a
// successful direct upload.
type RecordPhotoRequest struct {
	FilePath string `json:"file_path" binding:"required,min=1,max=512"`
}
