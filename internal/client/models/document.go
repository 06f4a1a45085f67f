package models

// DocumentStatus is the server-reported processing state of a document.
//
// The normal progression is UPLOADING -> PROCESSING -> READY or FAILED, but
// the client never drives it: the value is whatever the server last said.
type DocumentStatus string

const (
	StatusUploading  DocumentStatus = "UPLOADING"
	StatusProcessing DocumentStatus = "PROCESSING"
	StatusReady      DocumentStatus = "READY"
	StatusFailed     DocumentStatus = "FAILED"
)

// Known reports whether s is one of the four documented values.
func (s DocumentStatus) Known() bool {
	switch s {
	case StatusUploading, StatusProcessing, StatusReady, StatusFailed:
		return true
	}
	return false
}

// InProgress reports whether the ingestion pipeline is still working on the
// document.
func (s DocumentStatus) InProgress() bool {
	return s == StatusUploading || s == StatusProcessing
}

// Document is one uploaded file and its ingestion result. PageCount and
// ChunkCount are meaningful only once Status is READY.
type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	ContentType string         `json:"contentType"`
	FileSize    int64          `json:"fileSize"`
	Status      DocumentStatus `json:"status"`
	PageCount   int            `json:"pageCount"`
	ChunkCount  int            `json:"chunkCount"`
	CreatedAt   Timestamp      `json:"createdAt"`
}

// DocumentStatusInfo is the lightweight payload of the status endpoint.
type DocumentStatusInfo struct {
	ID         string         `json:"id"`
	Status     DocumentStatus `json:"status"`
	ChunkCount int            `json:"chunkCount"`
}

// UploadRequest describes a file to send to the ingestion pipeline.
type UploadRequest struct {
	Filename    string `validate:"required"`
	ContentType string
	Content     []byte `validate:"required,min=1"`
}
