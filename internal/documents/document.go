// Package documents implements the document domain: deal materials
// uploaded once, stored in blob storage, and read back for analysis
// scope extraction. Documents are immutable once registered.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document is one uploaded deal material with its metadata and blob
// storage reference.
type Document struct {
	ID          uuid.UUID `json:"id"`
	DealID      uuid.UUID `json:"deal_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	UploadedBy  string    `json:"uploaded_by"`
	FirmID      string    `json:"firm_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCommand carries the data needed to upload and register a new
// document. Data holds the raw file bytes. PageCount is optional and is
// extracted by the handler via pdfcpu for PDFs; nil is stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	DealID      uuid.UUID
	UploadedBy  string
	FirmID      string
	PageCount   *int
}

// BatchResult reports the outcome of a single file within a batch
// upload. On success, Document is populated and Error is empty.
type BatchResult struct {
	Document *Document `json:"document,omitempty"`
	Filename string    `json:"filename"`
	Error    string    `json:"error,omitempty"`
}
