package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/pkg/pagination"
	"github.com/castlereach/dealdesk/pkg/storage"
)

// System defines the public contract for document domain operations.
// Reads are firm-scoped: documents outside the caller's firm behave as
// if they do not exist.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		firmID string,
		dealID uuid.UUID,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, firmID string, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)

	// CreateBatch uploads multiple files concurrently, reporting a
	// per-file result. Individual failures do not abort the batch.
	CreateBatch(ctx context.Context, cmds []CreateCommand) []BatchResult

	// Download returns the document metadata and a blob stream.
	// The caller must close the stream body.
	Download(ctx context.Context, firmID string, id uuid.UUID) (*Document, *storage.DownloadResult, error)

	// Text returns up to limit bytes of the deal's earliest document as
	// text for scope extraction. Returns ErrNoDocuments if the deal has
	// no documents.
	Text(ctx context.Context, dealID uuid.UUID, limit int) (string, error)
}
