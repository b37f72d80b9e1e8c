package documents

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/castlereach/dealdesk/pkg/pagination"
	"github.com/castlereach/dealdesk/pkg/query"
	"github.com/castlereach/dealdesk/pkg/repository"
	"github.com/castlereach/dealdesk/pkg/storage"
)

// batchWorkers bounds concurrent blob uploads within one batch request.
const batchWorkers = 4

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	firmID string,
	dealID uuid.UUID,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("FirmID", firmID).
		WhereEquals("DealID", dealID).
		WhereSearch(page.Search, "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, firmID string, id uuid.UUID) (*Document, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("FirmID", firmID).
		BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	if err := r.dealExists(ctx, cmd.FirmID, cmd.DealID); err != nil {
		return nil, err
	}

	id := uuid.New()
	key := buildStorageKey(cmd.DealID, id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	q := `
		INSERT INTO documents(id, deal_id, filename, content_type, size_bytes, page_count, storage_key, uploaded_by, firm_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, deal_id, filename, content_type, size_bytes, page_count, storage_key, uploaded_by, firm_id, created_at`

	insertArgs := []any{
		id,
		cmd.DealID,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
		cmd.UploadedBy,
		cmd.FirmID,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanDocument)
	})
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", d.ID, "deal_id", d.DealID, "filename", d.Filename)
	return &d, nil
}

func (r *repo) CreateBatch(ctx context.Context, cmds []CreateCommand) []BatchResult {
	results := make([]BatchResult, len(cmds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)

	for i := range cmds {
		g.Go(func() error {
			results[i].Filename = cmds[i].Filename

			doc, err := r.Create(gctx, cmds[i])
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}

			results[i].Document = doc
			return nil
		})
	}

	// Per-file errors are captured in results, never returned.
	_ = g.Wait()

	return results
}

func (r *repo) Download(
	ctx context.Context,
	firmID string,
	id uuid.UUID,
) (*Document, *storage.DownloadResult, error) {
	doc, err := r.Find(ctx, firmID, id)
	if err != nil {
		return nil, nil, err
	}

	result, err := r.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("download document blob: %w", err)
	}

	return doc, result, nil
}

// Text reads the deal's earliest document and returns up to limit bytes
// as text. Binary formats are passed through as-is; scope extraction
// tolerates noisy input and degrades to defaults when nothing useful
// survives.
func (r *repo) Text(ctx context.Context, dealID uuid.UUID, limit int) (string, error) {
	var key string
	err := r.db.QueryRowContext(
		ctx,
		`SELECT storage_key FROM documents
		 WHERE deal_id = $1
		 ORDER BY created_at ASC
		 LIMIT 1`,
		dealID,
	).Scan(&key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoDocuments
		}
		return "", fmt.Errorf("query first document: %w", err)
	}

	result, err := r.storage.Download(ctx, key)
	if err != nil {
		return "", fmt.Errorf("download document blob: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(io.LimitReader(result.Body, int64(limit)))
	if err != nil {
		return "", fmt.Errorf("read document blob: %w", err)
	}

	return string(data), nil
}

func (r *repo) dealExists(ctx context.Context, firmID string, dealID uuid.UUID) error {
	var exists bool
	err := r.db.QueryRowContext(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM deals WHERE id = $1 AND firm_id = $2)",
		dealID, firmID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check deal: %w", err)
	}
	if !exists {
		return ErrDealNotFound
	}
	return nil
}

func buildStorageKey(dealID, id uuid.UUID, filename string) string {
	return fmt.Sprintf("deals/%s/documents/%s/%s", dealID, id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}
