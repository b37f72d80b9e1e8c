package workflows

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/skills"
	"github.com/castlereach/dealdesk/pkg/pagination"
	"github.com/castlereach/dealdesk/pkg/query"
	"github.com/castlereach/dealdesk/pkg/repository"
)

type repo struct {
	db         *sql.DB
	registry   skills.Registry
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a workflow repository implementing the System interface.
func New(
	db *sql.DB,
	registry skills.Registry,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		registry:   registry,
		logger:     logger.With("system", "workflows"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	firmID string,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Workflow], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("FirmID", firmID)

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count workflows: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	flows, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanWorkflow)
	if err != nil {
		return nil, fmt.Errorf("query workflows: %w", err)
	}

	result := pagination.NewPageResult(flows, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, firmID string, id uuid.UUID) (*Workflow, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("FirmID", firmID).
		BuildSingle("ID", id)

	w, err := repository.QueryOne(ctx, r.db, q, args, scanWorkflow)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &w, nil
}

func (r *repo) CreateBatch(
	ctx context.Context,
	dealID uuid.UUID,
	kinds []skills.Kind,
) ([]Workflow, error) {
	q := `
		INSERT INTO workflows(id, deal_id, workflow_type, status, progress_percent, current_step)
		VALUES ($1, $2, $3, $4, 0, '')
		ON CONFLICT (deal_id, workflow_type) DO NOTHING`

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int, error) {
		var n int
		for _, kind := range kinds {
			result, err := tx.ExecContext(ctx, q, uuid.New(), dealID, kind, StatusPending)
			if err != nil {
				return 0, fmt.Errorf("insert workflow %s: %w", kind, err)
			}
			rows, err := result.RowsAffected()
			if err != nil {
				return 0, err
			}
			n += int(rows)
		}
		return n, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("workflows created", "deal_id", dealID, "requested", len(kinds), "created", created)
	return r.forDeal(ctx, dealID)
}

func (r *repo) forDeal(ctx context.Context, dealID uuid.UUID) ([]Workflow, error) {
	q, args := query.
		NewBuilder(projection, query.SortField{Field: "WorkflowType"}).
		WhereEquals("DealID", dealID).
		Build()

	flows, err := repository.QueryMany(ctx, r.db, q, args, scanWorkflow)
	if err != nil {
		return nil, fmt.Errorf("query deal workflows: %w", err)
	}
	return flows, nil
}

// claim atomically transitions a pending workflow to running. The
// conditional update guarantees at most one executor per workflow:
// a concurrent claim on the same id finds zero rows and is rejected.
func (r *repo) claim(ctx context.Context, id uuid.UUID, step string) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE workflows
		 SET status = $2, started_at = now(), current_step = $3
		 WHERE id = $1 AND status = $4`,
		id, StatusRunning, step, StatusPending,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotPending
		}
		return fmt.Errorf("claim workflow: %w", err)
	}
	return nil
}

// progress records an intermediate progress update. GREATEST keeps the
// reported percentage monotonic even if updates land out of order.
func (r *repo) progress(ctx context.Context, id uuid.UUID, percent int, step string) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE workflows
		 SET progress_percent = GREATEST(progress_percent, $2), current_step = $3
		 WHERE id = $1`,
		id, percent, step,
	)
	if err != nil {
		return fmt.Errorf("update workflow progress: %w", err)
	}
	return nil
}

func (r *repo) complete(ctx context.Context, id uuid.UUID, findings []byte) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE workflows
		 SET status = $2, findings = $3, progress_percent = 100,
		     current_step = 'Complete', completed_at = now()
		 WHERE id = $1`,
		id, StatusCompleted, findings,
	)
	if err != nil {
		return fmt.Errorf("complete workflow: %w", err)
	}
	return nil
}

// fail records the terminal FAILED state. The cause may be the request
// context's own cancellation, so the update runs detached from ctx:
// otherwise the row would stay running and reject every retry.
func (r *repo) fail(ctx context.Context, id uuid.UUID, cause error) {
	err := repository.ExecExpectOne(
		context.WithoutCancel(ctx), r.db,
		`UPDATE workflows SET status = $2, error_message = $3 WHERE id = $1`,
		id, StatusFailed, cause.Error(),
	)
	if err != nil {
		r.logger.Error("failed to mark workflow failed", "id", id, "error", err)
	}
}
