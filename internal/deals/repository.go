package deals

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/documents"
	"github.com/castlereach/dealdesk/internal/scope"
	"github.com/castlereach/dealdesk/internal/workflows"
	"github.com/castlereach/dealdesk/pkg/pagination"
	"github.com/castlereach/dealdesk/pkg/query"
	"github.com/castlereach/dealdesk/pkg/repository"
)

type repo struct {
	db         *sql.DB
	extractor  *scope.Extractor
	documents  documents.System
	workflows  workflows.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a deal repository implementing the System interface.
func New(
	db *sql.DB,
	extractor *scope.Extractor,
	docs documents.System,
	flows workflows.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		extractor:  extractor,
		documents:  docs,
		workflows:  flows,
		logger:     logger.With("system", "deals"),
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
) (*pagination.PageResult[Deal], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("FirmID", firmID).
		WhereSearch(page.Search, "Name", "TargetCompany", "Sector")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count deals: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDeal)
	if err != nil {
		return nil, fmt.Errorf("query deals: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, firmID string, id uuid.UUID) (*Deal, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("FirmID", firmID).
		BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDeal)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Deal, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidDeal)
	}

	insert := `
		INSERT INTO deals(id, name, target_company, sector, deal_type, status, key_questions, hypotheses, created_by, firm_id)
		VALUES ($1, $2, $3, $4, $5, $6, '[]', '[]', $7, $8)
		RETURNING id, name, target_company, sector, deal_type, status, key_questions, hypotheses, created_by, firm_id, created_at, updated_at`

	args := []any{
		uuid.New(),
		cmd.Name,
		cmd.TargetCompany,
		cmd.Sector,
		cmd.DealType,
		StatusDraft,
		cmd.CreatedBy,
		cmd.FirmID,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Deal, error) {
		return repository.QueryOne(ctx, tx, insert, args, scanDeal)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("deal created", "id", d.ID, "name", d.Name, "firm_id", d.FirmID)
	return &d, nil
}

func (r *repo) Archive(ctx context.Context, firmID string, id uuid.UUID) (*Deal, error) {
	deal, err := r.Find(ctx, firmID, id)
	if err != nil {
		return nil, err
	}

	if !deal.Status.CanTransition(StatusArchived) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, deal.Status, StatusArchived)
	}

	err = repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE deals SET status = $2, updated_at = now() WHERE id = $1",
		id, StatusArchived,
	)
	if err != nil {
		return nil, fmt.Errorf("archive deal: %w", err)
	}

	r.logger.Info("deal archived", "id", id)
	return r.Find(ctx, firmID, id)
}

// applyScope stores the extracted scope on the deal and advances it to
// analyzing.
func (r *repo) applyScope(ctx context.Context, id uuid.UUID, sc scope.Scope) error {
	questions, err := json.Marshal(sc.KeyQuestions)
	if err != nil {
		return fmt.Errorf("marshal key questions: %w", err)
	}

	hypotheses, err := json.Marshal(sc.Hypotheses)
	if err != nil {
		return fmt.Errorf("marshal hypotheses: %w", err)
	}

	err = repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE deals
		 SET status = $2, key_questions = $3, hypotheses = $4, updated_at = now()
		 WHERE id = $1`,
		id, StatusAnalyzing, questions, hypotheses,
	)
	if err != nil {
		return fmt.Errorf("apply scope: %w", err)
	}

	return nil
}
