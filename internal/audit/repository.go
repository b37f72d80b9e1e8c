package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/castlereach/dealdesk/pkg/pagination"
	"github.com/castlereach/dealdesk/pkg/query"
	"github.com/castlereach/dealdesk/pkg/repository"
)

// System defines the public contract for the audit trail.
type System interface {
	Handler() *Handler

	// Record appends an entry to the trail. Failures are logged, never
	// returned: auditing must not break the audited operation.
	Record(ctx context.Context, entry Entry)

	List(
		ctx context.Context,
		firmID string,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Entry], error)
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an audit repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "audit"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Record(ctx context.Context, entry Entry) {
	var metadata []byte
	if entry.Metadata != nil {
		var err error
		if metadata, err = json.Marshal(entry.Metadata); err != nil {
			r.logger.Error("marshal audit metadata failed", "error", err)
			metadata = nil
		}
	}

	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO audit_logs(actor, firm_id, action, resource_type, resource_id, ip_address, user_agent, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.Actor,
		entry.FirmID,
		entry.Action,
		entry.ResourceType,
		entry.ResourceID,
		entry.IPAddress,
		entry.UserAgent,
		metadata,
	)
	if err != nil {
		r.logger.Error("audit record failed", "action", entry.Action, "error", err)
	}
}

func (r *repo) List(
	ctx context.Context,
	firmID string,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Entry], error) {
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
		return nil, fmt.Errorf("count audit entries: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	entries, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}

	result := pagination.NewPageResult(entries, total, page.Page, page.PageSize)
	return &result, nil
}
