package workflows

import (
	"context"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/skills"
	"github.com/castlereach/dealdesk/pkg/pagination"
)

// System defines the public contract for workflow domain operations.
// All read paths are firm-scoped: records outside the caller's firm
// behave as if they do not exist.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		firmID string,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Workflow], error)

	Find(ctx context.Context, firmID string, id uuid.UUID) (*Workflow, error)

	// CreateBatch materializes one pending workflow per kind for a deal.
	// Kinds already present for the deal are skipped.
	CreateBatch(ctx context.Context, dealID uuid.UUID, kinds []skills.Kind) ([]Workflow, error)

	// Execute runs a pending workflow synchronously to a terminal state.
	// A workflow that is not pending is rejected with ErrNotPending.
	Execute(ctx context.Context, firmID string, id uuid.UUID) (*Workflow, error)
}
