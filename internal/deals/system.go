package deals

import (
	"context"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/scope"
	"github.com/castlereach/dealdesk/internal/workflows"
	"github.com/castlereach/dealdesk/pkg/pagination"
)

// AnalysisResult reports the outcome of starting analysis for a deal:
// the advanced deal, the extracted scope, and the materialized workflows.
type AnalysisResult struct {
	Deal      *Deal                `json:"deal"`
	Scope     scope.Scope          `json:"scope"`
	Workflows []workflows.Workflow `json:"workflows"`
}

// System defines the public contract for deal domain operations.
// All operations are firm-scoped: deals outside the caller's firm behave
// as if they do not exist.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		firmID string,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Deal], error)

	Find(ctx context.Context, firmID string, id uuid.UUID) (*Deal, error)
	Create(ctx context.Context, cmd CreateCommand) (*Deal, error)

	// Archive moves the deal to archived, reachable from any state.
	Archive(ctx context.Context, firmID string, id uuid.UUID) (*Deal, error)

	// StartAnalysis extracts the analysis scope from the deal's uploaded
	// materials, stores the scope on the deal, advances it to analyzing,
	// and materializes one pending workflow per recommended kind.
	// Unknown recommended kinds are silently dropped.
	StartAnalysis(ctx context.Context, firmID string, id uuid.UUID) (*AnalysisResult, error)
}
