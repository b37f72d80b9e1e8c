package syntheses

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for synthesis domain operations.
// Reads are firm-scoped: records outside the caller's firm behave as if
// they do not exist.
type System interface {
	Handler() *Handler

	// Get returns the deal's synthesis, or ErrNotFound if none exists.
	Get(ctx context.Context, firmID string, dealID uuid.UUID) (*Synthesis, error)

	// Generate compiles the deal's completed workflow findings into its
	// synthesis record. It requires at least one completed workflow and
	// is idempotent over the row: repeated calls regenerate the same
	// synthesis in place.
	Generate(ctx context.Context, firmID string, dealID uuid.UUID) (*Synthesis, error)
}
