package api

import (
	"github.com/castlereach/dealdesk/internal/audit"
	"github.com/castlereach/dealdesk/internal/deals"
	"github.com/castlereach/dealdesk/internal/documents"
	"github.com/castlereach/dealdesk/internal/scope"
	"github.com/castlereach/dealdesk/internal/skills"
	"github.com/castlereach/dealdesk/internal/syntheses"
	"github.com/castlereach/dealdesk/internal/workflows"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Deals     deals.System
	Documents documents.System
	Workflows workflows.System
	Syntheses syntheses.System
	Audit     audit.System
}

// NewDomain creates all domain systems from the API runtime. A single
// Completer backed by the configured agent drives scope extraction,
// workflow skills, and synthesis generation.
func NewDomain(runtime *Runtime) *Domain {
	completer := skills.NewAgentCompleter(runtime.Agent)
	registry := skills.NewRegistry(completer)
	extractor := scope.NewExtractor(completer, runtime.Logger)

	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	workflowsSystem := workflows.New(
		runtime.Database.Connection(),
		registry,
		runtime.Logger,
		runtime.Pagination,
	)

	dealsSystem := deals.New(
		runtime.Database.Connection(),
		extractor,
		docsSystem,
		workflowsSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	synthesesSystem := syntheses.New(
		runtime.Database.Connection(),
		completer,
		runtime.Logger,
	)

	auditSystem := audit.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Deals:     dealsSystem,
		Documents: docsSystem,
		Workflows: workflowsSystem,
		Syntheses: synthesesSystem,
		Audit:     auditSystem,
	}
}
