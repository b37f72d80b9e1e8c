package deals

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/documents"
	"github.com/castlereach/dealdesk/internal/skills"
)

// scopeTextLimit caps how much document text is handed to scope
// extraction.
const scopeTextLimit = 10000

// StartAnalysis extracts the analysis scope from the deal's first
// uploaded document, stores it on the deal, advances the deal to
// analyzing, and materializes one pending workflow per recommended
// kind. Scope extraction itself never fails; unreadable document text
// degrades to the default scope rather than blocking the pipeline.
func (r *repo) StartAnalysis(ctx context.Context, firmID string, id uuid.UUID) (*AnalysisResult, error) {
	deal, err := r.Find(ctx, firmID, id)
	if err != nil {
		return nil, err
	}

	text, err := r.documents.Text(ctx, id, scopeTextLimit)
	if err != nil {
		if errors.Is(err, documents.ErrNoDocuments) {
			return nil, ErrNoDocuments
		}
		r.logger.Warn("document text unavailable, extracting from defaults", "deal_id", id, "error", err)
		text = ""
	}

	sector := deal.Sector
	if sector == "" {
		sector = "Unknown"
	}

	dealType := deal.DealType
	if dealType == "" {
		dealType = "buyout"
	}

	sc := r.extractor.Extract(ctx, text, sector, dealType)

	if err := r.applyScope(ctx, id, sc); err != nil {
		return nil, err
	}

	var kinds []skills.Kind
	for _, raw := range sc.RecommendedWorkflows {
		kind, ok := skills.ParseKind(raw)
		if !ok {
			r.logger.Warn("dropping unknown workflow kind", "deal_id", id, "kind", raw)
			continue
		}
		kinds = append(kinds, kind)
	}

	flows, err := r.workflows.CreateBatch(ctx, id, kinds)
	if err != nil {
		return nil, fmt.Errorf("create workflows: %w", err)
	}

	updated, err := r.Find(ctx, firmID, id)
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"analysis started",
		"deal_id", id,
		"questions", len(sc.KeyQuestions),
		"workflows", len(flows),
	)

	return &AnalysisResult{
		Deal:      updated,
		Scope:     sc,
		Workflows: flows,
	}, nil
}
