package syntheses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/skills"
	"github.com/castlereach/dealdesk/pkg/query"
	"github.com/castlereach/dealdesk/pkg/repository"
)

type repo struct {
	db        *sql.DB
	completer skills.Completer
	logger    *slog.Logger
}

// New creates a synthesis repository implementing the System interface.
func New(db *sql.DB, completer skills.Completer, logger *slog.Logger) System {
	return &repo{
		db:        db,
		completer: completer,
		logger:    logger.With("system", "syntheses"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Get(ctx context.Context, firmID string, dealID uuid.UUID) (*Synthesis, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("FirmID", firmID).
		BuildSingle("DealID", dealID)

	syn, err := repository.QueryOne(ctx, r.db, q, args, scanSynthesis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &syn, nil
}

type dealSnapshot struct {
	id           uuid.UUID
	company      string
	sector       string
	keyQuestions []string
	hypotheses   []string
}

func (r *repo) dealSnapshot(ctx context.Context, firmID string, dealID uuid.UUID) (*dealSnapshot, error) {
	var (
		d          dealSnapshot
		questions  []byte
		hypotheses []byte
	)

	err := r.db.QueryRowContext(
		ctx,
		`SELECT id,
		        COALESCE(NULLIF(target_company, ''), name),
		        COALESCE(NULLIF(sector, ''), 'Unknown'),
		        key_questions, hypotheses
		 FROM deals WHERE id = $1 AND firm_id = $2`,
		dealID, firmID,
	).Scan(&d.id, &d.company, &d.sector, &questions, &hypotheses)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("load deal: %w", err)
	}

	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &d.keyQuestions); err != nil {
			return nil, fmt.Errorf("unmarshal key questions: %w", err)
		}
	}
	if len(hypotheses) > 0 {
		if err := json.Unmarshal(hypotheses, &d.hypotheses); err != nil {
			return nil, fmt.Errorf("unmarshal hypotheses: %w", err)
		}
	}

	return &d, nil
}

// completedFindings gathers the findings of every completed workflow for
// the deal, keyed by workflow kind in canonical kind order.
func (r *repo) completedFindings(
	ctx context.Context,
	dealID uuid.UUID,
) (map[string]skills.Findings, []string, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT workflow_type, findings FROM workflows
		 WHERE deal_id = $1 AND status = 'completed'
		 ORDER BY workflow_type`,
		dealID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("query completed workflows: %w", err)
	}
	defer rows.Close()

	findings := make(map[string]skills.Findings)
	var included []string

	for rows.Next() {
		var (
			kind string
			raw  []byte
		)
		if err := rows.Scan(&kind, &raw); err != nil {
			return nil, nil, err
		}

		var f skills.Findings
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &f); err != nil {
				return nil, nil, fmt.Errorf("unmarshal findings for %s: %w", kind, err)
			}
		}

		findings[kind] = f
		included = append(included, kind)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return findings, included, nil
}

// getOrCreate returns the deal's synthesis row id, inserting the row on
// first request. The unique constraint on deal_id keeps the row singular
// under concurrent first requests.
func (r *repo) getOrCreate(ctx context.Context, dealID uuid.UUID) (uuid.UUID, error) {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO syntheses(id, deal_id, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (deal_id) DO NOTHING`,
		uuid.New(), dealID, StatusPending,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create synthesis: %w", err)
	}

	var id uuid.UUID
	err = r.db.QueryRowContext(
		ctx,
		"SELECT id FROM syntheses WHERE deal_id = $1",
		dealID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load synthesis id: %w", err)
	}

	return id, nil
}

func (r *repo) markGenerating(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE syntheses SET status = $2, error_message = NULL WHERE id = $1",
		id, StatusGenerating,
	)
	if err != nil {
		return fmt.Errorf("mark synthesis generating: %w", err)
	}
	return nil
}

// markFailed records the terminal FAILED state. The cause may be the
// request context's own cancellation, so the update runs detached from
// ctx: otherwise the row would stay generating forever.
func (r *repo) markFailed(ctx context.Context, id uuid.UUID, cause error) {
	err := repository.ExecExpectOne(
		context.WithoutCancel(ctx), r.db,
		"UPDATE syntheses SET status = $2, error_message = $3 WHERE id = $1",
		id, StatusFailed, cause.Error(),
	)
	if err != nil {
		r.logger.Error("failed to mark synthesis failed", "id", id, "error", err)
	}
}

// persist writes every output field and advances the owning deal to
// synthesis in one transaction, so a failure leaves both the synthesis
// row and the deal status untouched.
func (r *repo) persist(ctx context.Context, id uuid.UUID, dealID uuid.UUID, out *output) error {
	document, err := out.marshal()
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			`UPDATE syntheses SET
				status = $2,
				executive_summary = $3,
				key_insights = $4,
				recommendation = $5,
				recommendation_rationale = $6,
				overall_confidence = $7,
				confidence_by_dimension = $8,
				key_risks = $9,
				risk_mitigation = $10,
				key_opportunities = $11,
				value_creation_levers = $12,
				deal_score = $13,
				dimension_scores = $14,
				compiled_findings = $15,
				cross_workflow_insights = $16,
				recommended_next_steps = $17,
				information_gaps = $18,
				workflows_included = $19,
				error_message = NULL,
				completed_at = now()
			 WHERE id = $1`,
			id,
			StatusCompleted,
			out.executiveSummary,
			document.keyInsights,
			out.recommendation,
			out.rationale,
			out.overallConfidence,
			document.confidenceByDimension,
			document.keyRisks,
			document.riskMitigation,
			document.keyOpportunities,
			document.valueCreationLevers,
			out.dealScore,
			document.dimensionScores,
			document.compiledFindings,
			document.crossWorkflowInsights,
			document.recommendedNextSteps,
			document.informationGaps,
			document.workflowsIncluded,
		); err != nil {
			return struct{}{}, fmt.Errorf("persist synthesis: %w", err)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE deals SET status = 'synthesis', updated_at = now() WHERE id = $1",
			dealID,
		); err != nil {
			return struct{}{}, fmt.Errorf("advance deal status: %w", err)
		}

		return struct{}{}, nil
	})

	return err
}
