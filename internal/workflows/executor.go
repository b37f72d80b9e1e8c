package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/castlereach/dealdesk/internal/skills"
)

// Execute runs a workflow synchronously to a terminal state. The claim
// rejects anything not pending, so a second concurrent execute of the
// same id surfaces ErrNotPending instead of racing. The skill call
// itself never fails — degraded completions come back as error-flagged
// findings and still complete the workflow. Only book-keeping failures
// (row vanished, marshal error, progress write failure) mark the
// workflow failed and propagate.
func (r *repo) Execute(ctx context.Context, firmID string, id uuid.UUID) (*Workflow, error) {
	w, err := r.Find(ctx, firmID, id)
	if err != nil {
		return nil, err
	}

	ex := &executor{store: r, registry: r.registry, logger: r.logger}
	if err := ex.run(ctx, w); err != nil {
		return nil, err
	}

	result, err := r.Find(ctx, firmID, id)
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"workflow completed",
		"id", id,
		"type", result.WorkflowType,
		"degraded", result.Findings.Degraded(),
	)
	return result, nil
}

// executionStore is the persistence surface the executor drives a
// workflow through. *repo implements it against postgres.
type executionStore interface {
	claim(ctx context.Context, id uuid.UUID, step string) error
	progress(ctx context.Context, id uuid.UUID, percent int, step string) error
	complete(ctx context.Context, id uuid.UUID, findings []byte) error
	fail(ctx context.Context, id uuid.UUID, cause error)
	dealContext(ctx context.Context, dealID uuid.UUID) (dealContext, error)
}

// executor runs one claimed workflow through the analysis state graph
// (prepare → analyze → finalize).
type executor struct {
	store    executionStore
	registry skills.Registry
	logger   *slog.Logger
}

const (
	keyDeal     = "deal"
	keyFindings = "findings"
)

func (e *executor) run(ctx context.Context, w *Workflow) error {
	if err := e.store.claim(ctx, w.ID, "Starting analysis"); err != nil {
		return err
	}

	e.logger.Info("workflow started", "id", w.ID, "type", w.WorkflowType)

	if err := e.analyze(ctx, w); err != nil {
		e.store.fail(ctx, w.ID, err)
		e.logger.Error("workflow failed", "id", w.ID, "error", err)
		return err
	}
	return nil
}

func (e *executor) analyze(ctx context.Context, w *Workflow) error {
	skill, ok := e.registry[w.WorkflowType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSkill, w.WorkflowType)
	}

	graph, err := e.buildGraph(w, skill)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	_, err = graph.Execute(ctx, state.New(nil))
	return err
}

func (e *executor) buildGraph(w *Workflow, skill skills.Skill) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("deal-analysis")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("prepare", e.prepareNode(w, skill)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("analyze", e.analyzeNode(skill)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("finalize", e.finalizeNode(w)); err != nil {
		return nil, err
	}

	// prepare → analyze → finalize (unconditional)
	if err := graph.AddEdge("prepare", "analyze", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("analyze", "finalize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("prepare"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

// prepareNode loads the deal context and reports the skill's label at 20%.
func (e *executor) prepareNode(w *Workflow, skill skills.Skill) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		deal, err := e.store.dealContext(ctx, w.DealID)
		if err != nil {
			return s, err
		}

		if err := e.store.progress(ctx, w.ID, 20, skill.Label()); err != nil {
			return s, err
		}

		return s.Set(keyDeal, deal), nil
	})
}

// analyzeNode runs the skill against the deal context. The skill never
// errors; a degraded completion still flows on to finalize.
func (e *executor) analyzeNode(skill skills.Skill) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		deal, err := dealFromState(s)
		if err != nil {
			return s, err
		}

		findings := skill.Execute(ctx, skills.Input{
			CompanyName:  deal.company,
			Sector:       deal.sector,
			KeyQuestions: deal.keyQuestions,
		})

		return s.Set(keyFindings, findings), nil
	})
}

// finalizeNode reports 80%, marshals the findings, and records
// completion. The completion write is the only path to 100%.
func (e *executor) finalizeNode(w *Workflow) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if err := e.store.progress(ctx, w.ID, 80, "Finalizing analysis"); err != nil {
			return s, err
		}

		findings, err := findingsFromState(s)
		if err != nil {
			return s, err
		}

		payload, err := json.Marshal(findings)
		if err != nil {
			return s, fmt.Errorf("marshal findings: %w", err)
		}

		return s, e.store.complete(ctx, w.ID, payload)
	})
}

func dealFromState(s state.State) (dealContext, error) {
	val, ok := s.Get(keyDeal)
	if !ok {
		return dealContext{}, fmt.Errorf("missing %s in workflow state", keyDeal)
	}

	dc, ok := val.(dealContext)
	if !ok {
		return dealContext{}, fmt.Errorf("%s is not dealContext", keyDeal)
	}

	return dc, nil
}

func findingsFromState(s state.State) (skills.Findings, error) {
	val, ok := s.Get(keyFindings)
	if !ok {
		return nil, fmt.Errorf("missing %s in workflow state", keyFindings)
	}

	f, ok := val.(skills.Findings)
	if !ok {
		return nil, fmt.Errorf("%s is not skills.Findings", keyFindings)
	}

	return f, nil
}

type dealContext struct {
	company      string
	sector       string
	keyQuestions []string
}

func (r *repo) dealContext(ctx context.Context, dealID uuid.UUID) (dealContext, error) {
	var (
		dc        dealContext
		questions []byte
	)

	err := r.db.QueryRowContext(
		ctx,
		`SELECT COALESCE(NULLIF(target_company, ''), name),
		        COALESCE(NULLIF(sector, ''), 'Unknown'),
		        key_questions
		 FROM deals WHERE id = $1`,
		dealID,
	).Scan(&dc.company, &dc.sector, &questions)
	if err != nil {
		return dc, fmt.Errorf("load deal context: %w", err)
	}

	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &dc.keyQuestions); err != nil {
			return dc, fmt.Errorf("unmarshal key questions: %w", err)
		}
	}

	return dc, nil
}
