package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/skills"
)

type storeCall struct {
	name    string
	percent int
	step    string
}

type stubStore struct {
	claimErr    error
	progressErr error
	completeErr error
	dealErr     error
	deal        dealContext

	calls     []storeCall
	completed []byte
	failCause error
	failCalls int
}

func (s *stubStore) claim(_ context.Context, _ uuid.UUID, step string) error {
	s.calls = append(s.calls, storeCall{name: "claim", step: step})
	return s.claimErr
}

func (s *stubStore) progress(_ context.Context, _ uuid.UUID, percent int, step string) error {
	s.calls = append(s.calls, storeCall{name: "progress", percent: percent, step: step})
	return s.progressErr
}

func (s *stubStore) complete(_ context.Context, _ uuid.UUID, findings []byte) error {
	s.calls = append(s.calls, storeCall{name: "complete"})
	s.completed = findings
	return s.completeErr
}

func (s *stubStore) fail(_ context.Context, _ uuid.UUID, cause error) {
	s.failCalls++
	s.failCause = cause
}

func (s *stubStore) dealContext(context.Context, uuid.UUID) (dealContext, error) {
	s.calls = append(s.calls, storeCall{name: "dealContext"})
	return s.deal, s.dealErr
}

type stubSkill struct {
	kind     skills.Kind
	findings skills.Findings
}

func (s *stubSkill) Kind() skills.Kind { return s.kind }

func (s *stubSkill) Label() string { return "Analyzing competitive landscape" }

func (s *stubSkill) Execute(context.Context, skills.Input) skills.Findings {
	return s.findings
}

func testExecutor(store *stubStore, skill skills.Skill) *executor {
	registry := skills.Registry{}
	if skill != nil {
		registry[skill.Kind()] = skill
	}
	return &executor{
		store:    store,
		registry: registry,
		logger:   slog.New(slog.DiscardHandler),
	}
}

func testWorkflow(kind skills.Kind) *Workflow {
	return &Workflow{
		ID:           uuid.New(),
		DealID:       uuid.New(),
		WorkflowType: kind,
		Status:       StatusPending,
	}
}

func TestExecutorRejectsNonPendingClaim(t *testing.T) {
	store := &stubStore{claimErr: ErrNotPending}
	skill := &stubSkill{kind: skills.KindCompetitiveAnalysis}
	ex := testExecutor(store, skill)

	err := ex.run(context.Background(), testWorkflow(skill.kind))
	if !errors.Is(err, ErrNotPending) {
		t.Fatalf("run() error = %v, want ErrNotPending", err)
	}

	for _, c := range store.calls {
		if c.name != "claim" {
			t.Errorf("unexpected store call %q after rejected claim", c.name)
		}
	}
	if store.failCalls != 0 {
		t.Errorf("fail called %d times, want 0", store.failCalls)
	}
}

func TestExecutorHappyPath(t *testing.T) {
	findings := skills.Findings{"competitors": []any{"Acme"}}
	store := &stubStore{deal: dealContext{company: "TargetCo", sector: "SaaS"}}
	skill := &stubSkill{kind: skills.KindCompetitiveAnalysis, findings: findings}
	ex := testExecutor(store, skill)

	if err := ex.run(context.Background(), testWorkflow(skill.kind)); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var (
		names    []string
		percents []int
	)
	for _, c := range store.calls {
		names = append(names, c.name)
		if c.name == "progress" {
			percents = append(percents, c.percent)
		}
	}

	wantNames := []string{"claim", "dealContext", "progress", "progress", "complete"}
	if len(names) != len(wantNames) {
		t.Fatalf("store calls = %v, want %v", names, wantNames)
	}
	for i := range names {
		if names[i] != wantNames[i] {
			t.Fatalf("store calls = %v, want %v", names, wantNames)
		}
	}

	if len(percents) != 2 || percents[0] != 20 || percents[1] != 80 {
		t.Errorf("progress percents = %v, want [20 80]", percents)
	}

	if store.calls[2].step != skill.Label() {
		t.Errorf("first progress step = %q, want %q", store.calls[2].step, skill.Label())
	}
	if store.calls[3].step != "Finalizing analysis" {
		t.Errorf("second progress step = %q, want %q", store.calls[3].step, "Finalizing analysis")
	}

	var stored skills.Findings
	if err := json.Unmarshal(store.completed, &stored); err != nil {
		t.Fatalf("completed payload not valid JSON: %v", err)
	}
	if _, ok := stored["competitors"]; !ok {
		t.Errorf("completed payload missing findings: %v", stored)
	}

	if store.failCalls != 0 {
		t.Errorf("fail called %d times, want 0", store.failCalls)
	}
}

func TestExecutorUnknownSkillFails(t *testing.T) {
	store := &stubStore{}
	ex := testExecutor(store, nil)

	err := ex.run(context.Background(), testWorkflow(skills.KindMarketSizing))
	if !errors.Is(err, ErrUnknownSkill) {
		t.Fatalf("run() error = %v, want ErrUnknownSkill", err)
	}

	if store.failCalls != 1 {
		t.Fatalf("fail called %d times, want 1", store.failCalls)
	}
	if !errors.Is(store.failCause, ErrUnknownSkill) {
		t.Errorf("fail cause = %v, want ErrUnknownSkill", store.failCause)
	}
}

func TestExecutorProgressFailureMarksFailed(t *testing.T) {
	progressErr := errors.New("progress write rejected")
	store := &stubStore{progressErr: progressErr}
	skill := &stubSkill{kind: skills.KindCompetitiveAnalysis}
	ex := testExecutor(store, skill)

	err := ex.run(context.Background(), testWorkflow(skill.kind))
	if err == nil {
		t.Fatal("run() error = nil, want progress failure")
	}
	if !strings.Contains(err.Error(), progressErr.Error()) {
		t.Errorf("run() error = %v, want cause %v", err, progressErr)
	}

	if store.failCalls != 1 {
		t.Fatalf("fail called %d times, want 1", store.failCalls)
	}
	for _, c := range store.calls {
		if c.name == "complete" {
			t.Error("complete called after progress failure")
		}
	}
}

func TestExecutorDegradedFindingsStillComplete(t *testing.T) {
	degraded := skills.Findings{"error": "completion timed out", "competitors": []any{}}
	store := &stubStore{deal: dealContext{company: "TargetCo", sector: "SaaS"}}
	skill := &stubSkill{kind: skills.KindCompetitiveAnalysis, findings: degraded}
	ex := testExecutor(store, skill)

	if err := ex.run(context.Background(), testWorkflow(skill.kind)); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if store.completed == nil {
		t.Fatal("complete not called for degraded findings")
	}
	if store.failCalls != 0 {
		t.Errorf("fail called %d times, want 0", store.failCalls)
	}

	var stored skills.Findings
	if err := json.Unmarshal(store.completed, &stored); err != nil {
		t.Fatalf("completed payload not valid JSON: %v", err)
	}
	if !stored.Degraded() {
		t.Errorf("stored findings not marked degraded: %v", stored)
	}
}
