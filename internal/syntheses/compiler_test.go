package syntheses

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/skills"
)

type stubSynthStore struct {
	deal          *dealSnapshot
	findings      map[string]skills.Findings
	included      []string
	rowID         uuid.UUID
	generatingErr error

	calls        []string
	generatingID uuid.UUID
	persistIDs   []uuid.UUID
	persisted    []*output
	failedID     uuid.UUID
	failCause    error
	failCalls    int
}

func (s *stubSynthStore) dealSnapshot(context.Context, string, uuid.UUID) (*dealSnapshot, error) {
	s.calls = append(s.calls, "dealSnapshot")
	return s.deal, nil
}

func (s *stubSynthStore) completedFindings(
	context.Context,
	uuid.UUID,
) (map[string]skills.Findings, []string, error) {
	s.calls = append(s.calls, "completedFindings")
	return s.findings, s.included, nil
}

func (s *stubSynthStore) getOrCreate(context.Context, uuid.UUID) (uuid.UUID, error) {
	s.calls = append(s.calls, "getOrCreate")
	return s.rowID, nil
}

func (s *stubSynthStore) markGenerating(_ context.Context, id uuid.UUID) error {
	s.calls = append(s.calls, "markGenerating")
	s.generatingID = id
	return s.generatingErr
}

func (s *stubSynthStore) markFailed(_ context.Context, id uuid.UUID, cause error) {
	s.calls = append(s.calls, "markFailed")
	s.failedID = id
	s.failCause = cause
	s.failCalls++
}

func (s *stubSynthStore) persist(_ context.Context, id uuid.UUID, _ uuid.UUID, out *output) error {
	s.calls = append(s.calls, "persist")
	s.persistIDs = append(s.persistIDs, id)
	s.persisted = append(s.persisted, out)
	return nil
}

// orderedCompleter records its invocation in the store's call log so
// tests can assert ordering against the book-keeping writes.
type orderedCompleter struct {
	store    *stubSynthStore
	response string
	err      error
}

func (c *orderedCompleter) Complete(context.Context, string) (string, error) {
	c.store.calls = append(c.store.calls, "complete")
	return c.response, c.err
}

const minimalResponse = `{
	"executive_summary": "Strong fundamentals.",
	"key_insights": ["Sticky revenue base"],
	"investment_recommendation": {
		"recommendation": "buy",
		"rationale": "Evidence supports entry.",
		"conviction_level": "medium"
	}
}`

func testStore() *stubSynthStore {
	return &stubSynthStore{
		deal:     &dealSnapshot{id: uuid.New(), company: "TargetCo", sector: "SaaS"},
		findings: map[string]skills.Findings{"market_sizing": {"tam": "1B"}},
		included: []string{"market_sizing"},
		rowID:    uuid.New(),
	}
}

func testCompiler(store *stubSynthStore, completer skills.Completer) *compiler {
	return &compiler{
		store:     store,
		completer: completer,
		logger:    slog.New(slog.DiscardHandler),
	}
}

func TestGenerateRequiresCompletedWorkflow(t *testing.T) {
	store := testStore()
	store.findings = nil
	store.included = nil
	c := testCompiler(store, &orderedCompleter{store: store, response: minimalResponse})

	err := c.generate(context.Background(), "firm-a", uuid.New())
	if !errors.Is(err, ErrNoCompletedWorkflows) {
		t.Fatalf("generate() error = %v, want ErrNoCompletedWorkflows", err)
	}

	for _, call := range store.calls {
		switch call {
		case "getOrCreate", "markGenerating", "complete", "persist", "markFailed":
			t.Errorf("store call %q after rejected gate", call)
		}
	}
}

func TestGeneratePersistsGeneratingBeforeCompletion(t *testing.T) {
	store := testStore()
	c := testCompiler(store, &orderedCompleter{store: store, response: minimalResponse})

	if err := c.generate(context.Background(), "firm-a", uuid.New()); err != nil {
		t.Fatalf("generate() error = %v", err)
	}

	want := []string{
		"dealSnapshot", "completedFindings", "getOrCreate",
		"markGenerating", "complete", "persist",
	}
	if len(store.calls) != len(want) {
		t.Fatalf("store calls = %v, want %v", store.calls, want)
	}
	for i := range want {
		if store.calls[i] != want[i] {
			t.Fatalf("store calls = %v, want %v", store.calls, want)
		}
	}

	if store.generatingID != store.rowID {
		t.Errorf("markGenerating id = %v, want %v", store.generatingID, store.rowID)
	}
	if store.failCalls != 0 {
		t.Errorf("markFailed called %d times, want 0", store.failCalls)
	}
}

func TestGenerateFailureMarksFailed(t *testing.T) {
	store := testStore()
	callErr := errors.New("model unavailable")
	c := testCompiler(store, &orderedCompleter{store: store, err: callErr})

	err := c.generate(context.Background(), "firm-a", uuid.New())
	if !errors.Is(err, callErr) {
		t.Fatalf("generate() error = %v, want cause %v", err, callErr)
	}

	if store.failCalls != 1 {
		t.Fatalf("markFailed called %d times, want 1", store.failCalls)
	}
	if store.failedID != store.rowID {
		t.Errorf("markFailed id = %v, want %v", store.failedID, store.rowID)
	}
	if len(store.persisted) != 0 {
		t.Errorf("persist called %d times after failure, want 0", len(store.persisted))
	}
}

func TestGenerateReusesSynthesisRow(t *testing.T) {
	store := testStore()
	c := testCompiler(store, &orderedCompleter{store: store, response: minimalResponse})

	dealID := uuid.New()
	for range 2 {
		if err := c.generate(context.Background(), "firm-a", dealID); err != nil {
			t.Fatalf("generate() error = %v", err)
		}
	}

	if len(store.persistIDs) != 2 {
		t.Fatalf("persist called %d times, want 2", len(store.persistIDs))
	}
	for _, id := range store.persistIDs {
		if id != store.rowID {
			t.Errorf("persist id = %v, want reused row %v", id, store.rowID)
		}
	}
}

func TestCompileDefaults(t *testing.T) {
	store := testStore()
	deal := store.deal
	findings := store.findings
	included := store.included

	t.Run("missing confidence and score default to 50", func(t *testing.T) {
		c := testCompiler(store, &orderedCompleter{store: store, response: minimalResponse})

		out, err := c.compile(context.Background(), deal, findings, included)
		if err != nil {
			t.Fatalf("compile() error = %v", err)
		}

		if out.overallConfidence != 50.0 {
			t.Errorf("overallConfidence = %v, want 50.0", out.overallConfidence)
		}
		if out.dealScore != 50.0 {
			t.Errorf("dealScore = %v, want 50.0", out.dealScore)
		}
		if out.recommendation != RecommendationBuy {
			t.Errorf("recommendation = %v, want buy", out.recommendation)
		}
	})

	t.Run("provided confidence and score pass through", func(t *testing.T) {
		response := `{
			"executive_summary": "s",
			"investment_recommendation": {"recommendation": "hold", "rationale": "r"},
			"dimension_scores": {"overall_score": 72.5},
			"confidence_assessment": {"overall_confidence": 81}
		}`
		c := testCompiler(store, &orderedCompleter{store: store, response: response})

		out, err := c.compile(context.Background(), deal, findings, included)
		if err != nil {
			t.Fatalf("compile() error = %v", err)
		}

		if out.overallConfidence != 81.0 {
			t.Errorf("overallConfidence = %v, want 81.0", out.overallConfidence)
		}
		if out.dealScore != 72.5 {
			t.Errorf("dealScore = %v, want 72.5", out.dealScore)
		}
	})

	t.Run("zero confidence is not treated as absent", func(t *testing.T) {
		response := `{
			"executive_summary": "s",
			"investment_recommendation": {"recommendation": "pass", "rationale": "r"},
			"confidence_assessment": {"overall_confidence": 0}
		}`
		c := testCompiler(store, &orderedCompleter{store: store, response: response})

		out, err := c.compile(context.Background(), deal, findings, included)
		if err != nil {
			t.Fatalf("compile() error = %v", err)
		}

		if out.overallConfidence != 0 {
			t.Errorf("overallConfidence = %v, want 0", out.overallConfidence)
		}
	})

	t.Run("unparseable response errors", func(t *testing.T) {
		c := testCompiler(store, &orderedCompleter{store: store, response: "not json"})

		if _, err := c.compile(context.Background(), deal, findings, included); err == nil {
			t.Fatal("compile() error = nil, want parse failure")
		}
	})
}
