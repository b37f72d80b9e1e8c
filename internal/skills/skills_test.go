package skills_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/castlereach/dealdesk/internal/skills"
)

// stubCompleter returns a canned response or error and records the last
// prompt it was handed.
type stubCompleter struct {
	response string
	err      error
	prompt   string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  skills.Kind
		ok    bool
	}{
		{"competitive analysis", "competitive_analysis", skills.KindCompetitiveAnalysis, true},
		{"market sizing", "market_sizing", skills.KindMarketSizing, true},
		{"unit economics", "unit_economics", skills.KindUnitEconomics, true},
		{"management assessment", "management_assessment", skills.KindManagementAssessment, true},
		{"financial benchmarking", "financial_benchmarking", skills.KindFinancialBenchmarking, true},
		{"case insensitive", "Market_Sizing", skills.KindMarketSizing, true},
		{"whitespace trimmed", "  unit_economics  ", skills.KindUnitEconomics, true},
		{"unknown kind", "astrology", "", false},
		{"empty string", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := skills.ParseKind(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseKind(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNewRegistry(t *testing.T) {
	reg := skills.NewRegistry(&stubCompleter{})

	if len(reg) != len(skills.Kinds()) {
		t.Fatalf("registry size = %d, want %d", len(reg), len(skills.Kinds()))
	}

	for _, kind := range skills.Kinds() {
		s, ok := reg[kind]
		if !ok {
			t.Errorf("registry missing kind %s", kind)
			continue
		}
		if s.Kind() != kind {
			t.Errorf("skill registered under %s reports kind %s", kind, s.Kind())
		}
		if s.Label() == "" {
			t.Errorf("skill %s has empty label", kind)
		}
	}
}

func TestExecuteDegradedOnCompleterError(t *testing.T) {
	reg := skills.NewRegistry(&stubCompleter{err: errors.New("model unavailable")})

	for _, kind := range skills.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			findings := reg[kind].Execute(context.Background(), skills.Input{
				CompanyName: "Acme Corp",
				Sector:      "B2B SaaS",
			})

			if !findings.Degraded() {
				t.Fatalf("Execute() findings not degraded: %v", findings)
			}
			if msg, ok := findings["error"].(string); !ok || msg == "" {
				t.Errorf("error key = %v, want non-empty string", findings["error"])
			}
		})
	}
}

func TestExecuteDegradedOnUnparseableResponse(t *testing.T) {
	reg := skills.NewRegistry(&stubCompleter{response: "not json at all"})

	findings := reg[skills.KindMarketSizing].Execute(context.Background(), skills.Input{
		CompanyName: "Acme Corp",
		Sector:      "B2B SaaS",
	})

	if !findings.Degraded() {
		t.Fatalf("Execute() findings not degraded: %v", findings)
	}
}

func TestExecuteParsesCleanResponse(t *testing.T) {
	stub := &stubCompleter{response: `{"competitors": [{"name": "Rival"}], "market_position": "strong"}`}
	reg := skills.NewRegistry(stub)

	findings := reg[skills.KindCompetitiveAnalysis].Execute(context.Background(), skills.Input{
		CompanyName: "Acme Corp",
		Sector:      "B2B SaaS",
	})

	if findings.Degraded() {
		t.Fatalf("Execute() degraded unexpectedly: %v", findings)
	}
	if findings["market_position"] != "strong" {
		t.Errorf("market_position = %v, want strong", findings["market_position"])
	}
}

func TestExecuteFiltersQuestionsByRelevance(t *testing.T) {
	stub := &stubCompleter{response: "{}"}
	reg := skills.NewRegistry(stub)

	relevant := "Who are the main competitors?"
	irrelevant := "What is the churn rate?"

	reg[skills.KindCompetitiveAnalysis].Execute(context.Background(), skills.Input{
		CompanyName:  "Acme Corp",
		Sector:       "B2B SaaS",
		KeyQuestions: []string{relevant, irrelevant},
	})

	if !strings.Contains(stub.prompt, relevant) {
		t.Errorf("prompt missing relevant question %q", relevant)
	}
	if strings.Contains(stub.prompt, irrelevant) {
		t.Errorf("prompt includes irrelevant question %q", irrelevant)
	}
}

func TestExecutePromptCarriesDealContext(t *testing.T) {
	stub := &stubCompleter{response: "{}"}
	reg := skills.NewRegistry(stub)

	reg[skills.KindUnitEconomics].Execute(context.Background(), skills.Input{
		CompanyName: "Acme Corp",
		Sector:      "Industrial IoT",
	})

	if !strings.Contains(stub.prompt, "Acme Corp") {
		t.Error("prompt missing company name")
	}
	if !strings.Contains(stub.prompt, "Industrial IoT") {
		t.Error("prompt missing sector")
	}
}

func TestFindingsDegraded(t *testing.T) {
	if (skills.Findings{"error": "boom"}).Degraded() != true {
		t.Error("findings with error key should be degraded")
	}
	if (skills.Findings{"competitors": []any{}}).Degraded() != false {
		t.Error("findings without error key should not be degraded")
	}
}
