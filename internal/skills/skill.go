// Package skills implements the five fixed deal-analysis skills.
// Each skill builds a dimension-specific prompt from the deal's key
// questions, delegates to an injected Completer, and returns structured
// findings. Skills never return an error: a failed or unparseable
// completion yields a findings object carrying an "error" key with
// empty defaults for every other field, so the enclosing workflow still
// completes with degraded data.
package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/castlereach/dealdesk/pkg/formatting"
)

// Kind identifies one of the fixed analysis skill kinds.
type Kind string

const (
	KindCompetitiveAnalysis   Kind = "competitive_analysis"
	KindMarketSizing          Kind = "market_sizing"
	KindUnitEconomics         Kind = "unit_economics"
	KindManagementAssessment  Kind = "management_assessment"
	KindFinancialBenchmarking Kind = "financial_benchmarking"
)

// Kinds lists every registered skill kind in canonical order.
func Kinds() []Kind {
	return []Kind{
		KindCompetitiveAnalysis,
		KindMarketSizing,
		KindUnitEconomics,
		KindManagementAssessment,
		KindFinancialBenchmarking,
	}
}

// ParseKind maps a raw string to a known Kind. Unknown values return
// false; callers drop them rather than failing.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindCompetitiveAnalysis,
		KindMarketSizing,
		KindUnitEconomics,
		KindManagementAssessment,
		KindFinancialBenchmarking:
		return k, true
	}
	return "", false
}

// Findings is the structured result of one skill execution. The key set
// is fixed per kind; degraded results additionally carry an "error" key.
type Findings map[string]any

// Degraded reports whether the findings carry an error marker from a
// failed completion, as opposed to a clean analysis result.
func (f Findings) Degraded() bool {
	_, ok := f["error"]
	return ok
}

// Input carries the deal context a skill needs to build its prompt.
type Input struct {
	CompanyName  string
	Sector       string
	KeyQuestions []string
	Context      string
}

// Skill is one bounded analysis capability.
type Skill interface {
	// Kind returns the workflow kind this skill serves.
	Kind() Kind

	// Label returns the human-readable step label reported while the
	// skill's completion is in flight.
	Label() string

	// Execute runs the analysis. It never returns an error: completion
	// or parse failures produce degraded findings instead.
	Execute(ctx context.Context, in Input) Findings
}

// Registry maps each skill kind to its implementation.
type Registry map[Kind]Skill

// NewRegistry builds the full skill registry over a shared Completer.
// Adding a kind is a registry entry, not a new conditional branch.
func NewRegistry(c Completer) Registry {
	reg := Registry{}
	for _, s := range []Skill{
		&competitiveAnalysis{completer: c},
		&marketSizing{completer: c},
		&unitEconomics{completer: c},
		&managementAssessment{completer: c},
		&financialBenchmarking{completer: c},
	} {
		reg[s.Kind()] = s
	}
	return reg
}

// relevantQuestions keeps only the questions containing at least one of
// the given keywords (case-insensitive). Irrelevant questions are
// silently excluded from that skill's prompt, not an error.
func relevantQuestions(questions []string, keywords ...string) []string {
	var kept []string
	for _, q := range questions {
		lower := strings.ToLower(q)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				kept = append(kept, q)
				break
			}
		}
	}
	return kept
}

func bulletList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return b.String()
}

// run executes the shared completion-and-parse path. The degraded
// callback supplies the kind-specific error payload.
func run(ctx context.Context, c Completer, prompt string, degraded func(err error) Findings) Findings {
	content, err := c.Complete(ctx, prompt)
	if err != nil {
		return degraded(err)
	}

	findings, err := formatting.Parse[Findings](content)
	if err != nil {
		return degraded(err)
	}

	return findings
}
