// Package scope turns raw deal-material text into a structured analysis
// scope: the key questions to answer, the hypotheses to test, and the
// workflow kinds recommended to run. Extraction never fails: empty input
// and completion failures both fall back to a deterministic default
// scope parameterized by sector.
package scope

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/castlereach/dealdesk/internal/skills"
	"github.com/castlereach/dealdesk/pkg/formatting"
)

// Scope captures the extracted analysis scope for a deal.
type Scope struct {
	KeyQuestions         []string `json:"key_questions"`
	Hypotheses           []string `json:"hypotheses"`
	RecommendedWorkflows []string `json:"recommended_workflows"`
}

// Extractor derives a Scope from deal materials via an injected Completer.
type Extractor struct {
	completer skills.Completer
	logger    *slog.Logger
}

// NewExtractor creates a scope extractor.
func NewExtractor(completer skills.Completer, logger *slog.Logger) *Extractor {
	return &Extractor{
		completer: completer,
		logger:    logger.With("system", "scope"),
	}
}

// Extract derives the analysis scope from the given text. Empty or
// whitespace-only text skips the completion entirely and returns the
// default scope. Completion or parse failures are logged and fall back
// to the same defaults; Extract never returns an error.
func (e *Extractor) Extract(ctx context.Context, text, sector, dealType string) Scope {
	if strings.TrimSpace(text) == "" {
		return DefaultScope(sector)
	}

	content, err := e.completer.Complete(ctx, extractionPrompt(text, sector, dealType))
	if err != nil {
		e.logger.Warn("scope extraction call failed, using defaults", "error", err)
		return DefaultScope(sector)
	}

	parsed, err := formatting.Parse[Scope](content)
	if err != nil {
		e.logger.Warn("scope extraction parse failed, using defaults", "error", err)
		return DefaultScope(sector)
	}

	return parsed
}

// DefaultScope is the deterministic fallback used when no material text
// is available or extraction fails. It recommends every workflow kind
// except management assessment, which needs material evidence to be
// worth running.
func DefaultScope(sector string) Scope {
	return Scope{
		KeyQuestions: []string{
			fmt.Sprintf("What is the competitive landscape in %s?", sector),
			"What are the growth prospects and market dynamics?",
			"Are the unit economics attractive?",
		},
		Hypotheses: []string{
			"The company has a defensible market position",
			"There is a clear path to profitability",
		},
		RecommendedWorkflows: []string{
			string(skills.KindCompetitiveAnalysis),
			string(skills.KindMarketSizing),
			string(skills.KindUnitEconomics),
			string(skills.KindFinancialBenchmarking),
		},
	}
}

func extractionPrompt(text, sector, dealType string) string {
	return fmt.Sprintf(`You are analyzing materials for a PE %s deal in the %s sector.

Extract the following from the provided text:
1. Key questions the investor wants answered
2. Hypotheses to test
3. Recommended analysis workflows

Text:
%s

Return your response as JSON with this structure:
{
    "key_questions": ["question 1", "question 2"],
    "hypotheses": ["hypothesis 1", "hypothesis 2"],
    "recommended_workflows": ["competitive_analysis", "market_sizing", "unit_economics", "management_assessment", "financial_benchmarking"]
}

Only include workflows that are relevant to the questions and sector.`,
		dealType, sector, text)
}
