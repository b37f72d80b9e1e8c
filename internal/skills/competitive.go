package skills

import (
	"context"
	"fmt"
)

type competitiveAnalysis struct {
	completer Completer
}

func (s *competitiveAnalysis) Kind() Kind    { return KindCompetitiveAnalysis }
func (s *competitiveAnalysis) Label() string { return "Analyzing competitors" }

func (s *competitiveAnalysis) Execute(ctx context.Context, in Input) Findings {
	questions := relevantQuestions(in.KeyQuestions, "compet")
	prompt := competitivePrompt(in, questions)
	return run(ctx, s.completer, prompt, degradedCompetitive)
}

func degradedCompetitive(err error) Findings {
	return Findings{
		"error":                err.Error(),
		"competitors":          []any{},
		"market_position":      map[string]any{},
		"competitive_dynamics": map[string]any{},
		"sources":              []any{},
	}
}

func competitivePrompt(in Input, questions []string) string {
	return fmt.Sprintf(`You are a strategy consultant conducting competitive analysis for a PE deal.

Company: %s
Sector: %s

Key Questions:
%s
Additional Context:
%s

Conduct a competitive analysis and return JSON with this structure:
{
    "competitors": [
        {"name": "Competitor 1", "description": "Brief description", "market_share": "estimate if known"}
    ],
    "market_position": {
        "positioning": "How the company is positioned",
        "strengths": ["strength 1", "strength 2"],
        "weaknesses": ["weakness 1", "weakness 2"],
        "differentiation": "What makes them different"
    },
    "competitive_dynamics": {
        "market_structure": "Description of market structure (fragmented, consolidated, etc.)",
        "key_trends": ["trend 1", "trend 2"],
        "threats": ["threat 1", "threat 2"]
    },
    "sources": ["source 1", "source 2"]
}

Base your analysis on general knowledge of the %s industry. Note any assumptions.`,
		in.CompanyName, in.Sector, bulletList(questions), in.Context, in.Sector)
}
