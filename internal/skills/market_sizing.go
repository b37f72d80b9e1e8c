package skills

import (
	"context"
	"fmt"
)

type marketSizing struct {
	completer Completer
}

func (s *marketSizing) Kind() Kind    { return KindMarketSizing }
func (s *marketSizing) Label() string { return "Sizing the market" }

func (s *marketSizing) Execute(ctx context.Context, in Input) Findings {
	questions := relevantQuestions(in.KeyQuestions, "market", "growth", "size")
	prompt := marketSizingPrompt(in, questions)
	return run(ctx, s.completer, prompt, degradedMarketSizing)
}

func degradedMarketSizing(err error) Findings {
	return Findings{
		"error":           err.Error(),
		"market_size":     map[string]any{},
		"growth_analysis": map[string]any{},
		"market_dynamics": map[string]any{},
		"sources":         []any{},
	}
}

func marketSizingPrompt(in Input, questions []string) string {
	return fmt.Sprintf(`You are a market research analyst conducting market sizing for a PE deal.

Company: %s
Sector: %s

Key Questions:
%s
Additional Context:
%s

Conduct a market sizing analysis and return JSON with this structure:
{
    "market_size": {
        "tam": {
            "value_usd": "Total addressable market in USD",
            "methodology": "How this was calculated",
            "assumptions": ["assumption 1", "assumption 2"]
        },
        "sam": {
            "value_usd": "Serviceable addressable market in USD",
            "methodology": "How this was calculated",
            "percentage_of_tam": "X%%"
        },
        "som": {
            "value_usd": "Serviceable obtainable market in USD",
            "methodology": "How this was calculated",
            "percentage_of_sam": "X%%"
        }
    },
    "growth_analysis": {
        "historical_cagr": "X%% (timeframe)",
        "projected_cagr": "X%% (timeframe)",
        "growth_drivers": ["driver 1", "driver 2"],
        "growth_barriers": ["barrier 1", "barrier 2"]
    },
    "market_dynamics": {
        "market_maturity": "emerging/growth/mature/declining",
        "key_trends": ["trend 1", "trend 2"],
        "regulatory_factors": ["factor 1", "factor 2"],
        "technology_impact": "Description of how technology affects the market"
    },
    "sources": ["source 1", "source 2"]
}

Base your analysis on general knowledge of the %s industry. Provide reasonable estimates and clearly note assumptions.`,
		in.CompanyName, in.Sector, bulletList(questions), in.Context, in.Sector)
}
