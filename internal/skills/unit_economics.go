package skills

import (
	"context"
	"fmt"
)

type unitEconomics struct {
	completer Completer
}

func (s *unitEconomics) Kind() Kind    { return KindUnitEconomics }
func (s *unitEconomics) Label() string { return "Evaluating unit economics" }

func (s *unitEconomics) Execute(ctx context.Context, in Input) Findings {
	questions := relevantQuestions(
		in.KeyQuestions,
		"unit", "economics", "cac", "ltv", "retention", "churn", "margin",
	)
	prompt := unitEconomicsPrompt(in, questions)
	return run(ctx, s.completer, prompt, degradedUnitEconomics)
}

func degradedUnitEconomics(err error) Findings {
	return Findings{
		"error":                err.Error(),
		"customer_acquisition": map[string]any{},
		"customer_value":       map[string]any{},
		"retention_metrics":    map[string]any{},
		"profitability":        map[string]any{},
		"benchmarks":           map[string]any{},
		"sources":              []any{},
	}
}

func unitEconomicsPrompt(in Input, questions []string) string {
	return fmt.Sprintf(`You are a financial analyst conducting unit economics analysis for a PE deal.

Company: %s
Sector: %s

Key Questions:
%s
Additional Context:
%s

Conduct a unit economics analysis and return JSON with this structure:
{
    "customer_acquisition": {
        "cac": {
            "value_usd": "Customer acquisition cost in USD",
            "methodology": "How this was calculated",
            "trend": "improving/stable/deteriorating"
        },
        "sales_efficiency": {
            "cac_payback_months": "X months",
            "magic_number": "Sales efficiency ratio if applicable"
        }
    },
    "customer_value": {
        "ltv": {
            "value_usd": "Lifetime value in USD",
            "methodology": "How this was calculated",
            "ltv_cac_ratio": "X:1"
        },
        "arpu": "Average revenue per user/account"
    },
    "retention_metrics": {
        "gross_retention": "GRR percentage",
        "net_retention": "NRR percentage",
        "churn_rate": "Monthly/annual churn percentage",
        "expansion_revenue": "Percentage from upsells/cross-sells"
    },
    "profitability": {
        "gross_margin": "X%%",
        "contribution_margin": "X%%",
        "unit_economics_assessment": "Assessment of overall unit economics health",
        "path_to_profitability": "Description of path to profitability"
    },
    "benchmarks": {
        "industry_comparison": "How metrics compare to industry standards",
        "areas_of_strength": ["strength 1", "strength 2"],
        "areas_of_concern": ["concern 1", "concern 2"]
    },
    "sources": ["source 1", "source 2"]
}

Base your analysis on typical %s metrics. Provide reasonable estimates and clearly note assumptions.`,
		in.CompanyName, in.Sector, bulletList(questions), in.Context, in.Sector)
}
