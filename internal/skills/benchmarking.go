package skills

import (
	"context"
	"fmt"
)

type financialBenchmarking struct {
	completer Completer
}

func (s *financialBenchmarking) Kind() Kind    { return KindFinancialBenchmarking }
func (s *financialBenchmarking) Label() string { return "Benchmarking financials" }

func (s *financialBenchmarking) Execute(ctx context.Context, in Input) Findings {
	questions := relevantQuestions(
		in.KeyQuestions,
		"benchmark", "financial", "metric", "performance", "comparison", "peer",
	)
	prompt := benchmarkingPrompt(in, questions)
	return run(ctx, s.completer, prompt, degradedBenchmarking)
}

func degradedBenchmarking(err error) Findings {
	return Findings{
		"error":                 err.Error(),
		"revenue_metrics":       map[string]any{},
		"profitability_metrics": map[string]any{},
		"efficiency_metrics":    map[string]any{},
		"growth_metrics":        map[string]any{},
		"capital_efficiency":    map[string]any{},
		"overall_assessment":    map[string]any{},
		"sources":               []any{},
	}
}

func benchmarkingPrompt(in Input, questions []string) string {
	return fmt.Sprintf(`You are a financial analyst conducting benchmarking analysis for a PE deal.

Company: %s
Sector: %s

Key Questions:
%s
Additional Context:
%s

Conduct a financial benchmarking analysis and return JSON with this structure:
{
    "revenue_metrics": {
        "revenue_growth": {
            "company_metric": "X%% YoY",
            "industry_median": "Y%% YoY",
            "industry_top_quartile": "Z%% YoY",
            "assessment": "above/at/below benchmark"
        },
        "revenue_per_employee": {
            "company_metric": "$X",
            "industry_median": "$Y",
            "assessment": "above/at/below benchmark"
        },
        "arr_per_customer": {
            "company_metric": "$X (if applicable)",
            "industry_median": "$Y",
            "assessment": "above/at/below benchmark"
        }
    },
    "profitability_metrics": {
        "gross_margin": {
            "company_metric": "X%%",
            "industry_median": "Y%%",
            "industry_top_quartile": "Z%%",
            "assessment": "above/at/below benchmark"
        },
        "ebitda_margin": {
            "company_metric": "X%%",
            "industry_median": "Y%%",
            "assessment": "above/at/below benchmark"
        },
        "operating_margin": {
            "company_metric": "X%%",
            "industry_median": "Y%%",
            "assessment": "above/at/below benchmark"
        }
    },
    "efficiency_metrics": {
        "sales_efficiency": {
            "company_metric": "Description or ratio",
            "industry_median": "Benchmark",
            "assessment": "above/at/below benchmark"
        },
        "r_and_d_as_percentage_revenue": {
            "company_metric": "X%%",
            "industry_median": "Y%%",
            "assessment": "above/at/below benchmark"
        },
        "operating_leverage": {
            "assessment": "Description of operating leverage",
            "trend": "improving/stable/deteriorating"
        }
    },
    "growth_metrics": {
        "rule_of_40": {
            "company_score": "Growth%% + Margin%% = X",
            "industry_median": "Y",
            "assessment": "Strong/Adequate/Weak performance"
        },
        "growth_efficiency": {
            "metric": "Growth per dollar spent (if applicable)",
            "assessment": "Efficiency evaluation"
        }
    },
    "capital_efficiency": {
        "burn_multiple": "If applicable for growth companies",
        "cash_conversion": "Cash generation capability",
        "working_capital": "Working capital efficiency"
    },
    "overall_assessment": {
        "relative_performance": "Overall performance vs peers",
        "key_strengths": ["strength 1", "strength 2"],
        "key_weaknesses": ["weakness 1", "weakness 2"],
        "valuation_implications": "How metrics impact valuation"
    },
    "sources": ["source 1", "source 2"]
}

Base your benchmarks on typical %s industry standards. Provide reasonable estimates for industry medians and note all assumptions.`,
		in.CompanyName, in.Sector, bulletList(questions), in.Context, in.Sector)
}
