package skills

import (
	"context"
	"fmt"
)

type managementAssessment struct {
	completer Completer
}

func (s *managementAssessment) Kind() Kind    { return KindManagementAssessment }
func (s *managementAssessment) Label() string { return "Assessing management team" }

func (s *managementAssessment) Execute(ctx context.Context, in Input) Findings {
	questions := relevantQuestions(
		in.KeyQuestions,
		"management", "team", "leadership", "executive", "ceo", "founder",
	)
	prompt := managementPrompt(in, questions)
	return run(ctx, s.completer, prompt, degradedManagement)
}

func degradedManagement(err error) Findings {
	return Findings{
		"error":            err.Error(),
		"leadership_team":  map[string]any{},
		"team_assessment":  map[string]any{},
		"track_record":     map[string]any{},
		"gaps_and_risks":   map[string]any{},
		"cultural_factors": map[string]any{},
		"sources":          []any{},
	}
}

func managementPrompt(in Input, questions []string) string {
	return fmt.Sprintf(`You are an executive assessment consultant evaluating the management team for a PE deal.

Company: %s
Sector: %s

Key Questions:
%s
Additional Context:
%s

Conduct a management team assessment and return JSON with this structure:
{
    "leadership_team": {
        "ceo": {
            "background": "Brief background and experience",
            "strengths": ["strength 1", "strength 2"],
            "experience_years_sector": "X years in sector",
            "previous_exits": "Any successful exits or major achievements"
        },
        "cfo": {
            "background": "Brief background",
            "strengths": ["strength 1"],
            "experience_years": "X years"
        },
        "other_key_executives": [
            {
                "role": "CTO/COO/etc",
                "background": "Brief background",
                "strengths": ["strength 1"]
            }
        ]
    },
    "team_assessment": {
        "overall_quality": "strong/adequate/weak",
        "domain_expertise": {
            "rating": "high/medium/low",
            "justification": "Why this rating"
        },
        "execution_capability": {
            "rating": "high/medium/low",
            "justification": "Evidence of execution capability"
        },
        "scaling_experience": {
            "rating": "high/medium/low",
            "justification": "Experience scaling similar businesses"
        }
    },
    "track_record": {
        "key_achievements": ["achievement 1", "achievement 2"],
        "growth_milestones": ["milestone 1", "milestone 2"],
        "challenges_overcome": ["challenge 1", "challenge 2"]
    },
    "gaps_and_risks": {
        "identified_gaps": [
            {
                "area": "Role or capability area",
                "severity": "high/medium/low",
                "description": "Description of the gap"
            }
        ],
        "succession_risks": "Assessment of key person dependencies",
        "mitigation_recommendations": ["recommendation 1", "recommendation 2"]
    },
    "cultural_factors": {
        "leadership_style": "Description of leadership approach",
        "alignment_with_growth": "How culture supports/hinders growth goals",
        "retention_risks": "Assessment of retention risks"
    },
    "sources": ["source 1", "source 2"]
}

Base your assessment on typical %s leadership requirements. Note any assumptions about publicly available information.`,
		in.CompanyName, in.Sector, bulletList(questions), in.Context, in.Sector)
}
