// Package syntheses implements the synthesis domain: the single
// aggregated investment recommendation derived from a deal's completed
// workflow findings. A deal has at most one synthesis row; regeneration
// recomputes and overwrites every output field in place.
package syntheses

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/skills"
)

// Status is the synthesis state machine position.
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Recommendation is the closed set of investment recommendations.
type Recommendation string

const (
	RecommendationStrongBuy  Recommendation = "strong_buy"
	RecommendationBuy        Recommendation = "buy"
	RecommendationHold       Recommendation = "hold"
	RecommendationPass       Recommendation = "pass"
	RecommendationStrongPass Recommendation = "strong_pass"
)

// ParseRecommendation maps a raw model output string onto the closed
// recommendation set. Unrecognized or missing values map to pass — the
// fail-safe leans toward caution, never toward a buy signal.
func ParseRecommendation(s string) Recommendation {
	switch Recommendation(strings.ToLower(strings.TrimSpace(s))) {
	case RecommendationStrongBuy:
		return RecommendationStrongBuy
	case RecommendationBuy:
		return RecommendationBuy
	case RecommendationHold:
		return RecommendationHold
	case RecommendationStrongPass:
		return RecommendationStrongPass
	default:
		return RecommendationPass
	}
}

// Risk is one identified deal risk.
type Risk struct {
	Risk       string `json:"risk"`
	Severity   string `json:"severity"`
	Likelihood string `json:"likelihood"`
	ImpactArea string `json:"impact_area"`
}

// Opportunity is one identified upside opportunity.
type Opportunity struct {
	Opportunity     string `json:"opportunity"`
	PotentialImpact string `json:"potential_impact"`
	Timeframe       string `json:"timeframe"`
}

// ValueLever is one value-creation lever.
type ValueLever struct {
	Lever           string `json:"lever"`
	Priority        string `json:"priority"`
	EstimatedImpact string `json:"estimated_impact"`
}

// NextStep is one recommended diligence follow-up.
type NextStep struct {
	Step      string `json:"step"`
	Priority  string `json:"priority"`
	Rationale string `json:"rationale"`
}

// Synthesis is the aggregated recommendation document for a deal.
type Synthesis struct {
	ID     uuid.UUID `json:"id"`
	DealID uuid.UUID `json:"deal_id"`
	Status Status    `json:"status"`

	ExecutiveSummary        string         `json:"executive_summary"`
	KeyInsights             []string       `json:"key_insights"`
	Recommendation          Recommendation `json:"recommendation"`
	RecommendationRationale string         `json:"recommendation_rationale"`

	OverallConfidence     float64            `json:"overall_confidence"`
	ConfidenceByDimension map[string]float64 `json:"confidence_by_dimension"`

	KeyRisks            []Risk        `json:"key_risks"`
	RiskMitigation      []string      `json:"risk_mitigation"`
	KeyOpportunities    []Opportunity `json:"key_opportunities"`
	ValueCreationLevers []ValueLever  `json:"value_creation_levers"`

	DealScore       float64            `json:"deal_score"`
	DimensionScores map[string]float64 `json:"dimension_scores"`

	CompiledFindings      map[string]skills.Findings `json:"compiled_findings"`
	CrossWorkflowInsights []string                   `json:"cross_workflow_insights"`
	RecommendedNextSteps  []NextStep                 `json:"recommended_next_steps"`
	InformationGaps       []string                   `json:"information_gaps"`
	WorkflowsIncluded     []string                   `json:"workflows_included"`

	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	// FirmID is resolved through the owning deal for tenancy scoping.
	FirmID string `json:"-"`
}
