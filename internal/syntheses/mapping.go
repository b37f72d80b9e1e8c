package syntheses

import (
	"encoding/json"
	"fmt"

	"github.com/castlereach/dealdesk/pkg/query"
	"github.com/castlereach/dealdesk/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "syntheses", "s").
	Project("id", "ID").
	Project("deal_id", "DealID").
	Project("status", "Status").
	Project("executive_summary", "ExecutiveSummary").
	Project("key_insights", "KeyInsights").
	Project("recommendation", "Recommendation").
	Project("recommendation_rationale", "RecommendationRationale").
	Project("overall_confidence", "OverallConfidence").
	Project("confidence_by_dimension", "ConfidenceByDimension").
	Project("key_risks", "KeyRisks").
	Project("risk_mitigation", "RiskMitigation").
	Project("key_opportunities", "KeyOpportunities").
	Project("value_creation_levers", "ValueCreationLevers").
	Project("deal_score", "DealScore").
	Project("dimension_scores", "DimensionScores").
	Project("compiled_findings", "CompiledFindings").
	Project("cross_workflow_insights", "CrossWorkflowInsights").
	Project("recommended_next_steps", "RecommendedNextSteps").
	Project("information_gaps", "InformationGaps").
	Project("workflows_included", "WorkflowsIncluded").
	Project("error_message", "ErrorMessage").
	Project("created_at", "CreatedAt").
	Project("completed_at", "CompletedAt").
	Join("public", "deals", "d", "INNER JOIN", "s.deal_id = d.id").
	Project("firm_id", "FirmID")

func scanSynthesis(s repository.Scanner) (Synthesis, error) {
	var (
		syn      Synthesis
		document [12][]byte
	)

	err := s.Scan(
		&syn.ID,
		&syn.DealID,
		&syn.Status,
		&syn.ExecutiveSummary,
		&document[0],
		&syn.Recommendation,
		&syn.RecommendationRationale,
		&syn.OverallConfidence,
		&document[1],
		&document[2],
		&document[3],
		&document[4],
		&document[5],
		&syn.DealScore,
		&document[6],
		&document[7],
		&document[8],
		&document[9],
		&document[10],
		&document[11],
		&syn.ErrorMessage,
		&syn.CreatedAt,
		&syn.CompletedAt,
		&syn.FirmID,
	)
	if err != nil {
		return syn, err
	}

	fields := []struct {
		name string
		dest any
		data []byte
	}{
		{"key_insights", &syn.KeyInsights, document[0]},
		{"confidence_by_dimension", &syn.ConfidenceByDimension, document[1]},
		{"key_risks", &syn.KeyRisks, document[2]},
		{"risk_mitigation", &syn.RiskMitigation, document[3]},
		{"key_opportunities", &syn.KeyOpportunities, document[4]},
		{"value_creation_levers", &syn.ValueCreationLevers, document[5]},
		{"dimension_scores", &syn.DimensionScores, document[6]},
		{"compiled_findings", &syn.CompiledFindings, document[7]},
		{"cross_workflow_insights", &syn.CrossWorkflowInsights, document[8]},
		{"recommended_next_steps", &syn.RecommendedNextSteps, document[9]},
		{"information_gaps", &syn.InformationGaps, document[10]},
		{"workflows_included", &syn.WorkflowsIncluded, document[11]},
	}

	for _, f := range fields {
		if len(f.data) == 0 {
			continue
		}
		if err := json.Unmarshal(f.data, f.dest); err != nil {
			return syn, fmt.Errorf("unmarshal %s: %w", f.name, err)
		}
	}

	return syn, nil
}
