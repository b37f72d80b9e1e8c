package syntheses

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/skills"
	"github.com/castlereach/dealdesk/pkg/formatting"
)

// Generate compiles the deal's completed workflow findings into its
// synthesis record. The precondition gate is at least one completed
// workflow; nothing else about the deal's status is enforced. The
// generating state is persisted before the completion call so pollers
// see the in-flight record. Any failure from the call onward marks the
// synthesis failed with the message retained, leaves the deal status
// unmodified, and propagates.
func (r *repo) Generate(ctx context.Context, firmID string, dealID uuid.UUID) (*Synthesis, error) {
	c := &compiler{store: r, completer: r.completer, logger: r.logger}
	if err := c.generate(ctx, firmID, dealID); err != nil {
		return nil, err
	}

	result, err := r.Get(ctx, firmID, dealID)
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"synthesis completed",
		"deal_id", dealID,
		"recommendation", result.Recommendation,
	)
	return result, nil
}

// synthesisStore is the persistence surface the compiler drives a
// synthesis through. *repo implements it against postgres.
type synthesisStore interface {
	dealSnapshot(ctx context.Context, firmID string, dealID uuid.UUID) (*dealSnapshot, error)
	completedFindings(ctx context.Context, dealID uuid.UUID) (map[string]skills.Findings, []string, error)
	getOrCreate(ctx context.Context, dealID uuid.UUID) (uuid.UUID, error)
	markGenerating(ctx context.Context, id uuid.UUID) error
	markFailed(ctx context.Context, id uuid.UUID, cause error)
	persist(ctx context.Context, id uuid.UUID, dealID uuid.UUID, out *output) error
}

// compiler runs one synthesis generation end to end.
type compiler struct {
	store     synthesisStore
	completer skills.Completer
	logger    *slog.Logger
}

func (c *compiler) generate(ctx context.Context, firmID string, dealID uuid.UUID) error {
	deal, err := c.store.dealSnapshot(ctx, firmID, dealID)
	if err != nil {
		return err
	}

	findings, included, err := c.store.completedFindings(ctx, dealID)
	if err != nil {
		return err
	}
	if len(included) == 0 {
		return ErrNoCompletedWorkflows
	}

	id, err := c.store.getOrCreate(ctx, dealID)
	if err != nil {
		return err
	}

	if err := c.store.markGenerating(ctx, id); err != nil {
		return err
	}

	c.logger.Info("synthesis generating", "id", id, "deal_id", dealID, "workflows", included)

	out, err := c.compile(ctx, deal, findings, included)
	if err == nil {
		err = c.store.persist(ctx, id, dealID, out)
	}
	if err != nil {
		c.store.markFailed(ctx, id, err)
		c.logger.Error("synthesis failed", "id", id, "error", err)
		return err
	}
	return nil
}

// synthesisResponse is the fixed JSON shape expected from the model.
// Pointer fields distinguish absent values from zeros so defaults apply
// only when the model omitted the field.
type synthesisResponse struct {
	ExecutiveSummary         string   `json:"executive_summary"`
	KeyInsights              []string `json:"key_insights"`
	InvestmentRecommendation struct {
		Recommendation  string `json:"recommendation"`
		Rationale       string `json:"rationale"`
		ConvictionLevel string `json:"conviction_level"`
	} `json:"investment_recommendation"`
	KeyRisks              []Risk             `json:"key_risks"`
	RiskMitigation        []string           `json:"risk_mitigation"`
	KeyOpportunities      []Opportunity      `json:"key_opportunities"`
	ValueCreationLevers   []ValueLever       `json:"value_creation_levers"`
	CrossWorkflowInsights []string           `json:"cross_workflow_insights"`
	DimensionScores       map[string]float64 `json:"dimension_scores"`
	ConfidenceAssessment  struct {
		OverallConfidence     *float64           `json:"overall_confidence"`
		ConfidenceByDimension map[string]float64 `json:"confidence_by_dimension"`
		ConfidenceRationale   string             `json:"confidence_rationale"`
	} `json:"confidence_assessment"`
	InformationGaps      []string   `json:"information_gaps"`
	RecommendedNextSteps []NextStep `json:"recommended_next_steps"`
}

// output carries the mapped synthesis fields ready for persistence.
type output struct {
	executiveSummary      string
	keyInsights           []string
	recommendation        Recommendation
	rationale             string
	overallConfidence     float64
	confidenceByDimension map[string]float64
	keyRisks              []Risk
	riskMitigation        []string
	keyOpportunities      []Opportunity
	valueCreationLevers   []ValueLever
	dealScore             float64
	dimensionScores       map[string]float64
	compiledFindings      map[string]skills.Findings
	crossWorkflowInsights []string
	recommendedNextSteps  []NextStep
	informationGaps       []string
	workflowsIncluded     []string
}

const defaultScore = 50.0

func (c *compiler) compile(
	ctx context.Context,
	deal *dealSnapshot,
	findings map[string]skills.Findings,
	included []string,
) (*output, error) {
	prompt, err := synthesisPrompt(deal, findings)
	if err != nil {
		return nil, err
	}

	content, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("synthesis call: %w", err)
	}

	resp, err := formatting.Parse[synthesisResponse](content)
	if err != nil {
		return nil, fmt.Errorf("parse synthesis response: %w", err)
	}

	out := &output{
		executiveSummary:      resp.ExecutiveSummary,
		keyInsights:           resp.KeyInsights,
		recommendation:        ParseRecommendation(resp.InvestmentRecommendation.Recommendation),
		rationale:             resp.InvestmentRecommendation.Rationale,
		overallConfidence:     defaultScore,
		confidenceByDimension: resp.ConfidenceAssessment.ConfidenceByDimension,
		keyRisks:              resp.KeyRisks,
		riskMitigation:        resp.RiskMitigation,
		keyOpportunities:      resp.KeyOpportunities,
		valueCreationLevers:   resp.ValueCreationLevers,
		dealScore:             defaultScore,
		dimensionScores:       resp.DimensionScores,
		compiledFindings:      findings,
		crossWorkflowInsights: resp.CrossWorkflowInsights,
		recommendedNextSteps:  resp.RecommendedNextSteps,
		informationGaps:       resp.InformationGaps,
		workflowsIncluded:     included,
	}

	if resp.ConfidenceAssessment.OverallConfidence != nil {
		out.overallConfidence = *resp.ConfidenceAssessment.OverallConfidence
	}
	if score, ok := resp.DimensionScores["overall_score"]; ok {
		out.dealScore = score
	}

	return out, nil
}

// document holds the jsonb-encoded output fields.
type document struct {
	keyInsights           []byte
	confidenceByDimension []byte
	keyRisks              []byte
	riskMitigation        []byte
	keyOpportunities      []byte
	valueCreationLevers   []byte
	dimensionScores       []byte
	compiledFindings      []byte
	crossWorkflowInsights []byte
	recommendedNextSteps  []byte
	informationGaps       []byte
	workflowsIncluded     []byte
}

func (o *output) marshal() (*document, error) {
	var (
		d   document
		err error
	)

	fields := []struct {
		name string
		src  any
		dest *[]byte
	}{
		{"key_insights", o.keyInsights, &d.keyInsights},
		{"confidence_by_dimension", o.confidenceByDimension, &d.confidenceByDimension},
		{"key_risks", o.keyRisks, &d.keyRisks},
		{"risk_mitigation", o.riskMitigation, &d.riskMitigation},
		{"key_opportunities", o.keyOpportunities, &d.keyOpportunities},
		{"value_creation_levers", o.valueCreationLevers, &d.valueCreationLevers},
		{"dimension_scores", o.dimensionScores, &d.dimensionScores},
		{"compiled_findings", o.compiledFindings, &d.compiledFindings},
		{"cross_workflow_insights", o.crossWorkflowInsights, &d.crossWorkflowInsights},
		{"recommended_next_steps", o.recommendedNextSteps, &d.recommendedNextSteps},
		{"information_gaps", o.informationGaps, &d.informationGaps},
		{"workflows_included", o.workflowsIncluded, &d.workflowsIncluded},
	}

	for _, f := range fields {
		if *f.dest, err = json.Marshal(f.src); err != nil {
			return nil, fmt.Errorf("marshal %s: %w", f.name, err)
		}
	}

	return &d, nil
}

func synthesisPrompt(deal *dealSnapshot, findings map[string]skills.Findings) (string, error) {
	formatted, err := formatFindings(findings)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are a senior PE investment professional synthesizing comprehensive due diligence findings.

DEAL: %s
SECTOR: %s

ORIGINAL KEY QUESTIONS:
%s
ORIGINAL HYPOTHESES:
%s
ANALYSIS FINDINGS:
%s

Your task is to synthesize these findings into actionable investment insights. Return JSON with this EXACT structure:

{
    "executive_summary": "2-3 paragraph executive summary covering: (1) investment thesis, (2) key strengths/opportunities, (3) major risks/concerns, (4) bottom-line recommendation",
    "key_insights": ["Critical insight 1 that emerged from analysis", "Critical insight 2"],
    "investment_recommendation": {
        "recommendation": "strong_buy|buy|hold|pass|strong_pass",
        "rationale": "Clear 2-3 sentence rationale for this recommendation",
        "conviction_level": "high|medium|low"
    },
    "key_risks": [
        {"risk": "Risk description", "severity": "high|medium|low", "likelihood": "high|medium|low", "impact_area": "market|financial|operational|team|competitive"}
    ],
    "risk_mitigation": ["Mitigation strategy 1", "Mitigation strategy 2"],
    "key_opportunities": [
        {"opportunity": "Opportunity description", "potential_impact": "high|medium|low", "timeframe": "near-term|medium-term|long-term"}
    ],
    "value_creation_levers": [
        {"lever": "Value creation lever description", "priority": "high|medium|low", "estimated_impact": "Description of potential impact"}
    ],
    "cross_workflow_insights": ["Insight that connects findings across multiple analyses"],
    "dimension_scores": {
        "market_attractiveness": 0,
        "competitive_position": 0,
        "financial_performance": 0,
        "management_quality": 0,
        "unit_economics": 0,
        "overall_score": 0
    },
    "confidence_assessment": {
        "overall_confidence": 0,
        "confidence_by_dimension": {
            "competitive_analysis": 0,
            "market_sizing": 0,
            "unit_economics": 0,
            "management_assessment": 0,
            "financial_benchmarking": 0
        },
        "confidence_rationale": "Why this confidence level"
    },
    "information_gaps": ["Critical information still needed"],
    "recommended_next_steps": [
        {"step": "Next step description", "priority": "high|medium|low", "rationale": "Why this step is important"}
    ]
}

All scores and confidence values are 0-100.

IMPORTANT:
- Be objective and data-driven in your analysis
- Highlight both strengths AND weaknesses
- Ensure recommendation aligns with the evidence
- Identify genuine risks, not just theoretical concerns
- Focus on actionable insights
- Return ONLY valid JSON, no other text`,
		deal.company,
		deal.sector,
		bulletList(deal.keyQuestions),
		bulletList(deal.hypotheses),
		formatted,
	), nil
}

var kindHeadings = map[string]string{
	string(skills.KindCompetitiveAnalysis):   "COMPETITIVE ANALYSIS",
	string(skills.KindMarketSizing):          "MARKET SIZING",
	string(skills.KindUnitEconomics):         "UNIT ECONOMICS",
	string(skills.KindManagementAssessment):  "MANAGEMENT ASSESSMENT",
	string(skills.KindFinancialBenchmarking): "FINANCIAL BENCHMARKING",
}

func formatFindings(findings map[string]skills.Findings) (string, error) {
	var b strings.Builder
	divider := strings.Repeat("=", 60)

	for _, kind := range skills.Kinds() {
		f, ok := findings[string(kind)]
		if !ok {
			continue
		}

		heading, ok := kindHeadings[string(kind)]
		if !ok {
			heading = strings.ToUpper(string(kind))
		}

		encoded, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return "", fmt.Errorf("format findings for %s: %w", kind, err)
		}

		fmt.Fprintf(&b, "\n%s\n%s\n%s\n%s\n", divider, heading, divider, encoded)
	}

	return b.String(), nil
}

func bulletList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return b.String()
}
