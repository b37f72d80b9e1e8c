package workflows

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/pkg/query"
	"github.com/castlereach/dealdesk/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "workflows", "w").
	Project("id", "ID").
	Project("deal_id", "DealID").
	Project("workflow_type", "WorkflowType").
	Project("status", "Status").
	Project("progress_percent", "ProgressPercent").
	Project("current_step", "CurrentStep").
	Project("findings", "Findings").
	Project("error_message", "ErrorMessage").
	Project("created_at", "CreatedAt").
	Project("started_at", "StartedAt").
	Project("completed_at", "CompletedAt").
	Join("public", "deals", "d", "INNER JOIN", "w.deal_id = d.id").
	Project("firm_id", "FirmID")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for workflow queries.
// Nil fields are ignored.
type Filters struct {
	DealID       *uuid.UUID `json:"deal_id,omitempty"`
	Status       *string    `json:"status,omitempty"`
	WorkflowType *string    `json:"workflow_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DealID", f.DealID).
		WhereEquals("Status", f.Status).
		WhereEquals("WorkflowType", f.WorkflowType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if d := values.Get("deal_id"); d != "" {
		if id, err := uuid.Parse(d); err == nil {
			f.DealID = &id
		}
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if t := values.Get("workflow_type"); t != "" {
		f.WorkflowType = &t
	}

	return f
}

func scanWorkflow(s repository.Scanner) (Workflow, error) {
	var (
		w        Workflow
		findings []byte
	)

	err := s.Scan(
		&w.ID,
		&w.DealID,
		&w.WorkflowType,
		&w.Status,
		&w.ProgressPercent,
		&w.CurrentStep,
		&findings,
		&w.ErrorMessage,
		&w.CreatedAt,
		&w.StartedAt,
		&w.CompletedAt,
		&w.FirmID,
	)
	if err != nil {
		return w, err
	}

	if len(findings) > 0 {
		if err := json.Unmarshal(findings, &w.Findings); err != nil {
			return w, fmt.Errorf("unmarshal findings: %w", err)
		}
	}

	return w, nil
}
