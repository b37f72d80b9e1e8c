package deals

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/castlereach/dealdesk/pkg/query"
	"github.com/castlereach/dealdesk/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "deals", "d").
	Project("id", "ID").
	Project("name", "Name").
	Project("target_company", "TargetCompany").
	Project("sector", "Sector").
	Project("deal_type", "DealType").
	Project("status", "Status").
	Project("key_questions", "KeyQuestions").
	Project("hypotheses", "Hypotheses").
	Project("created_by", "CreatedBy").
	Project("firm_id", "FirmID").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for deal queries.
// Nil fields are ignored. Status, Sector, and DealType use exact
// matching; Name and TargetCompany use case-insensitive contains.
type Filters struct {
	Status        *string `json:"status,omitempty"`
	Sector        *string `json:"sector,omitempty"`
	DealType      *string `json:"deal_type,omitempty"`
	Name          *string `json:"name,omitempty"`
	TargetCompany *string `json:"target_company,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Sector", f.Sector).
		WhereEquals("DealType", f.DealType).
		WhereContains("Name", f.Name).
		WhereContains("TargetCompany", f.TargetCompany)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if s := values.Get("sector"); s != "" {
		f.Sector = &s
	}

	if d := values.Get("deal_type"); d != "" {
		f.DealType = &d
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if t := values.Get("target_company"); t != "" {
		f.TargetCompany = &t
	}

	return f
}

func scanDeal(s repository.Scanner) (Deal, error) {
	var (
		d          Deal
		questions  []byte
		hypotheses []byte
	)

	err := s.Scan(
		&d.ID,
		&d.Name,
		&d.TargetCompany,
		&d.Sector,
		&d.DealType,
		&d.Status,
		&questions,
		&hypotheses,
		&d.CreatedBy,
		&d.FirmID,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return d, err
	}

	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &d.KeyQuestions); err != nil {
			return d, fmt.Errorf("unmarshal key questions: %w", err)
		}
	}
	if len(hypotheses) > 0 {
		if err := json.Unmarshal(hypotheses, &d.Hypotheses); err != nil {
			return d, fmt.Errorf("unmarshal hypotheses: %w", err)
		}
	}

	return d, nil
}
