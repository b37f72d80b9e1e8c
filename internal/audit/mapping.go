package audit

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/castlereach/dealdesk/pkg/query"
	"github.com/castlereach/dealdesk/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "audit_logs", "a").
	Project("id", "ID").
	Project("occurred_at", "OccurredAt").
	Project("actor", "Actor").
	Project("firm_id", "FirmID").
	Project("action", "Action").
	Project("resource_type", "ResourceType").
	Project("resource_id", "ResourceID").
	Project("ip_address", "IPAddress").
	Project("user_agent", "UserAgent").
	Project("metadata", "Metadata")

var defaultSort = query.SortField{
	Field:      "OccurredAt",
	Descending: true,
}

// Filters contains optional filtering criteria for audit queries.
type Filters struct {
	Actor        *string `json:"actor,omitempty"`
	Action       *string `json:"action,omitempty"`
	ResourceType *string `json:"resource_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Actor", f.Actor).
		WhereEquals("Action", f.Action).
		WhereEquals("ResourceType", f.ResourceType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if a := values.Get("actor"); a != "" {
		f.Actor = &a
	}

	if a := values.Get("action"); a != "" {
		f.Action = &a
	}

	if rt := values.Get("resource_type"); rt != "" {
		f.ResourceType = &rt
	}

	return f
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var (
		e        Entry
		metadata []byte
	)

	err := s.Scan(
		&e.ID,
		&e.OccurredAt,
		&e.Actor,
		&e.FirmID,
		&e.Action,
		&e.ResourceType,
		&e.ResourceID,
		&e.IPAddress,
		&e.UserAgent,
		&metadata,
	)
	if err != nil {
		return e, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
			return e, fmt.Errorf("unmarshal audit metadata: %w", err)
		}
	}

	return e, nil
}
