// Package deals implements the deal aggregate: the investment
// opportunity record whose coarse status the analysis pipeline advances
// as a side effect. Status is advisory ordering, not a guard: it moves
// forward through draft → analyzing → synthesis → ready, with archived
// reachable from any state.
package deals

import (
	"time"

	"github.com/google/uuid"
)

// Status is the deal lifecycle position.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusAnalyzing Status = "analyzing"
	StatusSynthesis Status = "synthesis"
	StatusReady     Status = "ready"
	StatusArchived  Status = "archived"
)

var statusOrder = map[Status]int{
	StatusDraft:     0,
	StatusAnalyzing: 1,
	StatusSynthesis: 2,
	StatusReady:     3,
}

// CanTransition reports whether the lifecycle permits moving from s to
// the target status. Forward movement only, except archived, which is
// reachable from anywhere.
func (s Status) CanTransition(to Status) bool {
	if to == StatusArchived {
		return s != StatusArchived
	}

	from, ok := statusOrder[s]
	if !ok {
		return false
	}

	target, ok := statusOrder[to]
	if !ok {
		return false
	}

	return target > from
}

// Deal is a prospective investment opportunity.
type Deal struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	TargetCompany string    `json:"target_company"`
	Sector        string    `json:"sector"`
	DealType      string    `json:"deal_type"`
	Status        Status    `json:"status"`
	KeyQuestions  []string  `json:"key_questions"`
	Hypotheses    []string  `json:"hypotheses"`
	CreatedBy     string    `json:"created_by"`
	FirmID        string    `json:"firm_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Company returns the analysis subject: the target company when known,
// otherwise the deal name.
func (d *Deal) Company() string {
	if d.TargetCompany != "" {
		return d.TargetCompany
	}
	return d.Name
}

// CreateCommand carries the data needed to create a new deal.
type CreateCommand struct {
	Name          string `json:"name"`
	TargetCompany string `json:"target_company"`
	Sector        string `json:"sector"`
	DealType      string `json:"deal_type"`

	CreatedBy string `json:"-"`
	FirmID    string `json:"-"`
}
