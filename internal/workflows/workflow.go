// Package workflows implements the analysis workflow domain: one bounded
// analysis task per workflow kind per deal, executed synchronously
// through a linear state machine with coarse progress reporting.
package workflows

import (
	"time"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/skills"
)

// Status is the workflow state machine position. Transitions run
// pending → running → {completed, failed}. Paused is reserved for a
// future pause/resume capability; nothing currently transitions into it.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Workflow is one analysis task owned by a deal.
type Workflow struct {
	ID              uuid.UUID       `json:"id"`
	DealID          uuid.UUID       `json:"deal_id"`
	WorkflowType    skills.Kind     `json:"workflow_type"`
	Status          Status          `json:"status"`
	ProgressPercent int             `json:"progress_percent"`
	CurrentStep     string          `json:"current_step"`
	Findings        skills.Findings `json:"findings"`
	ErrorMessage    *string         `json:"error_message,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	StartedAt       *time.Time      `json:"started_at,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`

	// FirmID is resolved through the owning deal for tenancy scoping.
	FirmID string `json:"-"`
}
