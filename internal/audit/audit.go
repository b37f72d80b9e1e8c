// Package audit records a firm-scoped trail of mutating API actions.
// Recording is best-effort: a failed write is logged and never blocks
// the request that triggered it.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded action.
type Entry struct {
	ID           int64          `json:"id"`
	OccurredAt   time.Time      `json:"occurred_at"`
	Actor        string         `json:"actor"`
	FirmID       string         `json:"firm_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   *uuid.UUID     `json:"resource_id,omitempty"`
	IPAddress    *string        `json:"ip_address,omitempty"`
	UserAgent    *string        `json:"user_agent,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}
