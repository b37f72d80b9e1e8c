package workflows_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/workflows"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", workflows.ErrNotFound, http.StatusNotFound},
		{"duplicate", workflows.ErrDuplicate, http.StatusConflict},
		{"not pending", workflows.ErrNotPending, http.StatusConflict},
		{"unknown skill", workflows.ErrUnknownSkill, http.StatusInternalServerError},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not pending", fmt.Errorf("execute failed: %w", workflows.ErrNotPending), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workflows.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		id := uuid.New()
		values := url.Values{
			"deal_id":       {id.String()},
			"status":        {"completed"},
			"workflow_type": {"market_sizing"},
		}

		f := workflows.FiltersFromQuery(values)

		if f.DealID == nil || *f.DealID != id {
			t.Errorf("DealID = %v, want %s", f.DealID, id)
		}
		if f.Status == nil || *f.Status != "completed" {
			t.Errorf("Status = %v, want completed", f.Status)
		}
		if f.WorkflowType == nil || *f.WorkflowType != "market_sizing" {
			t.Errorf("WorkflowType = %v, want market_sizing", f.WorkflowType)
		}
	})

	t.Run("invalid deal_id ignored", func(t *testing.T) {
		f := workflows.FiltersFromQuery(url.Values{"deal_id": {"not-a-uuid"}})
		if f.DealID != nil {
			t.Errorf("DealID = %v, want nil for invalid UUID", f.DealID)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := workflows.FiltersFromQuery(url.Values{})
		if f.DealID != nil || f.Status != nil || f.WorkflowType != nil {
			t.Errorf("expected all nil fields, got %+v", f)
		}
	})
}
