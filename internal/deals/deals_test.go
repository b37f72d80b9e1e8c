package deals_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/castlereach/dealdesk/internal/deals"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from deals.Status
		to   deals.Status
		want bool
	}{
		{"draft to analyzing", deals.StatusDraft, deals.StatusAnalyzing, true},
		{"analyzing to synthesis", deals.StatusAnalyzing, deals.StatusSynthesis, true},
		{"synthesis to ready", deals.StatusSynthesis, deals.StatusReady, true},
		{"draft skips to ready", deals.StatusDraft, deals.StatusReady, true},
		{"no backward movement", deals.StatusReady, deals.StatusDraft, false},
		{"no self transition", deals.StatusAnalyzing, deals.StatusAnalyzing, false},
		{"draft to archived", deals.StatusDraft, deals.StatusArchived, true},
		{"ready to archived", deals.StatusReady, deals.StatusArchived, true},
		{"archived stays archived", deals.StatusArchived, deals.StatusArchived, false},
		{"no exit from archived", deals.StatusArchived, deals.StatusDraft, false},
		{"unknown source", deals.Status("bogus"), deals.StatusReady, false},
		{"unknown target", deals.StatusDraft, deals.Status("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("%s.CanTransition(%s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCompany(t *testing.T) {
	t.Run("target company preferred", func(t *testing.T) {
		d := deals.Deal{Name: "Project Falcon", TargetCompany: "Acme Corp"}
		if got := d.Company(); got != "Acme Corp" {
			t.Errorf("Company() = %q, want %q", got, "Acme Corp")
		}
	})

	t.Run("falls back to deal name", func(t *testing.T) {
		d := deals.Deal{Name: "Project Falcon"}
		if got := d.Company(); got != "Project Falcon" {
			t.Errorf("Company() = %q, want %q", got, "Project Falcon")
		}
	})
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", deals.ErrNotFound, http.StatusNotFound},
		{"no documents", deals.ErrNoDocuments, http.StatusBadRequest},
		{"invalid deal", deals.ErrInvalidDeal, http.StatusBadRequest},
		{"invalid transition", deals.ErrInvalidTransition, http.StatusConflict},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", deals.ErrNotFound), http.StatusNotFound},
		{"wrapped transition", fmt.Errorf("archive failed: %w", deals.ErrInvalidTransition), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deals.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"status":         {"analyzing"},
			"sector":         {"B2B SaaS"},
			"deal_type":      {"buyout"},
			"name":           {"falcon"},
			"target_company": {"acme"},
		}

		f := deals.FiltersFromQuery(values)

		if f.Status == nil || *f.Status != "analyzing" {
			t.Errorf("Status = %v, want analyzing", f.Status)
		}
		if f.Sector == nil || *f.Sector != "B2B SaaS" {
			t.Errorf("Sector = %v, want B2B SaaS", f.Sector)
		}
		if f.DealType == nil || *f.DealType != "buyout" {
			t.Errorf("DealType = %v, want buyout", f.DealType)
		}
		if f.Name == nil || *f.Name != "falcon" {
			t.Errorf("Name = %v, want falcon", f.Name)
		}
		if f.TargetCompany == nil || *f.TargetCompany != "acme" {
			t.Errorf("TargetCompany = %v, want acme", f.TargetCompany)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := deals.FiltersFromQuery(url.Values{})

		if f.Status != nil || f.Sector != nil || f.DealType != nil || f.Name != nil || f.TargetCompany != nil {
			t.Errorf("expected all nil fields, got %+v", f)
		}
	})
}
