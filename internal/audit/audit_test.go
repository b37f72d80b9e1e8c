package audit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/audit"
	"github.com/castlereach/dealdesk/internal/auth"
	"github.com/castlereach/dealdesk/pkg/pagination"
)

type stubSystem struct {
	entries []audit.Entry
}

func (s *stubSystem) Handler() *audit.Handler { return nil }

func (s *stubSystem) Record(_ context.Context, entry audit.Entry) {
	s.entries = append(s.entries, entry)
}

func (s *stubSystem) List(
	_ context.Context,
	_ string,
	_ pagination.PageRequest,
	_ audit.Filters,
) (*pagination.PageResult[audit.Entry], error) {
	return nil, nil
}

func authedRequest(method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	ctx := auth.WithPrincipal(req.Context(), auth.Principal{
		Subject: "analyst@firm.example",
		FirmID:  "firm-1",
	})
	return req.WithContext(ctx)
}

func TestMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	t.Run("records mutating request", func(t *testing.T) {
		sys := &stubSystem{}
		handler := audit.Middleware(sys)(okHandler)

		id := uuid.New()
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest("POST", "/deals/"+id.String()+"/archive"))

		if len(sys.entries) != 1 {
			t.Fatalf("recorded %d entries, want 1", len(sys.entries))
		}

		entry := sys.entries[0]
		if entry.Actor != "analyst@firm.example" {
			t.Errorf("Actor = %q", entry.Actor)
		}
		if entry.FirmID != "firm-1" {
			t.Errorf("FirmID = %q", entry.FirmID)
		}
		if entry.Action != "POST /deals/"+id.String()+"/archive" {
			t.Errorf("Action = %q", entry.Action)
		}
		if entry.ResourceType != "deals" {
			t.Errorf("ResourceType = %q, want deals", entry.ResourceType)
		}
		if entry.ResourceID == nil || *entry.ResourceID != id {
			t.Errorf("ResourceID = %v, want %s", entry.ResourceID, id)
		}
		if entry.Metadata["status"] != http.StatusCreated {
			t.Errorf("Metadata status = %v, want %d", entry.Metadata["status"], http.StatusCreated)
		}
	})

	t.Run("skips reads", func(t *testing.T) {
		sys := &stubSystem{}
		handler := audit.Middleware(sys)(okHandler)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest("GET", "/deals"))

		if len(sys.entries) != 0 {
			t.Errorf("recorded %d entries, want 0", len(sys.entries))
		}
	})

	t.Run("skips unauthenticated requests", func(t *testing.T) {
		sys := &stubSystem{}
		handler := audit.Middleware(sys)(okHandler)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/deals", nil))

		if len(sys.entries) != 0 {
			t.Errorf("recorded %d entries, want 0", len(sys.entries))
		}
	})

	t.Run("path without uuid has nil resource id", func(t *testing.T) {
		sys := &stubSystem{}
		handler := audit.Middleware(sys)(okHandler)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest("POST", "/deals"))

		if len(sys.entries) != 1 {
			t.Fatalf("recorded %d entries, want 1", len(sys.entries))
		}
		if sys.entries[0].ResourceID != nil {
			t.Errorf("ResourceID = %v, want nil", sys.entries[0].ResourceID)
		}
	})
}
