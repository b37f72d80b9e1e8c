package documents_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/castlereach/dealdesk/internal/documents"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", documents.ErrNotFound, http.StatusNotFound},
		{"deal not found", documents.ErrDealNotFound, http.StatusNotFound},
		{"duplicate", documents.ErrDuplicate, http.StatusConflict},
		{"file too large", documents.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid file", documents.ErrInvalidFile, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped deal not found", fmt.Errorf("create failed: %w", documents.ErrDealNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := documents.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"filename":     {"deck"},
			"content_type": {"application/pdf"},
		}

		f := documents.FiltersFromQuery(values)

		if f.Filename == nil || *f.Filename != "deck" {
			t.Errorf("Filename = %v, want deck", f.Filename)
		}
		if f.ContentType == nil || *f.ContentType != "application/pdf" {
			t.Errorf("ContentType = %v, want application/pdf", f.ContentType)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := documents.FiltersFromQuery(url.Values{})
		if f.Filename != nil || f.ContentType != nil {
			t.Errorf("expected all nil fields, got %+v", f)
		}
	})
}
