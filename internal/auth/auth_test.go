package auth_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/castlereach/dealdesk/internal/auth"
)

type stubVerifier struct {
	principal auth.Principal
	err       error
	token     string
}

func (v *stubVerifier) Verify(_ context.Context, rawToken string) (auth.Principal, error) {
	v.token = rawToken
	if v.err != nil {
		return auth.Principal{}, v.err
	}
	return v.principal, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestMiddleware(t *testing.T) {
	principal := auth.Principal{Subject: "analyst@firm.example", FirmID: "firm-1"}

	t.Run("missing authorization header", func(t *testing.T) {
		mw := auth.Middleware(&stubVerifier{principal: principal}, discardLogger())
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be reached")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/deals", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("non-bearer scheme rejected", func(t *testing.T) {
		mw := auth.Middleware(&stubVerifier{principal: principal}, discardLogger())
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be reached")
		}))

		req := httptest.NewRequest("GET", "/deals", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("verification failure rejected", func(t *testing.T) {
		mw := auth.Middleware(&stubVerifier{err: errors.New("expired token")}, discardLogger())
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be reached")
		}))

		req := httptest.NewRequest("GET", "/deals", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("valid token attaches principal", func(t *testing.T) {
		verifier := &stubVerifier{principal: principal}
		mw := auth.Middleware(verifier, discardLogger())

		var got auth.Principal
		var ok bool
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok = auth.FromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/deals", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if verifier.token != "good-token" {
			t.Errorf("verifier received token %q, want good-token", verifier.token)
		}
		if !ok || got != principal {
			t.Errorf("principal = %+v (ok=%v), want %+v", got, ok, principal)
		}
	})
}

func TestFromContext(t *testing.T) {
	t.Run("absent principal", func(t *testing.T) {
		if _, ok := auth.FromContext(context.Background()); ok {
			t.Error("FromContext on empty context should report false")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		p := auth.Principal{Subject: "sub", FirmID: "firm-9"}
		ctx := auth.WithPrincipal(context.Background(), p)

		got, ok := auth.FromContext(ctx)
		if !ok || got != p {
			t.Errorf("FromContext = %+v (ok=%v), want %+v", got, ok, p)
		}
	})
}
