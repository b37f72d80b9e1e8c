package audit

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/auth"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records every mutating request (POST, PUT, PATCH, DELETE)
// made by an authenticated principal. It must run inside the auth
// middleware so the principal is already resolved.
func Middleware(sys System) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			principal, ok := auth.FromContext(r.Context())
			if !ok {
				return
			}

			resourceType, resourceID := parseResource(r.URL.Path)

			entry := Entry{
				Actor:        principal.Subject,
				FirmID:       principal.FirmID,
				Action:       r.Method + " " + r.URL.Path,
				ResourceType: resourceType,
				ResourceID:   resourceID,
				Metadata:     map[string]any{"status": rec.status},
			}

			if addr := r.RemoteAddr; addr != "" {
				if host := stripPort(addr); host != "" {
					entry.IPAddress = &host
				}
			}

			if ua := r.UserAgent(); ua != "" {
				entry.UserAgent = &ua
			}

			sys.Record(r.Context(), entry)
		})
	}
}

// parseResource derives the resource type and id from the request path.
// The first path segment names the resource; the first UUID segment, if
// any, identifies it.
func parseResource(path string) (string, *uuid.UUID) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "unknown", nil
	}

	resourceType := segments[0]
	for _, s := range segments[1:] {
		if id, err := uuid.Parse(s); err == nil {
			return resourceType, &id
		}
	}

	return resourceType, nil
}

func stripPort(addr string) string {
	if i := strings.LastIndex(addr, ":"); i > 0 && !strings.Contains(addr[i:], "]") {
		return addr[:i]
	}
	return addr
}
