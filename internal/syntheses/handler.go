package syntheses

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/castlereach/dealdesk/internal/auth"
	"github.com/castlereach/dealdesk/pkg/handlers"
	"github.com/castlereach/dealdesk/pkg/routes"
)

// Handler provides HTTP endpoints for synthesis operations, nested under
// the owning deal.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "syntheses"),
	}
}

// Routes returns the route group definition for synthesis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/deals/{dealID}/synthesis",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Get},
			{Method: "POST", Pattern: "/generate", Handler: h.Generate},
		},
	}
}

// Get returns the deal's synthesis record.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrUnauthorized)
		return
	}

	dealID, err := uuid.Parse(r.PathValue("dealID"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrDealNotFound)
		return
	}

	syn, err := h.sys.Get(r.Context(), principal.FirmID, dealID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, syn)
}

// Generate compiles the deal's completed workflow findings into its
// synthesis and returns the terminal record.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrUnauthorized)
		return
	}

	dealID, err := uuid.Parse(r.PathValue("dealID"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrDealNotFound)
		return
	}

	syn, err := h.sys.Generate(r.Context(), principal.FirmID, dealID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, syn)
}
