package api

import (
	"net/http"

	"github.com/castlereach/dealdesk/internal/config"
	"github.com/castlereach/dealdesk/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Deals.Handler().Routes(),
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Workflows.Handler().Routes(),
		domain.Syntheses.Handler().Routes(),
		domain.Audit.Handler().Routes(),
	)
}
