// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/castlereach/dealdesk/internal/audit"
	"github.com/castlereach/dealdesk/internal/auth"
	"github.com/castlereach/dealdesk/internal/config"
	"github.com/castlereach/dealdesk/internal/infrastructure"
	"github.com/castlereach/dealdesk/pkg/middleware"
	"github.com/castlereach/dealdesk/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Every route requires a verified bearer token; mutating requests are
// recorded to the audit trail after they complete.
func NewModule(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	verifier, err := auth.NewOIDCVerifier(ctx, &cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("oidc verifier init failed: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(auth.Middleware(verifier, runtime.Logger))
	m.Use(audit.Middleware(domain.Audit))

	return m, nil
}
