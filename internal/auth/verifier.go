package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/castlereach/dealdesk/pkg/handlers"
)

// TokenVerifier validates a raw bearer token and returns the principal
// it asserts. Implementations other than the OIDC verifier exist only
// in tests.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (Principal, error)
}

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

type claims struct {
	FirmID string `json:"firm_id"`
}

// NewOIDCVerifier discovers the issuer's configuration and returns a
// TokenVerifier that validates ID tokens for the given client ID. The
// firm identifier is read from the firm_id claim.
func NewOIDCVerifier(ctx context.Context, cfg *Config) (TokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}

	return &oidcVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (v *oidcVerifier) Verify(ctx context.Context, rawToken string) (Principal, error) {
	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return Principal{}, fmt.Errorf("verify token: %w", err)
	}

	var c claims
	if err := token.Claims(&c); err != nil {
		return Principal{}, fmt.Errorf("parse claims: %w", err)
	}

	if c.FirmID == "" {
		return Principal{}, fmt.Errorf("token missing firm_id claim")
	}

	return Principal{Subject: token.Subject, FirmID: c.FirmID}, nil
}

// Middleware returns HTTP middleware that requires a valid bearer token
// and attaches the resolved principal to the request context. Missing
// or invalid credentials yield 401 without detail.
func Middleware(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("system", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			principal, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				logger.Warn("token verification failed", "error", err)
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
