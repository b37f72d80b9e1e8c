// Package auth verifies bearer tokens against an OIDC provider and
// resolves the authenticated principal for the request. Every deal-desk
// record is partitioned by the principal's firm; handlers scope all
// queries by it so cross-tenant access surfaces as not-found.
package auth

import "context"

// Principal identifies an authenticated caller.
type Principal struct {
	Subject string
	FirmID  string
}

type contextKey struct{}

// WithPrincipal returns a context carrying the given principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext extracts the principal set by the verification middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
