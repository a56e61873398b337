package http

import (
	"context"
	"net/http"

	"rentdesk-backend/internal/security"
)

type contextKey int

const claimsKey contextKey = iota

func withClaims(ctx context.Context, claims *security.UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the claims the auth middleware attached to ctx.
func ClaimsFromContext(ctx context.Context) (*security.UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.UserClaims)
	return claims, ok && claims != nil
}

// currentUserID returns the authenticated user or 0 on public routes.
func currentUserID(r *http.Request) int32 {
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		return claims.UserID
	}
	return 0
}
