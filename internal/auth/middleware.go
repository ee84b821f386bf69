package auth

import (
	"context"
	"net/http"
	"strings"

	"mediassist/internal/httpx"
)

type contextKey string

const identityKey contextKey = "auth.identity"

// Middleware rejects requests without a valid bearer token: 401 when the
// header is missing, 403 when verification fails. The verified identity is
// stored on the request context.
func Middleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httpx.Error(w, http.StatusUnauthorized, "Missing Authorization Header")
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				httpx.Error(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the verified identity, or nil when the request went
// through an unauthenticated route.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}
