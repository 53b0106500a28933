package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/entrega-app/entrega/internal/service/models/user"
)

type contextKey struct{}

var identityKey contextKey

// identityResolver resolves a bearer token to the active identity.
type identityResolver interface {
	Identity(ctx context.Context, token string) (user.User, error)
}

// FromContext returns the authenticated identity set by the middleware.
func FromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(identityKey).(user.User)

	return u, ok
}

// WithIdentity returns a context carrying the identity. Exported for handler
// tests.
func WithIdentity(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, identityKey, u)
}

// TokenFromRequest extracts the bearer token, or "" if there is none.
func TokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}

// NewAuthMiddleware rejects requests without a valid session and stores the
// resolved identity in the request context.
func NewAuthMiddleware(resolver identityResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)

				return
			}

			u, err := resolver.Identity(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid or expired session", http.StatusUnauthorized)

				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), u)))
		})
	}
}
