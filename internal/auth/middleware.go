package auth

import (
	"context"
	"net/http"
	"strings"
)

// CookieName is the cookie carrying the maintainer JWT.
const CookieName = "token"

type contextKey string

const maintainerIDKey contextKey = "maintainerID"

// RequireAuth rejects requests without a valid maintainer token with 401 and
// stores the maintainer ID in the context for the rest.
//
// The token is read from the "token" cookie first, then from an
// "Authorization: Bearer <jwt>" header so that scripts can publish snapshots
// without a cookie jar.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			maintainerID, err := tokens.Validate(extractToken(r))
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := WithMaintainerID(r.Context(), maintainerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithMaintainerID returns a context carrying the authenticated maintainer.
// Exported so handler tests can fake an authenticated request.
func WithMaintainerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, maintainerIDKey, id)
}

// MaintainerIDFromContext returns ("", false) for anonymous requests.
func MaintainerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(maintainerIDKey).(string)
	return id, ok && id != ""
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return ""
}
