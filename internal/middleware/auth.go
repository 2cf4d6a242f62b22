package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"clinic-appointment-api/internal/auth"
	"clinic-appointment-api/internal/model"
)

type ctxKey string

const identityKey ctxKey = "identity"

// deny writes the same error envelope the handlers use.
func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"status":%d,"error":%q}`, status, msg)
}

// Auth gates every authenticated endpoint: it extracts the bearer token,
// verifies it against the token service and puts the resolved identity in
// the request context. A principal that no longer exists is reported as
// unauthorized, never as not-found.
func Auth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				deny(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			id, err := tokens.VerifyAccess(r.Context(), raw)
			if err != nil {
				deny(w, http.StatusUnauthorized, "invalid access token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects non-admin identities. It must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok || id.Role != model.RoleAdmin {
			deny(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// WithIdentity is a test hook for exercising handlers without the full
// middleware chain.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}
