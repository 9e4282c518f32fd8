package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/touchline/scoutbase/internal/domain/types"
)

type contextKey struct{}

var identityKey contextKey

// IdentityFrom extracts the authenticated identity from a request context.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// TokenFrom extracts the bearer token from the Authorization header.
func TokenFrom(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequireSession rejects requests without a live session and stores the
// resolved identity on the request context.
func RequireSession(store *SessionStore, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := TokenFrom(r)
		if token == "" {
			unauthorized(w)
			return
		}
		id, ok := store.Resolve(token)
		if !ok {
			unauthorized(w)
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, id)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole rejects authenticated requests below the minimum role.
func RequireRole(min types.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok || !id.Role.AtLeast(min) {
			forbidden(w)
			return
		}
		next(w, r)
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"code":"unauthorized","message":"missing or expired session"}`)) //nolint:errcheck
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"code":"forbidden","message":"insufficient role"}`)) //nolint:errcheck
}
