package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/clinicore/clinic-backend/internal/staff"
)

type contextKey struct{}

var sessionKeyCtx contextKey

// SessionFrom returns the authenticated session stashed by Middleware.
func SessionFrom(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionKeyCtx).(*Session)
	return sess, ok
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

type unauthorizedFunc func(w http.ResponseWriter, status int, message string)

// Middleware authenticates every request and stashes the session in
// the request context. reject writes the error response in the API's
// format so this package stays transport-shape agnostic.
func (m *Manager) Middleware(reject unauthorizedFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				reject(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			sess, err := m.Authenticate(r.Context(), token)
			if err != nil {
				reject(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), sessionKeyCtx, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route to the given roles. Must run after Middleware.
func RequireRole(reject unauthorizedFunc, roles ...staff.Role) func(http.Handler) http.Handler {
	allowed := make(map[staff.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFrom(r.Context())
			if !ok {
				reject(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			if _, ok := allowed[sess.Role]; !ok {
				reject(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
