package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sshuster/viral-video-whisperer-pro/auth"
	"github.com/sshuster/viral-video-whisperer-pro/model"
)

type contextKey string

const identityKey contextKey = "identity"

// SessionAuth validates bearer tokens and attaches the carried identity to
// the request context.
type SessionAuth struct {
	jwtManager *auth.JWTManager
}

// NewSessionAuth creates the authentication middleware.
func NewSessionAuth(jwtManager *auth.JWTManager) *SessionAuth {
	return &SessionAuth{jwtManager: jwtManager}
}

// RequireAuth rejects requests without a valid bearer token.
func (sa *SessionAuth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := sa.identityFromRequest(r)
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "Missing or invalid authorization token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// This is boundary enforcement: hiding admin controls in the UI is not
// sufficient.
func (sa *SessionAuth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := sa.identityFromRequest(r)
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "Missing or invalid authorization token")
			return
		}
		if !identity.IsAdmin() {
			log.Warn().
				Str("username", identity.Username).
				Str("path", r.URL.Path).
				Msg("Non-admin attempted admin route")
			writeAuthError(w, http.StatusForbidden, "Admin role required")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (sa *SessionAuth) identityFromRequest(r *http.Request) (model.Identity, bool) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return model.Identity{}, false
	}

	claims, err := sa.jwtManager.ValidateToken(parts[1])
	if err != nil {
		log.Warn().Err(err).Msg("Invalid token")
		return model.Identity{}, false
	}

	return model.Identity{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     model.Role(claims.Role),
	}, true
}

// IdentityFromContext extracts the authenticated identity placed by
// RequireAuth or RequireAdmin. Callers must handle the absent branch: an
// auth gate upstream is not a guarantee.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
