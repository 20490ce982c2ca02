package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/passkeeper/server/internal/server/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Identity is the authenticated caller attached to the request context by
// the bearer token middleware.
type Identity struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
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

// requireAuth validates the bearer token (signature, issuer, audience,
// lifetime) and resolves the user id claim against the credential store so
// the admin flag reflects the stored credential, not the token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		key, err := s.signingKeys.Key(r.Context())
		if err != nil {
			s.logger.Error(r.Context(), "signing key unavailable", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		claims, err := auth.ParseToken(token, key, s.pseudoDomain)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := s.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		identity := &Identity{UserID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

// requireAdmin allows only callers whose stored credential is an admin.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok || !identity.IsAdmin {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
