// internal/auth/middleware.go
// Request authentication middleware

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/ember-dating/ember-backend/internal/common/utils"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	usernameKey contextKey = "username"
)

// Middleware authenticates requests using bearer tokens
type Middleware struct {
	jwtSecret string
}

// NewMiddleware creates the auth middleware
func NewMiddleware(jwtSecret string) *Middleware {
	return &Middleware{jwtSecret: jwtSecret}
}

// Authenticate verifies the access token and stores the caller's
// identity in the request context. Browsers cannot set headers on
// WebSocket upgrades, so a token query parameter is accepted too.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing authorization token")
			return
		}

		claims, err := utils.ValidateJWT(tokenString, m.jwtSecret)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if claims.Type != utils.TokenTypeAccess {
			utils.RespondWithError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, usernameKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// UserIDFromContext returns the authenticated user's id
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// UsernameFromContext returns the authenticated user's username
func UsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(usernameKey).(string)
	return name, ok
}
