package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/session"
	"github.com/homepro/homepro-api/internal/pkg/jwt"
	"github.com/homepro/homepro-api/internal/pkg/response"
)

type contextKey string

const (
	SessionKey contextKey = "session"
)

// Auth returns middleware that validates the JWT and attaches a session
// object to the request context.
func Auth(jwtService *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := jwtService.ValidateAccessToken(parts[1])
			if err != nil {
				if err == jwt.ErrExpiredToken {
					response.Unauthorized(w, "Token expired")
				} else {
					response.Unauthorized(w, "Invalid token")
				}
				return
			}

			sess := session.Session{
				UserID: claims.UserID,
				Roles:  session.ParseRoles(claims.Roles),
			}
			if claims.ProviderID != nil {
				sess.ProviderID = uuid.NullUUID{UUID: *claims.ProviderID, Valid: true}
			}

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession extracts the session from context
func GetSession(ctx context.Context) session.Session {
	if s, ok := ctx.Value(SessionKey).(session.Session); ok {
		return s
	}
	return session.Session{}
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) uuid.UUID {
	return GetSession(ctx).UserID
}

// RequireRole returns middleware that checks the actor's role set
func RequireRole(roles ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())

			for _, role := range roles {
				if sess.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "Insufficient permissions")
		})
	}
}

// RequireProvider returns middleware that requires the provider role
func RequireProvider() func(http.Handler) http.Handler {
	return RequireRole(session.RoleProvider)
}

// RequireAdmin returns middleware that requires the admin role
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(session.RoleAdmin)
}
