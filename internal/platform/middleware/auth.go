// Package middleware provides the authentication middleware for the HTTP
// transport.
package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	id "plangate/pkg/domain"
	"plangate/pkg/platform/httputil"
	"plangate/pkg/requestcontext"
)

// JWTValidator validates access tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	UserID string
	Roles  []string
	JTI    string
}

// RequireAuth rejects requests without a valid bearer token and stashes the
// authenticated user and roles in the request context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"error":             "unauthorized",
					"error_description": "Missing or invalid Authorization header",
				})
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"error":             "unauthorized",
					"error_description": "Invalid or expired token",
				})
				return
			}

			ctx = requestcontext.WithUserID(ctx, id.UserID(claims.UserID))
			ctx = requestcontext.WithRoles(ctx, claims.Roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose token does not carry the
// given role. Mount it inside RequireAuth.
func RequireRole(role string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !slices.Contains(requestcontext.Roles(ctx), role) {
				logger.WarnContext(ctx, "forbidden - missing role",
					"role", role,
					"user_id", requestcontext.UserID(ctx),
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteJSON(w, http.StatusForbidden, map[string]string{
					"error":             "forbidden",
					"error_description": "Insufficient role for this resource",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
