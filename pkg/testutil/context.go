package testutil

import (
	"net/http"
	"time"

	id "plangate/pkg/domain"
	"plangate/pkg/requestcontext"
)

// WithUser adds an authenticated user and their roles to the request
// context. This simulates what the auth middleware does for authenticated
// requests.
func WithUser(req *http.Request, userID string, roles ...string) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), id.UserID(userID))
	if len(roles) > 0 {
		ctx = requestcontext.WithRoles(ctx, roles)
	}
	return req.WithContext(ctx)
}

// WithRequestTime pins the request-scoped clock.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
