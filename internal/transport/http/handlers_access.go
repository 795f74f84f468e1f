package httptransport

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"plangate/internal/access"
	id "plangate/pkg/domain"
	"plangate/pkg/platform/httputil"
	"plangate/pkg/requestcontext"
)

// AccessHandler exposes the access decision engine. Evaluations always run
// for the authenticated user; the RBAC verdict is derived from the token's
// roles against the roles the request demands.
type AccessHandler struct {
	service *access.Service
	logger  *slog.Logger
}

func NewAccessHandler(service *access.Service, logger *slog.Logger) *AccessHandler {
	return &AccessHandler{service: service, logger: logger}
}

func (h *AccessHandler) Register(r chi.Router) {
	r.Post("/access/evaluate", h.evaluate)
}

type evaluateRequest struct {
	Module        string         `json:"module"`
	Feature       string         `json:"feature,omitempty"`
	RequiredRoles []string       `json:"requiredRoles,omitempty"`
	Context       map[string]any `json:"context,omitempty"`
}

type evaluateResponse struct {
	Allowed bool          `json:"allowed"`
	Reason  access.Reason `json:"reason"`
	Usage   *access.Usage `json:"usage,omitempty"`
	EventID id.EventID    `json:"eventId"`
}

func (h *AccessHandler) evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := httputil.Decode[evaluateRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decision, err := h.service.EvaluateForUser(ctx, access.EvaluationInput{
		UserID:      requestcontext.UserID(ctx),
		Module:      req.Module,
		Feature:     req.Feature,
		RBACAllowed: hasRoles(requestcontext.Roles(ctx), req.RequiredRoles),
		Context:     req.Context,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, evaluateResponse{
		Allowed: decision.Allowed,
		Reason:  decision.Reason,
		Usage:   decision.Usage,
		EventID: decision.Record.EventID,
	})
}

// hasRoles reports whether granted covers every required role. No required
// roles means the RBAC gate passes.
func hasRoles(granted, required []string) bool {
	for _, role := range required {
		if !slices.Contains(granted, role) {
			return false
		}
	}
	return true
}
