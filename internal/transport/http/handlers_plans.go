package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"plangate/internal/assignment"
	"plangate/internal/assignment/models"
	"plangate/internal/plan"
	id "plangate/pkg/domain"
	"plangate/pkg/platform/httputil"
)

// PlansHandler exposes plan administration and the assignment lifecycle.
type PlansHandler struct {
	plans       *plan.Service
	assignments *assignment.Service
	logger      *slog.Logger
}

func NewPlansHandler(plans *plan.Service, assignments *assignment.Service, logger *slog.Logger) *PlansHandler {
	return &PlansHandler{plans: plans, assignments: assignments, logger: logger}
}

func (h *PlansHandler) Register(r chi.Router) {
	r.Post("/plans", h.save)
	r.Get("/plans", h.list)
	r.Get("/plans/{planID}", h.get)
	r.Post("/plans/assign", h.assign)
	r.Post("/plans/change", h.change)
	r.Get("/plans/assignments/{userID}", h.history)
	r.Get("/plans/assignments/{userID}/current", h.current)
}

func (h *PlansHandler) save(w http.ResponseWriter, r *http.Request) {
	p, err := httputil.Decode[plan.Plan](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.plans.Save(r.Context(), &p); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, p)
}

func (h *PlansHandler) list(w http.ResponseWriter, r *http.Request) {
	plans, err := h.plans.ListActive(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

func (h *PlansHandler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.plans.Get(r.Context(), id.PlanID(chi.URLParam(r, "planID")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

type assignRequest struct {
	UserID   id.UserID      `json:"userId"`
	PlanID   id.PlanID      `json:"planId"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (h *PlansHandler) assign(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[assignRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	a, err := h.assignments.Assign(r.Context(), req.UserID, req.PlanID, req.Metadata)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
}

type changeRequest struct {
	UserID   id.UserID      `json:"userId"`
	PlanID   id.PlanID      `json:"planId"`
	Reason   string         `json:"reason,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type changeResponse struct {
	Assignment *models.Assignment `json:"assignment"`
	Previous   *models.Assignment `json:"previous,omitempty"`
}

func (h *PlansHandler) change(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[changeRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	next, previous, err := h.assignments.ChangePlan(r.Context(), req.UserID, req.PlanID, req.Reason, req.Metadata)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, changeResponse{Assignment: next, Previous: previous})
}

func (h *PlansHandler) history(w http.ResponseWriter, r *http.Request) {
	history, err := h.assignments.History(r.Context(), id.UserID(chi.URLParam(r, "userID")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"assignments": history})
}

func (h *PlansHandler) current(w http.ResponseWriter, r *http.Request) {
	a, err := h.assignments.Current(r.Context(), id.UserID(chi.URLParam(r, "userID")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}
