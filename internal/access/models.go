// Package access implements the plan based access decision engine. Every
// evaluation produces exactly one decision and one audit record; a denial is
// an answer, never an error.
package access

import (
	"time"

	"plangate/internal/plan"
	id "plangate/pkg/domain"
)

// Reason explains a decision. Allowed and denied decisions both carry one.
type Reason string

const (
	ReasonPlanInactive       Reason = "plan_inactive"
	ReasonRBACDenied         Reason = "rbac_denied"
	ReasonModuleNotAllowed   Reason = "module_not_allowed"
	ReasonFeatureNotAllowed  Reason = "feature_not_allowed"
	ReasonAllowedByPlan      Reason = "allowed_by_plan"
	ReasonAllowedWithinLimit Reason = "allowed_within_limit"
	ReasonUsageLimitExceeded Reason = "usage_limit_exceeded"
)

// Request is one access check. RBACAllowed is the verdict of the caller's
// role check; the engine combines it with the plan rules but never
// re-derives it. ConsumedOverride, when set, replaces the meter read and is
// honored only for in-process callers.
type Request struct {
	UserID           id.UserID
	Plan             *plan.Plan
	Module           string
	Feature          string
	RBACAllowed      bool
	ConsumedOverride *int
	Context          map[string]any
}

// Usage reports the limit standing that produced a limit-bound decision.
type Usage struct {
	Limit    int         `json:"limit"`
	Consumed int         `json:"consumed"`
	Period   plan.Period `json:"period"`
}

// Record is the audit trail entry for one decision. It is emitted before
// the decision is returned to the caller.
type Record struct {
	EventID      id.EventID     `json:"eventId"`
	Timestamp    time.Time      `json:"timestamp"`
	UserID       id.UserID      `json:"userId"`
	PlanID       id.PlanID      `json:"planId"`
	Module       string         `json:"module"`
	Feature      string         `json:"feature,omitempty"`
	RBACDecision bool           `json:"rbacDecision"`
	PlanDecision bool           `json:"planDecision"`
	Reason       Reason         `json:"reason"`
	Usage        *Usage         `json:"usage,omitempty"`
	Context      map[string]any `json:"context,omitempty"`
}

// Decision is the engine's answer.
type Decision struct {
	Allowed bool    `json:"allowed"`
	Reason  Reason  `json:"reason"`
	Usage   *Usage  `json:"usage,omitempty"`
	Record  *Record `json:"-"`
}
