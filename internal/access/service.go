package access

import (
	"context"
	"errors"
	"log/slog"

	"plangate/internal/ports"
	id "plangate/pkg/domain"
	dErrors "plangate/pkg/domain-errors"
	"plangate/pkg/platform/sentinel"
)

// Service resolves a user's current plan and runs the decision engine on
// it. Resolution failures are errors, never denials; a caller that gets an
// error learned nothing about the user's access.
type Service struct {
	plans       ports.PlanRepository
	assignments ports.AssignmentRepository
	engine      *Engine
	logger      *slog.Logger
}

// ServiceOption configures optional Service dependencies.
type ServiceOption func(*Service)

func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(plans ports.PlanRepository, assignments ports.AssignmentRepository, engine *Engine, opts ...ServiceOption) (*Service, error) {
	if plans == nil {
		return nil, errors.New("plan repository is required")
	}
	if assignments == nil {
		return nil, errors.New("assignment repository is required")
	}
	if engine == nil {
		return nil, errors.New("decision engine is required")
	}
	s := &Service{
		plans:       plans,
		assignments: assignments,
		engine:      engine,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EvaluationInput is an access check against the user's current plan.
type EvaluationInput struct {
	UserID      id.UserID
	Module      string
	Feature     string
	RBACAllowed bool
	Context     map[string]any
}

// EvaluateForUser looks up the user's current assignment and plan, then
// evaluates the request against them.
func (s *Service) EvaluateForUser(ctx context.Context, in EvaluationInput) (*Decision, error) {
	if in.UserID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user id is required")
	}

	assignment, err := s.assignments.FindCurrentByUser(ctx, in.UserID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "no current plan assignment")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve plan assignment")
	}

	p, err := s.plans.FindByID(ctx, assignment.PlanID)
	if errors.Is(err, sentinel.ErrNotFound) {
		// The assignment references a plan that no longer exists. This is
		// a data integrity problem, not a denial.
		s.logger.ErrorContext(ctx, "assignment references unknown plan",
			"user_id", in.UserID.String(),
			"plan_id", assignment.PlanID.String(),
		)
		return nil, dErrors.New(dErrors.CodeInternal, "assigned plan not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load plan")
	}

	return s.engine.Evaluate(ctx, Request{
		UserID:      in.UserID,
		Plan:        p,
		Module:      in.Module,
		Feature:     in.Feature,
		RBACAllowed: in.RBACAllowed,
		Context:     in.Context,
	})
}
