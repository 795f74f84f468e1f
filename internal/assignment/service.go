// Package assignment orchestrates the plan assignment lifecycle.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"plangate/internal/assignment/models"
	"plangate/internal/plan"
	"plangate/internal/ports"
	id "plangate/pkg/domain"
	dErrors "plangate/pkg/domain-errors"
	"plangate/pkg/platform/sentinel"
	"plangate/pkg/requestcontext"
)

type Service struct {
	plans       ports.PlanRepository
	assignments ports.AssignmentRepository
	logger      *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(plans ports.PlanRepository, assignments ports.AssignmentRepository, opts ...Option) (*Service, error) {
	if plans == nil {
		return nil, fmt.Errorf("plan repository is required")
	}
	if assignments == nil {
		return nil, fmt.Errorf("assignment repository is required")
	}

	svc := &Service{
		plans:       plans,
		assignments: assignments,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Assign appends a new assignment for the user. The target plan must exist
// and be active; anything else is a typed failure, never a denial.
func (s *Service) Assign(ctx context.Context, userID id.UserID, planID id.PlanID, metadata map[string]any) (*models.Assignment, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user_id is required")
	}

	target, err := s.requireActivePlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	a := &models.Assignment{
		ID:             id.NewAssignmentID(),
		UserID:         userID,
		PlanID:         target.ID,
		AppliedAt:      requestcontext.Now(ctx),
		EffectiveRoles: target.MappedRoles(),
		Metadata:       cloneMetadata(metadata),
	}

	if err := s.assignments.Assign(ctx, a); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append assignment")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "plan assigned",
			"user_id", userID,
			"plan_id", target.ID,
			"assignment_id", a.ID,
		)
	}

	return a, nil
}

// ChangePlan appends a replacement assignment, recording the previous
// assignment id and the change reason in the new entry's metadata.
// Returns the new assignment and the previous one (nil when the user had none).
func (s *Service) ChangePlan(ctx context.Context, userID id.UserID, newPlanID id.PlanID, reason string, metadata map[string]any) (*models.Assignment, *models.Assignment, error) {
	if userID.IsNil() {
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "user_id is required")
	}

	target, err := s.requireActivePlan(ctx, newPlanID)
	if err != nil {
		return nil, nil, err
	}

	previous, err := s.assignments.FindCurrentByUser(ctx, userID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read current assignment")
	}

	meta := cloneMetadata(metadata)
	if meta == nil {
		meta = make(map[string]any, 2)
	}
	if reason != "" {
		meta[models.MetadataChangeReason] = reason
	}
	if previous != nil {
		meta[models.MetadataPreviousAssignment] = previous.ID.String()
	}

	next := &models.Assignment{
		ID:             id.NewAssignmentID(),
		UserID:         userID,
		PlanID:         target.ID,
		AppliedAt:      requestcontext.Now(ctx),
		EffectiveRoles: target.MappedRoles(),
		Metadata:       meta,
	}

	if err := s.assignments.ChangePlan(ctx, userID, next); err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append assignment")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "plan changed",
			"user_id", userID,
			"plan_id", target.ID,
			"reason", reason,
		)
	}

	return next, previous, nil
}

// Current returns the user's most recent assignment.
func (s *Service) Current(ctx context.Context, userID id.UserID) (*models.Assignment, error) {
	a, err := s.assignments.FindCurrentByUser(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "no current assignment")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read current assignment")
	}
	return a, nil
}

// History returns the user's assignments ordered oldest to newest.
func (s *Service) History(ctx context.Context, userID id.UserID) ([]*models.Assignment, error) {
	history, err := s.assignments.ListHistory(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assignment history")
	}
	return history, nil
}

// requireActivePlan resolves the target plan for assignment operations.
// A missing plan and an inactive plan both fail the same way: the caller
// asked to bind a plan that cannot currently gate access.
func (s *Service) requireActivePlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	if planID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "plan_id is required")
	}

	target, err := s.plans.FindByID(ctx, planID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeInvalidState, "plan_not_active")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load plan")
	}
	if !target.IsActive() {
		return nil, dErrors.New(dErrors.CodeInvalidState, "plan_not_active")
	}
	return target, nil
}

func cloneMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	clone := make(map[string]any, len(metadata))
	for k, v := range metadata {
		clone[k] = v
	}
	return clone
}
