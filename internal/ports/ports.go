// Package ports defines repository interfaces consumed by more than one
// service. Single-consumer collaborator interfaces (usage reader, audit sink)
// live next to their consumer instead.
package ports

import (
	"context"

	"plangate/internal/assignment/models"
	"plangate/internal/plan"
	id "plangate/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=../../mocks/ports_mocks.go -package=mocks

// PlanRepository persists plan definitions. Implementations return
// sentinel.ErrNotFound when no plan matches.
type PlanRepository interface {
	// Save inserts or replaces a plan definition. Plans are immutable values;
	// saving an existing ID replaces the whole document.
	Save(ctx context.Context, p *plan.Plan) error

	// FindByID returns the plan regardless of status.
	FindByID(ctx context.Context, planID id.PlanID) (*plan.Plan, error)

	// FindActiveByID returns the plan only when its status is active.
	// An existing but inactive plan is reported as not found.
	FindActiveByID(ctx context.Context, planID id.PlanID) (*plan.Plan, error)

	// ListActive returns all active plans.
	ListActive(ctx context.Context) ([]*plan.Plan, error)
}

// AssignmentRepository persists the append-only plan assignment history.
type AssignmentRepository interface {
	// Assign appends a new assignment to the user's history.
	Assign(ctx context.Context, a *models.Assignment) error

	// ChangePlan appends the replacement assignment. History is never
	// rewritten; the previous assignment stays in place.
	ChangePlan(ctx context.Context, userID id.UserID, next *models.Assignment) error

	// FindCurrentByUser returns the most recently appended assignment,
	// or sentinel.ErrNotFound when the user has none.
	FindCurrentByUser(ctx context.Context, userID id.UserID) (*models.Assignment, error)

	// ListHistory returns the user's assignments ordered oldest to newest.
	ListHistory(ctx context.Context, userID id.UserID) ([]*models.Assignment, error)
}
