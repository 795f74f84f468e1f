package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	id "plangate/pkg/domain"
	dErrors "plangate/pkg/domain-errors"
	"plangate/pkg/platform/sentinel"
)

// Repository is the slice of the plan store the service needs. The full
// interface lives in internal/ports; redeclaring the subset here avoids an
// import cycle with the packages that consume both.
type Repository interface {
	Save(ctx context.Context, p *Plan) error
	FindByID(ctx context.Context, planID id.PlanID) (*Plan, error)
	ListActive(ctx context.Context) ([]*Plan, error)
}

// Service manages plan definitions. Plans are immutable documents; an
// update replaces the whole definition under the same ID.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// Option configures optional Service dependencies.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(repo Repository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("plan repository is required")
	}
	s := &Service{
		repo:   repo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save validates and stores a plan definition.
func (s *Service) Save(ctx context.Context, p *Plan) error {
	if err := validate(p); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save plan")
	}
	s.logger.InfoContext(ctx, "plan saved",
		"plan_id", p.ID.String(),
		"status", string(p.Status),
	)
	return nil
}

// Get returns a plan regardless of status.
func (s *Service) Get(ctx context.Context, planID id.PlanID) (*Plan, error) {
	p, err := s.repo.FindByID(ctx, planID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "plan not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load plan")
	}
	return p, nil
}

// ListActive returns all plans currently open for assignment.
func (s *Service) ListActive(ctx context.Context) ([]*Plan, error) {
	plans, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list plans")
	}
	return plans, nil
}

func validate(p *Plan) error {
	if p == nil || p.ID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "plan id is required")
	}
	if p.Status != StatusActive && p.Status != StatusInactive {
		return dErrors.New(dErrors.CodeBadRequest, "plan status must be active or inactive")
	}
	for _, limit := range p.UsageLimits {
		if err := validateLimit(&limit); err != nil {
			return err
		}
	}
	for _, mr := range p.ModuleRules {
		if mr.Module == "" {
			return dErrors.New(dErrors.CodeBadRequest, "module rule requires a module")
		}
		if err := validateLimit(mr.UsageLimit); err != nil {
			return err
		}
		for _, fr := range mr.FeatureRules {
			if err := validateFeatureRule(&fr); err != nil {
				return err
			}
		}
	}
	for _, fr := range p.FeatureRules {
		if err := validateFeatureRule(&fr); err != nil {
			return err
		}
	}
	return nil
}

func validateFeatureRule(fr *FeatureRule) error {
	if fr.Module == "" || fr.Feature == "" {
		return dErrors.New(dErrors.CodeBadRequest, "feature rule requires module and feature")
	}
	return validateLimit(fr.UsageLimit)
}

func validateLimit(limit *UsageLimit) error {
	if limit == nil {
		return nil
	}
	if limit.Limit < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "usage limit must not be negative")
	}
	if !limit.Period.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown usage period %q", limit.Period))
	}
	return nil
}
