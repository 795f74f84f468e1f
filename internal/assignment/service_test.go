package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"plangate/internal/assignment/models"
	astore "plangate/internal/assignment/store"
	"plangate/internal/plan"
	id "plangate/pkg/domain"
	pstore "plangate/internal/plan/store"
	dErrors "plangate/pkg/domain-errors"
	"plangate/pkg/requestcontext"
)

// =============================================================================
// Assignment Service Test Suite
// =============================================================================

type AssignmentServiceSuite struct {
	suite.Suite
	plans       *pstore.MemoryStore
	assignments *astore.MemoryStore
	service     *Service
}

func TestAssignmentServiceSuite(t *testing.T) {
	suite.Run(t, new(AssignmentServiceSuite))
}

func (s *AssignmentServiceSuite) SetupTest() {
	s.plans = pstore.NewMemory()
	s.assignments = astore.NewMemory()

	var err error
	s.service, err = New(s.plans, s.assignments)
	s.Require().NoError(err)
}

func (s *AssignmentServiceSuite) seedPlan(planID string, status plan.Status) {
	s.Require().NoError(s.plans.Save(context.Background(), &plan.Plan{
		ID:     id.PlanID(planID),
		Status: status,
		RoleMappings: []plan.RoleMapping{
			{PlanRole: "member", RBACRoles: []string{"reports.read", "reports.read", "billing.read"}},
		},
	}))
}

func (s *AssignmentServiceSuite) TestNew() {
	s.Run("nil plan repository returns error", func() {
		_, err := New(nil, s.assignments)
		s.Error(err)
		s.Contains(err.Error(), "plan repository is required")
	})

	s.Run("nil assignment repository returns error", func() {
		_, err := New(s.plans, nil)
		s.Error(err)
		s.Contains(err.Error(), "assignment repository is required")
	})
}

func (s *AssignmentServiceSuite) TestAssign() {
	ctx := context.Background()

	s.Run("missing plan fails with plan_not_active", func() {
		_, err := s.service.Assign(ctx, "user-1", "missing", nil)
		s.Require().Error(err)
		s.Equal(dErrors.CodeInvalidState, dErrors.CodeOf(err))
		s.Equal("plan_not_active", dErrors.MessageOf(err))
	})

	s.Run("inactive plan fails with plan_not_active", func() {
		s.seedPlan("retired", plan.StatusInactive)

		_, err := s.service.Assign(ctx, "user-1", "retired", nil)
		s.Require().Error(err)
		s.Equal("plan_not_active", dErrors.MessageOf(err))
	})

	s.Run("active plan appends assignment with deduplicated roles", func() {
		s.seedPlan("pro", plan.StatusActive)

		a, err := s.service.Assign(ctx, "user-1", "pro", map[string]any{"source": "signup"})
		s.Require().NoError(err)
		s.False(a.ID.IsNil())
		s.ElementsMatch([]string{"reports.read", "billing.read"}, a.EffectiveRoles)
		s.Equal("signup", a.Metadata["source"])

		current, err := s.service.Current(ctx, "user-1")
		s.NoError(err)
		s.Equal(a.ID, current.ID)
	})

	s.Run("uses request-scoped time", func() {
		s.seedPlan("pro", plan.StatusActive)
		fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		a, err := s.service.Assign(requestcontext.WithTime(ctx, fixed), "user-2", "pro", nil)
		s.Require().NoError(err)
		s.Equal(fixed, a.AppliedAt)
	})
}

func (s *AssignmentServiceSuite) TestChangePlan() {
	ctx := context.Background()
	s.seedPlan("basic", plan.StatusActive)
	s.seedPlan("pro", plan.StatusActive)

	s.Run("records previous assignment and reason in metadata", func() {
		first, err := s.service.Assign(ctx, "user-1", "basic", nil)
		s.Require().NoError(err)

		next, previous, err := s.service.ChangePlan(ctx, "user-1", "pro", "upgrade", nil)
		s.Require().NoError(err)
		s.Require().NotNil(previous)
		s.Equal(first.ID, previous.ID)
		s.Equal("upgrade", next.Metadata[models.MetadataChangeReason])
		s.Equal(first.ID.String(), next.Metadata[models.MetadataPreviousAssignment])
	})

	s.Run("first change without prior assignment has no previous", func() {
		next, previous, err := s.service.ChangePlan(ctx, "fresh-user", "pro", "migration", nil)
		s.Require().NoError(err)
		s.Nil(previous)
		s.NotContains(next.Metadata, models.MetadataPreviousAssignment)
	})

	s.Run("history keeps every assignment oldest first", func() {
		_, err := s.service.Assign(ctx, "user-3", "basic", nil)
		s.Require().NoError(err)
		_, _, err = s.service.ChangePlan(ctx, "user-3", "pro", "upgrade", nil)
		s.Require().NoError(err)

		history, err := s.service.History(ctx, "user-3")
		s.Require().NoError(err)
		s.Require().Len(history, 2)
		s.Equal(id.PlanID("basic"), history[0].PlanID)
		s.Equal(id.PlanID("pro"), history[1].PlanID)
	})

	s.Run("inactive target fails and appends nothing", func() {
		s.seedPlan("legacy", plan.StatusInactive)
		_, err := s.service.Assign(ctx, "user-4", "basic", nil)
		s.Require().NoError(err)

		_, _, err = s.service.ChangePlan(ctx, "user-4", "legacy", "downgrade", nil)
		s.Require().Error(err)
		s.Equal("plan_not_active", dErrors.MessageOf(err))

		history, err := s.service.History(ctx, "user-4")
		s.Require().NoError(err)
		s.Len(history, 1)
	})
}

func (s *AssignmentServiceSuite) TestCurrent() {
	s.Run("no assignment is a typed not found", func() {
		_, err := s.service.Current(context.Background(), "nobody")
		s.Require().Error(err)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}
