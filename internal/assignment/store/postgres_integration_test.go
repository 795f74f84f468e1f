//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"plangate/internal/assignment/models"
	id "plangate/pkg/domain"
	"plangate/pkg/platform/sentinel"
	"plangate/pkg/testutil/containers"
)

// =============================================================================
// Assignment Postgres Store Integration Suite
// =============================================================================

type AssignmentPostgresSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
}

func TestAssignmentPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AssignmentPostgresSuite))
}

func (s *AssignmentPostgresSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *AssignmentPostgresSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(context.Background(), "plan_assignments"))
}

func (s *AssignmentPostgresSuite) assignment(userID id.UserID, planID id.PlanID, at time.Time) *models.Assignment {
	return &models.Assignment{
		ID:             id.NewAssignmentID(),
		UserID:         userID,
		PlanID:         planID,
		AppliedAt:      at,
		EffectiveRoles: []string{"reports.read"},
		Metadata:       map[string]any{"source": "test"},
	}
}

func (s *AssignmentPostgresSuite) TestAppendAndCurrent() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	first := s.assignment("user-1", "basic", now)
	s.Require().NoError(s.store.Assign(ctx, first))

	// Same applied_at on purpose; the sequence column decides "current".
	second := s.assignment("user-1", "pro", now)
	s.Require().NoError(s.store.ChangePlan(ctx, "user-1", second))

	current, err := s.store.FindCurrentByUser(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(second.ID, current.ID)
	s.Equal([]string{"reports.read"}, current.EffectiveRoles)
	s.Equal("test", current.Metadata["source"])
}

func (s *AssignmentPostgresSuite) TestHistoryOrder() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	s.Require().NoError(s.store.Assign(ctx, s.assignment("user-1", "basic", now)))
	s.Require().NoError(s.store.ChangePlan(ctx, "user-1", s.assignment("user-1", "pro", now.Add(time.Minute))))
	s.Require().NoError(s.store.Assign(ctx, s.assignment("user-2", "basic", now)))

	history, err := s.store.ListHistory(ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(id.PlanID("basic"), history[0].PlanID)
	s.Equal(id.PlanID("pro"), history[1].PlanID)
}

func (s *AssignmentPostgresSuite) TestNoAssignment() {
	_, err := s.store.FindCurrentByUser(context.Background(), "nobody")
	s.True(errors.Is(err, sentinel.ErrNotFound))

	history, err := s.store.ListHistory(context.Background(), "nobody")
	s.Require().NoError(err)
	s.Empty(history)
}
