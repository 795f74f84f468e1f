package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"plangate/internal/plan"
	"plangate/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
}

func (s *MemoryStoreSuite) TestFindByID() {
	ctx := context.Background()

	s.Run("missing plan returns not found", func() {
		_, err := s.store.FindByID(ctx, "missing")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns saved plan regardless of status", func() {
		s.Require().NoError(s.store.Save(ctx, &plan.Plan{ID: "basic", Status: plan.StatusInactive}))

		got, err := s.store.FindByID(ctx, "basic")
		s.NoError(err)
		s.Equal(plan.StatusInactive, got.Status)
	})

	s.Run("save replaces the whole plan", func() {
		s.Require().NoError(s.store.Save(ctx, &plan.Plan{ID: "basic", Name: "Basic", Status: plan.StatusActive}))
		s.Require().NoError(s.store.Save(ctx, &plan.Plan{ID: "basic", Name: "Basic v2", Status: plan.StatusActive}))

		got, err := s.store.FindByID(ctx, "basic")
		s.NoError(err)
		s.Equal("Basic v2", got.Name)
	})
}

func (s *MemoryStoreSuite) TestFindActiveByID() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, &plan.Plan{ID: "active", Status: plan.StatusActive}))
	s.Require().NoError(s.store.Save(ctx, &plan.Plan{ID: "retired", Status: plan.StatusInactive}))

	s.Run("active plan is returned", func() {
		got, err := s.store.FindActiveByID(ctx, "active")
		s.NoError(err)
		s.Equal(plan.StatusActive, got.Status)
	})

	s.Run("inactive plan reported as not found", func() {
		_, err := s.store.FindActiveByID(ctx, "retired")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestListActive() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, &plan.Plan{ID: "a", Status: plan.StatusActive}))
	s.Require().NoError(s.store.Save(ctx, &plan.Plan{ID: "b", Status: plan.StatusInactive}))
	s.Require().NoError(s.store.Save(ctx, &plan.Plan{ID: "c", Status: plan.StatusActive}))

	plans, err := s.store.ListActive(ctx)
	s.NoError(err)
	s.Len(plans, 2)
}

func (s *MemoryStoreSuite) TestReturnsCopies() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, &plan.Plan{ID: "basic", Name: "Basic", Status: plan.StatusActive}))

	got, err := s.store.FindByID(ctx, "basic")
	s.Require().NoError(err)
	got.Name = "mutated"

	again, err := s.store.FindByID(ctx, "basic")
	s.Require().NoError(err)
	s.Equal("Basic", again.Name)
}
