package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"plangate/internal/auditlog"
	id "plangate/pkg/domain"
)

// =============================================================================
// Audit Memory Store Test Suite
// =============================================================================

type AuditMemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
}

func TestAuditMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(AuditMemoryStoreSuite))
}

func (s *AuditMemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
}

func (s *AuditMemoryStoreSuite) append(t auditlog.EventType, userID id.UserID, module string, at time.Time) {
	s.Require().NoError(s.store.Append(context.Background(), &auditlog.Entry{
		ID:         id.NewEventID(),
		Type:       t,
		UserID:     userID,
		Module:     module,
		OccurredAt: at,
	}))
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 5, 10, hour, minute, 0, 0, time.UTC)
}

func (s *AuditMemoryStoreSuite) TestCountDistinctUsersByEventType() {
	ctx := context.Background()
	s.append(auditlog.EventLoginSucceeded, "user-1", "", at(9, 0))
	s.append(auditlog.EventLoginSucceeded, "user-1", "", at(9, 5))
	s.append(auditlog.EventLoginSucceeded, "user-2", "", at(9, 10))
	s.append(auditlog.EventLoginFailed, "user-3", "", at(9, 15))
	s.append(auditlog.EventLoginSucceeded, "", "", at(9, 20))

	s.Run("counts each user once and skips empty user ids", func() {
		count, err := s.store.CountDistinctUsersByEventType(ctx, auditlog.EventLoginSucceeded, auditlog.TimeRange{})
		s.NoError(err)
		s.Equal(2, count)
	})

	s.Run("range bounds are inclusive", func() {
		from, to := at(9, 5), at(9, 10)
		count, err := s.store.CountDistinctUsersByEventType(ctx, auditlog.EventLoginSucceeded, auditlog.TimeRange{From: &from, To: &to})
		s.NoError(err)
		s.Equal(2, count)
	})

	s.Run("range excludes events outside bounds", func() {
		to := at(9, 4)
		count, err := s.store.CountDistinctUsersByEventType(ctx, auditlog.EventLoginSucceeded, auditlog.TimeRange{To: &to})
		s.NoError(err)
		s.Equal(1, count)
	})
}

func (s *AuditMemoryStoreSuite) TestCountEventsByType() {
	ctx := context.Background()
	s.append(auditlog.EventLoginFailed, "user-1", "", at(10, 0))
	s.append(auditlog.EventLoginFailed, "user-1", "", at(10, 1))
	s.append(auditlog.EventLoginSucceeded, "user-1", "", at(10, 2))

	count, err := s.store.CountEventsByType(ctx, auditlog.EventLoginFailed, auditlog.TimeRange{})
	s.NoError(err)
	s.Equal(2, count)
}

func (s *AuditMemoryStoreSuite) TestAggregateModuleAccesses() {
	ctx := context.Background()
	s.append(auditlog.EventModuleAccessed, "user-1", "reports", at(11, 0))
	s.append(auditlog.EventFeatureAccessed, "user-1", "reports", at(11, 1))
	s.append(auditlog.EventModuleAccessed, "user-2", "billing", at(11, 2))
	s.append(auditlog.EventModuleAccessed, "user-2", "", at(11, 3))
	s.append(auditlog.EventLoginSucceeded, "user-2", "reports", at(11, 4))

	usage, err := s.store.AggregateModuleAccesses(ctx, auditlog.TimeRange{})
	s.Require().NoError(err)
	s.Equal([]auditlog.ModuleUsage{
		{Module: "reports", Count: 2},
		{Module: "billing", Count: 1},
		{Module: auditlog.UnknownModule, Count: 1},
	}, usage)
}

func (s *AuditMemoryStoreSuite) TestAggregateUserStatus() {
	ctx := context.Background()

	s.Run("latest state wins regardless of append order", func() {
		// Unblock appended before the earlier block; timestamps decide.
		s.append(auditlog.EventUserUnblocked, "user-1", "", at(10, 5))
		s.append(auditlog.EventUserBlocked, "user-1", "", at(10, 0))

		breakdown, err := s.store.AggregateUserStatus(ctx, auditlog.TimeRange{})
		s.NoError(err)
		s.Equal(auditlog.UserStatusBreakdown{Blocked: 0, Active: 1}, breakdown)
	})

	s.Run("counts users by their latest state", func() {
		s.append(auditlog.EventUserBlocked, "user-2", "", at(12, 0))
		s.append(auditlog.EventUserBlocked, "user-3", "", at(12, 1))
		s.append(auditlog.EventUserUnblocked, "user-3", "", at(12, 2))
		s.append(auditlog.EventUserBlocked, "", "", at(12, 3))

		breakdown, err := s.store.AggregateUserStatus(ctx, auditlog.TimeRange{})
		s.NoError(err)
		s.Equal(auditlog.UserStatusBreakdown{Blocked: 1, Active: 2}, breakdown)
	})
}

func (s *AuditMemoryStoreSuite) TestCountFinancialEvents() {
	ctx := context.Background()
	s.append(auditlog.EventFinancial, "user-1", "", at(13, 0))
	s.append(auditlog.EventInvoiceCreated, "user-1", "", at(13, 1))

	count, err := s.store.CountFinancialEvents(ctx, auditlog.TimeRange{})
	s.NoError(err)
	s.Equal(1, count)
}
