//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"plangate/internal/auditlog"
	id "plangate/pkg/domain"
	"plangate/pkg/testutil/containers"
)

// =============================================================================
// Audit Postgres Store Integration Suite
// =============================================================================

type AuditPostgresSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
}

func TestAuditPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditPostgresSuite))
}

func (s *AuditPostgresSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *AuditPostgresSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(context.Background(), "audit_entries"))
}

func (s *AuditPostgresSuite) appendEntry(t auditlog.EventType, userID id.UserID, module string, occurredAt time.Time) {
	s.Require().NoError(s.store.Append(context.Background(), &auditlog.Entry{
		ID:         id.NewEventID(),
		Type:       t,
		UserID:     userID,
		Module:     module,
		OccurredAt: occurredAt,
	}))
}

func (s *AuditPostgresSuite) TestAppendPersistsPayloadAndDevice() {
	ctx := context.Background()

	entry := &auditlog.Entry{
		ID:         id.NewEventID(),
		Type:       auditlog.EventLoginSucceeded,
		UserID:     "user-1",
		OccurredAt: at(9, 0),
		Context: auditlog.Context{
			IPAddress: "203.0.113.7",
			Device:    &auditlog.DeviceInfo{UserAgent: "curl/8.0", Browser: "curl"},
		},
		Payload: auditlog.LoginPayload{Method: "password", Email: "a@example.com"},
	}
	s.Require().NoError(s.store.Append(ctx, entry))

	var (
		ip      string
		device  string
		payload string
	)
	row := s.pg.DB.QueryRowContext(ctx,
		"SELECT ip_address, device::text, payload::text FROM audit_entries WHERE id = $1", entry.ID.String())
	s.Require().NoError(row.Scan(&ip, &device, &payload))
	s.Equal("203.0.113.7", ip)
	s.JSONEq(`{"userAgent":"curl/8.0","browser":"curl"}`, device)
	s.JSONEq(`{"method":"password","email":"a@example.com"}`, payload)
}

func (s *AuditPostgresSuite) TestDistinctUserAndTypeCounts() {
	ctx := context.Background()
	s.appendEntry(auditlog.EventLoginSucceeded, "user-1", "", at(9, 0))
	s.appendEntry(auditlog.EventLoginSucceeded, "user-1", "", at(9, 5))
	s.appendEntry(auditlog.EventLoginSucceeded, "user-2", "", at(9, 10))
	s.appendEntry(auditlog.EventLoginFailed, "user-3", "", at(9, 15))
	s.appendEntry(auditlog.EventLoginSucceeded, "", "", at(9, 20))

	count, err := s.store.CountDistinctUsersByEventType(ctx, auditlog.EventLoginSucceeded, auditlog.TimeRange{})
	s.NoError(err)
	s.Equal(2, count)

	count, err = s.store.CountEventsByType(ctx, auditlog.EventLoginSucceeded, auditlog.TimeRange{})
	s.NoError(err)
	s.Equal(4, count)

	s.Run("range bounds are inclusive", func() {
		from, to := at(9, 5), at(9, 10)
		count, err := s.store.CountEventsByType(ctx, auditlog.EventLoginSucceeded, auditlog.TimeRange{From: &from, To: &to})
		s.NoError(err)
		s.Equal(2, count)
	})
}

func (s *AuditPostgresSuite) TestAggregateModuleAccesses() {
	ctx := context.Background()
	s.appendEntry(auditlog.EventModuleAccessed, "user-1", "reports", at(11, 0))
	s.appendEntry(auditlog.EventFeatureAccessed, "user-1", "reports", at(11, 1))
	s.appendEntry(auditlog.EventModuleAccessed, "user-2", "billing", at(11, 2))
	s.appendEntry(auditlog.EventModuleAccessed, "user-2", "", at(11, 3))
	s.appendEntry(auditlog.EventLoginSucceeded, "user-2", "reports", at(11, 4))

	usage, err := s.store.AggregateModuleAccesses(ctx, auditlog.TimeRange{})
	s.Require().NoError(err)
	s.Equal([]auditlog.ModuleUsage{
		{Module: "reports", Count: 2},
		{Module: "billing", Count: 1},
		{Module: auditlog.UnknownModule, Count: 1},
	}, usage)
}

func (s *AuditPostgresSuite) TestAggregateUserStatus() {
	ctx := context.Background()

	// Unblock appended before the earlier block; occurred_at decides.
	s.appendEntry(auditlog.EventUserUnblocked, "user-1", "", at(10, 5))
	s.appendEntry(auditlog.EventUserBlocked, "user-1", "", at(10, 0))
	s.appendEntry(auditlog.EventUserBlocked, "user-2", "", at(12, 0))
	s.appendEntry(auditlog.EventUserBlocked, "user-3", "", at(12, 1))
	s.appendEntry(auditlog.EventUserUnblocked, "user-3", "", at(12, 2))

	breakdown, err := s.store.AggregateUserStatus(ctx, auditlog.TimeRange{})
	s.NoError(err)
	s.Equal(auditlog.UserStatusBreakdown{Blocked: 1, Active: 2}, breakdown)
}

func (s *AuditPostgresSuite) TestSequenceBreaksTimestampTies() {
	ctx := context.Background()

	// Identical timestamps; insertion order decides via the sequence column.
	s.appendEntry(auditlog.EventUserBlocked, "user-1", "", at(10, 0))
	s.appendEntry(auditlog.EventUserUnblocked, "user-1", "", at(10, 0))

	breakdown, err := s.store.AggregateUserStatus(ctx, auditlog.TimeRange{})
	s.NoError(err)
	s.Equal(auditlog.UserStatusBreakdown{Blocked: 0, Active: 1}, breakdown)
}

func (s *AuditPostgresSuite) TestCountFinancialEvents() {
	ctx := context.Background()
	s.appendEntry(auditlog.EventFinancial, "user-1", "", at(13, 0))
	s.appendEntry(auditlog.EventInvoiceCreated, "user-1", "", at(13, 1))

	count, err := s.store.CountFinancialEvents(ctx, auditlog.TimeRange{})
	s.NoError(err)
	s.Equal(1, count)
}
