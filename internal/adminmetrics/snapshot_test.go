package adminmetrics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"plangate/internal/adminmetrics"
	"plangate/internal/auditlog"
	"plangate/internal/auditlog/store"
	id "plangate/pkg/domain"
	dErrors "plangate/pkg/domain-errors"
	"plangate/mocks"
	"plangate/pkg/requestcontext"
)

// =============================================================================
// Admin Metrics Snapshot Test Suite
// =============================================================================

type SnapshotSuite struct {
	suite.Suite
	store   *store.MemoryStore
	builder *adminmetrics.Builder
}

func TestSnapshotSuite(t *testing.T) {
	suite.Run(t, new(SnapshotSuite))
}

func (s *SnapshotSuite) SetupTest() {
	s.store = store.NewMemory()

	var err error
	s.builder, err = adminmetrics.New(s.store)
	s.Require().NoError(err)
}

func (s *SnapshotSuite) append(t auditlog.EventType, userID id.UserID, module string, at time.Time) {
	s.Require().NoError(s.store.Append(context.Background(), &auditlog.Entry{
		ID:         id.NewEventID(),
		Type:       t,
		UserID:     userID,
		Module:     module,
		OccurredAt: at,
	}))
}

func (s *SnapshotSuite) TestNew() {
	_, err := adminmetrics.New(nil)
	s.Error(err)
}

func (s *SnapshotSuite) TestEmptyTrail() {
	snapshot, err := s.builder.Snapshot(context.Background(), auditlog.TimeRange{})
	s.Require().NoError(err)

	s.Zero(snapshot.ActiveUsers)
	s.Zero(snapshot.Login.Total)
	s.Zero(snapshot.Login.SuccessRate)
	s.Zero(snapshot.Login.FailureRate)
	s.Empty(snapshot.ModuleUsage)
	s.Zero(snapshot.UserStatus.Blocked)
	s.Zero(snapshot.FinancialEvents)
}

func (s *SnapshotSuite) TestSnapshot() {
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s.append(auditlog.EventLoginSucceeded, "user-1", "", day.Add(1*time.Hour))
	s.append(auditlog.EventLoginSucceeded, "user-1", "", day.Add(2*time.Hour))
	s.append(auditlog.EventLoginSucceeded, "user-2", "", day.Add(3*time.Hour))
	s.append(auditlog.EventLoginFailed, "user-3", "", day.Add(4*time.Hour))
	s.append(auditlog.EventModuleAccessed, "user-1", "reports", day.Add(5*time.Hour))
	s.append(auditlog.EventFeatureAccessed, "user-2", "reports", day.Add(6*time.Hour))
	s.append(auditlog.EventModuleAccessed, "user-2", "billing", day.Add(7*time.Hour))
	s.append(auditlog.EventUserBlocked, "user-3", "", day.Add(8*time.Hour))
	s.append(auditlog.EventFinancial, "user-1", "", day.Add(9*time.Hour))

	fixed := day.Add(12 * time.Hour)
	snapshot, err := s.builder.Snapshot(requestcontext.WithTime(context.Background(), fixed), auditlog.TimeRange{})
	s.Require().NoError(err)

	s.Equal(fixed, snapshot.GeneratedAt)
	s.Equal(2, snapshot.ActiveUsers)
	s.Equal(adminmetrics.LoginBreakdown{
		Succeeded:   3,
		Failed:      1,
		Total:       4,
		SuccessRate: 0.75,
		FailureRate: 0.25,
	}, snapshot.Login)
	s.Equal([]auditlog.ModuleUsage{
		{Module: "reports", Count: 2},
		{Module: "billing", Count: 1},
	}, snapshot.ModuleUsage)
	s.Equal(auditlog.UserStatusBreakdown{Blocked: 1, Active: 0}, snapshot.UserStatus)
	s.Equal(1, snapshot.FinancialEvents)
}

func (s *SnapshotSuite) TestRangeFiltering() {
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s.append(auditlog.EventLoginSucceeded, "user-1", "", day.Add(1*time.Hour))
	s.append(auditlog.EventLoginSucceeded, "user-2", "", day.Add(30*time.Hour))

	to := day.Add(24 * time.Hour)
	snapshot, err := s.builder.Snapshot(context.Background(), auditlog.TimeRange{To: &to})
	s.Require().NoError(err)
	s.Equal(1, snapshot.ActiveUsers)
	s.Equal(1, snapshot.Login.Succeeded)
}

func (s *SnapshotSuite) TestQueryFailure() {
	ctrl := gomock.NewController(s.T())
	reader := mocks.NewMockReadRepository(ctrl)
	reader.EXPECT().CountDistinctUsersByEventType(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(0, errors.New("query timeout")).AnyTimes()
	reader.EXPECT().CountEventsByType(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()
	reader.EXPECT().AggregateModuleAccesses(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	reader.EXPECT().AggregateUserStatus(gomock.Any(), gomock.Any()).Return(auditlog.UserStatusBreakdown{}, nil).AnyTimes()
	reader.EXPECT().CountFinancialEvents(gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()

	builder, err := adminmetrics.New(reader)
	s.Require().NoError(err)

	_, err = builder.Snapshot(context.Background(), auditlog.TimeRange{})
	s.Require().Error(err)
	s.Equal(dErrors.CodeInternal, dErrors.CodeOf(err))
}
