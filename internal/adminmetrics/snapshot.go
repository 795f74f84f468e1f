// Package adminmetrics reduces the audit trail into an administrative
// activity snapshot: active users, login outcomes, module usage, user block
// state and financial activity over a time range.
package adminmetrics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"plangate/internal/adminmetrics/metrics"
	"plangate/internal/auditlog"
	dErrors "plangate/pkg/domain-errors"
	"plangate/pkg/requestcontext"
)

var tracer = otel.Tracer("plangate/internal/adminmetrics")

// LoginBreakdown summarizes login attempts. Rates are 0 when there were no
// attempts at all.
type LoginBreakdown struct {
	Succeeded   int     `json:"succeeded"`
	Failed      int     `json:"failed"`
	Total       int     `json:"total"`
	SuccessRate float64 `json:"successRate"`
	FailureRate float64 `json:"failureRate"`
}

// Snapshot is one read of the platform's activity over a range.
type Snapshot struct {
	GeneratedAt     time.Time                    `json:"generatedAt"`
	Range           auditlog.TimeRange           `json:"range"`
	ActiveUsers     int                          `json:"activeUsers"`
	Login           LoginBreakdown               `json:"login"`
	ModuleUsage     []auditlog.ModuleUsage       `json:"moduleUsage"`
	UserStatus      auditlog.UserStatusBreakdown `json:"userStatus"`
	FinancialEvents int                          `json:"financialEvents"`
}

// Builder assembles snapshots from the audit read repository. The
// underlying queries run concurrently; a single failure fails the whole
// snapshot rather than returning a partial one.
type Builder struct {
	reader auditlog.ReadRepository
	logger *slog.Logger
}

// Option configures optional Builder dependencies.
type Option func(*Builder)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

func New(reader auditlog.ReadRepository, opts ...Option) (*Builder, error) {
	if reader == nil {
		return nil, errors.New("audit read repository is required")
	}
	b := &Builder{
		reader: reader,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Snapshot builds the activity snapshot for the given range. A zero range
// covers the whole trail.
func (b *Builder) Snapshot(ctx context.Context, r auditlog.TimeRange) (*Snapshot, error) {
	ctx, span := tracer.Start(ctx, "adminmetrics.Snapshot")
	defer span.End()

	timer := prometheus.NewTimer(metrics.SnapshotDuration)
	defer timer.ObserveDuration()

	snapshot := &Snapshot{
		GeneratedAt: requestcontext.Now(ctx),
		Range:       r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot.ActiveUsers, err = b.reader.CountDistinctUsersByEventType(gctx, auditlog.EventLoginSucceeded, r)
		return err
	})
	g.Go(func() error {
		var err error
		snapshot.Login.Succeeded, err = b.reader.CountEventsByType(gctx, auditlog.EventLoginSucceeded, r)
		return err
	})
	g.Go(func() error {
		var err error
		snapshot.Login.Failed, err = b.reader.CountEventsByType(gctx, auditlog.EventLoginFailed, r)
		return err
	})
	g.Go(func() error {
		var err error
		snapshot.ModuleUsage, err = b.reader.AggregateModuleAccesses(gctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		snapshot.UserStatus, err = b.reader.AggregateUserStatus(gctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		snapshot.FinancialEvents, err = b.reader.CountFinancialEvents(gctx, r)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.SnapshotFailures.Inc()
		span.RecordError(err)
		b.logger.ErrorContext(ctx, "failed to build metrics snapshot", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build metrics snapshot")
	}

	snapshot.Login.Total = snapshot.Login.Succeeded + snapshot.Login.Failed
	if snapshot.Login.Total > 0 {
		snapshot.Login.SuccessRate = float64(snapshot.Login.Succeeded) / float64(snapshot.Login.Total)
		snapshot.Login.FailureRate = float64(snapshot.Login.Failed) / float64(snapshot.Login.Total)
	}
	return snapshot, nil
}
