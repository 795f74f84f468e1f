package access

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"plangate/internal/access/metrics"
	"plangate/internal/plan"
	id "plangate/pkg/domain"
	dErrors "plangate/pkg/domain-errors"
	"plangate/pkg/requestcontext"
)

var tracer = otel.Tracer("plangate/internal/access")

// Engine evaluates access requests against plan rules and usage limits.
// Checks run in a fixed order so the reason for a denial is always the
// first gate that failed: plan status, RBAC, module rule, feature rule,
// then the usage limit.
type Engine struct {
	meter  UsageReader
	sink   AuditSink
	logger *slog.Logger
}

// EngineOption configures optional Engine dependencies.
type EngineOption func(*Engine)

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

func NewEngine(meter UsageReader, sink AuditSink, opts ...EngineOption) (*Engine, error) {
	if meter == nil {
		return nil, errors.New("usage reader is required")
	}
	if sink == nil {
		return nil, errors.New("audit sink is required")
	}
	e := &Engine{
		meter:  meter,
		sink:   sink,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Evaluate decides one access request. It returns an error only when the
// evaluation itself cannot complete; a denial is a successful evaluation.
// The decision's audit record is emitted before Evaluate returns, and a
// sink failure fails the whole evaluation.
func (e *Engine) Evaluate(ctx context.Context, req Request) (*Decision, error) {
	started := time.Now()
	defer func() {
		metrics.EvaluationDuration.Observe(time.Since(started).Seconds())
	}()

	ctx, span := tracer.Start(ctx, "access.Evaluate", trace.WithAttributes(
		attribute.String("access.module", req.Module),
		attribute.String("access.feature", req.Feature),
	))
	defer span.End()

	if req.Plan == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "plan is required")
	}
	if req.UserID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user id is required")
	}
	if req.Module == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "module is required")
	}

	decision, err := e.decide(ctx, req)
	if err != nil {
		metrics.EvaluationFailures.WithLabelValues("meter").Inc()
		span.RecordError(err)
		return nil, err
	}

	record := e.buildRecord(ctx, req, decision)
	if err := e.sink.Emit(ctx, record); err != nil {
		metrics.EvaluationFailures.WithLabelValues("audit").Inc()
		span.RecordError(err)
		e.logger.ErrorContext(ctx, "audit sink rejected decision record",
			"user_id", req.UserID.String(),
			"module", req.Module,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to audit access decision")
	}
	decision.Record = record

	metrics.Decisions.WithLabelValues(strconv.FormatBool(decision.Allowed), string(decision.Reason)).Inc()
	span.SetAttributes(
		attribute.Bool("access.allowed", decision.Allowed),
		attribute.String("access.reason", string(decision.Reason)),
	)
	e.logger.InfoContext(ctx, "access decision",
		"user_id", req.UserID.String(),
		"plan_id", req.Plan.ID.String(),
		"module", req.Module,
		"feature", req.Feature,
		"allowed", decision.Allowed,
		"reason", string(decision.Reason),
	)
	return decision, nil
}

// decide walks the gates in order. The usage meter is consulted only after
// every earlier gate passed; an RBAC denial must never touch it.
func (e *Engine) decide(ctx context.Context, req Request) (*Decision, error) {
	if !req.Plan.IsActive() {
		return &Decision{Allowed: false, Reason: ReasonPlanInactive}, nil
	}
	if !req.RBACAllowed {
		return &Decision{Allowed: false, Reason: ReasonRBACDenied}, nil
	}
	if !req.Plan.AllowsModule(req.Module) {
		return &Decision{Allowed: false, Reason: ReasonModuleNotAllowed}, nil
	}
	if req.Feature != "" && !req.Plan.AllowsFeature(req.Module, req.Feature) {
		return &Decision{Allowed: false, Reason: ReasonFeatureNotAllowed}, nil
	}

	limit := req.Plan.UsageLimitFor(plan.Scope{Module: req.Module, Feature: req.Feature})
	if limit == nil {
		return &Decision{Allowed: true, Reason: ReasonAllowedByPlan}, nil
	}

	consumed, err := e.consumed(ctx, req, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read usage")
	}

	usage := &Usage{Limit: limit.Limit, Consumed: consumed, Period: limit.Period}
	if consumed >= limit.Limit {
		return &Decision{Allowed: false, Reason: ReasonUsageLimitExceeded, Usage: usage}, nil
	}
	return &Decision{Allowed: true, Reason: ReasonAllowedWithinLimit, Usage: usage}, nil
}

func (e *Engine) consumed(ctx context.Context, req Request, limit *plan.UsageLimit) (int, error) {
	if req.ConsumedOverride != nil {
		return *req.ConsumedOverride, nil
	}
	return e.meter.Consumed(ctx, req.UserID, limit.Scope, limit.Period)
}

func (e *Engine) buildRecord(ctx context.Context, req Request, decision *Decision) *Record {
	return &Record{
		EventID:      id.NewEventID(),
		Timestamp:    requestcontext.Now(ctx),
		UserID:       req.UserID,
		PlanID:       req.Plan.ID,
		Module:       req.Module,
		Feature:      req.Feature,
		RBACDecision: req.RBACAllowed,
		PlanDecision: decision.Allowed,
		Reason:       decision.Reason,
		Usage:        decision.Usage,
		Context:      req.Context,
	}
}
