package auditlog

import (
	"context"
	"errors"
	"fmt"

	"plangate/internal/access"
	"plangate/pkg/requestcontext"
)

// DecisionSink feeds access decision records into the audit trail as
// plan_decision entries. It satisfies access.AuditSink.
type DecisionSink struct {
	store Store
}

func NewDecisionSink(store Store) (*DecisionSink, error) {
	if store == nil {
		return nil, errors.New("audit store is required")
	}
	return &DecisionSink{store: store}, nil
}

func (s *DecisionSink) Emit(ctx context.Context, record *access.Record) error {
	var usage *UsageDetail
	if record.Usage != nil {
		usage = &UsageDetail{
			Limit:    record.Usage.Limit,
			Consumed: record.Usage.Consumed,
			Period:   string(record.Usage.Period),
		}
	}

	planDecision := "denied"
	if record.PlanDecision {
		planDecision = "allowed"
	}

	entry := &Entry{
		ID:         record.EventID,
		Type:       EventPlanDecision,
		UserID:     record.UserID,
		Module:     record.Module,
		Feature:    record.Feature,
		OccurredAt: record.Timestamp,
		Context: Context{
			IPAddress: requestcontext.ClientIP(ctx),
			Device:    parseDevice(requestcontext.UserAgent(ctx)),
		},
		Payload: DecisionPayload{
			PlanID:       record.PlanID,
			RBACDecision: record.RBACDecision,
			PlanDecision: planDecision,
			Reason:       string(record.Reason),
			Usage:        usage,
			Context:      record.Context,
		},
	}

	if err := s.store.Append(ctx, entry); err != nil {
		return fmt.Errorf("append decision record: %w", err)
	}
	return nil
}
