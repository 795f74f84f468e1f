package access

import (
	"context"

	"plangate/internal/plan"
	id "plangate/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=../../mocks/access_mocks.go -package=mocks

// UsageReader reports how much of a limited scope a user has consumed in
// the current period bucket.
type UsageReader interface {
	Consumed(ctx context.Context, userID id.UserID, scope plan.Scope, period plan.Period) (int, error)
}

// AuditSink receives the decision record. Emit must complete before the
// decision is returned; a sink failure fails the evaluation.
type AuditSink interface {
	Emit(ctx context.Context, record *Record) error
}
