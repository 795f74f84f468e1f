package auditlog

import "context"

//go:generate mockgen -source=ports.go -destination=../../mocks/auditlog_mocks.go -package=mocks

// Store appends audit entries durably.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
}

// ReadRepository is the aggregation read side consumed by the admin
// metrics snapshot builder.
type ReadRepository interface {
	// CountDistinctUsersByEventType counts distinct non-empty user ids
	// among entries of the given type inside the range.
	CountDistinctUsersByEventType(ctx context.Context, t EventType, r TimeRange) (int, error)

	// CountEventsByType counts entries of the given type inside the range.
	CountEventsByType(ctx context.Context, t EventType, r TimeRange) (int, error)

	// AggregateModuleAccesses groups module and feature access entries by
	// module name. Entries without a module land in the "unknown" bucket.
	AggregateModuleAccesses(ctx context.Context, r TimeRange) ([]ModuleUsage, error)

	// AggregateUserStatus folds block and unblock entries per user, keeping
	// the latest state. Entries without a user id are ignored.
	AggregateUserStatus(ctx context.Context, r TimeRange) (UserStatusBreakdown, error)

	// CountFinancialEvents counts financial entries inside the range.
	CountFinancialEvents(ctx context.Context, r TimeRange) (int, error)
}
