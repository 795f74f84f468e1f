// Package store provides the audit log persistence adapters.
package store

import (
	"context"
	"sort"
	"sync"

	"plangate/internal/auditlog"
	id "plangate/pkg/domain"
)

// MemoryStore keeps the audit trail in memory and answers the aggregation
// queries by scanning it. Suitable for tests and single-node development.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []auditlog.Entry
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, entry *auditlog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *MemoryStore) CountDistinctUsersByEventType(_ context.Context, t auditlog.EventType, r auditlog.TimeRange) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[id.UserID]struct{})
	for _, e := range s.entries {
		if e.Type != t || e.UserID.IsNil() || !r.Contains(e.OccurredAt) {
			continue
		}
		seen[e.UserID] = struct{}{}
	}
	return len(seen), nil
}

func (s *MemoryStore) CountEventsByType(_ context.Context, t auditlog.EventType, r auditlog.TimeRange) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.entries {
		if e.Type == t && r.Contains(e.OccurredAt) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) AggregateModuleAccesses(_ context.Context, r auditlog.TimeRange) ([]auditlog.ModuleUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, e := range s.entries {
		if !isAccessEvent(e.Type) || !r.Contains(e.OccurredAt) {
			continue
		}
		module := e.Module
		if module == "" {
			module = auditlog.UnknownModule
		}
		counts[module]++
	}

	usage := make([]auditlog.ModuleUsage, 0, len(counts))
	for module, count := range counts {
		usage = append(usage, auditlog.ModuleUsage{Module: module, Count: count})
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].Module < usage[j].Module
	})
	return usage, nil
}

// AggregateUserStatus replays block and unblock entries oldest first so the
// latest state per user wins regardless of append order.
func (s *MemoryStore) AggregateUserStatus(_ context.Context, r auditlog.TimeRange) (auditlog.UserStatusBreakdown, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var statusEvents []auditlog.Entry
	for _, e := range s.entries {
		if e.Type != auditlog.EventUserBlocked && e.Type != auditlog.EventUserUnblocked {
			continue
		}
		if e.UserID.IsNil() || !r.Contains(e.OccurredAt) {
			continue
		}
		statusEvents = append(statusEvents, e)
	}
	sort.SliceStable(statusEvents, func(i, j int) bool {
		return statusEvents[i].OccurredAt.Before(statusEvents[j].OccurredAt)
	})

	latest := make(map[id.UserID]auditlog.EventType)
	for _, e := range statusEvents {
		latest[e.UserID] = e.Type
	}

	var breakdown auditlog.UserStatusBreakdown
	for _, t := range latest {
		if t == auditlog.EventUserBlocked {
			breakdown.Blocked++
		} else {
			breakdown.Active++
		}
	}
	return breakdown, nil
}

func (s *MemoryStore) CountFinancialEvents(ctx context.Context, r auditlog.TimeRange) (int, error) {
	return s.CountEventsByType(ctx, auditlog.EventFinancial, r)
}

func isAccessEvent(t auditlog.EventType) bool {
	return t == auditlog.EventModuleAccessed || t == auditlog.EventFeatureAccessed
}
