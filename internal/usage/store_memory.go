package usage

import (
	"context"
	"sync"

	"plangate/internal/plan"
	id "plangate/pkg/domain"
	"plangate/pkg/requestcontext"
)

// MemoryMeter keeps usage counters in memory. Suitable for tests and
// single-node development; counters are never expired.
type MemoryMeter struct {
	mu     sync.RWMutex
	counts map[string]int
}

func NewMemoryMeter() *MemoryMeter {
	return &MemoryMeter{counts: make(map[string]int)}
}

func (m *MemoryMeter) Consumed(ctx context.Context, userID id.UserID, scope plan.Scope, period plan.Period) (int, error) {
	key := counterKey(userID, scope, period, requestcontext.Now(ctx))

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts[key], nil
}

func (m *MemoryMeter) Record(ctx context.Context, userID id.UserID, scope plan.Scope, period plan.Period, n int) error {
	key := counterKey(userID, scope, period, requestcontext.Now(ctx))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key] += n
	return nil
}
