package store

import (
	"context"
	"sync"

	"plangate/internal/plan"
	id "plangate/pkg/domain"
	"plangate/pkg/platform/sentinel"
)

// MemoryStore is the in-memory reference adapter for the plan repository.
// Plans are stored by value copy so callers can never mutate stored state.
type MemoryStore struct {
	mu    sync.RWMutex
	plans map[id.PlanID]plan.Plan
}

func NewMemory() *MemoryStore {
	return &MemoryStore{plans: make(map[id.PlanID]plan.Plan)}
}

func (s *MemoryStore) Save(_ context.Context, p *plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[p.ID] = *p
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, planID id.PlanID) (*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[planID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) FindActiveByID(_ context.Context, planID id.PlanID) (*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[planID]
	if !ok || !p.IsActive() {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListActive(_ context.Context) ([]*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active []*plan.Plan
	for _, p := range s.plans {
		if p.IsActive() {
			cp := p
			active = append(active, &cp)
		}
	}
	return active, nil
}
