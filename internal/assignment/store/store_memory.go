package store

import (
	"context"
	"sync"

	"plangate/internal/assignment/models"
	id "plangate/pkg/domain"
	"plangate/pkg/platform/sentinel"
)

// MemoryStore is the in-memory reference adapter for the assignment history.
// Entries are append-only; slices grow per user and are never rewritten.
type MemoryStore struct {
	mu      sync.RWMutex
	history map[id.UserID][]models.Assignment
}

func NewMemory() *MemoryStore {
	return &MemoryStore{history: make(map[id.UserID][]models.Assignment)}
}

func (s *MemoryStore) Assign(_ context.Context, a *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[a.UserID] = append(s.history[a.UserID], *a)
	return nil
}

// ChangePlan appends like Assign; the distinction is carried in the
// assignment metadata, not in storage behavior.
func (s *MemoryStore) ChangePlan(_ context.Context, userID id.UserID, next *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[userID] = append(s.history[userID], *next)
	return nil
}

func (s *MemoryStore) FindCurrentByUser(_ context.Context, userID id.UserID) (*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.history[userID]
	if len(history) == 0 {
		return nil, sentinel.ErrNotFound
	}
	current := history[len(history)-1]
	return &current, nil
}

func (s *MemoryStore) ListHistory(_ context.Context, userID id.UserID) ([]*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.history[userID]
	out := make([]*models.Assignment, 0, len(history))
	for i := range history {
		cp := history[i]
		out = append(out, &cp)
	}
	return out, nil
}
