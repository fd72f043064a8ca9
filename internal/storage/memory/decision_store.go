package memory

import (
	"context"
	"sort"
	"sync"

	"tokenguard/internal/domain"
	"tokenguard/internal/storage"
)

// DecisionStore is an in-memory implementation of storage.DecisionStore.
type DecisionStore struct {
	mu   sync.RWMutex
	data []*domain.Decision
}

// NewDecisionStore creates a new in-memory decision store.
func NewDecisionStore() *DecisionStore {
	return &DecisionStore{}
}

// Compile-time interface check.
var _ storage.DecisionStore = (*DecisionStore)(nil)

// InsertBulk appends a batch of admission decisions.
func (s *DecisionStore) InsertBulk(_ context.Context, decisions []*domain.Decision) error {
	if len(decisions) == 0 {
		return nil
	}
	for _, d := range decisions {
		if d == nil || d.Sender == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range decisions {
		copy := *d
		s.data = append(s.data, &copy)
	}
	return nil
}

// GetByTimeRange retrieves decisions within [start, end] inclusive,
// ordered by evaluation time ASC.
func (s *DecisionStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Decision
	for _, d := range s.data {
		if d.EvaluatedAt >= start && d.EvaluatedAt <= end {
			copy := *d
			result = append(result, &copy)
		}
	}
	sortDecisions(result)
	return result, nil
}

// GetBySender retrieves all decisions for a sender, ordered by
// evaluation time ASC.
func (s *DecisionStore) GetBySender(_ context.Context, sender domain.Address) ([]*domain.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Decision
	for _, d := range s.data {
		if d.Sender == sender {
			copy := *d
			result = append(result, &copy)
		}
	}
	sortDecisions(result)
	return result, nil
}

func sortDecisions(decisions []*domain.Decision) {
	sort.SliceStable(decisions, func(i, j int) bool {
		return decisions[i].EvaluatedAt < decisions[j].EvaluatedAt
	})
}
