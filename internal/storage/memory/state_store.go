// Package memory provides in-memory storage implementations, used in
// tests and when the server runs without external backends.
package memory

import (
	"context"
	"sync"

	"tokenguard/internal/domain"
	"tokenguard/internal/storage"
)

// StateStore is an in-memory implementation of storage.StateStore.
type StateStore struct {
	mu    sync.RWMutex
	state *domain.GuardState
}

// NewStateStore creates a new in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{}
}

// Compile-time interface check.
var _ storage.StateStore = (*StateStore)(nil)

// Save persists a snapshot, replacing any previous one.
func (s *StateStore) Save(_ context.Context, state *domain.GuardState) error {
	if state == nil || state.Owner == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = copyState(state)
	return nil
}

// Load retrieves the latest snapshot. Returns ErrNotFound if none saved.
func (s *StateStore) Load(_ context.Context) (*domain.GuardState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == nil {
		return nil, storage.ErrNotFound
	}
	return copyState(s.state), nil
}

// copyState makes a deep copy so callers cannot mutate stored state.
func copyState(in *domain.GuardState) *domain.GuardState {
	out := *in
	out.PendingOwners = append([]domain.Address(nil), in.PendingOwners...)
	out.Excluded = append([]domain.Address(nil), in.Excluded...)
	out.Blocklisted = append([]domain.Address(nil), in.Blocklisted...)
	out.Bots = append([]domain.Address(nil), in.Bots...)
	if in.LastTransferAt != nil {
		out.LastTransferAt = make(map[domain.Address]int64, len(in.LastTransferAt))
		for addr, ts := range in.LastTransferAt {
			out.LastTransferAt[addr] = ts
		}
	}
	return &out
}
