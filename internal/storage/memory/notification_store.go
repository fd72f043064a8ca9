package memory

import (
	"context"
	"sort"
	"sync"

	"tokenguard/internal/domain"
	"tokenguard/internal/storage"
)

// NotificationStore is an in-memory implementation of storage.NotificationStore.
type NotificationStore struct {
	mu   sync.RWMutex
	data []*domain.Notification
}

// NewNotificationStore creates a new in-memory notification store.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

// Compile-time interface check.
var _ storage.NotificationStore = (*NotificationStore)(nil)

// InsertBulk appends a batch of notifications.
func (s *NotificationStore) InsertBulk(_ context.Context, notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	for _, n := range notifications {
		if n == nil || n.Kind == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range notifications {
		copy := *n
		s.data = append(s.data, &copy)
	}
	return nil
}

// GetByTimeRange retrieves notifications within [start, end] inclusive,
// ordered by emission time ASC.
func (s *NotificationStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Notification
	for _, n := range s.data {
		if n.At >= start && n.At <= end {
			copy := *n
			result = append(result, &copy)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].At < result[j].At })
	return result, nil
}
