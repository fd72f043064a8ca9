package storage

import (
	"context"

	"tokenguard/internal/domain"
)

// StateStore persists the guard's mutable state. The guard saves a full
// snapshot after every mutation and loads the latest one at boot.
type StateStore interface {
	// Save persists a snapshot, replacing any previous one.
	Save(ctx context.Context, s *domain.GuardState) error

	// Load retrieves the latest snapshot. Returns ErrNotFound when no
	// snapshot has been saved yet.
	Load(ctx context.Context) (*domain.GuardState, error)
}

// DecisionStore provides access to the append-only admission audit.
type DecisionStore interface {
	// InsertBulk appends a batch of admission decisions.
	InsertBulk(ctx context.Context, decisions []*domain.Decision) error

	// GetByTimeRange retrieves decisions evaluated within [start, end]
	// (inclusive, Unix seconds), ordered by evaluation time ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.Decision, error)

	// GetBySender retrieves all decisions for a sender, ordered by
	// evaluation time ASC.
	GetBySender(ctx context.Context, sender domain.Address) ([]*domain.Decision, error)
}

// NotificationStore provides access to the append-only notification log.
type NotificationStore interface {
	// InsertBulk appends a batch of notifications.
	InsertBulk(ctx context.Context, notifications []*domain.Notification) error

	// GetByTimeRange retrieves notifications emitted within [start, end]
	// (inclusive, Unix seconds), ordered by emission time ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.Notification, error)
}
