package clickhouse

import (
	"context"
	"fmt"

	"tokenguard/internal/domain"
	"tokenguard/internal/storage"
)

// NotificationStore implements storage.NotificationStore using ClickHouse.
type NotificationStore struct {
	conn *Conn
}

// NewNotificationStore creates a new NotificationStore.
func NewNotificationStore(conn *Conn) *NotificationStore {
	return &NotificationStore{conn: conn}
}

// Compile-time interface check.
var _ storage.NotificationStore = (*NotificationStore)(nil)

// InsertBulk appends a batch of notifications.
func (s *NotificationStore) InsertBulk(ctx context.Context, notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	for _, n := range notifications {
		if n == nil || n.Kind == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO guard_notifications (
			kind, at, address, flag, phase,
			max_transaction_amount, max_wallet_amount, asset, amount
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, n := range notifications {
		err = batch.Append(
			string(n.Kind), n.At, string(n.Address), n.Flag, string(n.Phase),
			n.MaxTransactionAmount, n.MaxWalletAmount, string(n.Asset), n.Amount,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByTimeRange retrieves notifications within [start, end] inclusive,
// ordered by emission time ASC.
func (s *NotificationStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.Notification, error) {
	query := `
		SELECT kind, at, address, flag, phase,
		       max_transaction_amount, max_wallet_amount, asset, amount
		FROM guard_notifications
		WHERE at >= ? AND at <= ?
		ORDER BY at ASC
	`

	rows, err := s.conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	var result []*domain.Notification
	for rows.Next() {
		var (
			n       domain.Notification
			kind    string
			address string
			phase   string
			asset   string
		)
		err := rows.Scan(
			&kind, &n.At, &address, &n.Flag, &phase,
			&n.MaxTransactionAmount, &n.MaxWalletAmount, &asset, &n.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Kind = domain.NotificationKind(kind)
		n.Address = domain.Address(address)
		n.Phase = domain.Phase(phase)
		n.Asset = domain.Address(asset)
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return result, nil
}
