package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"tokenguard/internal/domain"
	"tokenguard/internal/storage"
)

// DecisionStore implements storage.DecisionStore using ClickHouse.
// The audit is append-only; admission_decisions is a MergeTree ordered by
// evaluation time.
type DecisionStore struct {
	conn *Conn
}

// NewDecisionStore creates a new DecisionStore.
func NewDecisionStore(conn *Conn) *DecisionStore {
	return &DecisionStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DecisionStore = (*DecisionStore)(nil)

// InsertBulk appends a batch of admission decisions.
func (s *DecisionStore) InsertBulk(ctx context.Context, decisions []*domain.Decision) error {
	if len(decisions) == 0 {
		return nil
	}
	for _, d := range decisions {
		if d == nil || d.Sender == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO admission_decisions (
			sender, recipient, amount, allowed, reason, evaluated_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, d := range decisions {
		err = batch.Append(
			string(d.Sender), string(d.Recipient), d.Amount,
			d.Allowed, string(d.Reason), d.EvaluatedAt,
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

// GetByTimeRange retrieves decisions within [start, end] inclusive,
// ordered by evaluation time ASC.
func (s *DecisionStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.Decision, error) {
	query := `
		SELECT sender, recipient, amount, allowed, reason, evaluated_at
		FROM admission_decisions
		WHERE evaluated_at >= ? AND evaluated_at <= ?
		ORDER BY evaluated_at ASC
	`

	rows, err := s.conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

// GetBySender retrieves all decisions for a sender, ordered by
// evaluation time ASC.
func (s *DecisionStore) GetBySender(ctx context.Context, sender domain.Address) ([]*domain.Decision, error) {
	query := `
		SELECT sender, recipient, amount, allowed, reason, evaluated_at
		FROM admission_decisions
		WHERE sender = ?
		ORDER BY evaluated_at ASC
	`

	rows, err := s.conn.Query(ctx, query, string(sender))
	if err != nil {
		return nil, fmt.Errorf("query by sender: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

func scanDecisions(rows driver.Rows) ([]*domain.Decision, error) {
	var result []*domain.Decision
	for rows.Next() {
		var (
			d         domain.Decision
			sender    string
			recipient string
			reason    string
		)
		err := rows.Scan(&sender, &recipient, &d.Amount, &d.Allowed, &reason, &d.EvaluatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		d.Sender = domain.Address(sender)
		d.Recipient = domain.Address(recipient)
		d.Reason = domain.Reason(reason)
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return result, nil
}
