package postgres

import (
	"context"
	"fmt"

	"tokenguard/internal/domain"
	"tokenguard/internal/storage"
)

// Address set kinds stored in guard_addresses.
const (
	kindExcluded     = "excluded"
	kindBlocklisted  = "blocklisted"
	kindBot          = "bot"
	kindPendingOwner = "pending_owner"
)

// StateStore implements storage.StateStore using PostgreSQL. The snapshot
// is normalized into guard_state (single row), guard_addresses and
// guard_cooldowns, replaced atomically in one transaction per save.
type StateStore struct {
	pool *Pool
}

// NewStateStore creates a new StateStore.
func NewStateStore(pool *Pool) *StateStore {
	return &StateStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StateStore = (*StateStore)(nil)

// Save persists a snapshot, replacing any previous one.
func (s *StateStore) Save(ctx context.Context, state *domain.GuardState) error {
	if state == nil || state.Owner == "" {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save state: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO guard_state (
			id, owner, trading_enabled, phase, paused, limits_enabled,
			max_transaction_amount, max_wallet_amount, cooldown_seconds,
			operations_start, updated_at
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			owner = EXCLUDED.owner,
			trading_enabled = EXCLUDED.trading_enabled,
			phase = EXCLUDED.phase,
			paused = EXCLUDED.paused,
			limits_enabled = EXCLUDED.limits_enabled,
			max_transaction_amount = EXCLUDED.max_transaction_amount,
			max_wallet_amount = EXCLUDED.max_wallet_amount,
			cooldown_seconds = EXCLUDED.cooldown_seconds,
			operations_start = EXCLUDED.operations_start,
			updated_at = EXCLUDED.updated_at
	`
	_, err = tx.Exec(ctx, query,
		string(state.Owner),
		state.TradingEnabled,
		string(state.Phase),
		state.Paused,
		state.LimitsEnabled,
		int64(state.MaxTransactionAmount),
		int64(state.MaxWalletAmount),
		state.CooldownSeconds,
		state.OperationsStart,
		state.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert guard state: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM guard_addresses`); err != nil {
		return fmt.Errorf("clear guard addresses: %w", err)
	}
	sets := map[string][]domain.Address{
		kindExcluded:     state.Excluded,
		kindBlocklisted:  state.Blocklisted,
		kindBot:          state.Bots,
		kindPendingOwner: state.PendingOwners,
	}
	for kind, addrs := range sets {
		for _, addr := range addrs {
			_, err := tx.Exec(ctx,
				`INSERT INTO guard_addresses (kind, address) VALUES ($1, $2)`,
				kind, string(addr),
			)
			if err != nil {
				return fmt.Errorf("insert guard address (%s): %w", kind, err)
			}
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM guard_cooldowns`); err != nil {
		return fmt.Errorf("clear guard cooldowns: %w", err)
	}
	for addr, ts := range state.LastTransferAt {
		_, err := tx.Exec(ctx,
			`INSERT INTO guard_cooldowns (address, last_transfer_at) VALUES ($1, $2)`,
			string(addr), ts,
		)
		if err != nil {
			return fmt.Errorf("insert guard cooldown: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save state: %w", err)
	}
	return nil
}

// Load retrieves the latest snapshot. Returns ErrNotFound if none saved.
func (s *StateStore) Load(ctx context.Context) (*domain.GuardState, error) {
	query := `
		SELECT owner, trading_enabled, phase, paused, limits_enabled,
		       max_transaction_amount, max_wallet_amount, cooldown_seconds,
		       operations_start, updated_at
		FROM guard_state
		WHERE id = 1
	`

	var (
		state     domain.GuardState
		owner     string
		phase     string
		maxTx     int64
		maxWallet int64
	)
	row := s.pool.QueryRow(ctx, query)
	err := row.Scan(
		&owner,
		&state.TradingEnabled,
		&phase,
		&state.Paused,
		&state.LimitsEnabled,
		&maxTx,
		&maxWallet,
		&state.CooldownSeconds,
		&state.OperationsStart,
		&state.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("load guard state: %w", err)
	}
	state.Owner = domain.Address(owner)
	state.Phase = domain.Phase(phase)
	state.MaxTransactionAmount = uint64(maxTx)
	state.MaxWalletAmount = uint64(maxWallet)

	rows, err := s.pool.Query(ctx, `SELECT kind, address FROM guard_addresses ORDER BY address ASC`)
	if err != nil {
		return nil, fmt.Errorf("load guard addresses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind, addr string
		if err := rows.Scan(&kind, &addr); err != nil {
			return nil, fmt.Errorf("scan guard address: %w", err)
		}
		switch kind {
		case kindExcluded:
			state.Excluded = append(state.Excluded, domain.Address(addr))
		case kindBlocklisted:
			state.Blocklisted = append(state.Blocklisted, domain.Address(addr))
		case kindBot:
			state.Bots = append(state.Bots, domain.Address(addr))
		case kindPendingOwner:
			state.PendingOwners = append(state.PendingOwners, domain.Address(addr))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guard addresses: %w", err)
	}

	cdRows, err := s.pool.Query(ctx, `SELECT address, last_transfer_at FROM guard_cooldowns`)
	if err != nil {
		return nil, fmt.Errorf("load guard cooldowns: %w", err)
	}
	defer cdRows.Close()
	state.LastTransferAt = make(map[domain.Address]int64)
	for cdRows.Next() {
		var addr string
		var ts int64
		if err := cdRows.Scan(&addr, &ts); err != nil {
			return nil, fmt.Errorf("scan guard cooldown: %w", err)
		}
		state.LastTransferAt[domain.Address(addr)] = ts
	}
	if err := cdRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guard cooldowns: %w", err)
	}

	return &state, nil
}
