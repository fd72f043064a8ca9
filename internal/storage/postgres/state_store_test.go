package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenguard/internal/domain"
	"tokenguard/internal/storage"
	"tokenguard/internal/storage/postgres"
)

func testState() *domain.GuardState {
	owner := domain.DeriveAddress([]byte("owner"))
	sniper := domain.DeriveAddress([]byte("sniper"))
	heir := domain.DeriveAddress([]byte("heir"))
	alice := domain.DeriveAddress([]byte("alice"))

	return &domain.GuardState{
		Owner:                owner,
		PendingOwners:        []domain.Address{heir},
		TradingEnabled:       true,
		Phase:                domain.PhaseRestricted,
		Paused:               false,
		LimitsEnabled:        true,
		MaxTransactionAmount: 10_000_000,
		MaxWalletAmount:      20_000_000,
		CooldownSeconds:      300,
		OperationsStart:      1_700_000_000,
		Excluded:             []domain.Address{owner},
		Blocklisted:          []domain.Address{sniper},
		Bots:                 []domain.Address{sniper},
		LastTransferAt:       map[domain.Address]int64{alice: 1_700_604_900},
		UpdatedAt:            1_700_604_901,
	}
}

func TestStateStore_SaveAndLoad(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewStateStore(pool)
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound, "empty store should report not found")

	state := testState()
	require.NoError(t, store.Save(ctx, state))

	got, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, state.Owner, got.Owner)
	assert.Equal(t, state.PendingOwners, got.PendingOwners)
	assert.Equal(t, state.TradingEnabled, got.TradingEnabled)
	assert.Equal(t, state.Phase, got.Phase)
	assert.Equal(t, state.Paused, got.Paused)
	assert.Equal(t, state.LimitsEnabled, got.LimitsEnabled)
	assert.Equal(t, state.MaxTransactionAmount, got.MaxTransactionAmount)
	assert.Equal(t, state.MaxWalletAmount, got.MaxWalletAmount)
	assert.Equal(t, state.CooldownSeconds, got.CooldownSeconds)
	assert.Equal(t, state.OperationsStart, got.OperationsStart)
	assert.Equal(t, state.Excluded, got.Excluded)
	assert.Equal(t, state.Blocklisted, got.Blocklisted)
	assert.Equal(t, state.Bots, got.Bots)
	assert.Equal(t, state.LastTransferAt, got.LastTransferAt)
	assert.Equal(t, state.UpdatedAt, got.UpdatedAt)
}

func TestStateStore_SaveReplacesPrevious(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewStateStore(pool)
	ctx := context.Background()

	first := testState()
	require.NoError(t, store.Save(ctx, first))

	// The second snapshot drops the blocklist entry and pauses; the old
	// address rows must not survive the replace.
	second := testState()
	second.Paused = true
	second.Blocklisted = nil
	second.Bots = nil
	second.LastTransferAt = nil
	second.UpdatedAt = first.UpdatedAt + 60
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Load(ctx)
	require.NoError(t, err)

	assert.True(t, got.Paused)
	assert.Empty(t, got.Blocklisted, "stale blocklist rows should be gone")
	assert.Empty(t, got.Bots, "stale bot rows should be gone")
	assert.Empty(t, got.LastTransferAt, "stale cooldown rows should be gone")
	assert.Equal(t, second.UpdatedAt, got.UpdatedAt)
}

func TestStateStore_SharedAddressAcrossKinds(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewStateStore(pool)
	ctx := context.Background()

	// A bot is always also blocklisted; the same address appears under
	// two kinds and both rows must round-trip.
	state := testState()
	require.NoError(t, store.Save(ctx, state))

	got, err := store.Load(ctx)
	require.NoError(t, err)

	sniper := domain.DeriveAddress([]byte("sniper"))
	assert.Contains(t, got.Blocklisted, sniper)
	assert.Contains(t, got.Bots, sniper)
}

func TestStateStore_RejectsInvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewStateStore(pool)
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(ctx, &domain.GuardState{}), storage.ErrInvalidInput)
}
