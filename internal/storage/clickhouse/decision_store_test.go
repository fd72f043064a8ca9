package clickhouse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenguard/internal/domain"
	"tokenguard/internal/storage"
	"tokenguard/internal/storage/clickhouse"
)

func TestDecisionStore_InsertAndQuery(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := clickhouse.NewDecisionStore(conn)
	ctx := context.Background()

	alice := domain.DeriveAddress([]byte("alice"))
	bob := domain.DeriveAddress([]byte("bob"))

	batch := []*domain.Decision{
		{Sender: alice, Recipient: bob, Amount: 100, Allowed: true, EvaluatedAt: 1_700_000_100},
		{Sender: alice, Recipient: bob, Amount: 5_000_001, Allowed: false, Reason: domain.ReasonRestrictedAmount, EvaluatedAt: 1_700_000_200},
		{Sender: bob, Recipient: alice, Amount: 50, Allowed: false, Reason: domain.ReasonCooldownActive, EvaluatedAt: 1_700_000_300},
	}
	require.NoError(t, store.InsertBulk(ctx, batch))

	// Range bounds are inclusive.
	got, err := store.GetByTimeRange(ctx, 1_700_000_100, 1_700_000_200)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1_700_000_100), got[0].EvaluatedAt)
	assert.True(t, got[0].Allowed)
	assert.Equal(t, domain.ReasonNone, got[0].Reason)
	assert.Equal(t, int64(1_700_000_200), got[1].EvaluatedAt)
	assert.False(t, got[1].Allowed)
	assert.Equal(t, domain.ReasonRestrictedAmount, got[1].Reason)
	assert.Equal(t, uint64(5_000_001), got[1].Amount)

	empty, err := store.GetByTimeRange(ctx, 1_800_000_000, 1_900_000_000)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecisionStore_GetBySender(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := clickhouse.NewDecisionStore(conn)
	ctx := context.Background()

	alice := domain.DeriveAddress([]byte("alice"))
	bob := domain.DeriveAddress([]byte("bob"))

	batch := []*domain.Decision{
		{Sender: alice, Recipient: bob, Amount: 300, Allowed: true, EvaluatedAt: 1_700_000_300},
		{Sender: alice, Recipient: bob, Amount: 100, Allowed: true, EvaluatedAt: 1_700_000_100},
		{Sender: bob, Recipient: alice, Amount: 200, Allowed: true, EvaluatedAt: 1_700_000_200},
	}
	require.NoError(t, store.InsertBulk(ctx, batch))

	got, err := store.GetBySender(ctx, alice)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, d := range got {
		assert.Equal(t, alice, d.Sender)
	}
	assert.Equal(t, int64(1_700_000_100), got[0].EvaluatedAt, "results should be ordered ASC")
	assert.Equal(t, int64(1_700_000_300), got[1].EvaluatedAt)
}

func TestDecisionStore_Validation(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := clickhouse.NewDecisionStore(conn)
	ctx := context.Background()

	assert.NoError(t, store.InsertBulk(ctx, nil), "empty batch is a no-op")

	bad := []*domain.Decision{{Recipient: domain.DeriveAddress([]byte("bob"))}}
	assert.ErrorIs(t, store.InsertBulk(ctx, bad), storage.ErrInvalidInput)
}
