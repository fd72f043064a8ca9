package memory

import (
	"context"
	"errors"
	"testing"

	"tokenguard/internal/domain"
	"tokenguard/internal/storage"
)

func testDecisions() []*domain.Decision {
	alice := domain.DeriveAddress([]byte("alice"))
	bob := domain.DeriveAddress([]byte("bob"))
	return []*domain.Decision{
		{Sender: alice, Recipient: bob, Amount: 100, Allowed: true, EvaluatedAt: 1_000},
		{Sender: bob, Recipient: alice, Amount: 50, Allowed: false, Reason: domain.ReasonCooldownActive, EvaluatedAt: 2_000},
		{Sender: alice, Recipient: bob, Amount: 200, Allowed: true, EvaluatedAt: 3_000},
	}
}

func TestDecisionStore_GetByTimeRange(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, testDecisions()); err != nil {
		t.Fatalf("InsertBulk: %v", err)
	}

	// Bounds are inclusive on both ends.
	got, err := store.GetByTimeRange(ctx, 1_000, 2_000)
	if err != nil {
		t.Fatalf("GetByTimeRange: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	if got[0].EvaluatedAt != 1_000 || got[1].EvaluatedAt != 2_000 {
		t.Errorf("results out of order: %d, %d", got[0].EvaluatedAt, got[1].EvaluatedAt)
	}
	if got[1].Reason != domain.ReasonCooldownActive {
		t.Errorf("reason = %q, want %q", got[1].Reason, domain.ReasonCooldownActive)
	}

	empty, err := store.GetByTimeRange(ctx, 4_000, 5_000)
	if err != nil {
		t.Fatalf("GetByTimeRange: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("results = %d, want 0", len(empty))
	}
}

func TestDecisionStore_GetBySender(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()
	alice := domain.DeriveAddress([]byte("alice"))

	if err := store.InsertBulk(ctx, testDecisions()); err != nil {
		t.Fatalf("InsertBulk: %v", err)
	}

	got, err := store.GetBySender(ctx, alice)
	if err != nil {
		t.Fatalf("GetBySender: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	for _, d := range got {
		if d.Sender != alice {
			t.Errorf("wrong sender: %s", d.Sender)
		}
	}
	if got[0].EvaluatedAt > got[1].EvaluatedAt {
		t.Error("results should be ordered by evaluation time ASC")
	}
}

func TestDecisionStore_InsertValidation(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, nil); err != nil {
		t.Errorf("empty batch should be a no-op: %v", err)
	}
	batch := []*domain.Decision{{Recipient: domain.DeriveAddress([]byte("bob"))}}
	if err := store.InsertBulk(ctx, batch); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("missing sender: err = %v, want ErrInvalidInput", err)
	}
}

func TestNotificationStore_GetByTimeRange(t *testing.T) {
	store := NewNotificationStore()
	ctx := context.Background()

	batch := []*domain.Notification{
		{Kind: domain.NotifPaused, At: 1_000},
		{Kind: domain.NotifUnpaused, At: 2_000},
		{Kind: domain.NotifTradingEnabled, At: 3_000},
	}
	if err := store.InsertBulk(ctx, batch); err != nil {
		t.Fatalf("InsertBulk: %v", err)
	}

	got, err := store.GetByTimeRange(ctx, 2_000, 3_000)
	if err != nil {
		t.Fatalf("GetByTimeRange: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	if got[0].Kind != domain.NotifUnpaused || got[1].Kind != domain.NotifTradingEnabled {
		t.Errorf("results = %+v, want unpaused then trading_enabled", got)
	}

	if err := store.InsertBulk(ctx, []*domain.Notification{{At: 1}}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("missing kind: err = %v, want ErrInvalidInput", err)
	}
}
