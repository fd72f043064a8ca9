package guard

import (
	"context"
	"errors"
	"testing"
	"time"

	"tokenguard/internal/domain"
)

func TestEnableTrading_DelayGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.engine.EnableTrading(ctx, f.owner); !errors.Is(err, ErrTradingDelayNotMet) {
		t.Errorf("before delay: err = %v, want ErrTradingDelayNotMet", err)
	}

	f.clock.Advance(TradingActivationDelay - time.Second)
	if err := f.engine.EnableTrading(ctx, f.owner); !errors.Is(err, ErrTradingDelayNotMet) {
		t.Errorf("one second early: err = %v, want ErrTradingDelayNotMet", err)
	}

	f.clock.Advance(time.Second)
	if err := f.engine.EnableTrading(ctx, f.owner); err != nil {
		t.Fatalf("at the boundary: %v", err)
	}

	info := f.engine.TokenInfo()
	if !info.TradingEnabled {
		t.Error("trading should be enabled")
	}
	if info.Phase != domain.PhaseRestricted {
		t.Errorf("phase = %q, want %q", info.Phase, domain.PhaseRestricted)
	}

	if err := f.engine.EnableTrading(ctx, f.owner); !errors.Is(err, ErrTradingAlreadyEnabled) {
		t.Errorf("second call: err = %v, want ErrTradingAlreadyEnabled", err)
	}
}

func TestEnableTrading_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	f.clock.Advance(TradingActivationDelay + time.Second)

	err := f.engine.EnableTrading(context.Background(), f.addr("mallory"))
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("err = %v, want ErrNotOwner", err)
	}
	if f.engine.TokenInfo().TradingEnabled {
		t.Error("rejected call must not enable trading")
	}
}

func TestEnableTrading_Notifications(t *testing.T) {
	f := newFixture(t)
	f.launch()

	if len(f.notes) != 2 {
		t.Fatalf("notifications = %d, want 2", len(f.notes))
	}
	if f.notes[0].Kind != domain.NotifTradingEnabled {
		t.Errorf("first kind = %q, want %q", f.notes[0].Kind, domain.NotifTradingEnabled)
	}
	if f.notes[1].Kind != domain.NotifPhaseChanged || f.notes[1].Phase != domain.PhaseRestricted {
		t.Errorf("second notification = %+v, want phase_changed to restricted", f.notes[1])
	}
	if f.notes[0].At != f.clock.Now().Unix() {
		t.Errorf("notification timestamp = %d, want %d", f.notes[0].At, f.clock.Now().Unix())
	}
}

func TestTimeUntilTradingEnabled(t *testing.T) {
	f := newFixture(t)
	full := int64(TradingActivationDelay / time.Second)

	if got := f.engine.TimeUntilTradingEnabled(); got != full {
		t.Errorf("at construction = %d, want %d", got, full)
	}
	f.clock.Advance(24 * time.Hour)
	if got := f.engine.TimeUntilTradingEnabled(); got != full-86_400 {
		t.Errorf("after one day = %d, want %d", got, full-86_400)
	}
	f.clock.Advance(TradingActivationDelay)
	if got := f.engine.TimeUntilTradingEnabled(); got != 0 {
		t.Errorf("after delay = %d, want 0", got)
	}
}

func TestSetTradingPhase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.launch()

	if err := f.engine.SetTradingPhase(ctx, f.owner, domain.PhaseNormal); err != nil {
		t.Fatalf("SetTradingPhase: %v", err)
	}
	if got := f.engine.TokenInfo().Phase; got != domain.PhaseNormal {
		t.Errorf("phase = %q, want %q", got, domain.PhaseNormal)
	}
	if n := f.lastNote(); n.Kind != domain.NotifPhaseChanged || n.Phase != domain.PhaseNormal {
		t.Errorf("notification = %+v, want phase_changed to normal", n)
	}

	if err := f.engine.SetTradingPhase(ctx, f.owner, domain.Phase("turbo")); !errors.Is(err, ErrInvalidPhase) {
		t.Errorf("err = %v, want ErrInvalidPhase", err)
	}
	if err := f.engine.SetTradingPhase(ctx, f.addr("mallory"), domain.PhaseNormal); !errors.Is(err, ErrNotOwner) {
		t.Errorf("err = %v, want ErrNotOwner", err)
	}
}

func TestUpdateLimits_Floors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txFloor := domain.TotalSupply / 1000
	walletFloor := domain.TotalSupply / 200

	// The transaction floor is checked first even when both are too low.
	err := f.engine.UpdateLimits(ctx, f.owner, txFloor-1, walletFloor-1)
	if !errors.Is(err, ErrMaxTxTooLow) {
		t.Errorf("both low: err = %v, want ErrMaxTxTooLow", err)
	}
	err = f.engine.UpdateLimits(ctx, f.owner, txFloor, walletFloor-1)
	if !errors.Is(err, ErrMaxWalletTooLow) {
		t.Errorf("wallet low: err = %v, want ErrMaxWalletTooLow", err)
	}

	// Rejections leave the previous limits in place.
	info := f.engine.TokenInfo()
	if info.MaxTransactionAmount != domain.TotalSupply/100 || info.MaxWalletAmount != domain.TotalSupply/50 {
		t.Error("rejected update must not change limits")
	}

	// Exactly at the floors is allowed.
	if err := f.engine.UpdateLimits(ctx, f.owner, txFloor, walletFloor); err != nil {
		t.Fatalf("at the floors: %v", err)
	}
	info = f.engine.TokenInfo()
	if info.MaxTransactionAmount != txFloor || info.MaxWalletAmount != walletFloor {
		t.Errorf("limits = %d/%d, want %d/%d",
			info.MaxTransactionAmount, info.MaxWalletAmount, txFloor, walletFloor)
	}
	n := f.lastNote()
	if n.Kind != domain.NotifLimitsUpdated || n.MaxTransactionAmount != txFloor || n.MaxWalletAmount != walletFloor {
		t.Errorf("notification = %+v, want limits_updated with new values", n)
	}
}

func TestUpdateCooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.engine.UpdateCooldown(ctx, f.owner, MaxCooldownSeconds+1); !errors.Is(err, ErrCooldownTooHigh) {
		t.Errorf("err = %v, want ErrCooldownTooHigh", err)
	}
	if err := f.engine.UpdateCooldown(ctx, f.owner, -1); !errors.Is(err, ErrCooldownNegative) {
		t.Errorf("err = %v, want ErrCooldownNegative", err)
	}
	// A rejected value must not leak into the snapshot, which would make
	// it fail Restore's range check later.
	if got := f.engine.Snapshot().CooldownSeconds; got != DefaultCooldownSeconds {
		t.Errorf("cooldown = %d, want %d after rejected updates", got, DefaultCooldownSeconds)
	}
	if err := f.engine.UpdateCooldown(ctx, f.owner, MaxCooldownSeconds); err != nil {
		t.Errorf("at the ceiling: %v", err)
	}
	if err := f.engine.UpdateCooldown(ctx, f.owner, 0); err != nil {
		t.Errorf("zero disables the cooldown: %v", err)
	}
}

func TestUpdateCooldown_ZeroDisablesEnforcement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.addr("alice"), f.addr("bob")
	f.seed(alice, 10_000)
	f.launch()

	if err := f.engine.UpdateCooldown(ctx, f.owner, 0); err != nil {
		t.Fatalf("UpdateCooldown: %v", err)
	}
	if err := f.engine.Transfer(ctx, alice, bob, 100); err != nil {
		t.Fatalf("first transfer: %v", err)
	}
	if err := f.engine.Transfer(ctx, alice, bob, 100); err != nil {
		t.Errorf("back-to-back transfer with zero cooldown: %v", err)
	}
}

func TestExcludeFromLimits_Toggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.addr("alice"), f.addr("bob")
	f.seed(alice, 10_000)
	f.launch()

	if err := f.engine.ExcludeFromLimits(ctx, f.owner, alice, true); err != nil {
		t.Fatalf("exclude: %v", err)
	}
	if !f.engine.IsExcluded(alice) {
		t.Error("alice should be excluded")
	}
	// Idempotent: excluding twice is fine.
	if err := f.engine.ExcludeFromLimits(ctx, f.owner, alice, true); err != nil {
		t.Errorf("re-exclude: %v", err)
	}

	// Excluded senders skip the cooldown entirely.
	if err := f.engine.Transfer(ctx, alice, bob, 100); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if err := f.engine.Transfer(ctx, alice, bob, 100); err != nil {
		t.Errorf("excluded sender should not cool down: %v", err)
	}

	if err := f.engine.ExcludeFromLimits(ctx, f.owner, alice, false); err != nil {
		t.Fatalf("unexclude: %v", err)
	}
	if f.engine.IsExcluded(alice) {
		t.Error("alice should no longer be excluded")
	}
	n := f.lastNote()
	if n.Kind != domain.NotifAddressExcluded || n.Address != alice || n.Flag {
		t.Errorf("notification = %+v, want address_excluded flag=false", n)
	}

	if err := f.engine.ExcludeFromLimits(ctx, f.addr("mallory"), bob, true); !errors.Is(err, ErrNotOwner) {
		t.Errorf("err = %v, want ErrNotOwner", err)
	}
}
