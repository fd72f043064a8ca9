package guard

import (
	"context"

	"tokenguard/internal/domain"
)

// Pause flips the global kill-switch on. While paused every transfer is
// rejected, exclusion and role status notwithstanding.
func (e *Engine) Pause(ctx context.Context, caller domain.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwnerLocked(caller); err != nil {
		return err
	}
	if e.paused {
		return ErrAlreadyPaused
	}

	e.paused = true

	e.notifyLocked(domain.Notification{Kind: domain.NotifPaused})
	e.persistLocked(ctx)
	return nil
}

// Unpause flips the kill-switch off and restores normal evaluation.
func (e *Engine) Unpause(ctx context.Context, caller domain.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwnerLocked(caller); err != nil {
		return err
	}
	if !e.paused {
		return ErrNotPaused
	}

	e.paused = false

	e.notifyLocked(domain.Notification{Kind: domain.NotifUnpaused})
	e.persistLocked(ctx)
	return nil
}

// EmergencyPause is the incident-response switch: it pauses transfers and
// forces trading back off in one step. It is the only path that clears
// tradingEnabled once set, and it is deliberately coarser than the
// regular toggles. Calling it while already paused is allowed.
func (e *Engine) EmergencyPause(ctx context.Context, caller domain.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwnerLocked(caller); err != nil {
		return err
	}

	wasPaused := e.paused
	e.paused = true
	e.tradingEnabled = false
	e.phase = domain.PhaseDisabled

	if !wasPaused {
		e.notifyLocked(domain.Notification{Kind: domain.NotifPaused})
	}
	e.notifyLocked(domain.Notification{Kind: domain.NotifPhaseChanged, Phase: domain.PhaseDisabled})
	e.persistLocked(ctx)
	return nil
}

// EmergencyWithdraw recovers balances held by the guard contract itself
// and pays them out to the owner: the native currency for the sentinel
// asset address, otherwise a foreign ledger asset mistakenly parked here.
// The issued supply is a separate book and is never touched.
func (e *Engine) EmergencyWithdraw(ctx context.Context, caller, asset domain.Address, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwnerLocked(caller); err != nil {
		return err
	}
	if err := e.holdings.Withdraw(asset, amount); err != nil {
		return err
	}

	e.notifyLocked(domain.Notification{
		Kind:    domain.NotifEmergencyWithdrawal,
		Address: e.owner,
		Asset:   asset,
		Amount:  amount,
	})
	e.persistLocked(ctx)
	return nil
}
