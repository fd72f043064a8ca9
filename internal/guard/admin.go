package guard

import (
	"context"

	"tokenguard/internal/domain"
)

// EnableTrading opens public trading. It fails until the launch clock
// elapses (construction time plus TradingActivationDelay) and moves the
// guard into the restricted phase. There is no inverse admin call; only
// EmergencyPause turns trading back off.
func (e *Engine) EnableTrading(ctx context.Context, caller domain.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwnerLocked(caller); err != nil {
		return err
	}
	if e.tradingEnabled {
		return ErrTradingAlreadyEnabled
	}
	if e.clock().Before(e.operationsStart.Add(TradingActivationDelay)) {
		return ErrTradingDelayNotMet
	}

	e.tradingEnabled = true
	e.phase = domain.PhaseRestricted

	e.notifyLocked(domain.Notification{Kind: domain.NotifTradingEnabled})
	e.notifyLocked(domain.Notification{Kind: domain.NotifPhaseChanged, Phase: e.phase})
	e.persistLocked(ctx)
	return nil
}

// SetTradingPhase overrides the trading phase. Once callable there is no
// further gating; the controller uses it to move from restricted to normal.
func (e *Engine) SetTradingPhase(ctx context.Context, caller domain.Address, phase domain.Phase) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwnerLocked(caller); err != nil {
		return err
	}
	if !phase.Valid() {
		return ErrInvalidPhase
	}

	e.phase = phase

	e.notifyLocked(domain.Notification{Kind: domain.NotifPhaseChanged, Phase: phase})
	e.persistLocked(ctx)
	return nil
}

// UpdateLimits replaces the anti-concentration thresholds. Both floors are
// validated before anything changes; the transaction floor is checked first.
func (e *Engine) UpdateLimits(ctx context.Context, caller domain.Address, maxTx, maxWallet uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwnerLocked(caller); err != nil {
		return err
	}
	if maxTx < e.minMaxTx() {
		return ErrMaxTxTooLow
	}
	if maxWallet < e.minMaxWallet() {
		return ErrMaxWalletTooLow
	}

	e.maxTx = maxTx
	e.maxWallet = maxWallet

	e.notifyLocked(domain.Notification{
		Kind:                 domain.NotifLimitsUpdated,
		MaxTransactionAmount: maxTx,
		MaxWalletAmount:      maxWallet,
	})
	e.persistLocked(ctx)
	return nil
}

// UpdateCooldown replaces the per-sender transfer cooldown. Existing
// cooldown clocks are not rewritten; the new duration applies from the
// next evaluation.
func (e *Engine) UpdateCooldown(ctx context.Context, caller domain.Address, seconds int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwnerLocked(caller); err != nil {
		return err
	}
	if seconds < 0 {
		return ErrCooldownNegative
	}
	if seconds > MaxCooldownSeconds {
		return ErrCooldownTooHigh
	}

	e.cooldownSecs = seconds

	e.persistLocked(ctx)
	return nil
}

// ExcludeFromLimits toggles an address's exemption from the trading gate,
// the limit checks and the cooldown. Exclusion never bypasses the
// blocklist or the pause switch.
func (e *Engine) ExcludeFromLimits(ctx context.Context, caller, addr domain.Address, flag bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwnerLocked(caller); err != nil {
		return err
	}

	if flag {
		e.excluded[addr] = struct{}{}
	} else {
		delete(e.excluded, addr)
	}

	e.notifyLocked(domain.Notification{Kind: domain.NotifAddressExcluded, Address: addr, Flag: flag})
	e.persistLocked(ctx)
	return nil
}
