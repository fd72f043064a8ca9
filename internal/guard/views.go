package guard

import (
	"time"

	"tokenguard/internal/domain"
)

// TokenInfo returns the read view of the guarded token's configuration.
func (e *Engine) TokenInfo() domain.TokenInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	return domain.TokenInfo{
		Name:                 e.name,
		Symbol:               e.symbol,
		TotalSupply:          e.ledger.TotalSupply(),
		MaxTransactionAmount: e.maxTx,
		MaxWalletAmount:      e.maxWallet,
		TradingEnabled:       e.tradingEnabled,
		Phase:                e.phase,
		LimitsEnabled:        e.limitsEnabled,
	}
}

// RemainingCooldown returns the seconds until addr may transfer again,
// 0 when no cooldown is active or the address never transferred.
func (e *Engine) RemainingCooldown(addr domain.Address) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	last, ok := e.lastTransferAt[addr]
	if !ok {
		return 0
	}
	elapsed := e.clock().Unix() - last
	if elapsed >= e.cooldownSecs {
		return 0
	}
	return e.cooldownSecs - elapsed
}

// TimeUntilTradingEnabled returns the seconds until the launch clock
// permits EnableTrading, 0 once elapsed or once trading is already on.
func (e *Engine) TimeUntilTradingEnabled() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tradingEnabled {
		return 0
	}
	earliest := e.operationsStart.Add(TradingActivationDelay)
	remaining := earliest.Sub(e.clock())
	if remaining <= 0 {
		return 0
	}
	return int64(remaining / time.Second)
}

// Owner returns the current privileged-role holder.
func (e *Engine) Owner() domain.Address {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.owner
}

// IsExcluded reports limit/cooldown/trading-gate exemption.
func (e *Engine) IsExcluded(addr domain.Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.excluded[addr]
	return ok
}

// IsBlacklisted reports blocklist membership.
func (e *Engine) IsBlacklisted(addr domain.Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.blocklist[addr]
	return ok
}

// IsBot reports bot-flag membership.
func (e *Engine) IsBot(addr domain.Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.bots[addr]
	return ok
}

// Paused reports the kill-switch state.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}
