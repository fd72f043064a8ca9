package guard

import (
	"fmt"
	"sort"
	"time"

	"tokenguard/internal/domain"
)

// Snapshot captures all mutable guard state for persistence.
func (e *Engine) Snapshot() *domain.GuardState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() *domain.GuardState {
	s := &domain.GuardState{
		Owner:                e.owner,
		PendingOwners:        sortedAddrs(e.pendingOwners),
		TradingEnabled:       e.tradingEnabled,
		Phase:                e.phase,
		Paused:               e.paused,
		LimitsEnabled:        e.limitsEnabled,
		MaxTransactionAmount: e.maxTx,
		MaxWalletAmount:      e.maxWallet,
		CooldownSeconds:      e.cooldownSecs,
		OperationsStart:      e.operationsStart.Unix(),
		Excluded:             sortedAddrs(e.excluded),
		Blocklisted:          sortedAddrs(e.blocklist),
		Bots:                 sortedAddrs(e.bots),
		LastTransferAt:       make(map[domain.Address]int64, len(e.lastTransferAt)),
		UpdatedAt:            e.clock().Unix(),
	}
	for addr, ts := range e.lastTransferAt {
		s.LastTransferAt[addr] = ts
	}
	return s
}

// Restore replaces the engine's mutable state with a persisted snapshot.
// Intended for boot-time recovery before the engine starts serving.
func (e *Engine) Restore(s *domain.GuardState) error {
	if s == nil {
		return fmt.Errorf("guard: nil snapshot")
	}
	if s.Owner == "" {
		return fmt.Errorf("guard: snapshot has no owner")
	}
	if !s.Phase.Valid() {
		return fmt.Errorf("guard: snapshot has invalid phase %q", s.Phase)
	}
	if s.CooldownSeconds < 0 || s.CooldownSeconds > MaxCooldownSeconds {
		return fmt.Errorf("guard: snapshot cooldown %d out of range", s.CooldownSeconds)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.owner = s.Owner
	e.pendingOwners = addrSet(s.PendingOwners)
	e.tradingEnabled = s.TradingEnabled
	e.phase = s.Phase
	e.paused = s.Paused
	e.limitsEnabled = s.LimitsEnabled
	e.maxTx = s.MaxTransactionAmount
	e.maxWallet = s.MaxWalletAmount
	e.cooldownSecs = s.CooldownSeconds
	e.operationsStart = time.Unix(s.OperationsStart, 0)
	e.excluded = addrSet(s.Excluded)
	e.blocklist = addrSet(s.Blocklisted)
	e.bots = addrSet(s.Bots)
	e.lastTransferAt = make(map[domain.Address]int64, len(s.LastTransferAt))
	for addr, ts := range s.LastTransferAt {
		e.lastTransferAt[addr] = ts
	}
	return nil
}

func sortedAddrs(set map[domain.Address]struct{}) []domain.Address {
	if len(set) == 0 {
		return nil
	}
	out := make([]domain.Address, 0, len(set))
	for addr := range set {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func addrSet(addrs []domain.Address) map[domain.Address]struct{} {
	set := make(map[domain.Address]struct{}, len(addrs))
	for _, addr := range addrs {
		set[addr] = struct{}{}
	}
	return set
}
