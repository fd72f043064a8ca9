package ledger

import (
	"sync"

	"tokenguard/internal/domain"
)

// Memory is an in-memory Ledger with a fixed supply minted at construction.
type Memory struct {
	mu          sync.RWMutex
	totalSupply uint64
	balances    map[domain.Address]uint64
}

// NewMemory creates a ledger holding the entire supply on the owner address.
func NewMemory(owner domain.Address, supply uint64) *Memory {
	return &Memory{
		totalSupply: supply,
		balances:    map[domain.Address]uint64{owner: supply},
	}
}

// Compile-time interface check.
var _ Ledger = (*Memory)(nil)

// TotalSupply returns the fixed issuance.
func (m *Memory) TotalSupply() uint64 {
	return m.totalSupply
}

// BalanceOf returns the current balance of an address.
func (m *Memory) BalanceOf(addr domain.Address) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[addr]
}

// Transfer moves amount from sender to recipient.
func (m *Memory) Transfer(sender, recipient domain.Address, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.balances[sender] < amount {
		return ErrInsufficientBalance
	}
	m.balances[sender] -= amount
	m.balances[recipient] += amount
	return nil
}
