package ledger

import (
	"sync"

	"tokenguard/internal/domain"
)

// Holdings tracks balances held by the guard contract itself: native
// currency sent to it and foreign ledger assets mistakenly parked on it.
// These are separate from the issued supply and only leave through the
// emergency-withdraw path.
type Holdings struct {
	mu     sync.Mutex
	native uint64
	assets map[domain.Address]uint64
}

// NewHoldings creates an empty holdings book.
func NewHoldings() *Holdings {
	return &Holdings{assets: make(map[domain.Address]uint64)}
}

// Deposit credits the contract with amount of asset. The native-asset
// sentinel credits the native balance.
func (h *Holdings) Deposit(asset domain.Address, amount uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if asset.IsNative() {
		h.native += amount
		return
	}
	h.assets[asset] += amount
}

// Withdraw debits amount of asset from the contract's holdings.
// Returns ErrInsufficientHolding without mutating on overdraft.
func (h *Holdings) Withdraw(asset domain.Address, amount uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if asset.IsNative() {
		if h.native < amount {
			return ErrInsufficientHolding
		}
		h.native -= amount
		return nil
	}

	if h.assets[asset] < amount {
		return ErrInsufficientHolding
	}
	h.assets[asset] -= amount
	if h.assets[asset] == 0 {
		delete(h.assets, asset)
	}
	return nil
}

// Balance returns the contract's held balance of asset.
func (h *Holdings) Balance(asset domain.Address) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	if asset.IsNative() {
		return h.native
	}
	return h.assets[asset]
}
