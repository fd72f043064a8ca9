// Package ledger provides the balance collaborator consumed by the guard:
// fixed-supply balance bookkeeping plus the contract-held native and
// foreign-asset balances recoverable through the emergency path.
package ledger

import (
	"errors"

	"tokenguard/internal/domain"
)

// Ledger errors.
var (
	// ErrInsufficientBalance is returned when a debit exceeds the sender's balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientHolding is returned when an emergency withdrawal exceeds
	// the contract's held balance of the requested asset.
	ErrInsufficientHolding = errors.New("insufficient contract holding")
)

// Ledger is the balance collaborator the guard admits transfers for.
// Implementations must not enforce policy; admission is the guard's job.
type Ledger interface {
	// TotalSupply returns the fixed issuance in whole units.
	TotalSupply() uint64

	// BalanceOf returns the current balance of an address.
	BalanceOf(addr domain.Address) uint64

	// Transfer moves amount from sender to recipient.
	// Returns ErrInsufficientBalance without mutating on overdraft.
	Transfer(sender, recipient domain.Address, amount uint64) error
}
