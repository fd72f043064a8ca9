package guard

import (
	"errors"

	"tokenguard/internal/domain"
)

// Admission rejections. Callers branch on these, so each check surfaces
// its own sentinel.
var (
	// ErrPaused is returned for every transfer while the kill-switch is on,
	// including transfers by the owner.
	ErrPaused = errors.New("transfers are paused")

	// ErrBlacklisted is returned when sender or recipient is blocklisted.
	ErrBlacklisted = errors.New("address is blacklisted")

	// ErrTradingNotEnabled is returned for non-excluded parties before launch.
	ErrTradingNotEnabled = errors.New("trading is not enabled")

	// ErrRestrictedPhaseAmount is returned when an amount exceeds the halved
	// ceiling of the restricted phase.
	ErrRestrictedPhaseAmount = errors.New("amount too high for restricted phase")

	// ErrExceedsMaxTransaction is returned when an amount exceeds the
	// configured per-transfer maximum in the normal phase.
	ErrExceedsMaxTransaction = errors.New("amount exceeds max transaction")

	// ErrExceedsMaxWallet is returned when the recipient's post-transfer
	// balance would exceed the wallet cap.
	ErrExceedsMaxWallet = errors.New("recipient balance would exceed max wallet")

	// ErrCooldownActive is returned when the sender transferred too recently.
	ErrCooldownActive = errors.New("transfer cooldown active")
)

// Configuration rejections, raised synchronously at the admin call.
var (
	ErrTradingDelayNotMet    = errors.New("trading delay not met")
	ErrTradingAlreadyEnabled = errors.New("trading already enabled")
	ErrInvalidPhase          = errors.New("invalid trading phase")
	ErrMaxTxTooLow           = errors.New("max transaction below 0.1% of supply")
	ErrMaxWalletTooLow       = errors.New("max wallet below 0.5% of supply")
	ErrCooldownTooHigh       = errors.New("cooldown too high")
	ErrCooldownNegative      = errors.New("cooldown cannot be negative")
	ErrAlreadyPaused         = errors.New("already paused")
	ErrNotPaused             = errors.New("not paused")
)

// Role violations.
var (
	ErrNotOwner        = errors.New("caller is not the owner")
	ErrBlacklistOwner  = errors.New("cannot blacklist owner")
	ErrBotUnblacklist  = errors.New("cannot remove bot-flagged address from blacklist")
	ErrNotPendingOwner = errors.New("not a pending owner")
)

// ErrRenounceDisabled is returned by RenounceOwnership unconditionally.
// Renouncing is permanently removed, not gated on state.
var ErrRenounceDisabled = errors.New("ownership cannot be renounced for security")

// ReasonOf maps an admission rejection to its audit reason code.
// Returns ReasonNone for nil and for non-admission errors.
func ReasonOf(err error) domain.Reason {
	switch {
	case err == nil:
		return domain.ReasonNone
	case errors.Is(err, ErrPaused):
		return domain.ReasonPaused
	case errors.Is(err, ErrBlacklisted):
		return domain.ReasonBlacklisted
	case errors.Is(err, ErrTradingNotEnabled):
		return domain.ReasonTradingNotEnabled
	case errors.Is(err, ErrRestrictedPhaseAmount):
		return domain.ReasonRestrictedAmount
	case errors.Is(err, ErrExceedsMaxTransaction):
		return domain.ReasonExceedsMaxTx
	case errors.Is(err, ErrExceedsMaxWallet):
		return domain.ReasonExceedsMaxWallet
	case errors.Is(err, ErrCooldownActive):
		return domain.ReasonCooldownActive
	default:
		return domain.ReasonNone
	}
}
