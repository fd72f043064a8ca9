// Package domain defines the core types shared across the transfer guard:
// addresses, trading phases, guard state, notifications and admission decisions.
package domain

// TotalSupply is the fixed issuance in whole units, minted once at construction.
const TotalSupply uint64 = 1_000_000_000

// Decimals is the display precision of the asset.
const Decimals = 9

// Phase is the trading phase scaling the per-transfer ceiling.
type Phase string

// Trading phases.
const (
	PhaseDisabled   Phase = "disabled"
	PhaseRestricted Phase = "restricted"
	PhaseNormal     Phase = "normal"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseDisabled, PhaseRestricted, PhaseNormal:
		return true
	}
	return false
}

// TxCeiling returns the per-transfer amount ceiling for the phase given the
// configured maximum transaction amount. The restricted phase halves the cap.
// The disabled phase has no ceiling of its own: transfers never reach the
// limit checks while trading is disabled.
func (p Phase) TxCeiling(maxTx uint64) uint64 {
	switch p {
	case PhaseRestricted:
		return maxTx / 2
	case PhaseNormal:
		return maxTx
	default:
		return 0
	}
}

// TokenInfo is the read view of the guarded token's configuration.
type TokenInfo struct {
	Name                 string `json:"name"`
	Symbol               string `json:"symbol"`
	TotalSupply          uint64 `json:"total_supply"`
	MaxTransactionAmount uint64 `json:"max_transaction_amount"`
	MaxWalletAmount      uint64 `json:"max_wallet_amount"`
	TradingEnabled       bool   `json:"trading_enabled"`
	Phase                Phase  `json:"phase"`
	LimitsEnabled        bool   `json:"limits_enabled"`
}
