package domain

// GuardState is the serializable snapshot of all mutable guard state.
// Corresponds to the guard_* tables in PostgreSQL.
type GuardState struct {
	Owner         Address   `json:"owner"`
	PendingOwners []Address `json:"pending_owners,omitempty"`

	TradingEnabled bool  `json:"trading_enabled"`
	Phase          Phase `json:"phase"`
	Paused         bool  `json:"paused"`

	LimitsEnabled        bool   `json:"limits_enabled"`
	MaxTransactionAmount uint64 `json:"max_transaction_amount"`
	MaxWalletAmount      uint64 `json:"max_wallet_amount"`
	CooldownSeconds      int64  `json:"cooldown_seconds"`

	OperationsStart int64 `json:"operations_start"` // Unix timestamp in seconds

	Excluded    []Address `json:"excluded,omitempty"`
	Blocklisted []Address `json:"blocklisted,omitempty"`
	Bots        []Address `json:"bots,omitempty"`

	LastTransferAt map[Address]int64 `json:"last_transfer_at,omitempty"`

	UpdatedAt int64 `json:"updated_at"` // Unix timestamp in seconds
}
