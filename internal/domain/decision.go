package domain

// Reason codes surfaced by transfer admission.
type Reason string

// Admission rejection reasons, in evaluation order.
const (
	ReasonNone              Reason = ""
	ReasonPaused            Reason = "paused"
	ReasonBlacklisted       Reason = "address_blacklisted"
	ReasonTradingNotEnabled Reason = "trading_not_enabled"
	ReasonRestrictedAmount  Reason = "restricted_phase_amount"
	ReasonExceedsMaxTx      Reason = "exceeds_max_transaction"
	ReasonExceedsMaxWallet  Reason = "exceeds_max_wallet"
	ReasonCooldownActive    Reason = "transfer_cooldown_active"
)

// Decision is the audit record of one admission evaluation.
type Decision struct {
	Sender      Address `json:"sender"`
	Recipient   Address `json:"recipient"`
	Amount      uint64  `json:"amount"`
	Allowed     bool    `json:"allowed"`
	Reason      Reason  `json:"reason,omitempty"`
	EvaluatedAt int64   `json:"evaluated_at"` // Unix timestamp in seconds
}
