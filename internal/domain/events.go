package domain

// NotificationKind identifies a guard notification.
type NotificationKind string

// Notification kinds emitted by the guard. Each successful state-changing
// call emits its notifications exactly once.
const (
	NotifTradingEnabled           NotificationKind = "trading_enabled"
	NotifPhaseChanged             NotificationKind = "phase_changed"
	NotifLimitsUpdated            NotificationKind = "limits_updated"
	NotifAddressExcluded          NotificationKind = "address_excluded"
	NotifAddressBlacklisted       NotificationKind = "address_blacklisted"
	NotifBotDetected              NotificationKind = "bot_detected"
	NotifPaused                   NotificationKind = "paused"
	NotifUnpaused                 NotificationKind = "unpaused"
	NotifOwnershipTransferStarted NotificationKind = "ownership_transfer_started"
	NotifOwnershipTransferred     NotificationKind = "ownership_transferred"
	NotifEmergencyWithdrawal      NotificationKind = "emergency_withdrawal"
)

// Notification is a guard event. Only the fields relevant to the kind are set.
type Notification struct {
	Kind NotificationKind `json:"kind"`
	At   int64            `json:"at"` // Unix timestamp in seconds

	Address Address `json:"address,omitempty"` // excluded/blacklisted/bot/ownership target
	Flag    bool    `json:"flag,omitempty"`    // new membership flag for set toggles
	Phase   Phase   `json:"phase,omitempty"`   // phase_changed

	MaxTransactionAmount uint64 `json:"max_transaction_amount,omitempty"` // limits_updated
	MaxWalletAmount      uint64 `json:"max_wallet_amount,omitempty"`      // limits_updated

	Asset  Address `json:"asset,omitempty"`  // emergency_withdrawal
	Amount uint64  `json:"amount,omitempty"` // emergency_withdrawal
}
